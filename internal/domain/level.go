package domain

import (
	"fmt"
	"math"
	"strings"
)

type Level string

const (
	LevelL1 Level = "L1"
	LevelL2 Level = "L2"
	LevelL3 Level = "L3"
	LevelL4 Level = "L4"
	LevelL5 Level = "L5"
)

// ValidLevels is ordered from junior to principal.
var ValidLevels = []Level{LevelL1, LevelL2, LevelL3, LevelL4, LevelL5}

// Unbounded is the Max of a YearsRange with no upper limit.
const Unbounded = math.MaxInt

// YearsRange is an inclusive tenure band.
type YearsRange struct {
	Min int
	Max int
}

func (r YearsRange) Unbounded() bool { return r.Max == Unbounded }

func (r YearsRange) Contains(years int) bool {
	return years >= r.Min && (r.Unbounded() || years <= r.Max)
}

func (r YearsRange) String() string {
	if r.Unbounded() {
		return fmt.Sprintf("%d+", r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// 20 years is still L4; L5 starts at 21.
var levelRanges = map[Level]YearsRange{
	LevelL1: {Min: 1, Max: 3},
	LevelL2: {Min: 4, Max: 7},
	LevelL3: {Min: 8, Max: 12},
	LevelL4: {Min: 13, Max: 20},
	LevelL5: {Min: 21, Max: Unbounded},
}

func (l Level) Valid() bool {
	_, ok := levelRanges[l]
	return ok
}

// Rank is 1 for L1 through 5 for L5, and 0 for anything else.
func (l Level) Rank() int {
	for i, v := range ValidLevels {
		if v == l {
			return i + 1
		}
	}
	return 0
}

// Next returns the following level. L5 and invalid levels have none.
func (l Level) Next() (Level, bool) {
	r := l.Rank()
	if r == 0 || r == len(ValidLevels) {
		return "", false
	}
	return ValidLevels[r], true
}

// ParseLevel accepts "L3" and "l3".
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", NewValidationError(msgInvalidLevel)
	}
	return l, nil
}

// LevelRange returns the configured tenure band for level.
func LevelRange(level Level) (YearsRange, error) {
	r, ok := levelRanges[level]
	if !ok {
		return YearsRange{}, NewValidationError(fmt.Sprintf("유효하지 않은 레벨입니다: %s", level))
	}
	return r, nil
}

// LevelForYears maps tenure onto a level. Anything below one year is L1.
func LevelForYears(years int) Level {
	switch {
	case years > 20:
		return LevelL5
	case years >= 13:
		return LevelL4
	case years >= 8:
		return LevelL3
	case years >= 4:
		return LevelL2
	default:
		return LevelL1
	}
}
