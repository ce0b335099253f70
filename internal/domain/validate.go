package domain

import (
	"fmt"
	"math"
	"strings"
)

const (
	MinYears = 0
	MaxYears = 50
)

const (
	msgNameRequired      = "이름은 필수 입력 항목입니다."
	msgPrimaryRequired   = "주요 성향은 필수 선택 항목입니다."
	msgSameArchetypes    = "주요 성향과 보조 성향은 동일할 수 없습니다."
	msgYearsRequired     = "연차는 필수 입력 항목입니다."
	msgYearsNotInteger   = "연차는 정수여야 합니다."
	msgYearsOutOfRange   = "근무 연차는 0~50년 사이여야 합니다."
	msgLevelRequired     = "레벨은 필수 입력 항목입니다."
	msgArchetypeRequired = "성향은 필수 입력 항목입니다."
)

var (
	msgInvalidLevel     = fmt.Sprintf("레벨은 %s 중 하나여야 합니다.", joinLevels())
	msgInvalidArchetype = fmt.Sprintf("성향은 %s 중 하나여야 합니다.", joinArchetypes())
)

// Verdict is the result of a non-failing check. Errors is never nil.
type Verdict struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func verdict(errs []string) Verdict {
	if errs == nil {
		errs = []string{}
	}
	return Verdict{Valid: len(errs) == 0, Errors: errs}
}

// Err converts an invalid verdict into a *ValidationError, or nil.
func (v Verdict) Err() error {
	if v.Valid {
		return nil
	}
	return NewValidationError(v.Errors...)
}

func ValidateLevel(level Level) Verdict {
	switch {
	case level == "":
		return verdict([]string{msgLevelRequired})
	case !level.Valid():
		return verdict([]string{msgInvalidLevel})
	}
	return verdict(nil)
}

func ValidateArchetype(a Archetype) Verdict {
	switch {
	case a == "":
		return verdict([]string{msgArchetypeRequired})
	case !a.Valid():
		return verdict([]string{msgInvalidArchetype})
	}
	return verdict(nil)
}

// ValidateArchetypeCombination checks primary, then the optional secondary, then that they differ.
// It stops at the first failing step.
func ValidateArchetypeCombination(primary, secondary Archetype) Verdict {
	if v := ValidateArchetype(primary); !v.Valid {
		return v
	}
	if secondary == "" {
		return verdict(nil)
	}
	if v := ValidateArchetype(secondary); !v.Valid {
		return v
	}
	if primary == secondary {
		return verdict([]string{msgSameArchetypes})
	}
	return verdict(nil)
}

// ValidateLevelYearsRange checks that years falls inside the level's tenure band.
// An invalid level short-circuits with the level error alone.
func ValidateLevelYearsRange(level Level, years int) Verdict {
	if v := ValidateLevel(level); !v.Valid {
		return v
	}
	r, _ := LevelRange(level)
	var errs []string
	if years < r.Min {
		errs = append(errs, fmt.Sprintf("레벨 %s의 최소 연차는 %d년입니다.", level, r.Min))
	}
	if !r.Unbounded() && years > r.Max {
		errs = append(errs, fmt.Sprintf("레벨 %s의 최대 연차는 %d년입니다.", level, r.Max))
	}
	return verdict(errs)
}

// Validate checks every field of c and accumulates all failures.
func Validate(c Candidate) Verdict {
	var errs []string

	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, msgNameRequired)
	}

	switch {
	case c.PrimaryArchetype == "":
		errs = append(errs, msgPrimaryRequired)
	case !c.PrimaryArchetype.Valid():
		errs = append(errs, "주요 "+msgInvalidArchetype)
	}

	if c.SecondaryArchetype != "" {
		switch {
		case !c.SecondaryArchetype.Valid():
			errs = append(errs, "보조 "+msgInvalidArchetype)
		case c.SecondaryArchetype == c.PrimaryArchetype:
			errs = append(errs, msgSameArchetypes)
		}
	}

	errs = append(errs, validateYears(c.Years)...)

	if v := ValidateLevel(c.Level); !v.Valid {
		errs = append(errs, v.Errors...)
	}

	return verdict(errs)
}

func validateYears(y *float64) []string {
	switch {
	case y == nil:
		return []string{msgYearsRequired}
	case math.IsNaN(*y) || math.IsInf(*y, 0) || *y != math.Trunc(*y):
		return []string{msgYearsNotInteger}
	case *y < MinYears || *y > MaxYears:
		return []string{msgYearsOutOfRange}
	}
	return nil
}

// ValidateBoundaryValues checks the tenure limits and, when a level is given, the level's band.
// Unlike Validate it ignores absent fields.
func ValidateBoundaryValues(c Candidate) Verdict {
	var errs []string
	if c.Years == nil {
		return verdict(nil)
	}
	errs = append(errs, validateYears(c.Years)...)
	if c.Level != "" && c.Level.Valid() && len(errs) == 0 {
		errs = append(errs, ValidateLevelYearsRange(c.Level, int(*c.Years)).Errors...)
	}
	return verdict(errs)
}

// NewMember strips markup characters from the name, validates c and builds a Member.
// newID is called only when c has no id.
func NewMember(c Candidate, newID func() MemberID) (Member, error) {
	c.Name, _ = SanitizeName(c.Name)
	if err := Validate(c).Err(); err != nil {
		return Member{}, err
	}
	id := c.ID
	if id == "" {
		id = newID()
	}
	return Member{
		ID:                 id,
		Name:               NormalizeHumanName(c.Name),
		PrimaryArchetype:   c.PrimaryArchetype,
		SecondaryArchetype: c.SecondaryArchetype,
		Years:              int(*c.Years),
		Level:              c.Level,
	}, nil
}

func joinLevels() string {
	s := make([]string, len(ValidLevels))
	for i, l := range ValidLevels {
		s[i] = string(l)
	}
	return strings.Join(s, ", ")
}

func joinArchetypes() string {
	s := make([]string, len(ValidArchetypes))
	for i, a := range ValidArchetypes {
		s[i] = string(a)
	}
	return strings.Join(s, ", ")
}
