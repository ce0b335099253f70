package transfer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ecgf-team/roster-api/internal/domain"
)

// Column headers shared by CSV and XLSX.
const (
	ColName      = "이름"
	ColPrimary   = "주요성향"
	ColSecondary = "보조성향"
	ColYears     = "연차"
	ColLevel     = "레벨"
)

var Header = []string{ColName, ColPrimary, ColSecondary, ColYears, ColLevel}

var requiredColumns = []string{ColName, ColPrimary, ColYears, ColLevel}

func row(m domain.Member) []string {
	return []string{
		m.Name,
		string(m.PrimaryArchetype),
		string(m.SecondaryArchetype),
		strconv.Itoa(m.Years),
		string(m.Level),
	}
}

// readTable maps a header row plus data rows onto candidates. Rows whose field count
// differs from the header are skipped.
func readTable(format string, records [][]string) ([]domain.Candidate, error) {
	records = dropBlank(records)
	if len(records) < 2 {
		return nil, &domain.FormatError{Format: format, Reason: "헤더와 최소 1개의 데이터 행이 필요합니다."}
	}

	header := make([]string, len(records[0]))
	index := make(map[string]int, len(header))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
		if _, dup := index[header[i]]; !dup {
			index[header[i]] = i
		}
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.FormatError{Format: format, Reason: fmt.Sprintf("필수 헤더가 누락되었습니다: %s", strings.Join(missing, ", "))}
	}

	get := func(values []string, col string) string {
		i, ok := index[col]
		if !ok {
			return ""
		}
		return strings.TrimSpace(values[i])
	}

	out := make([]domain.Candidate, 0, len(records)-1)
	for _, values := range records[1:] {
		if len(values) != len(header) {
			continue
		}
		years := float64(leadingInt(get(values, ColYears)))
		out = append(out, domain.Candidate{
			Name:               get(values, ColName),
			PrimaryArchetype:   archetype(get(values, ColPrimary)),
			SecondaryArchetype: archetype(get(values, ColSecondary)),
			Years:              &years,
			Level:              level(get(values, ColLevel)),
		})
	}
	return out, nil
}

func dropBlank(records [][]string) [][]string {
	out := records[:0:0]
	for _, r := range records {
		for _, v := range r {
			if strings.TrimSpace(v) != "" {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// leadingInt reads an optionally signed run of digits at the start of s, so "7년" is 7.
// Anything unreadable is 0.
func leadingInt(s string) int {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// archetype canonicalises known labels and slugs and passes anything else through for validation to report.
func archetype(s string) domain.Archetype {
	if a, err := domain.ParseArchetype(s); err == nil {
		return a
	}
	return domain.Archetype(s)
}

func level(s string) domain.Level {
	if l, err := domain.ParseLevel(s); err == nil {
		return l
	}
	return domain.Level(s)
}
