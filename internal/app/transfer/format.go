package transfer

import (
	"fmt"
	"strings"

	"github.com/ecgf-team/roster-api/internal/domain"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	case "":
		return FormatJSON, nil
	}
	return "", domain.NewValidationError(fmt.Sprintf("지원하지 않는 형식입니다: %s", s))
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/json; charset=utf-8"
}

// Filename is the download name for a roster export.
func (f Format) Filename() string { return "members." + string(f) }

// Encode renders the roster in format f.
func Encode(f Format, ms []domain.Member) ([]byte, error) {
	switch f {
	case FormatCSV:
		return EncodeCSV(ms)
	case FormatXLSX:
		return EncodeXLSX(ms)
	case FormatJSON:
		return EncodeJSON(ms)
	}
	return nil, domain.NewValidationError(fmt.Sprintf("지원하지 않는 형식입니다: %s", f))
}

// Parse reads candidates from data in format f. Nothing is validated beyond the file shape.
func Parse(f Format, data []byte) ([]domain.Candidate, error) {
	switch f {
	case FormatCSV:
		return ParseCSV(data)
	case FormatXLSX:
		return ParseXLSX(data)
	case FormatJSON:
		return ParseJSON(data)
	}
	return nil, domain.NewValidationError(fmt.Sprintf("지원하지 않는 형식입니다: %s", f))
}
