package transfer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/ecgf-team/roster-api/internal/domain"
)

const bom = "\ufeff"

// EncodeCSV writes a BOM, the header row and one row per member, with \n line endings.
func EncodeCSV(ms []domain.Member) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(bom)
	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, m := range ms {
		if err := w.Write(row(m)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseCSV reads candidates from a CSV export. A leading BOM is ignored. Each line is read on
// its own, so a malformed line (for example an unbalanced quote) drops only that row.
func ParseCSV(data []byte) ([]domain.Candidate, error) {
	content := strings.TrimPrefix(string(data), bom)
	if strings.TrimSpace(content) == "" {
		return nil, &domain.FormatError{Format: string(FormatCSV), Reason: "CSV 파일 내용이 비어있습니다."}
	}

	var records [][]string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := readCSVLine(line)
		if err != nil {
			if len(records) == 0 {
				return nil, &domain.FormatError{Format: string(FormatCSV), Reason: "CSV 파일 형식이 올바르지 않습니다.", Err: err}
			}
			continue
		}
		records = append(records, rec)
	}
	return readTable(string(FormatCSV), records)
}

func readCSVLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rec, err := r.Read()
	if err != nil {
		return nil, err
	}
	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		return nil, csv.ErrQuote
	}
	return rec, nil
}
