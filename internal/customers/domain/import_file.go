package domain

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInvalidImportFile wraps every parse failure of a customer import file.
var ErrInvalidImportFile = errors.New("invalid customer import file")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ImportRecord is one row of a customer import file.
type ImportRecord struct {
	Line int
	Code string
	Name string
}

// ParseImportFile reads "code,name" rows. A first row of exactly "code,name"
// (any case) is treated as a header. Empty files yield no records.
func ParseImportFile(data []byte) ([]ImportRecord, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var records []ImportRecord
	for first := true; ; first = false {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImportFile, err)
		}
		line, _ := r.FieldPos(0)
		if first && isHeader(row) {
			continue
		}
		if len(row) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected 2 fields, got %d", ErrInvalidImportFile, line, len(row))
		}

		code, name, err := normalize(row[0], row[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidImportFile, line, err)
		}
		records = append(records, ImportRecord{Line: line, Code: code, Name: name})
	}
}

func isHeader(row []string) bool {
	return len(row) == 2 &&
		strings.EqualFold(strings.TrimSpace(row[0]), "code") &&
		strings.EqualFold(strings.TrimSpace(row[1]), "name")
}
