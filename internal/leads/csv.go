package leads

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ContactRow is one imported lead. PhoneNumber is required; rows without one
// are dropped during parsing, not surfaced as errors.
type ContactRow struct {
	PhoneNumber string
	Name        string
}

// ParseResult reports what the parser kept and what it silently dropped.
type ParseResult struct {
	Rows    []ContactRow
	Dropped int
}

var ErrMissingHeader = errors.New("leads: csv is missing a phone_number header column")

// ParseContacts reads a CSV contact list.
//
// Contract:
// - The first row is a header. Recognized columns: phone_number (required
//   per row) and name (optional). All other columns are ignored.
// - Header names are matched case-insensitively after trimming.
// - Empty lines are skipped.
// - Rows with an empty phone_number are dropped and counted, never errors.
// - Input row order is preserved; round-robin assignment depends on it.
func ParseContacts(r io.Reader) (ParseResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Imported sheets often carry ragged trailing columns; tolerate them.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ParseResult{}, ErrMissingHeader
		}
		return ParseResult{}, err
	}

	phoneIdx, nameIdx := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "phone_number":
			phoneIdx = i
		case "name":
			nameIdx = i
		}
	}
	if phoneIdx < 0 {
		return ParseResult{}, ErrMissingHeader
	}

	var out ParseResult
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ParseResult{}, err
		}
		if isEmptyRecord(record) {
			continue
		}

		phone := ""
		if phoneIdx < len(record) {
			phone = strings.TrimSpace(record[phoneIdx])
		}
		if phone == "" {
			out.Dropped++
			continue
		}

		name := ""
		if nameIdx >= 0 && nameIdx < len(record) {
			name = strings.TrimSpace(record[nameIdx])
		}
		out.Rows = append(out.Rows, ContactRow{PhoneNumber: phone, Name: name})
	}
	return out, nil
}

func isEmptyRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
