package recipients

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/plagtech/spraay/internal/domain"
)

// ParseError reports a malformed recipient file. Row counts the header as
// row 1 for delimited files; Entry is the 0-based array index for JSON files.
type ParseError struct {
	Row   int
	Entry int
	Msg   string
}

func (e *ParseError) Error() string {
	switch {
	case e.Row > 0:
		return fmt.Sprintf("row %d: %s", e.Row, e.Msg)
	case e.Entry >= 0:
		return fmt.Sprintf("entry %d: %s", e.Entry, e.Msg)
	default:
		return e.Msg
	}
}

func rowError(row int, format string, args ...any) *ParseError {
	return &ParseError{Row: row, Entry: -1, Msg: fmt.Sprintf(format, args...)}
}

func entryError(entry int, format string, args ...any) *ParseError {
	return &ParseError{Entry: entry, Msg: fmt.Sprintf(format, args...)}
}

func fileError(format string, args ...any) *ParseError {
	return &ParseError{Entry: -1, Msg: fmt.Sprintf(format, args...)}
}

// ParseFile loads a recipient list, detecting the format by extension:
// .json is parsed as JSON, .csv/.tsv/.txt as delimited. Unknown extensions
// try delimited first, then JSON.
func ParseFile(path string) ([]domain.Recipient, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".tsv":
		return ParseDelimited(data, '\t')
	case ".csv", ".txt":
		return ParseDelimited(data, ',')
	default:
		rs, err := ParseDelimited(data, ',')
		if err == nil {
			return rs, nil
		}
		return ParseJSON(data)
	}
}

// ParseDelimited parses a header-first delimited recipient list. Header names
// are matched case-insensitively after trimming; "name" is accepted as an
// alias for "label".
func ParseDelimited(data []byte, comma rune) ([]domain.Recipient, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fileError("file is empty or has no header")
	}

	addrCol, amountCol, labelCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "address":
			addrCol = i
		case "amount":
			amountCol = i
		case "label":
			labelCol = i
		case "name":
			if labelCol < 0 {
				labelCol = i
			}
		}
	}
	if addrCol < 0 || amountCol < 0 {
		return nil, fileError("header must contain 'address' and 'amount' columns")
	}

	var recipients []domain.Recipient
	row := 1 // header
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rowError(row+1, "malformed record: %v", err)
		}
		row++

		field := func(col int) string {
			if col < 0 || col >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[col])
		}

		address := field(addrCol)
		if address == "" {
			return nil, rowError(row, "missing address")
		}

		amountStr := field(amountCol)
		amount, err := domain.ParseAmount(amountStr)
		if err != nil {
			return nil, rowError(row, "invalid amount %q", amountStr)
		}

		recipients = append(recipients, domain.Recipient{
			Address: address,
			Amount:  amount,
			Label:   field(labelCol),
			Kind:    domain.UserTransfer,
		})
	}

	return recipients, nil
}

// ParseJSON parses a JSON array of recipient objects. Each entry must carry
// "address" and "amount"; "label" is optional. Amounts may be JSON numbers or
// decimal strings.
func ParseJSON(data []byte) ([]domain.Recipient, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	var entries []map[string]any
	if err := dec.Decode(&entries); err != nil {
		return nil, fileError("JSON must contain a list of recipient objects")
	}

	recipients := make([]domain.Recipient, 0, len(entries))
	for i, entry := range entries {
		rawAddr, ok := entry["address"]
		if !ok {
			return nil, entryError(i, "missing 'address' field")
		}
		address, ok := rawAddr.(string)
		if !ok || address == "" {
			return nil, entryError(i, "'address' must be a non-empty string")
		}

		rawAmount, ok := entry["amount"]
		if !ok {
			return nil, entryError(i, "missing 'amount' field")
		}
		amount, err := jsonAmount(rawAmount)
		if err != nil {
			return nil, entryError(i, "invalid amount: %v", err)
		}

		label := ""
		if l, ok := entry["label"].(string); ok {
			label = l
		}

		recipients = append(recipients, domain.Recipient{
			Address: address,
			Amount:  amount,
			Label:   label,
			Kind:    domain.UserTransfer,
		})
	}

	return recipients, nil
}

func jsonAmount(v any) (domain.Amount, error) {
	switch n := v.(type) {
	case json.Number:
		return domain.ParseAmount(n.String())
	case string:
		return domain.ParseAmount(n)
	default:
		return 0, fmt.Errorf("must be a number or string, got %T", v)
	}
}
