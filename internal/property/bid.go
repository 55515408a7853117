package property

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeBid parses an opening bid sent either as a JSON number or as a
// display string like "$12,500.00". Anything unparsable becomes nil; a bad
// bid never fails ingestion.
func NormalizeBid(raw json.RawMessage) *decimal.Decimal {
	raw = json.RawMessage(strings.TrimSpace(string(raw)))
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var v any
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case json.Number:
		return parseBidString(x.String())
	case string:
		return parseBidString(x)
	}
	return nil
}

func parseBidString(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
