package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Amount is a transaction amount normalized at ingestion time.
// Parseable values are held as an exact decimal; anything else keeps its
// trimmed raw text so it can still be reported and compared.
type Amount struct {
	value   decimal.Decimal
	raw     string
	numeric bool
}

// ParseAmount normalizes a raw amount cell.
func ParseAmount(raw string) Amount {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Amount{}
	}
	if !isPlainDecimal(raw) {
		return Amount{raw: raw}
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(raw, "+"))
	if err != nil {
		return Amount{raw: raw}
	}
	return Amount{value: d, raw: raw, numeric: true}
}

// isPlainDecimal accepts an optional sign, digits and an optional fraction.
// Exponent notation is rejected so a short cell cannot expand into an
// arbitrarily large number.
func isPlainDecimal(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	intPart, frac, hasDot := strings.Cut(s, ".")
	if intPart == "" && frac == "" {
		return false
	}
	if hasDot && frac == "" {
		return false
	}
	return allDigits(intPart) && allDigits(frac)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsNumeric reports whether the amount was parsed as a decimal.
func (a Amount) IsNumeric() bool { return a.numeric }

// IsZero reports whether no amount was provided at all.
func (a Amount) IsZero() bool { return !a.numeric && a.raw == "" }

// Equal compares two amounts exactly. Numeric amounts compare by value,
// so "100" equals "100.00". A numeric amount never equals a non-numeric one.
func (a Amount) Equal(b Amount) bool {
	if a.numeric != b.numeric {
		return false
	}
	if a.numeric {
		return a.value.Equal(b.value)
	}
	return a.raw == b.raw
}

func (a Amount) String() string {
	if a.numeric {
		return a.value.String()
	}
	return a.raw
}

// MarshalJSON writes numeric amounts as JSON numbers, others as strings,
// and a missing amount as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	switch {
	case a.numeric:
		return []byte(a.value.String()), nil
	case a.raw == "":
		return []byte("null"), nil
	default:
		return json.Marshal(a.raw)
	}
}

// MarshalYAML mirrors MarshalJSON for the YAML report encoding.
func (a Amount) MarshalYAML() (interface{}, error) {
	switch {
	case a.numeric:
		v := a.value.String()
		tag := "!!int"
		if strings.Contains(v, ".") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v}, nil
	case a.raw == "":
		return nil, nil
	default:
		return a.raw, nil
	}
}
