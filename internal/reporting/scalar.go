package reporting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// Text is a loosely typed scalar the backend may send as a string, a number or
// null. Numbers keep their literal text so 123 and "123" compare equal.
type Text struct {
	Value string
	Valid bool
}

// NewText builds a valid Text.
func NewText(v string) Text { return Text{Value: v, Valid: true} }

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*t = Text{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text{Value: s, Valid: true}
	case '{', '[':
		return fmt.Errorf("reporting: expected scalar, got %s", kindOf(data))
	default:
		*t = Text{Value: string(data), Valid: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return jsonNull, nil
	}
	return json.Marshal(t.Value)
}

func (t Text) String() string { return t.Value }

// Display returns the value, or "-" when the field was absent or blank.
func (t Text) Display() string {
	if !t.Valid || strings.TrimSpace(t.Value) == "" {
		return "-"
	}
	return t.Value
}

// Number is a numeric field that may arrive as a JSON number, a numeric string
// or null. Non-numeric text is retained in Raw with Valid unset.
type Number struct {
	Value float64
	Raw   string
	Valid bool
}

// NewNumber builds a valid Number.
func NewNumber(v float64) Number {
	return Number{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64), Valid: true}
}

// ParseNumber interprets s the way the backend's numeric strings are read.
func ParseNumber(s string) Number {
	trimmed := strings.TrimSpace(s)
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{Raw: s}
	}
	return Number{Value: v, Raw: trimmed, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*n = Number{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = ParseNumber(s)
	case '{', '[':
		return fmt.Errorf("reporting: expected number, got %s", kindOf(data))
	case 't', 'f':
		*n = Number{Raw: string(data)}
	default:
		*n = ParseNumber(string(data))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	switch {
	case n.Valid:
		return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
	case n.Raw != "":
		return json.Marshal(n.Raw)
	default:
		return jsonNull, nil
	}
}

// Float returns the value, treating absent or non-numeric input as zero.
func (n Number) Float() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

// Display renders the value as received, or "-" when absent or non-numeric.
func (n Number) Display() string {
	if !n.Valid {
		return "-"
	}
	return n.Raw
}

// Fixed renders the value with the given number of decimals, or "-".
func (n Number) Fixed(decimals int) string {
	if !n.Valid {
		return "-"
	}
	return strconv.FormatFloat(n.Value, 'f', decimals, 64)
}

// StringList accepts either a single scalar or an array of scalars.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*l = nil
		return nil
	}
	if data[0] != '[' {
		var single Text
		if err := single.UnmarshalJSON(data); err != nil {
			return err
		}
		*l = StringList{single.Value}
		return nil
	}
	var items []Text
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(StringList, 0, len(items))
	for _, item := range items {
		if item.Valid {
			out = append(out, item.Value)
		}
	}
	*l = out
	return nil
}

// Join renders the list for a table cell.
func (l StringList) Join() string {
	if len(l) == 0 {
		return "-"
	}
	return strings.Join(l, ", ")
}

// NumberList accepts either a single number or an array of numbers.
type NumberList []Number

// UnmarshalJSON implements json.Unmarshaler.
func (l *NumberList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		*l = nil
		return nil
	}
	if data[0] != '[' {
		var single Number
		if err := single.UnmarshalJSON(data); err != nil {
			return err
		}
		*l = NumberList{single}
		return nil
	}
	var items []Number
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// Join renders the list for a table cell.
func (l NumberList) Join() string {
	if len(l) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(l))
	for _, n := range l {
		parts = append(parts, n.Display())
	}
	return strings.Join(parts, ", ")
}

func kindOf(data []byte) string {
	if len(data) > 0 && data[0] == '[' {
		return "array"
	}
	return "object"
}
