package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ClimateReading represents one snapshot returned by the climate endpoint
type ClimateReading struct {
	Temperature  Value `json:"temperature"`
	Humidity     Value `json:"humidity"`
	LastDatetime Value `json:"last_datetime"`
}

// Value is a reading field kept as display text.
//
// JSON strings are unquoted, booleans keep their literal text and null
// decodes to the empty string. Numbers use the shortest form that round-trips
// ("72.0" -> "72", "21.50" -> "21.5", "1e2" -> "100"), switching to exponent
// notation below 1e-6 and from 1e21 ("1e+21"), as a browser displays them.
// Objects and arrays are kept as compact JSON.
type Value string

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
	case data[0] == '{' || data[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*v = Value(buf.String())
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil && !math.IsInf(f, 0) {
			return err
		}
		*v = Value(formatNumber(f))
	default:
		*v = Value(data)
	}
	return nil
}

func formatNumber(f float64) string {
	abs := math.Abs(f)
	switch {
	case f == 0:
		return "0"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case abs >= 1e-6 && abs < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	// Go writes "1e+21" and "1e-07"; the exponent has no leading zeros.
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}

// String returns the display text.
func (v Value) String() string {
	return string(v)
}
