// Package modelout contains helpers for sanitizing the loosely-typed
// responses returned by hosted generative models. Models are instructed to
// return bare JSON but routinely wrap it in markdown code fences and mix
// string/number types for numeric fields; everything here exists to absorb
// that at the boundary.
package modelout

import (
	"encoding/json"
	"strconv"
	"strings"
)

// StripCodeFences removes markdown code-fence markers the model may have
// wrapped its JSON payload in, then trims surrounding whitespace.
func StripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// FlexInt decodes a JSON value that may arrive as a number or as a numeric
// string ("25", "25 minutes" is rejected, 25.0 is truncated).
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		*f = FlexInt(int(v))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexInt(int(v))
	return nil
}

// Int returns the value as a plain int
func (f FlexInt) Int() int {
	return int(f)
}
