package models

import (
	"bytes"
	"strconv"

	"github.com/goccy/go-json"
)

// FlexibleID is a Discord snowflake that decodes from a JSON string, number or null.
// Hand-edited defaults files often carry IDs as bare numbers.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if _, err := strconv.ParseUint(n.String(), 10, 64); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

// String returns the ID as a plain string.
func (f FlexibleID) String() string {
	return string(f)
}
