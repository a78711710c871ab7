package geo

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Coordinate is a decimal degree value decoded from either a JSON number or
// a JSON string. The text is kept as sent.
type Coordinate string

func (c *Coordinate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return errors.Wrap(err, "decoding coordinate")
		}
		*c = Coordinate(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrap(err, "decoding coordinate")
	}
	*c = Coordinate(n.String())
	return nil
}

// Ptr returns a pointer to the text of c, or nil when c is nil.
func (c *Coordinate) Ptr() *string {
	if c == nil {
		return nil
	}
	s := string(*c)
	return &s
}
