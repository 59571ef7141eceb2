package sessions

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// TTL holds the credential expiry hint exactly as the API returned it.
// The hosted API sends a timestamp string, older samples a number of seconds; both round-trip unchanged.
type TTL struct {
	raw     string
	numeric bool
}

// Seconds creates a numeric TTL
func Seconds(n int64) TTL {
	return TTL{raw: strconv.FormatInt(n, 10), numeric: true}
}

// Timestamp creates a string TTL
func Timestamp(ts string) TTL {
	return TTL{raw: ts}
}

func (t TTL) IsZero() bool {
	return t.raw == ""
}

func (t TTL) IsNumeric() bool {
	return t.numeric
}

func (t TTL) String() string {
	return t.raw
}

func (t TTL) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	if t.numeric {
		return []byte(t.raw), nil
	}
	return json.Marshal(t.raw)
}

func (t *TTL) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = TTL{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "[TTL UnmarshalJSON] invalid string")
		}
		*t = Timestamp(s)
		return nil
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return errors.Wrapf(err, "[TTL UnmarshalJSON] invalid number %q", data)
		}
		*t = TTL{raw: string(data), numeric: true}
		return nil
	}
}
