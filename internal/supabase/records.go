package supabase

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexString decodes a JSON string or number (bigint and uuid primary keys
// both occur in the wild).
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// flexInt decodes a JSON number or a numeric string. Values that cannot be
// read as an integer decode to zero so the record fails validation instead
// of aborting the whole page.
type flexInt int

func (i *flexInt) UnmarshalJSON(b []byte) error {
	var raw flexString
	if err := raw.UnmarshalJSON(b); err != nil {
		*i = 0
		return nil
	}
	s := strings.TrimSpace(string(raw))
	if n, err := strconv.Atoi(s); err == nil {
		*i = flexInt(n)
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*i = flexInt(int(f))
		return nil
	}
	*i = 0
	return nil
}
