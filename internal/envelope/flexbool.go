package envelope

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexBool tolerates the backend's three spellings of a boolean: true, 1 and
// "true" are all truthy; false, 0, "false" and null are falsy. It always
// marshals as a clean JSON bool so that writes send a well-formed value back.
type FlexBool bool

func (b FlexBool) Bool() bool { return bool(b) }

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = FlexBool(s == "true" || s == "1")
		return nil
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*b = FlexBool(v)
		return nil
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*b = FlexBool(n != 0)
		return nil
	}
}
