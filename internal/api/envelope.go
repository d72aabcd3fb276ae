package api

import (
	"bytes"
	"encoding/json"
)

// envelope covers the two success shapes the backend uses: the resource
// nested under "data", or the resource itself at the top level.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Decode unmarshals a success body into out, unwrapping a "data" member
// when one is present and non-null.  Empty bodies leave out untouched.
func Decode(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if out == nil || len(body) == 0 {
		return nil
	}
	if body[0] == '{' {
		var env envelope
		if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
			return json.Unmarshal(env.Data, out)
		}
	}
	return json.Unmarshal(body, out)
}

// errorMessage extracts the backend's "message" field from an error body.
// Some endpoints use "error" instead; it is accepted as a second choice.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}
