package api

import (
	"encoding/json"

	"github.com/jrsteele09/go-cafe-storefront/internal/errors"
	"github.com/tidwall/gjson"
)

// DecodeEnvelope decodes a response that is either the bare payload or a
// one-level wrapper {"data": payload}. Deeper nesting is not guessed at.
// A "data" key holding null is treated as absent, so the whole body decodes.
func DecodeEnvelope(body []byte, v any) error {
	raw := unwrapEnvelope(body)
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(errors.ErrBadEnvelope, "%v", err)
	}
	return nil
}

func unwrapEnvelope(body []byte) []byte {
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return body
	}
	data := parsed.Get("data")
	if !data.Exists() || data.Type == gjson.Null {
		return body
	}
	return []byte(data.Raw)
}

// backendMessage pulls a human readable message out of an error body. It
// understands {"message"}, {"error"} and CodeIgniter's {"messages": {"error"}}.
func backendMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"message", "messages.error", "error", "data.message"} {
		if r := gjson.GetBytes(body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}
