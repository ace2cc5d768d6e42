package chat

import (
	"bytes"
	"encoding/json"
	"strings"
)

// DefaultRole is reported for messages that carry no role information
const DefaultRole = "human"

var (
	textKeys = []string{"content", "text", "message"}
	roleKeys = []string{"role", "sender", "type"}
)

// MessageText extracts the display text of a raw payload. A JSON string is
// returned as is; an object yields its content, text or message field;
// anything else is pretty-printed.
func MessageText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if v, ok := firstString(raw, textKeys); ok {
		return v
	}

	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return string(raw)
	}
	return out.String()
}

// MessageRole reports who wrote the message
func MessageRole(raw json.RawMessage) string {
	if v, ok := firstString(raw, roleKeys); ok {
		return v
	}
	return DefaultRole
}

// PhoneNumber derives the customer's number from a session id such as
// "5511999990000@s.whatsapp.net"
func PhoneNumber(sessionID string) string {
	phone, _, _ := strings.Cut(sessionID, "@")
	return phone
}

func firstString(raw json.RawMessage, keys []string) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}
	for _, k := range keys {
		var s string
		if err := json.Unmarshal(obj[k], &s); err == nil && s != "" {
			return s, true
		}
	}
	return "", false
}
