// ABOUTME: Payload types that accept more than one JSON shape across Agda releases
// ABOUTME: Text joins message lists; GiveResult accepts the legacy bool and the object form

package agda

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Text is a message Agda may send as a string, a list of strings or
// {"message": ...} objects, or null.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			var part Text
			if err := part.UnmarshalJSON(item); err != nil {
				return err
			}
			if part != "" {
				parts = append(parts, string(part))
			}
		}
		*t = Text(strings.Join(parts, "\n"))
		return nil
	case '{':
		var obj struct {
			Message *Text `json:"message"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.Message != nil {
			*t = *obj.Message
			return nil
		}
		*t = Text(data)
		return nil
	default:
		// Numbers and booleans are kept in their JSON spelling.
		*t = Text(data)
		return nil
	}
}

// GiveResult says how the given expression was inserted: Str replaces the
// goal text, otherwise Paren tells whether it must be parenthesized.
type GiveResult struct {
	Paren bool
	Str   string
}

func (g GiveResult) MarshalJSON() ([]byte, error) {
	if g.Str != "" {
		return json.Marshal(map[string]string{"str": g.Str})
	}
	return json.Marshal(g.Paren)
}

func (g *GiveResult) UnmarshalJSON(data []byte) error {
	var paren bool
	if err := json.Unmarshal(data, &paren); err == nil {
		*g = GiveResult{Paren: paren}
		return nil
	}
	var obj struct {
		Paren *bool   `json:"paren"`
		Str   *string `json:"str"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("give result: %w", err)
	}
	*g = GiveResult{}
	if obj.Paren != nil {
		g.Paren = *obj.Paren
	}
	if obj.Str != nil {
		g.Str = *obj.Str
	}
	return nil
}
