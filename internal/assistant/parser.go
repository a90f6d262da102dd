package assistant

import (
	"encoding/json"
	"strings"
)

const (
	actionOpen  = "<ACTION>"
	actionClose = "</ACTION>"

	// genericReply fills in when stripping the action block leaves nothing.
	genericReply = "I've processed that request."
)

// ParseResponse splits a raw model response into reply text and an optional
// action descriptor. Recovery strategies are tried in order; malformed JSON
// degrades to "no action" and never escapes this boundary.
func ParseResponse(raw string) (string, *Action) {
	start := strings.Index(raw, actionOpen)
	end := strings.Index(raw, actionClose)

	if start >= 0 && end > start {
		candidate := strings.TrimSpace(raw[start+len(actionOpen) : end])
		reply := strings.TrimSpace(raw[:start] + raw[end+len(actionClose):])

		if act := decodeAction(candidate); act != nil {
			return orGeneric(reply), act
		}
		// salvage: slice from first { to last } inside the block
		if i, j := strings.Index(candidate, "{"), strings.LastIndex(candidate, "}"); i >= 0 && j > i {
			if act := decodeAction(candidate[i : j+1]); act != nil {
				return orGeneric(reply), act
			}
		}
		// block present but unrecoverable: no action, whole text is the reply
		return raw, nil
	}

	// no delimiters: look for a bare JSON object in the whole response
	if strings.Contains(raw, `{"action"`) || strings.HasPrefix(strings.TrimSpace(raw), "{") {
		if i, j := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); i >= 0 && j > i {
			if act := decodeAction(raw[i : j+1]); act != nil {
				reply := strings.TrimSpace(raw[:i] + raw[j+1:])
				return orGeneric(reply), act
			}
		}
	}

	return raw, nil
}

func orGeneric(reply string) string {
	if reply == "" {
		return genericReply
	}
	return reply
}

func decodeAction(s string) *Action {
	var a Action
	if err := json.Unmarshal([]byte(s), &a); err != nil {
		return nil
	}
	if strings.TrimSpace(a.Kind) == "" {
		return nil
	}
	return &a
}
