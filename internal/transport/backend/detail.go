package backend

import "encoding/json"

// extractDetail extracts the "detail" field from a JSON error body.
// FastAPI-style validation errors carry a list; its first "msg" is used.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) != nil || len(parsed.Detail) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(parsed.Detail, &s) == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(parsed.Detail, &items) == nil && len(items) > 0 {
		return items[0].Msg
	}
	return ""
}
