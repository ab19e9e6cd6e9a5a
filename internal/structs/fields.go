package structs

import "encoding/json"

// Fields flattens a bound request struct into the generic field map the CRM
// adapter forwards upstream. Zero-valued omitempty fields drop out, so the
// CRM only ever sees what the caller actually sent.
func Fields(v any) map[string]any {
	blob, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}

	out := map[string]any{}
	if err := json.Unmarshal(blob, &out); err != nil {
		return map[string]any{}
	}
	return out
}
