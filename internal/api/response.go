package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// normalizeResponse converts a raw HTTP response into a parsed payload or an
// *APIError. The body is read exactly once; response bodies are not
// re-readable, so no other layer may touch it.
func normalizeResponse(resp *http.Response, label string) (map[string]interface{}, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body for %s: %w", label, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var parsed map[string]interface{}
		if json.Unmarshal(raw, &parsed) == nil {
			return nil, &APIError{
				Message:      errorMessage(parsed, raw),
				Status:       resp.StatusCode,
				ResponseBody: parsed,
			}
		}
		return nil, &APIError{
			Message: string(raw),
			Status:  resp.StatusCode,
		}
	}

	var payload map[string]interface{}
	if json.Unmarshal(raw, &payload) == nil {
		return payload, nil
	}

	// Non-JSON 2xx body: treat the text as an opaque success payload.
	return map[string]interface{}{
		"success": true,
		"data":    string(raw),
	}, nil
}

// errorMessage pulls the human-readable message out of a parsed error body,
// preferring the backend's "error" field over "message".
func errorMessage(parsed map[string]interface{}, raw []byte) string {
	if msg, ok := parsed["error"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := parsed["message"].(string); ok && msg != "" {
		return msg
	}
	return string(raw)
}
