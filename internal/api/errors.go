package api

import "fmt"

// APIError is the single error type crossing the response-normalization
// boundary: every non-2xx response and every exhausted retry sequence
// surfaces as one of these. ResponseBody carries the parsed error payload
// when the backend returned JSON, nil otherwise.
type APIError struct {
	Message      string
	Status       int
	ResponseBody map[string]interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}
