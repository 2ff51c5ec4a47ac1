package books

import (
	"encoding/json"
	"strconv"
)

// StatusError is returned when the API answers with a non-2xx status.
// No distinction is made between statuses, callers may inspect StatusCode themselves.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return "request failed with status code " + strconv.Itoa(e.StatusCode) + " (" + e.Method + " " + e.Path + ")"
}

// Detail extracts the "detail" message from the error body, if it is a plain string
func (e *StatusError) Detail() string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil {
		return ""
	}

	return detail
}
