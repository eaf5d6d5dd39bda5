package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// PostgREST error codes for "no row" outcomes
const (
	CodeNoSingleRow = "PGRST116"
	CodeNotFound    = "PGRST114"
)

// APIError is a non-2xx response from the data or auth API
type APIError struct {
	Status  int
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("backend error %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("backend error %d: %s", e.Status, msg)
}

// IsNotFound reports whether err means the requested row does not exist
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == CodeNoSingleRow || apiErr.Code == CodeNotFound
}

// Message returns the server-provided message of err, or err.Error()
// when err did not come from the server
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// errorBody covers both PostgREST and GoTrue error payloads
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	Message          string          `json:"message"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
	Msg              string          `json:"msg"`
	ErrorCode        string          `json:"error_code"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func decodeAPIError(status int, data []byte) error {
	apiErr := &APIError{Status: status}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}

	var code string
	if err := json.Unmarshal(body.Code, &code); err == nil {
		apiErr.Code = code
	}
	if apiErr.Code == "" {
		apiErr.Code = firstNonEmpty(body.ErrorCode, body.Error)
	}
	apiErr.Message = firstNonEmpty(body.Message, body.Msg, body.ErrorDescription)
	apiErr.Details = body.Details
	apiErr.Hint = body.Hint
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
