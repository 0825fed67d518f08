package clinicapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrBaseURLRequired = errors.New("clinicapi: base URL is required")
	ErrMissingID       = errors.New("clinicapi: response carried no id")
	ErrUnreachable     = errors.New("clinicapi: backend unreachable")
)

// APIError is a non-2xx answer of the clinic backend.
// Message, Field, Code and Errors are filled when the body is a JSON error
// document; for unstructured bodies only Status and Body are set.
type APIError struct {
	Status  int
	Message string
	Field   string
	Code    string
	Errors  map[string]string
	Body    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("clinicapi: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("clinicapi: status %d", e.Status)
}

// Structured reports whether the backend sent a JSON error document.
func (e *APIError) Structured() bool {
	return e.Message != "" || e.Field != "" || e.Code != "" || len(e.Errors) > 0
}

// Text returns every piece of the error document joined in one lowercase
// string, field-level errors sorted by key.
func (e *APIError) Text() string {
	parts := []string{e.Message, e.Field, e.Code}
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k, e.Errors[k])
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// errorDocument is the JSON error body. Backends disagree on "message"
// vs "error", and on whether field errors are a map or a list.
type errorDocument struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
	Code    string          `json:"code"`
	Errors  json.RawMessage `json:"errors"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Body: strings.TrimSpace(string(body))}

	var doc errorDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return apiErr
	}

	apiErr.Message = doc.Message
	if apiErr.Message == "" {
		apiErr.Message = doc.Error
	}
	apiErr.Field = doc.Field
	apiErr.Code = doc.Code

	if len(doc.Errors) > 0 {
		var byField map[string]string
		if err := json.Unmarshal(doc.Errors, &byField); err == nil {
			apiErr.Errors = byField
		} else {
			var list []fieldError
			if err := json.Unmarshal(doc.Errors, &list); err == nil {
				apiErr.Errors = make(map[string]string, len(list))
				for _, fe := range list {
					apiErr.Errors[fe.Field] = fe.Message
				}
			}
		}
	}

	return apiErr
}
