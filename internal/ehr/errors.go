package ehr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UpstreamError captures a non-2xx response from the clinical data provider.
// Body holds the parsed JSON payload when the provider returned JSON or
// FHIR+JSON, otherwise RawText holds the body verbatim.
type UpstreamError struct {
	Status           int
	StatusText       string
	Body             map[string]interface{}
	RawText          string
	RetriesExhausted bool
}

func (e *UpstreamError) Error() string {
	if e.RetriesExhausted {
		return fmt.Sprintf("upstream request failed after retries: %d %s", e.Status, e.StatusText)
	}
	return fmt.Sprintf("upstream request failed: %d %s", e.Status, e.StatusText)
}

// Details returns the structured error detail surfaced in handler envelopes.
func (e *UpstreamError) Details() map[string]interface{} {
	details := map[string]interface{}{
		"status":     e.Status,
		"statusText": e.StatusText,
	}
	for k, v := range e.Body {
		details[k] = v
	}
	if e.Body == nil {
		if e.RawText == "" {
			details["rawText"] = "Empty response"
		} else {
			details["rawText"] = e.RawText
		}
	}
	if e.RetriesExhausted {
		details["retriesExhausted"] = true
	}
	return details
}

// TimeoutError reports that an upstream call exceeded the request timeout.
type TimeoutError struct {
	Method  string
	URL     string
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s: %s %s", e.Timeout, e.Method, e.URL)
}

func newUpstreamError(status int, statusText, contentType string, body []byte) *UpstreamError {
	uerr := &UpstreamError{Status: status, StatusText: statusText}
	if isJSONContent(contentType) {
		var parsed map[string]interface{}
		if err := json.Unmarshal(body, &parsed); err == nil {
			uerr.Body = parsed
			return uerr
		}
	}
	uerr.RawText = string(body)
	return uerr
}

func isJSONContent(contentType string) bool {
	return strings.Contains(contentType, "application/json") ||
		strings.Contains(contentType, "application/fhir+json")
}
