package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FormResult is the envelope every mutating CRM endpoint answers with.
// There are exactly three outcomes: success with payload, success=false
// with validation errors (optionally a re-rendered form fragment), or a
// transport failure surfaced as a plain error before this envelope exists.
type FormResult struct {
	Success bool                `json:"success"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	HTML    string              `json:"html,omitempty"`
}

// Err maps a rejected envelope onto an error. Field errors become a
// *ValidationError so callers can surface them inline.
func (r *FormResult) Err() error {
	if r.Success {
		return nil
	}
	if len(r.Errors) > 0 || r.HTML != "" {
		return &ValidationError{Fields: r.Errors, HTML: r.HTML}
	}
	if r.Error != "" {
		return errors.New(r.Error)
	}
	return errors.New("request rejected")
}

// ValidationError carries structured field errors and, when the CRM chose
// to re-render the form, the HTML fragment to inject in place.
type ValidationError struct {
	Fields map[string][]string
	HTML   string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return strings.Join(parts, "; ")
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
