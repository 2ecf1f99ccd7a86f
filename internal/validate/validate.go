// Package validate implements per-route declarative field validation.
// A route declares an ordered list of rules against the decoded JSON
// body; all failures are collected, in declaration order, into the
// error list the client receives.
package validate

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Check reports whether a body value passes. The value is nil when the
// field is absent from the body.
type Check func(v any) bool

// Rule names a body field, the message reported when it fails, and the
// check applied to it.
type Rule struct {
	Field   string
	Message string
	Check   Check
}

// FieldError is one entry of the 400 response envelope.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// Apply evaluates every rule against the body and returns the failures
// in rule-declaration order. An empty result means the body is valid.
func Apply(body map[string]any, rules []Rule) []FieldError {
	var errs []FieldError
	for _, r := range rules {
		if !r.Check(body[r.Field]) {
			errs = append(errs, FieldError{Msg: r.Message, Param: r.Field, Location: "body"})
		}
	}
	return errs
}

// NotEmpty fails on absent fields, blank strings, and empty arrays.
func NotEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

// Email requires a string that looks like an address.
func Email(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// MinLength requires a string of at least n characters.
func MinLength(n int) Check {
	return func(v any) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		return len(s) >= n
	}
}

// Present only requires the field to exist with a non-null value.
func Present(v any) bool {
	return v != nil
}
