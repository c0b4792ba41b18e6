package envvar

import (
	"fmt"
	"strings"
)

// ErrorCode defines string error
type ErrorCode string

// Error returns error message
func (e ErrorCode) Error() string {
	return string(e)
}

const (
	// ErrNotFound indicates that a required variable is not set in any source
	ErrNotFound = ErrorCode("variable not found")
	// ErrConversion indicates that a value is present but cannot be decoded,
	// validated or converted to the requested type
	ErrConversion = ErrorCode("conversion failed")
)

// Error provides details about a failed variable resolution.
// Cause is one of the ErrorCode sentinels so callers can distinguish
// "required but absent" from "present but invalid" with errors.Is.
type Error struct {
	VarName string
	// Type is the target type of the terminal call, e.g. "int" or "url".
	// Empty for not-found errors.
	Type string
	// Value is the offending raw value. Empty for not-found errors.
	Value  string
	Reason string
	Cause  error
}

func (e Error) Error() string {
	sb := new(strings.Builder)
	sb.WriteString(fmt.Sprintf("variable %q", e.VarName))
	if e.Type != "" {
		sb.WriteString(fmt.Sprintf(" cannot be converted to %s", e.Type))
	}
	if e.Reason != "" {
		sb.WriteString(": " + e.Reason)
	}
	if e.Value != "" {
		sb.WriteString(fmt.Sprintf(" (value %q)", e.Value))
	}
	if e.Cause != nil {
		sb.WriteString(": " + e.Cause.Error())
	}
	return sb.String()
}

func (e Error) Unwrap() error {
	return e.Cause
}

func notFoundError(name string) Error {
	return Error{
		VarName: name,
		Reason:  "is required but not set",
		Cause:   ErrNotFound,
	}
}

func conversionError(name, typ, val, reason string) Error {
	return Error{
		VarName: name,
		Type:    typ,
		Value:   val,
		Reason:  reason,
		Cause:   ErrConversion,
	}
}
