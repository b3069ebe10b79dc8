// Package fail defines the typed failure taxonomy shared by every stage
// of the submission pipeline. Callers inspect the Kind to decide whether
// a failure is their fault (invalid-argument, not-found), a deployment
// problem (failed-precondition), or a downstream outage (internal).
package fail

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a pipeline failure.
type Kind string

const (
	// KindInvalidArgument marks caller-supplied data that is structurally
	// wrong or missing required pieces.
	KindInvalidArgument Kind = "invalid-argument"

	// KindNotFound marks a reference to a form record that does not exist.
	KindNotFound Kind = "not-found"

	// KindFailedPrecondition marks a correctly invoked pipeline running in
	// a misconfigured deployment (missing assets, credentials, recipients).
	KindFailedPrecondition Kind = "failed-precondition"

	// KindInternal marks a downstream dependency failing during an
	// otherwise valid operation.
	KindInternal Kind = "internal"
)

// Error carries a machine-readable kind, a human-readable message, and
// optional detail strings naming the offending paths or variables.
// Details must never contain credential values.
type Error struct {
	Kind    Kind
	Message string
	Details []string

	cause error
}

// Error renders the kind, message, and details as a single diagnostic line.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Details) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Details, ", "))
		b.WriteString(")")
	}
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// InvalidArgument reports structurally bad caller input.
func InvalidArgument(message string, details ...string) error {
	return &Error{Kind: KindInvalidArgument, Message: message, Details: details}
}

// NotFound reports a missing form record.
func NotFound(message string, details ...string) error {
	return &Error{Kind: KindNotFound, Message: message, Details: details}
}

// FailedPrecondition reports missing deployment configuration or assets.
// Details should name every missing path or environment variable so the
// operator can fix the deployment in one pass.
func FailedPrecondition(message string, details ...string) error {
	return &Error{Kind: KindFailedPrecondition, Message: message, Details: details}
}

// Internal wraps a downstream failure, preserving its diagnostic message.
func Internal(message string, cause error) error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// Internalf formats an internal failure without a separate cause.
func Internalf(format string, args ...any) error {
	return &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind from err, walking wrapped errors. Errors
// outside the taxonomy report KindInternal so callers always get a
// usable classification.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return KindInternal
}

// IsKind reports whether err (or anything it wraps) carries the kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
