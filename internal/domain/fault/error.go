package fault

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

// Code is a machine-readable failure class surfaced to presentation layers.
type Code string

const (
	CodeNoMatchesFound      Code = "NO_MATCHES_FOUND"
	CodeNoStandingsFound    Code = "NO_STANDINGS_FOUND"
	CodeNoScorersFound      Code = "NO_SCORERS_FOUND"
	CodeTeamNotFound        Code = "TEAM_NOT_FOUND"
	CodeMissingTeamID       Code = "MISSING_TEAM_ID"
	CodeNoCompetitionsFound Code = "NO_COMPETITIONS_FOUND"
	CodeInvalidQueryType    Code = "INVALID_QUERY_TYPE"
	CodeUnknownQueryType    Code = "UNKNOWN_QUERY_TYPE"
	CodeInvalidSeason       Code = "INVALID_SEASON"
	CodeInvalidQuery        Code = "INVALID_QUERY"
	CodeUnknownError        Code = "UNKNOWN_ERROR"
)

var knownCodes = map[Code]struct{}{
	CodeNoMatchesFound:      {},
	CodeNoStandingsFound:    {},
	CodeNoScorersFound:      {},
	CodeTeamNotFound:        {},
	CodeMissingTeamID:       {},
	CodeNoCompetitionsFound: {},
	CodeInvalidQueryType:    {},
	CodeUnknownQueryType:    {},
	CodeInvalidSeason:       {},
	CodeInvalidQuery:        {},
	CodeUnknownError:        {},
}

// Valid reports whether c belongs to the closed code set.
func (c Code) Valid() bool {
	_, ok := knownCodes[c]
	return ok
}

// IsNotFound reports whether c describes a syntactically valid request that
// produced no upstream results.
func (c Code) IsNotFound() bool {
	switch c {
	case CodeNoMatchesFound, CodeNoStandingsFound, CodeNoScorersFound, CodeTeamNotFound, CodeNoCompetitionsFound:
		return true
	default:
		return false
	}
}

// IsInput reports whether c describes a problem with the caller's query.
func (c Code) IsInput() bool {
	switch c {
	case CodeInvalidQuery, CodeInvalidQueryType, CodeUnknownQueryType, CodeInvalidSeason, CodeMissingTeamID:
		return true
	default:
		return false
	}
}

// Error is the typed failure every query stage returns.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches another *Error by code so callers can compare against a bare
// template such as &Error{Code: CodeInvalidSeason}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

// New creates an Error. Details may be nil.
func New(code Code, message string, details map[string]any) *Error {
	if !code.Valid() {
		code = CodeUnknownError
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Newf creates an Error with a formatted message and no details.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches code and message to cause. The cause stays reachable with
// errors.Is / errors.As.
func Wrap(cause error, code Code, message string, details map[string]any) *Error {
	out := New(code, message, details)
	if cause != nil {
		out.cause = crerr.WithStack(cause)
	}
	return out
}

// Classify returns err as an *Error. Errors that already carry a code are
// returned unchanged; anything else is wrapped with fallback.
func Classify(err error, fallback Code) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if crerr.As(err, &typed) && typed != nil {
		return typed
	}

	if !fallback.Valid() {
		fallback = CodeUnknownError
	}

	message := "unexpected failure"
	switch {
	case crerr.Is(err, context.DeadlineExceeded):
		message = "upstream request timed out"
	case crerr.Is(err, context.Canceled):
		message = "request was cancelled"
	case fallback != CodeUnknownError:
		message = err.Error()
	}
	return Wrap(err, fallback, message, nil)
}

// CodeOf returns the code carried by err, or CodeUnknownError.
func CodeOf(err error) Code {
	var typed *Error
	if crerr.As(err, &typed) && typed != nil {
		return typed.Code
	}
	return CodeUnknownError
}
