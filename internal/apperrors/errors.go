package apperrors

import (
	"errors"
	"fmt"
)

// Kind categorizes the expected failure modes of the matching core.
type Kind string

const (
	// KindConfig covers invalid tool/model selection. Fatal at startup.
	KindConfig Kind = "config"
	// KindParse covers LLM output that is not valid JSON or fails schema
	// validation. Recovered locally, raw text retained.
	KindParse Kind = "parse"
	// KindPersistence covers upserts with a missing natural key or an
	// unavailable store. Surfaced in the per-call result.
	KindPersistence Kind = "persistence"
	// KindScoring covers embedding or vectorization failures. The affected
	// score is omitted.
	KindScoring Kind = "scoring"
)

// Error is a structured application error carrying the failure kind and the
// operation that produced it.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

func Config(op, message string, cause error) *Error {
	return newError(KindConfig, op, message, cause)
}

func Parse(op, message string, cause error) *Error {
	return newError(KindParse, op, message, cause)
}

func Persistence(op, message string, cause error) *Error {
	return newError(KindPersistence, op, message, cause)
}

func Scoring(op, message string, cause error) *Error {
	return newError(KindScoring, op, message, cause)
}

// MissingPrimaryKey reports an upsert attempted without a resolvable natural
// key. The record is not written.
func MissingPrimaryKey(op, keyName string) *Error {
	return newError(KindPersistence, op, fmt.Sprintf("missing primary key: %s", keyName), nil)
}

// IsKind reports whether err (or anything it wraps) is an *Error of the given
// kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
