package errors

import (
	stderrors "errors"
	"fmt"
)

// Error kinds. Compare with errors.Is; a *BotError matches its Kind.
var (
	ErrPermissionDenied     = stderrors.New("permission denied")
	ErrNotConfigured        = stderrors.New("not configured")
	ErrExternalActionFailed = stderrors.New("external action failed")
	ErrFetchFailed          = stderrors.New("fetch failed")
	ErrStoreUnavailable     = stderrors.New("store unavailable")
	ErrInvalidArgument      = stderrors.New("invalid argument")
)

// BotError attaches a kind and the failing operation to an underlying error
type BotError struct {
	Kind error
	Op   string
	Err  error
}

func (e *BotError) Error() string {
	switch {
	case e.Err != nil && e.Op != "":
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	default:
		return e.Kind.Error()
	}
}

// Is matches the error kind so errors.Is(err, ErrFetchFailed) works
func (e *BotError) Is(target error) bool {
	return e.Kind == target
}

func (e *BotError) Unwrap() error {
	return e.Err
}

// New creates a BotError of the given kind
func New(kind error, op string, err error) *BotError {
	return &BotError{Kind: kind, Op: op, Err: err}
}

// Newf creates a BotError of the given kind with a formatted cause
func Newf(kind error, op string, format string, args ...interface{}) *BotError {
	return &BotError{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// KindOf returns the kind of err, or nil when err carries none
func KindOf(err error) error {
	for _, kind := range []error{
		ErrPermissionDenied,
		ErrNotConfigured,
		ErrExternalActionFailed,
		ErrFetchFailed,
		ErrStoreUnavailable,
		ErrInvalidArgument,
	} {
		if stderrors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// UserMessage renders err as a reply suitable for the invoking user
func UserMessage(err error) string {
	var cause string
	var be *BotError
	if stderrors.As(err, &be) && be.Err != nil {
		cause = be.Err.Error()
	}

	switch KindOf(err) {
	case ErrPermissionDenied:
		return "❌ You don't have permission to use this command."
	case ErrNotConfigured:
		if cause != "" {
			return "⚙️ " + cause
		}
		return "⚙️ This feature is not configured on this server."
	case ErrExternalActionFailed:
		if cause != "" {
			return "❌ Discord rejected the action: " + cause
		}
		return "❌ Discord rejected the action."
	case ErrInvalidArgument:
		if cause != "" {
			return "❌ " + cause
		}
		return "❌ Invalid argument."
	case ErrStoreUnavailable:
		return "❌ The database is unavailable right now. Try again later."
	case ErrFetchFailed:
		return "❌ Could not reach the feed."
	default:
		return "❌ Something went wrong."
	}
}
