package autocron

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies registration errors.
type Kind int

const (
	// KindConstruction reports unusable registration input: a missing script,
	// a schedule that is neither a cron string nor a valid *crontab.Job, or an
	// invalid log destination.
	KindConstruction Kind = 1

	// KindDataAccess is reserved for storage failures. Nothing returns it yet;
	// crontab read and write errors are passed through wrapped.
	KindDataAccess Kind = 2
)

func (k Kind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindDataAccess:
		return "data access"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a classified registration error.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("autocron: %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsConstruction reports whether err, or an error it wraps, is a construction error.
func IsConstruction(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindConstruction
}

func constructionError(err error) error {
	return &Error{Kind: KindConstruction, Err: err}
}

func constructionErrorf(format string, args ...interface{}) error {
	return constructionError(errors.Errorf(format, args...))
}
