package autocron

import (
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/kaiserkarel/go-autocron/crontab"
	"github.com/kaiserkarel/go-autocron/internal/logger"
)

// Option is a constructor function
type Option func(*Registrar) error

// WithTab sets the crontab storage backend. It defaults to the current user's
// crontab through crontab(1).
func WithTab(tab crontab.Tab) Option {
	return func(r *Registrar) error {
		if tab == nil {
			return errors.New("autocron: nil tab")
		}
		r.tab = tab
		return nil
	}
}

// WithCrontab makes every registration use store instead of opening the tab.
func WithCrontab(store Crontab) Option {
	return func(r *Registrar) error {
		if store == nil {
			return errors.New("autocron: nil crontab")
		}
		r.store = store
		return nil
	}
}

// WithSchema sets a namespace hashed into derived identifiers, so the same
// identifier can be registered once per schema.
func WithSchema(schema string) Option {
	return func(r *Registrar) error {
		r.schema = schema
		return nil
	}
}

// WithInterpreter runs scripts registered with a schedule string through
// interpreter, e.g. "/usr/bin/php". By default the script is executed directly.
func WithInterpreter(interpreter string) Option {
	return func(r *Registrar) error {
		r.interpreter = interpreter
		return nil
	}
}

// WithLogger sets a logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registrar) error {
		r.setLogger(logger.FromSlog(l))
		return nil
	}
}

// WithLogFile logs to the file at dest. The destination is also hashed into
// derived identifiers. An unusable destination is a construction error.
// Registrar.Close closes the file.
func WithLogFile(dest string) Option {
	return func(r *Registrar) error {
		l, err := openLog(dest)
		if err != nil {
			return err
		}
		r.setLogger(l)
		r.logDestination = dest
		return nil
	}
}

// WithClock sets the time source used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(r *Registrar) error {
		if now == nil {
			return errors.New("autocron: nil clock")
		}
		r.now = now
		return nil
	}
}

// WithLocation sets the location of the stamp on new entries.
//
// Location defaults to time.Local.
func WithLocation(location *time.Location) Option {
	return func(r *Registrar) error {
		if location == nil {
			return errors.New("autocron: nil location")
		}
		r.location = location
		return nil
	}
}
