package autocron

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/kaiserkarel/go-autocron/crontab"
	"github.com/kaiserkarel/go-autocron/internal/logger"
)

// Crontab is the store a Registrar upserts into. *crontab.Crontab implements it.
type Crontab interface {
	FindByRegex(pattern string) ([]*crontab.Job, error)
	Add(job *crontab.Job) error
	Remove(job *crontab.Job) error
	Persist(ctx context.Context) error
}

var _ Crontab = (*crontab.Crontab)(nil)

// New is the constructor for Registrar
func New(opts ...Option) (*Registrar, error) {
	r := &Registrar{
		mu:  sync.Mutex{},
		now: time.Now,
	}

	for _, opt := range opts {
		err := opt(r)
		if err != nil {
			return nil, err
		}
	}

	if r.tab == nil {
		r.tab = crontab.CommandTab{}
	}
	if r.logger == nil {
		r.setLogger(logger.Discard())
	}
	if r.location == nil {
		r.location = time.Local
	}
	return r, nil
}

// Registrar writes crontab entries for scripts. Registrations through one
// Registrar are serialized; nothing guards the crontab against other processes.
type Registrar struct {
	mu    sync.Mutex
	tab   crontab.Tab
	store Crontab

	schema         string
	logDestination string
	interpreter    string

	now      func() time.Time
	location *time.Location
	logger   *logger.Logger
}

// Register schedules script and returns a Job that runs action. schedule is
// either the timing portion of a crontab line ("*/5 * * * *", "@daily"), to
// which the command running script is appended, or a complete *crontab.Job.
//
// If the crontab already holds an entry for the derived identifier only its
// timing is updated; otherwise a new entry is added. The crontab is
// persisted before Register returns.
func (r *Registrar) Register(ctx context.Context, identifier, script string, schedule interface{}, action Action) (*Job, error) {
	if action == nil {
		return nil, constructionErrorf("job %q has no action", identifier)
	}

	job, err := r.Schedule(ctx, identifier, script, schedule)
	if err != nil {
		return nil, err
	}
	job.action = action
	return job, nil
}

// Schedule is Register without an action, for scripts this process does not run itself.
func (r *Registrar) Schedule(ctx context.Context, identifier, script string, schedule interface{}) (*Job, error) {
	if err := checkIdentifier(identifier); err != nil {
		return nil, err
	}

	script, err := resolveScript(script)
	if err != nil {
		return nil, err
	}
	if err := checkScript(script); err != nil {
		return nil, err
	}

	entry, err := r.newEntry(schedule, script)
	if err != nil {
		return nil, err
	}

	id := r.DeriveID(identifier, script)
	registeredAt := r.now().In(r.location)
	entry.Comments = createdComment(entry.Comments, id, registeredAt)

	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.open(ctx)
	if err != nil {
		return nil, r.fail(ctx, err, "open crontab for job", id)
	}

	matches, err := store.FindByRegex(regexp.QuoteMeta(id))
	if err != nil {
		return nil, r.fail(ctx, err, "find job", id)
	}

	created := len(matches) == 0
	if created {
		if err := store.Add(entry); err != nil {
			return nil, r.fail(ctx, err, "add job", id)
		}
	} else {
		matches[0].SetTiming(entry)
		for _, dup := range matches[1:] {
			if err := store.Remove(dup); err != nil {
				return nil, r.fail(ctx, err, "remove duplicate of job", id)
			}
		}
		entry = matches[0]
	}

	if err := store.Persist(ctx); err != nil {
		return nil, r.fail(ctx, err, "persist job", id)
	}

	r.logger.InfoCtx(ctx, "job registered",
		logger.Field{Key: "job_id", Value: id},
		logger.Field{Key: "script", Value: script},
		logger.Field{Key: "schedule", Value: entry.Expression()},
		logger.Field{Key: "created", Value: created},
		logger.Field{Key: "duplicates_removed", Value: max(len(matches)-1, 0)},
	)

	return &Job{
		Identifier:   identifier,
		ID:           id,
		Script:       script,
		Entry:        *entry,
		Created:      created,
		RegisteredAt: registeredAt,
	}, nil
}

// Unregister removes every entry for identifier and script and persists the
// crontab. The script does not need to exist any more. It returns how many
// entries were removed.
func (r *Registrar) Unregister(ctx context.Context, identifier, script string) (int, error) {
	if err := checkIdentifier(identifier); err != nil {
		return 0, err
	}
	script, err := resolveScript(script)
	if err != nil {
		return 0, err
	}
	id := r.DeriveID(identifier, script)

	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.open(ctx)
	if err != nil {
		return 0, r.fail(ctx, err, "open crontab for job", id)
	}

	matches, err := store.FindByRegex(regexp.QuoteMeta(id))
	if err != nil {
		return 0, r.fail(ctx, err, "find job", id)
	}
	if len(matches) == 0 {
		r.logger.DebugCtx(ctx, "job not registered", logger.Field{Key: "job_id", Value: id})
		return 0, nil
	}

	for _, job := range matches {
		if err := store.Remove(job); err != nil {
			return 0, r.fail(ctx, err, "remove job", id)
		}
	}
	if err := store.Persist(ctx); err != nil {
		return 0, r.fail(ctx, err, "persist crontab without job", id)
	}

	r.logger.InfoCtx(ctx, "job unregistered",
		logger.Field{Key: "job_id", Value: id},
		logger.Field{Key: "removed", Value: len(matches)},
	)
	return len(matches), nil
}

// Close releases the log file opened by WithLogFile, if any.
func (r *Registrar) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.logger.Close()
}

// DeriveID returns the identifier this Registrar records for identifier and
// script. script must already be absolute.
func (r *Registrar) DeriveID(identifier, script string) string {
	return DeriveID(identifier, r.schema, r.logDestination, script)
}

// Command returns the command line cron runs for script.
func (r *Registrar) Command(script string) string {
	return Command(r.interpreter, script)
}

// Command joins an optional interpreter and a script path into a command
// line. The path is quoted for sh when it needs to be, and % is escaped since
// cron turns it into a newline.
func Command(interpreter, script string) string {
	if strings.ContainsAny(script, " \t'\"$`\\;&|<>()*?[]#~") {
		script = "'" + strings.ReplaceAll(script, "'", `'\''`) + "'"
	}
	script = strings.ReplaceAll(script, "%", `\%`)

	if interpreter == "" {
		return script
	}
	return interpreter + " " + script
}

func (r *Registrar) newEntry(schedule interface{}, script string) (*crontab.Job, error) {
	var entry *crontab.Job
	switch s := schedule.(type) {
	case string:
		job, err := crontab.NewJob(s, r.Command(script))
		if err != nil {
			return nil, constructionError(errors.Wrapf(err, "invalid schedule %q", s))
		}
		return job, nil
	case *crontab.Job:
		if s == nil {
			return nil, constructionErrorf("expected a schedule string or *crontab.Job, received a nil *crontab.Job")
		}
		copied := *s
		entry = &copied
	case crontab.Job:
		entry = &s
	default:
		return nil, constructionErrorf("expected a schedule string or *crontab.Job, received %#v", schedule)
	}

	if err := entry.Validate(); err != nil {
		return nil, constructionError(errors.Wrap(err, "invalid job"))
	}
	return entry, nil
}

func (r *Registrar) open(ctx context.Context) (Crontab, error) {
	if r.store != nil {
		return r.store, nil
	}

	return crontab.Open(ctx, r.tab)
}

// fail logs a crontab failure for job id and returns err wrapped with msg.
func (r *Registrar) fail(ctx context.Context, err error, msg, id string) error {
	r.logger.ErrorCtx(ctx, msg+" failed", err, logger.Field{Key: "job_id", Value: id})
	return errors.Wrapf(err, "%s %s", msg, id)
}

// setLogger replaces the registrar's logger, closing a log file the previous
// one owned.
func (r *Registrar) setLogger(l *logger.Logger) {
	if r.logger != nil {
		_ = r.logger.Close()
	}
	r.logger = l.With(logger.Field{Key: "component", Value: "registrar"})
}

func checkIdentifier(identifier string) error {
	if identifier == "" {
		return constructionErrorf("empty job identifier")
	}
	if strings.ContainsAny(identifier, "\r\n") {
		return constructionErrorf("job identifier %q must be a single line", identifier)
	}
	return nil
}

func resolveScript(script string) (string, error) {
	if strings.TrimSpace(script) == "" {
		return "", constructionErrorf("empty script path")
	}

	abs, err := filepath.Abs(script)
	if err != nil {
		return "", constructionError(errors.Wrapf(err, "script %q", script))
	}
	return abs, nil
}

func checkScript(script string) error {
	info, err := os.Stat(script)
	if os.IsNotExist(err) {
		return constructionErrorf("script %q does not exist", script)
	}
	if err != nil {
		return constructionError(errors.Wrapf(err, "script %q", script))
	}
	if info.IsDir() {
		return constructionErrorf("script %q is a directory", script)
	}
	return nil
}
