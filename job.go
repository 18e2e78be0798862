package autocron

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kaiserkarel/go-autocron/crontab"
)

// ErrNoAction is returned by Run for jobs registered without an action.
var ErrNoAction = errors.New("autocron: job has no action")

// Action is the scheduled work, run each time cron invokes the script.
type Action func(ctx context.Context) error

// Job is a registration: the crontab entry for a script plus the action it performs.
type Job struct {
	// Identifier as supplied by the caller.
	Identifier string

	// ID is the derived identifier recorded in the entry's comment.
	ID string

	// Script is the absolute path of the scheduled script.
	Script string

	// Entry is the crontab entry as persisted.
	Entry crontab.Job

	// Created is false when an existing entry was updated.
	Created bool

	RegisteredAt time.Time

	action Action
}

// Run calls the job's action. The action can recover the job with FromContext.
func (j *Job) Run(ctx context.Context) error {
	if j.action == nil {
		return ErrNoAction
	}
	return j.action(NewContext(ctx, j))
}
