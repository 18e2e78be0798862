package crontab

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `# Edit this file to introduce tasks to be run by cron.
SHELL=/bin/sh
MAILTO=ops@example.com

*/5  *  * * *   /usr/bin/backup   # keep spacing
@reboot /opt/warmup.sh
#0 4 * * * /opt/paused.sh
0 2 * * * /opt/export.sh # [Created by autocron (Job ID export.abc) 2026-01-01 01:00am]
`

func open(t *testing.T, content string) (*Crontab, *MemoryTab) {
	t.Helper()

	tab := NewMemoryTab(content)
	c, err := Open(context.Background(), tab)
	require.NoError(t, err)
	return c, tab
}

func TestCrontab_Jobs(t *testing.T) {
	c, _ := open(t, sample)

	var commands []string
	for _, job := range c.Jobs() {
		commands = append(commands, job.Command)
	}
	assert.Equal(t, []string{"/usr/bin/backup", "/opt/warmup.sh", "/opt/paused.sh", "/opt/export.sh"}, commands)
}

func TestCrontab_PersistUnchanged(t *testing.T) {
	c, tab := open(t, sample)

	require.NoError(t, c.Persist(context.Background()))
	content, err := tab.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sample, content)
}

func TestCrontab_Empty(t *testing.T) {
	c, tab := open(t, "")
	assert.Empty(t, c.Jobs())
	assert.Equal(t, "", c.String())

	require.NoError(t, c.Add(&Job{Shortcut: "@hourly", Command: "/opt/job.sh"}))
	require.NoError(t, c.Persist(context.Background()))

	content, err := tab.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "@hourly /opt/job.sh\n", content)
}

func TestCrontab_FindByRegex(t *testing.T) {
	c, _ := open(t, sample)

	jobs, err := c.FindByRegex(`export\.abc`)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "/opt/export.sh", jobs[0].Command)

	jobs, err = c.FindByRegex(`^#`)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.True(t, jobs[0].Disabled)

	jobs, err = c.FindByRegex(`nothing-like-this`)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	// comment lines that are not jobs never match
	jobs, err = c.FindByRegex(`Edit this file`)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	_, err = c.FindByRegex(`(`)
	assert.Error(t, err)
}

func TestCrontab_UpdateInPlace(t *testing.T) {
	c, tab := open(t, sample)

	jobs, err := c.FindByRegex(`/opt/export\.sh`)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	jobs[0].SetTiming(&Job{Shortcut: "@daily"})
	require.NoError(t, c.Persist(context.Background()))

	reopened, err := Open(context.Background(), tab)
	require.NoError(t, err)
	jobs, err = reopened.FindByRegex(`/opt/export\.sh`)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "@daily", jobs[0].Expression())
	assert.Equal(t, "[Created by autocron (Job ID export.abc) 2026-01-01 01:00am]", jobs[0].Comments)

	// untouched lines keep their original spacing
	content, err := tab.Read(context.Background())
	require.NoError(t, err)
	assert.Contains(t, content, "*/5  *  * * *   /usr/bin/backup   # keep spacing\n")
}

func TestCrontab_AddRemove(t *testing.T) {
	c, _ := open(t, sample)

	job := &Job{Minutes: "0", Hours: "6", DayOfMonth: "*", Months: "*", DayOfWeek: "*", Command: "/opt/new.sh"}
	require.NoError(t, c.Add(job))
	assert.Error(t, c.Add(job), "adding the same job twice")
	assert.Error(t, c.Add(nil))
	assert.Error(t, c.Add(&Job{Command: "/opt/no-schedule.sh"}))
	assert.Len(t, c.Jobs(), 5)

	require.NoError(t, c.Remove(job))
	assert.Equal(t, ErrNotFound, c.Remove(job))
	assert.Equal(t, sample, c.String())
}

type failingTab struct {
	err error
}

func (f failingTab) Read(context.Context) (string, error) { return "", f.err }
func (f failingTab) Write(context.Context, string) error  { return f.err }

func TestCrontab_TabErrors(t *testing.T) {
	denied := errors.New("permission denied")

	_, err := Open(context.Background(), failingTab{err: denied})
	assert.ErrorIs(t, err, denied)

	c := &Crontab{tab: failingTab{err: denied}}
	assert.ErrorIs(t, c.Persist(context.Background()), denied)
}
