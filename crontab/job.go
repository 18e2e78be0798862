package crontab

import (
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidLine is returned when a line is not a crontab job entry.
	ErrInvalidLine = errors.New("crontab: invalid line")

	// ErrNotFound is returned when removing a job that is not in the crontab.
	ErrNotFound = errors.New("crontab: job not found")

	// ErrNoNextRun is returned for schedules without a computable activation, such as @reboot.
	ErrNoNextRun = errors.New("crontab: schedule has no next run")
)

// Job specifies a single crontab entry: when to run, and what.
type Job struct {
	Minutes    string
	Hours      string
	DayOfMonth string
	Months     string
	DayOfWeek  string

	// Shortcut is a descriptor such as @daily. When set it replaces the five timing fields.
	Shortcut string

	// Command is passed to the shell by cron.
	Command string

	// Comments trail the command after a #.
	Comments string

	// Disabled entries are written commented out.
	Disabled bool
}

// ParseLine parses a single crontab line of the form
//
//	[#]<timing> <command>[ # <comments>]
//
// where timing is five fields or a descriptor. Comments start at the first #
// preceded by whitespace and outside of quotes, as the shell would see it.
func ParseLine(line string) (*Job, error) {
	s := strings.TrimSpace(line)
	job := &Job{}
	if strings.HasPrefix(s, "#") {
		job.Disabled = true
		s = strings.TrimSpace(s[1:])
	}

	var rest string
	if strings.HasPrefix(s, "@") {
		fields, r, ok := splitFields(s, 1)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidLine, "%q", line)
		}
		job.Shortcut, rest = fields[0], r
	} else {
		fields, r, ok := splitFields(s, 5)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidLine, "%q", line)
		}
		job.Minutes, job.Hours, job.DayOfMonth, job.Months, job.DayOfWeek = fields[0], fields[1], fields[2], fields[3], fields[4]
		rest = r
	}

	job.Command, job.Comments = splitComment(rest)
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// splitFields cuts n whitespace separated fields off s. ok is false if s has
// fewer fields or nothing follows them.
func splitFields(s string, n int) (fields []string, rest string, ok bool) {
	for i := 0; i < n; i++ {
		s = strings.TrimLeft(s, " \t")
		idx := strings.IndexAny(s, " \t")
		if idx <= 0 {
			return nil, "", false
		}
		fields = append(fields, s[:idx])
		s = s[idx:]
	}
	rest = strings.TrimSpace(s)
	return fields, rest, rest != ""
}

// NewJob builds an entry from the timing portion of a line and a command,
// which is taken as is.
func NewJob(schedule, command string) (*Job, error) {
	job := &Job{Command: strings.TrimSpace(command)}
	switch fields := strings.Fields(schedule); {
	case len(fields) == 1 && strings.HasPrefix(fields[0], "@"):
		job.Shortcut = fields[0]
	case len(fields) == 5:
		job.Minutes, job.Hours, job.DayOfMonth, job.Months, job.DayOfWeek = fields[0], fields[1], fields[2], fields[3], fields[4]
	default:
		return nil, errors.Wrapf(ErrInvalidLine, "schedule %q", schedule)
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func splitComment(s string) (command, comments string) {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote == '\'':
			if c == '\'' {
				quote = 0
			}
		case c == '\\':
			i++
		case quote == '"':
			if c == '"' {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '#' && (i == 0 || s[i-1] == ' ' || s[i-1] == '\t'):
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:])
		}
	}
	return strings.TrimSpace(s), ""
}

// Expression returns the timing portion of the entry.
func (j *Job) Expression() string {
	if j.Shortcut != "" {
		return j.Shortcut
	}
	return strings.Join([]string{j.Minutes, j.Hours, j.DayOfMonth, j.Months, j.DayOfWeek}, " ")
}

// Line formats the job as a crontab line, without a trailing newline.
func (j *Job) Line() string {
	var b strings.Builder
	if j.Disabled {
		b.WriteString("#")
	}
	b.WriteString(j.Expression())
	b.WriteString(" ")
	b.WriteString(j.Command)
	if j.Comments != "" {
		b.WriteString(" # ")
		b.WriteString(j.Comments)
	}
	return b.String()
}

func (j *Job) String() string { return j.Line() }

// Validate reports whether the job can be written to a crontab.
func (j *Job) Validate() error {
	if strings.TrimSpace(j.Command) == "" {
		return errors.Wrap(ErrInvalidLine, "empty command")
	}
	if strings.ContainsAny(j.Command+j.Comments, "\r\n") {
		return errors.Wrap(ErrInvalidLine, "command and comments must be a single line")
	}
	if j.Shortcut == "" {
		for _, f := range []string{j.Minutes, j.Hours, j.DayOfMonth, j.Months, j.DayOfWeek} {
			if f == "" || strings.ContainsAny(f, " \t") {
				return errors.Wrapf(ErrInvalidLine, "schedule %q", j.Expression())
			}
		}
	}
	if _, err := ParseSchedule(j.Expression()); err != nil && errors.Cause(err) != ErrNoNextRun {
		return err
	}
	return nil
}

// SetTiming copies the schedule of other, leaving command and comments untouched.
func (j *Job) SetTiming(other *Job) {
	j.Minutes = other.Minutes
	j.Hours = other.Hours
	j.DayOfMonth = other.DayOfMonth
	j.Months = other.Months
	j.DayOfWeek = other.DayOfWeek
	j.Shortcut = other.Shortcut
}

// Next returns the time when the job runs next after t.
func (j *Job) Next(t time.Time) (time.Time, error) {
	schedule, err := ParseSchedule(j.Expression())
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(t), nil
}

// MustNext calls Next and panics if an error is returned.
func (j *Job) MustNext(t time.Time) time.Time {
	next, err := j.Next(t)
	if err != nil {
		panic(err)
	}
	return next
}

// ByNextRun orders jobs by their next activation after At. Jobs without one
// (@reboot, disabled) sort last.
type ByNextRun struct {
	Jobs []*Job
	At   time.Time
}

func (b ByNextRun) Len() int      { return len(b.Jobs) }
func (b ByNextRun) Swap(i, j int) { b.Jobs[i], b.Jobs[j] = b.Jobs[j], b.Jobs[i] }
func (b ByNextRun) Less(i, j int) bool {
	ti, erri := b.next(i)
	tj, errj := b.next(j)
	switch {
	case erri != nil:
		return false
	case errj != nil:
		return true
	}
	return ti.Before(tj)
}

func (b ByNextRun) next(i int) (time.Time, error) {
	if b.Jobs[i].Disabled {
		return time.Time{}, ErrNoNextRun
	}
	return b.Jobs[i].Next(b.At)
}

// SortByNext sorts jobs in place by next activation after now, preserving
// the crontab order of ties.
func SortByNext(jobs []*Job, now time.Time) {
	sort.Stable(ByNextRun{Jobs: jobs, At: now})
}
