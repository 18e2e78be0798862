/*
Package crontab reads, edits and writes crontab tables. It understands job
entries (five timing fields or a descriptor, a command, a trailing comment,
and commented-out entries). Every other line is kept verbatim.
*/
package crontab

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/wasilibs/go-re2"
)

type line struct {
	raw string
	job *Job

	// parsed is the job as read, so untouched entries keep their original text.
	parsed Job
}

func (l line) String() string {
	if l.job == nil || *l.job == l.parsed {
		return l.raw
	}
	return l.job.Line()
}

// Crontab is an ordered view of a Tab. Jobs returned by it are live: changes
// to them, and calls to Add and Remove, are written by Persist.
type Crontab struct {
	tab   Tab
	lines []line
}

// Open reads and parses the crontab held by tab.
func Open(ctx context.Context, tab Tab) (*Crontab, error) {
	content, err := tab.Read(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read crontab")
	}
	return &Crontab{tab: tab, lines: parse(content)}, nil
}

func parse(content string) []line {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}

	raws := strings.Split(content, "\n")
	lines := make([]line, 0, len(raws))
	for _, raw := range raws {
		l := line{raw: raw}
		if job, err := ParseLine(raw); err == nil {
			l.job = job
			l.parsed = *job
		}
		lines = append(lines, l)
	}
	return lines
}

// Jobs returns the job entries in crontab order.
func (c *Crontab) Jobs() []*Job {
	var jobs []*Job
	for _, l := range c.lines {
		if l.job != nil {
			jobs = append(jobs, l.job)
		}
	}
	return jobs
}

// FindByRegex returns the jobs whose formatted line matches pattern (RE2 syntax).
func (c *Crontab) FindByRegex(pattern string) ([]*Job, error) {
	re, err := re2.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "compile %q", pattern)
	}

	var jobs []*Job
	for _, job := range c.Jobs() {
		if re.MatchString(job.Line()) {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

// Add appends job to the crontab.
func (c *Crontab) Add(job *Job) error {
	if job == nil {
		return errors.New("crontab: nil job")
	}
	if err := job.Validate(); err != nil {
		return err
	}
	if c.index(job) >= 0 {
		return errors.Errorf("crontab: job %q already added", job.Line())
	}

	c.lines = append(c.lines, line{job: job})
	return nil
}

// Remove deletes job from the crontab.
func (c *Crontab) Remove(job *Job) error {
	i := c.index(job)
	if i < 0 {
		return ErrNotFound
	}

	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

func (c *Crontab) index(job *Job) int {
	for i, l := range c.lines {
		if l.job != nil && l.job == job {
			return i
		}
	}
	return -1
}

// Persist writes the whole crontab back to its Tab.
func (c *Crontab) Persist(ctx context.Context) error {
	for _, job := range c.Jobs() {
		if err := job.Validate(); err != nil {
			return errors.Wrap(err, "persist crontab")
		}
	}
	if err := c.tab.Write(ctx, c.String()); err != nil {
		return errors.Wrap(err, "write crontab")
	}
	return nil
}

// String renders the crontab with a trailing newline, which cron requires.
func (c *Crontab) String() string {
	if len(c.lines) == 0 {
		return ""
	}

	var b strings.Builder
	for _, l := range c.lines {
		b.WriteString(l.String())
		b.WriteString("\n")
	}
	return b.String()
}
