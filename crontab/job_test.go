package crontab

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Job
	}{
		{
			line: "*/5 * * * * /usr/bin/backup",
			want: Job{Minutes: "*/5", Hours: "*", DayOfMonth: "*", Months: "*", DayOfWeek: "*", Command: "/usr/bin/backup"},
		},
		{
			line: "0 3\t1-15 JAN,JUL mon-fri   php /srv/collect.php --full # nightly collector",
			want: Job{Minutes: "0", Hours: "3", DayOfMonth: "1-15", Months: "JAN,JUL", DayOfWeek: "mon-fri", Command: "php /srv/collect.php --full", Comments: "nightly collector"},
		},
		{
			line: "@daily /opt/report.sh",
			want: Job{Shortcut: "@daily", Command: "/opt/report.sh"},
		},
		{
			line: "@reboot /opt/warmup.sh #warm caches",
			want: Job{Shortcut: "@reboot", Command: "/opt/warmup.sh", Comments: "warm caches"},
		},
		{
			line: "#30 2 * * 0 /opt/weekly.sh # paused",
			want: Job{Minutes: "30", Hours: "2", DayOfMonth: "*", Months: "*", DayOfWeek: "0", Command: "/opt/weekly.sh", Comments: "paused", Disabled: true},
		},
		{
			line: "0 5 * * 7 /opt/sunday.sh",
			want: Job{Minutes: "0", Hours: "5", DayOfMonth: "*", Months: "*", DayOfWeek: "7", Command: "/opt/sunday.sh"},
		},
		{
			line: "* * * * * '/srv/a #b/job.sh' # [Created by autocron]",
			want: Job{Minutes: "*", Hours: "*", DayOfMonth: "*", Months: "*", DayOfWeek: "*", Command: "'/srv/a #b/job.sh'", Comments: "[Created by autocron]"},
		},
		{
			line: `* * * * * echo "x #y" 'it'\''s #z' # done`,
			want: Job{Minutes: "*", Hours: "*", DayOfMonth: "*", Months: "*", DayOfWeek: "*", Command: `echo "x #y" 'it'\''s #z'`, Comments: "done"},
		},
		{
			line: "0 0 * * * echo a#b",
			want: Job{Minutes: "0", Hours: "0", DayOfMonth: "*", Months: "*", DayOfWeek: "*", Command: "echo a#b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			job, err := ParseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *job)
		})
	}
}

func TestParseLine_Invalid(t *testing.T) {
	lines := []string{
		"",
		"#",
		"MAILTO=root",
		"SHELL=/bin/bash",
		"# m h  dom mon dow   command",
		"# Edit this file to introduce tasks to be run by cron.",
		"* * * * *",
		"@daily",
		"@every 5m /opt/job.sh",
		"@fortnightly /opt/job.sh",
		"61 * * * * /opt/job.sh",
		"* * * * * # only a comment",
		"TZ=UTC * * * * /opt/job.sh",
		"0 5 ? * * /opt/job.sh",
		"0 5 * * 8 /opt/job.sh",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := ParseLine(line)
			require.Error(t, err)
			assert.Equal(t, ErrInvalidLine, errors.Cause(err))
		})
	}
}

func TestJob_Line_RoundTrip(t *testing.T) {
	lines := []string{
		"*/5 * * * * /usr/bin/backup",
		"0 3 1-15 JAN,JUL mon-fri php /srv/collect.php --full # nightly collector",
		"@reboot /opt/warmup.sh",
		"#30 2 * * 0 /opt/weekly.sh # paused",
	}

	for _, line := range lines {
		job, err := ParseLine(line)
		require.NoError(t, err)
		assert.Equal(t, line, job.Line())
		assert.Equal(t, line, job.String())
	}
}

func TestJob_Validate(t *testing.T) {
	valid := Job{Minutes: "0", Hours: "*", DayOfMonth: "*", Months: "*", DayOfWeek: "*", Command: "true"}
	assert.NoError(t, valid.Validate())

	reboot := Job{Shortcut: Reboot, Command: "true"}
	assert.NoError(t, reboot.Validate())

	missingField := valid
	missingField.Hours = ""
	assert.Error(t, missingField.Validate())

	spacedField := valid
	spacedField.Hours = "1 2"
	assert.Error(t, spacedField.Validate())

	multiline := valid
	multiline.Comments = "one\ntwo"
	assert.Error(t, multiline.Validate())

	noCommand := valid
	noCommand.Command = "  "
	assert.Error(t, noCommand.Validate())
}

func TestNewJob(t *testing.T) {
	job, err := NewJob("*/5 * * * *", "'/srv/a #b/job.sh'")
	require.NoError(t, err)
	assert.Equal(t, "'/srv/a #b/job.sh'", job.Command)
	assert.Empty(t, job.Comments)

	job.Comments = "note"
	parsed, err := ParseLine(job.Line())
	require.NoError(t, err)
	assert.Equal(t, *job, *parsed)

	job, err = NewJob(" @hourly ", "/opt/job.sh")
	require.NoError(t, err)
	assert.Equal(t, "@hourly", job.Shortcut)

	for _, schedule := range []string{"", "* * * *", "* * * * * *", "@every 5m", "0 5 ? * *"} {
		_, err := NewJob(schedule, "/opt/job.sh")
		assert.Equal(t, ErrInvalidLine, errors.Cause(err), schedule)
	}
}

func TestParseSchedule_SundayAsSeven(t *testing.T) {
	friday := time.Date(2026, 10, 16, 10, 7, 0, 0, time.UTC)

	tests := []struct {
		expr string
		want []time.Time
	}{
		{expr: "0 5 * * 7", want: []time.Time{
			time.Date(2026, 10, 18, 5, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 25, 5, 0, 0, 0, time.UTC),
		}},
		{expr: "0 5 * * 5-7", want: []time.Time{
			time.Date(2026, 10, 17, 5, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 18, 5, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 23, 5, 0, 0, 0, time.UTC),
		}},
		{expr: "0 5 * * 1-7/3", want: []time.Time{
			time.Date(2026, 10, 18, 5, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 19, 5, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 22, 5, 0, 0, 0, time.UTC),
		}},
		{expr: "0 5 * * mon,7", want: []time.Time{
			time.Date(2026, 10, 18, 5, 0, 0, 0, time.UTC),
			time.Date(2026, 10, 19, 5, 0, 0, 0, time.UTC),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			schedule, err := ParseSchedule(tt.expr)
			require.NoError(t, err)

			at := friday
			for _, want := range tt.want {
				at = schedule.Next(at)
				assert.Equal(t, want, at)
			}
		})
	}
}

func TestParseSchedule_QuestionMark(t *testing.T) {
	_, err := ParseSchedule("0 5 ? * *")
	assert.Equal(t, ErrInvalidLine, errors.Cause(err))
}

func TestJob_SetTiming(t *testing.T) {
	job, err := ParseLine("0 1 * * * /opt/job.sh # keep me")
	require.NoError(t, err)

	job.SetTiming(&Job{Minutes: "15", Hours: "4", DayOfMonth: "1", Months: "*/2", DayOfWeek: "*", Command: "ignored", Comments: "ignored"})
	assert.Equal(t, "15 4 1 */2 * /opt/job.sh # keep me", job.Line())

	job.SetTiming(&Job{Shortcut: "@weekly"})
	assert.Equal(t, "@weekly /opt/job.sh # keep me", job.Line())
}

func TestJob_Next(t *testing.T) {
	now := time.Date(2026, 10, 16, 10, 7, 0, 0, time.UTC)

	job := &Job{Minutes: "30", Hours: "*", DayOfMonth: "*", Months: "*", DayOfWeek: "*", Command: "true"}
	assert.Equal(t, time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC), job.MustNext(now))

	daily := &Job{Shortcut: "@daily", Command: "true"}
	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), daily.MustNext(now))

	reboot := &Job{Shortcut: Reboot, Command: "true"}
	_, err := reboot.Next(now)
	assert.Equal(t, ErrNoNextRun, err)
	assert.Panics(t, func() { reboot.MustNext(now) })
}

func TestSortByNext(t *testing.T) {
	expressions := []string{
		"0 12 * * * /opt/noon",
		"@reboot /opt/boot",
		"#* * * * * /opt/paused",
		"45 10 * * * /opt/quarter-to",
		"*/10 * * * * /opt/often",
		"0 0 1 1 * /opt/new-year",
	}

	var jobs []*Job
	for _, exp := range expressions {
		job, err := ParseLine(exp)
		require.NoError(t, err)
		jobs = append(jobs, job)
	}

	SortByNext(jobs, time.Date(2026, 10, 16, 10, 7, 0, 0, time.UTC))

	wantedOrder := []string{
		"/opt/often",
		"/opt/quarter-to",
		"/opt/noon",
		"/opt/new-year",
		"/opt/boot",
		"/opt/paused",
	}

	for i, job := range jobs {
		assert.Equal(t, wantedOrder[i], job.Command)
	}
}
