package crontab

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Schedule describes a job's duty cycle.
type Schedule interface {
	// Return the next activation time, later than the given time.
	Next(time.Time) time.Time
}

// Reboot is the descriptor for entries run once when the cron daemon starts.
const Reboot = "@reboot"

// descriptors understood by cron(8). robfig/cron also accepts @every, which
// crontab(5) does not.
var descriptors = map[string]struct{}{
	Reboot:      {},
	"@yearly":   {},
	"@annually": {},
	"@monthly":  {},
	"@weekly":   {},
	"@daily":    {},
	"@midnight": {},
	"@hourly":   {},
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule parses the timing portion of a crontab line, either five
// fields or a descriptor. @reboot is valid but has no computable activation,
// so it returns ErrNoNextRun.
func ParseSchedule(expr string) (Schedule, error) {
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "@") {
		if _, ok := descriptors[expr]; !ok {
			return nil, errors.Wrapf(ErrInvalidLine, "unknown descriptor %q", expr)
		}
		if expr == Reboot {
			return nil, ErrNoNextRun
		}
	}
	// robfig/cron reads a leading TZ= as a per-entry location and ? as *;
	// cron(8) accepts neither.
	if strings.ContainsAny(expr, "=?") {
		return nil, errors.Wrapf(ErrInvalidLine, "unsupported schedule %q", expr)
	}

	s, err := parser.Parse(sundayAsZero(expr))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidLine, "schedule %q: %v", expr, err)
	}
	return s, nil
}

// sundayAsZero rewrites a day of week of 7, which cron(8) reads as Sunday, to
// the 0 robfig/cron understands. Ranges ending at 7 are expanded.
func sundayAsZero(expr string) string {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return expr
	}

	parts := strings.Split(fields[4], ",")
	for i, part := range parts {
		rng, step, hasStep := strings.Cut(part, "/")
		lo, hi, isRange := strings.Cut(rng, "-")
		if !isRange {
			if rng == "7" && !hasStep {
				parts[i] = "0"
			}
			continue
		}
		if hi != "7" {
			continue
		}

		start, err := strconv.Atoi(lo)
		if err != nil || start < 0 || start > 7 {
			continue
		}
		n := 1
		if hasStep {
			if n, err = strconv.Atoi(step); err != nil || n < 1 {
				continue
			}
		}

		var days []string
		for d := start; d <= 7; d += n {
			days = append(days, strconv.Itoa(d%7))
		}
		parts[i] = strings.Join(days, ",")
	}
	fields[4] = strings.Join(parts, ",")
	return strings.Join(fields, " ")
}
