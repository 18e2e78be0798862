package autocron

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/kaiserkarel/go-autocron/internal/logger"
)

// createdLayout formats the registration time recorded in new entries.
const createdLayout = "2006-01-02 03:04pm"

// createdComment appends the registration note to an entry's comment.
func createdComment(comments, id string, at time.Time) string {
	note := fmt.Sprintf("[Created by autocron (Job ID %s) %s]", id, at.Format(createdLayout))
	comments = strings.TrimSpace(comments)
	if comments == "" {
		return note
	}
	return comments + " " + note
}

// openLog opens a file logger for dest.
func openLog(dest string) (*logger.Logger, error) {
	if strings.TrimSpace(dest) == "" {
		return nil, constructionErrorf("invalid log file location %q", dest)
	}

	l, err := logger.New(logger.Config{Output: dest})
	if err != nil {
		return nil, constructionError(errors.Wrapf(err, "invalid log file location %q", dest))
	}
	return l, nil
}
