package crontab

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// DefaultFileMode is used by FileTab when Mode is zero.
const DefaultFileMode os.FileMode = 0o600

// FileTab keeps the crontab in a plain file, for example a table under
// /etc/cron.d or one loaded later with crontab(1).
type FileTab struct {
	Path string
	Mode os.FileMode
}

// Read returns the file contents. A missing file reads as empty.
func (f FileTab) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "read %s", f.Path)
	}
	return string(data), nil
}

// Write replaces the file atomically: the content goes to a temporary file in
// the same directory which is synced and renamed over Path.
func (f FileTab) Write(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temporary crontab")
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "sync %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), f.mode()); err != nil {
		return errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return errors.Wrapf(err, "rename %s to %s", tmp.Name(), f.Path)
	}
	return nil
}

func (f FileTab) mode() os.FileMode {
	if f.Mode == 0 {
		return DefaultFileMode
	}
	return f.Mode
}
