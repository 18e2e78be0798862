package crontab

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// DefaultBinary is the crontab(1) executable used by CommandTab.
const DefaultBinary = "crontab"

// CommandTab reads and writes a user's crontab through crontab(1). The
// binary does its own locking and installs the new table atomically.
type CommandTab struct {
	// Binary defaults to DefaultBinary.
	Binary string

	// User is passed as -u when set. Editing another user's crontab usually requires root.
	User string
}

// Read runs crontab -l. A user without a crontab reads as empty.
func (c CommandTab) Read(ctx context.Context) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary(), c.args("-l")...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(strings.ToLower(msg), "no crontab for") {
			return "", nil
		}
		return "", errors.Wrapf(err, "%s -l: %s", c.binary(), msg)
	}
	return stdout.String(), nil
}

// Write installs content with crontab -.
func (c CommandTab) Write(ctx context.Context, content string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary(), c.args("-")...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s -: %s", c.binary(), strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (c CommandTab) binary() string {
	if c.Binary == "" {
		return DefaultBinary
	}
	return c.Binary
}

func (c CommandTab) args(op string) []string {
	if c.User != "" {
		return []string{"-u", c.User, op}
	}
	return []string{op}
}
