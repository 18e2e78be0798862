// Package config loads job manifests for `autocron apply`. A manifest is YAML
// (.yaml, .yml) or TOML (.toml), chosen by file extension.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/kaiserkarel/go-autocron/crontab"
)

// Manifest lists jobs to register together.
type Manifest struct {
	// Schema is hashed into derived identifiers.
	Schema string `yaml:"schema" toml:"schema"`

	// Interpreter runs every script, e.g. /usr/bin/php. Empty runs scripts directly.
	Interpreter string `yaml:"interpreter" toml:"interpreter"`

	// Log is the log file destination; it is hashed into derived identifiers too.
	Log string `yaml:"log" toml:"log"`

	Jobs []Job `yaml:"jobs" toml:"jobs"`
}

// Job is one manifest entry.
type Job struct {
	ID       string `yaml:"id" toml:"id"`
	Script   string `yaml:"script" toml:"script"`
	Schedule string `yaml:"schedule" toml:"schedule"`
	Comment  string `yaml:"comment" toml:"comment"`
	Disabled bool   `yaml:"disabled" toml:"disabled"`
}

// Load reads the manifest at path. Relative script paths are resolved
// against the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read manifest")
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(err, "failed to parse manifest")
		}
	case ".toml":
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrap(err, "failed to parse manifest")
		}
	default:
		return nil, errors.Errorf("unsupported manifest format %q (expected .yaml, .yml or .toml)", ext)
	}

	dir := filepath.Dir(path)
	for i := range m.Jobs {
		script := m.Jobs[i].Script
		if script != "" && !filepath.IsAbs(script) {
			m.Jobs[i].Script = filepath.Join(dir, script)
		}
	}
	return &m, nil
}

// Validate checks every job and returns all problems found.
func (m *Manifest) Validate() []error {
	var errs []error

	if len(m.Jobs) == 0 {
		errs = append(errs, errors.New("jobs: at least one job is required"))
	}

	seen := make(map[string]bool)
	for i, job := range m.Jobs {
		if job.ID == "" {
			errs = append(errs, errors.Errorf("jobs[%d].id is required", i))
		} else if seen[job.ID] {
			errs = append(errs, errors.Errorf("jobs[%d].id %q is duplicated", i, job.ID))
		}
		seen[job.ID] = true

		if job.Script == "" {
			errs = append(errs, errors.Errorf("jobs[%d].script is required", i))
		}

		if job.Schedule == "" {
			errs = append(errs, errors.Errorf("jobs[%d].schedule is required", i))
		} else if _, err := crontab.ParseSchedule(job.Schedule); err != nil && errors.Cause(err) != crontab.ErrNoNextRun {
			errs = append(errs, errors.Wrapf(err, "jobs[%d].schedule", i))
		}

		if strings.ContainsAny(job.Comment, "\r\n") {
			errs = append(errs, errors.Errorf("jobs[%d].comment must be a single line", i))
		}
	}
	return errs
}

// Entry builds the crontab entry for j with command as its command line.
func (j Job) Entry(command string) (*crontab.Job, error) {
	entry, err := crontab.NewJob(j.Schedule, command)
	if err != nil {
		return nil, errors.Wrapf(err, "job %q", j.ID)
	}
	entry.Comments = j.Comment
	entry.Disabled = j.Disabled
	return entry, nil
}
