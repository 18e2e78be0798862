package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	autocron "github.com/kaiserkarel/go-autocron"
	"github.com/kaiserkarel/go-autocron/internal/config"
)

var (
	registerComment  string
	registerDisabled bool
)

var registerCmd = &cobra.Command{
	Use:   "register <id> <script> <schedule>",
	Short: "Add or update the cron entry for a script",
	Example: `  autocron register nightly-export ./export.sh "15 3 * * *"
  autocron register collect /srv/collect.php @hourly --interpreter /usr/bin/php`,
	Args: cobra.ExactArgs(3),
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&registerComment, "comment", "", "comment stored with a new entry")
	registerCmd.Flags().BoolVar(&registerDisabled, "disabled", false, "write a new entry commented out")
}

func runRegister(cmd *cobra.Command, args []string) error {
	r, err := newRegistrar("", "", "")
	if err != nil {
		return err
	}
	defer r.Close()

	job, err := scheduleJob(cmd.Context(), r, config.Job{
		ID:       args[0],
		Script:   args[1],
		Schedule: args[2],
		Comment:  registerComment,
		Disabled: registerDisabled,
	})
	if err != nil {
		return err
	}

	printJob(cmd.OutOrStdout(), job)
	return nil
}

// scheduleJob registers a manifest job. A plain schedule string is enough
// unless the entry needs a comment or is disabled.
func scheduleJob(ctx context.Context, r *autocron.Registrar, job config.Job) (*autocron.Job, error) {
	if job.Comment == "" && !job.Disabled {
		return r.Schedule(ctx, job.ID, job.Script, job.Schedule)
	}

	script, err := filepath.Abs(job.Script)
	if err != nil {
		return nil, err
	}
	entry, err := job.Entry(r.Command(script))
	if err != nil {
		return nil, err
	}
	return r.Schedule(ctx, job.ID, job.Script, entry)
}

func printJob(w io.Writer, job *autocron.Job) {
	action := "updated"
	if job.Created {
		action = "created"
	}
	fmt.Fprintf(w, "%s %s\n  %s\n", action, job.ID, job.Entry.Line())
}
