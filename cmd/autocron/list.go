package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaiserkarel/go-autocron/crontab"
)

var (
	listMatch string
	listSort  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List crontab entries with their next run",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listMatch, "match", "", "only entries matching this regular expression")
	listCmd.Flags().BoolVar(&listSort, "sort", false, "order by next run instead of crontab order")
}

func runList(cmd *cobra.Command, args []string) error {
	c, err := crontab.Open(cmd.Context(), tab())
	if err != nil {
		return err
	}

	jobs := c.Jobs()
	if listMatch != "" {
		if jobs, err = c.FindByRegex(listMatch); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if len(jobs) == 0 {
		fmt.Fprintln(out, "No jobs found")
		return nil
	}

	now := time.Now()
	if listSort {
		crontab.SortByNext(jobs, now)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NEXT RUN\tENTRY")
	for _, job := range jobs {
		fmt.Fprintf(w, "%s\t%s\n", nextRun(job, now), job.Line())
	}
	return w.Flush()
}

func nextRun(job *crontab.Job, now time.Time) string {
	if job.Disabled {
		return "disabled"
	}
	next, err := job.Next(now)
	if err != nil {
		return job.Expression()
	}
	return next.Format("2006-01-02 15:04")
}
