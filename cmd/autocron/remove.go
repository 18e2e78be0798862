package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <id> <script>",
	Short: "Remove the cron entries registered for a script",
	Long: `Remove the cron entries registered for a script. The job ID is derived
the same way as on registration, so pass the same --schema and --log.`,
	Args: cobra.ExactArgs(2),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	r, err := newRegistrar("", "", "")
	if err != nil {
		return err
	}
	defer r.Close()

	removed, err := r.Unregister(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	if removed == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no entries for %s\n", args[0])
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d entr%s for %s\n", removed, plural(removed, "y", "ies"), args[0])
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
