package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kaiserkarel/go-autocron/internal/config"
)

var applyConfig string

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Register every job in a YAML or TOML manifest",
	Args:  cobra.NoArgs,
	RunE:  runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyConfig, "config", "c", "", "manifest file (.yaml, .yml or .toml)")
	_ = applyCmd.MarkFlagRequired("config")
}

func runApply(cmd *cobra.Command, args []string) error {
	m, err := config.Load(applyConfig)
	if err != nil {
		return err
	}
	if errs := m.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", e)
		}
		return errors.Errorf("invalid manifest %s: %d problem(s)", applyConfig, len(errs))
	}

	r, err := newRegistrar(m.Schema, m.Interpreter, m.Log)
	if err != nil {
		return err
	}
	defer r.Close()

	failed := 0
	for _, job := range m.Jobs {
		registered, err := scheduleJob(cmd.Context(), r, job)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %v\n", job.ID, err)
			failed++
			continue
		}
		printJob(cmd.OutOrStdout(), registered)
	}

	if failed > 0 {
		return errors.Errorf("%d of %d job(s) failed", failed, len(m.Jobs))
	}
	return nil
}
