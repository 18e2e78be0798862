package main

import (
	"github.com/spf13/cobra"

	autocron "github.com/kaiserkarel/go-autocron"
	"github.com/kaiserkarel/go-autocron/crontab"
	"github.com/kaiserkarel/go-autocron/internal/logger"
)

var (
	crontabFile string
	crontabUser string
	schema      string
	interpreter string
	logFile     string
	logLevel    string
	logFormat   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autocron",
	Short: "Register scripts as recurring cron jobs",
	Long: `autocron writes crontab entries for scripts. Each entry carries a job ID
derived from the job identifier, script, schema and log destination, so
registering the same job again updates its schedule instead of adding a copy.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&crontabFile, "crontab-file", "", "edit this file instead of the user's crontab")
	flags.StringVar(&crontabUser, "user", "", "edit this user's crontab (crontab -u)")
	flags.StringVar(&schema, "schema", "", "namespace hashed into job IDs")
	flags.StringVar(&interpreter, "interpreter", "", "run scripts through this interpreter, e.g. /usr/bin/php")
	flags.StringVar(&logFile, "log", "", "log file; also hashed into job IDs")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "text", "log format: text, json")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
}

func tab() crontab.Tab {
	if crontabFile != "" {
		return crontab.FileTab{Path: crontabFile}
	}
	return crontab.CommandTab{User: crontabUser}
}

// newRegistrar builds a registrar from the global flags. Non-empty arguments
// override the matching flag.
func newRegistrar(schemaOverride, interpreterOverride, logOverride string) (*autocron.Registrar, error) {
	l, err := logger.New(logger.Config{Level: logLevel, Format: logFormat, Output: "stderr"})
	if err != nil {
		return nil, err
	}

	opts := []autocron.Option{
		autocron.WithTab(tab()),
		autocron.WithSchema(pick(schemaOverride, schema)),
		autocron.WithInterpreter(pick(interpreterOverride, interpreter)),
		autocron.WithLogger(l.Slog()),
	}
	if dest := pick(logOverride, logFile); dest != "" {
		opts = append(opts, autocron.WithLogFile(dest))
	}
	return autocron.New(opts...)
}

func pick(override, flag string) string {
	if override != "" {
		return override
	}
	return flag
}
