package main

import (
	"fmt"
	"os"

	"gopower/internal"
	"gopower/internal/config"
	"gopower/internal/container"
	"gopower/internal/errors"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(errors.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "gopower",
		Short:         "F-test power analysis and regression diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if envFile != "" {
				config.LoadDotEnv(envFile)
			} else {
				config.LoadDotEnv()
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file (default .env)")

	rootCmd.AddCommand(
		newSolveCmd(),
		newCurveCmd(),
		newDiagnoseCmd(),
	)
	return rootCmd
}

// newContainer builds the services from the environment. The CLI never
// connects to the history database.
func newContainer() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLoggerTo(os.Stderr, internal.ParseLogLevel(cfg.LogLevel))
	return container.New(cfg, logger)
}
