package cmd

import (
	"fmt"
	"os"

	"academia-server-go/config"
	"academia-server-go/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envFile string

// NewRootCommand builds the academia command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "academia",
		Short:         "Academic records server: programs, courses, students, professors and grades",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "optional .env file to load")
	root.AddCommand(newServeCommand(), newDemoCommand())
	return root
}

// setup loads configuration and installs the global logger. The returned
// func flushes and restores the previous logger.
func setup() (*config.Config, func(), error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	undo := zap.ReplaceGlobals(logger)
	return cfg, func() {
		_ = logger.Sync()
		undo()
	}, nil
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
