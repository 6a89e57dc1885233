package cmd

import (
	"fmt"
	"os"

	"scorehub/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "scorehub",
	Short: "ScoreHub Assignment Service",
	Long: `ScoreHub manages judge, tally-master and auditor assignments across
the events, contests and categories of a scoring platform.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format and debug level so CLI errors come out readable
		// with ISO8601 timestamps rather than JSON with epochs.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
