package cmd

import (
	"fmt"
	"os"

	"s3-toolkit/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "s3-toolkit",
	Short: "S3 bucket and object toolkit",
	Long: `s3-toolkit manages S3 buckets and objects from the command line.
It creates and inspects buckets, uploads files (including multipart uploads),
manages versions and lifecycle rules, and publishes static websites.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// We default to console format to match user expectations (CLI tool)
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&envPath, "env-path", ".env", "Path to .env file")
}
