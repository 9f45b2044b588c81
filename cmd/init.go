package cmd

import (
	"github.com/josephlewis42/rshell/core/config"
	"github.com/josephlewis42/rshell/core/logger"
	"github.com/spf13/cobra"
)

// initCmd intializes the configuration
var initCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Write the default configuration to DIR, the current directory by default.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		log, err := logger.New(logger.Options{Level: "info", Output: cmd.ErrOrStderr()})
		if err != nil {
			return err
		}

		_, err = config.Initialize(dir, log)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
