package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephlewis42/rshell/core/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Explore the event log.",
}

var reportCommand = &cobra.Command{
	Use:   "report [FILE]",
	Short: "Show a report of events, from FILE or the configured event log.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		path := ""
		if len(args) > 0 {
			path = args[0]
		} else {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			path = config.EventLogPath()
		}
		if path == "" {
			return errors.New("no event log configured, set event_log or pass a file")
		}

		fd, err := os.Open(path)
		if err != nil {
			return err
		}
		defer fd.Close()

		report := logger.NewReport()
		if err := logger.ReadJSONLinesLog(fd, report.Update); err != nil {
			return err
		}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), string(out))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(reportCommand)
}
