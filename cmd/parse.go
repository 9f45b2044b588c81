package cmd

import (
	"fmt"
	"strings"

	"github.com/josephlewis42/rshell/core/shell"
	"github.com/spf13/cobra"
)

var showTokens bool

// parseCmd prints the command tree for a line without running it
var parseCmd = &cobra.Command{
	Use:   "parse LINE...",
	Short: "Print the command tree a line parses to.",
	Long: `Joins the arguments with spaces, parses the result and prints the
command tree. Nothing is executed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		line := strings.Join(args, " ")

		tokens, err := shell.Tokenize(line)
		if err != nil {
			return err
		}

		if showTokens {
			for _, tok := range tokens {
				fmt.Fprintln(cmd.OutOrStdout(), tok)
			}
			return nil
		}

		tree, err := shell.Parse(tokens)
		if err != nil {
			return err
		}
		return shell.Dump(cmd.OutOrStdout(), tree)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&showTokens, "tokens", false, "print the tokens instead of the tree")
}
