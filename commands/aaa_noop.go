package commands

import (
	"fmt"

	"github.com/josephlewis42/rshell/core/vos"
)

// NoOpCommand describes a program that ignores its input and arguments.
type NoOpCommand struct {
	Name     string
	Use      string
	Short    string
	Stdout   string
	ExitCode int
}

// ToCommand converts the no-op command description to a functioning command.
func (c *NoOpCommand) ToCommand() vos.ProcessFunc {
	return func(proc *vos.Proc) int {
		cmd := &SimpleCommand{
			Use:   c.Use,
			Short: c.Short,
			// Never bail, even if args are bad.
			NeverBail: true,
		}

		return cmd.Run(proc, func() int {
			if c.Stdout != "" {
				fmt.Fprintln(proc.Stdout, c.Stdout)
			}

			return c.ExitCode
		})
	}
}

var noOpBinCommands = []NoOpCommand{
	{
		Name:  "true",
		Use:   "true [ignored command line arguments]",
		Short: "Exit with a status code indicating success.",
	},
	{
		Name:     "false",
		Use:      "false [ignored command line arguments]",
		Short:    "Exit with a status code indicating failure.",
		ExitCode: 1,
	},
}

func init() {
	for _, cmd := range noOpBinCommands {
		cmd := cmd
		mustAddBinCmd(cmd.Name, cmd.ToCommand())
	}
}
