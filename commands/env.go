package commands

import (
	"fmt"
	"sort"

	"github.com/josephlewis42/rshell/core/vos"
)

// Env implements the printing form of the POSIX env command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/env.html
func Env(proc *vos.Proc) int {
	cmd := &SimpleCommand{
		Use:   "env",
		Short: "Print the environment.",
	}

	return cmd.Run(proc, func() int {
		env := proc.Env.Environ()
		sort.Strings(env)
		for _, envDef := range env {
			fmt.Fprintln(proc.Stdout, envDef)
		}

		return 0
	})
}

var _ vos.ProcessFunc = Env

func init() {
	mustAddBinCmd("env", Env)
}
