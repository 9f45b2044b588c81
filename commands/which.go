package commands

import (
	"fmt"
	"path"
	"strings"

	"github.com/josephlewis42/rshell/core/vos"
)

// Which implements the UNIX which command over the virtual programs.
func Which(proc *vos.Proc) int {
	cmd := &SimpleCommand{
		Use:   "which [COMMAND...]",
		Short: "Locate a command.",
	}

	return cmd.Run(proc, func() int {
		status := 0
		for _, arg := range cmd.Flags().Args() {
			resolved := arg
			if !strings.Contains(arg, "/") {
				resolved = path.Join("/bin", arg)
			}

			if LookupProgram(resolved) == nil {
				status = 1
				continue
			}
			fmt.Fprintln(proc.Stdout, resolved)
		}
		return status
	})
}

var _ vos.ProcessFunc = Which

func init() {
	mustAddBinCmd("which", Which)
}
