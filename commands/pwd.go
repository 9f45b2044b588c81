package commands

import (
	"fmt"

	"github.com/josephlewis42/rshell/core/vos"
)

// Pwd implements the UNIX pwd command.
func Pwd(proc *vos.Proc) int {
	cmd := &SimpleCommand{
		Use:   "pwd",
		Short: "Print the name of the current working directory.",
	}

	return cmd.RunE(proc, func() error {
		pwd, err := proc.Getwd()
		if err != nil {
			return err
		}
		fmt.Fprintln(proc.Stdout, pwd)
		return nil
	})
}

var _ vos.ProcessFunc = Pwd

func init() {
	mustAddBinCmd("pwd", Pwd)
}
