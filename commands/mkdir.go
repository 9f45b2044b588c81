package commands

import (
	"fmt"
	"os"

	"github.com/josephlewis42/rshell/core/vos"
)

// Mkdir implements a POSIX mkdir command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/mkdir.html
func Mkdir(proc *vos.Proc) int {
	cmd := &SimpleCommand{
		Use:   "mkdir [OPTION...] DIRECTORY...",
		Short: "Create directories if they don't exist.",
	}

	makeParents := cmd.Flags().BoolLong("parents", 'p', "make parents if needed")
	verbose := cmd.Flags().BoolLong("verbose", 'v', "print line for every created directory")

	return cmd.Run(proc, func() int {
		directories := cmd.Flags().Args()
		if len(directories) == 0 {
			fmt.Fprintln(proc.Stderr, "mkdir: missing operand")
			return 1
		}

		var op func(path string, perm os.FileMode) error
		if *makeParents {
			op = proc.FS.MkdirAll
		} else {
			op = proc.FS.Mkdir
		}

		status := 0
		for _, dir := range directories {
			err := op(dir, 0777)
			switch {
			case err != nil:
				fmt.Fprintf(proc.Stderr, "mkdir: cannot create directory %q: %s\n", dir, err)
				status = 1

			case *verbose:
				fmt.Fprintf(proc.Stdout, "mkdir: created directory %q\n", dir)
			}
		}

		return status
	})
}

var _ vos.ProcessFunc = Mkdir

func init() {
	mustAddBinCmd("mkdir", Mkdir)
}
