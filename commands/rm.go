package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/josephlewis42/rshell/core/vos"
)

// Rm implements a POSIX rm command.
func Rm(proc *vos.Proc) int {
	cmd := &SimpleCommand{
		Use:   "rm [OPTION...] FILE...",
		Short: "Remove files or directories.",
	}

	recursive := cmd.Flags().BoolLong("recursive", 'r', "remove directories and their contents recursively")
	force := cmd.Flags().BoolLong("force", 'f', "ignore missing files and arguments, never prompt")

	return cmd.Run(proc, func() int {
		status := 0
		for _, file := range cmd.Flags().Args() {
			stat, statErr := proc.FS.Stat(file)
			switch {
			case errors.Is(statErr, fs.ErrNotExist):
				if !*force {
					fmt.Fprintf(proc.Stderr, "rm: can't remove %q: no such file or directory\n", file)
					status = 1
				}
			case statErr != nil:
				fmt.Fprintf(proc.Stderr, "rm: can't stat %q: %v\n", file, statErr)
				status = 1
			case stat.IsDir() && !*recursive:
				fmt.Fprintf(proc.Stderr, "rm: can't remove %q: is a directory\n", file)
				status = 1
			default:
				if err := proc.FS.RemoveAll(file); err != nil {
					fmt.Fprintf(proc.Stderr, "rm: can't remove %q: %v\n", file, err)
					status = 1
				}
			}
		}

		return status
	})
}

var _ vos.ProcessFunc = Rm

func init() {
	mustAddBinCmd("rm", Rm)
}
