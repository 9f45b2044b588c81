package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/josephlewis42/rshell/core/vos"
)

// Touch implements a POSIX touch command.
func Touch(proc *vos.Proc) int {
	cmd := &SimpleCommand{
		Use:   "touch [OPTION...] FILE...",
		Short: "Update the access and modification times of files to now.",
	}

	// Both times are always set together.
	cmd.Flags().Bool('a', "only change the access time")
	cmd.Flags().Bool('m', "only change the modification time")

	noCreate := cmd.Flags().BoolLong("no-create", 'c', "don't create files")

	return cmd.Run(proc, func() int {
		paths := cmd.Flags().Args()
		if len(paths) == 0 {
			fmt.Fprintln(proc.Stderr, "touch: missing file operand")
			return 1
		}

		now := time.Now()

		status := 0
		for _, path := range paths {
			err := proc.FS.Chtimes(path, now, now)
			switch {
			case errors.Is(err, fs.ErrNotExist) && !*noCreate:
				fd, err := proc.FS.Create(path)
				if err != nil {
					fmt.Fprintf(proc.Stderr, "touch: cannot touch %q: %s\n", path, err)
					status = 1
					continue
				}
				fd.Close()
			case errors.Is(err, fs.ErrNotExist) && *noCreate:
				// Not an error.
			case err != nil:
				fmt.Fprintf(proc.Stderr, "touch: setting times of %q: %s\n", path, err)
				status = 1
			}
		}

		return status
	})
}

var _ vos.ProcessFunc = Touch

func init() {
	mustAddBinCmd("touch", Touch)
}
