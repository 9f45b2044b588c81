package commands

import (
	"fmt"
	"io"

	"github.com/josephlewis42/rshell/core/vos"
)

// Cat implements the UNIX cat command. With no files, or a file named "-",
// it copies standard input.
func Cat(proc *vos.Proc) int {
	cmd := &SimpleCommand{
		Use:   "cat [OPTION]... [FILE]...",
		Short: "Concatenate FILE(s) to standard output.",
	}

	// Output is never buffered, accepted for compatibility.
	cmd.Flags().Bool('u', "ignored")

	return cmd.Run(proc, func() int {
		files := cmd.Flags().Args()
		if len(files) == 0 {
			files = []string{"-"}
		}

		status := 0
		for _, name := range files {
			if err := catFile(proc, name); err != nil {
				fmt.Fprintf(proc.Stderr, "cat: %v\n", err)
				status = 1
			}
		}
		return status
	})
}

func catFile(proc *vos.Proc, name string) error {
	if name == "-" {
		_, err := io.Copy(proc.Stdout, proc.Stdin)
		return err
	}

	fd, err := proc.FS.Open(name)
	if err != nil {
		return err
	}
	defer fd.Close()

	_, err = io.Copy(proc.Stdout, fd)
	return err
}

var _ vos.ProcessFunc = Cat

func init() {
	mustAddBinCmd("cat", Cat)
}
