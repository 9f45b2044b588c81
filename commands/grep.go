package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/josephlewis42/rshell/core/vos"
)

// Grep implements the POSIX grep command. It exits 0 if a line was
// selected, 1 if none were and 2 on error.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/grep.html
func Grep(proc *vos.Proc) int {
	cmd := &SimpleCommand{
		Use:   "grep [-inv] PATTERN [FILE]...",
		Short: "Search files for text matching a pattern.",
	}

	invert := cmd.Flags().Bool('v', "Select lines not matching any of the specified patterns.")
	ignoreCase := cmd.Flags().Bool('i', "Perform pattern matching in searches without regard to case.")
	showLineNumbers := cmd.Flags().Bool('n', "Show line numbers.")

	return cmd.Run(proc, func() int {
		args := cmd.Flags().Args()
		if len(args) == 0 {
			fmt.Fprintf(proc.Stderr, "grep: %v\n", errors.New("missing argument PATTERN"))
			return 2
		}

		pattern := args[0]
		if *ignoreCase {
			pattern = "(?i)" + pattern
		}
		regex, err := regexp.Compile(pattern)
		if err != nil {
			fmt.Fprintf(proc.Stderr, "grep: %v\n", err)
			return 2
		}

		files := args[1:]
		if len(files) == 0 {
			files = []string{"-"}
		}
		showFileName := len(files) > 1

		search := func(name string, r io.Reader) (bool, error) {
			matched := false
			scanner := bufio.NewScanner(r)
			for lineNo := 1; scanner.Scan(); lineNo++ {
				line := scanner.Bytes()
				if regex.Match(line) == *invert {
					continue
				}

				matched = true
				if showFileName {
					fmt.Fprintf(proc.Stdout, "%s:", name)
				}
				if *showLineNumbers {
					fmt.Fprintf(proc.Stdout, "%d:", lineNo)
				}
				fmt.Fprintf(proc.Stdout, "%s\n", line)
			}
			return matched, scanner.Err()
		}

		status := 1
		for _, name := range files {
			matched, err := grepFile(proc, name, search)
			switch {
			case err != nil:
				fmt.Fprintf(proc.Stderr, "grep: %v\n", err)
				status = 2
			case matched && status == 1:
				status = 0
			}
		}
		return status
	})
}

func grepFile(proc *vos.Proc, name string, search func(string, io.Reader) (bool, error)) (bool, error) {
	if name == "-" {
		return search("(standard input)", proc.Stdin)
	}

	fd, err := proc.FS.Open(name)
	if err != nil {
		return false, err
	}
	defer fd.Close()

	return search(name, fd)
}

var _ vos.ProcessFunc = Grep

func init() {
	mustAddBinCmd("grep", Grep)
}
