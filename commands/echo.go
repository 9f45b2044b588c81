package commands

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/josephlewis42/rshell/core/vos"
)

var (
	unescapeOctal   = regexp.MustCompile(`\\0[0-8][0-8]?[0-8]?`)
	unescapeHex     = regexp.MustCompile(`\\x[0-9a-fA-F][0-9a-fA-F]?`)
	unescapeReplace = strings.NewReplacer(
		`\n`, "\n", // newline
		`\r`, "\r", // carriage return
		`\t`, "\t", // horizontal tab
		`\\`, `\`, // backslash literal
		`\b`, "\b", // backspace
		`\a`, "\a", // alert
		`\f`, "\f", // form feed
		`\v`, "\v", // vertical tab
	)
)

func unescape(s string) string {
	s = unescapeReplace.Replace(s)
	s = unescapeOctal.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 8, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	s = unescapeHex.ReplaceAllStringFunc(s, func(arg string) string {
		out, err := strconv.ParseInt(arg[2:], 16, 8)
		if err != nil {
			return arg
		}
		return string(rune(out))
	})
	return s
}

// Echo writes its arguments separated by spaces.
func Echo(proc *vos.Proc) int {
	cmd := &SimpleCommand{
		Use:   "echo [-ne] [ARG] ...",
		Short: "Display a line of text.",
	}

	opts := cmd.Flags()
	escaped := opts.Bool('e', "interpret backslash escapes")
	noNewline := opts.Bool('n', "do not output the trailing newline")

	return cmd.Run(proc, func() int {
		line := strings.Join(opts.Args(), " ")
		if *escaped {
			line = unescape(line)
		}
		if !*noNewline {
			line += "\n"
		}

		if _, err := io.WriteString(proc.Stdout, line); err != nil {
			fmt.Fprintf(proc.Stderr, "echo: write error: %v\n", err)
			return 1
		}
		return 0
	})
}

var _ vos.ProcessFunc = Echo

func init() {
	mustAddBinCmd("echo", Echo)
}
