package commands

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/josephlewis42/rshell/core/vos"
)

// AllBuiltins holds the shell builtins keyed by name. Builtins run inside the
// interpreter process and may change its state.
var AllBuiltins = make(map[string]vos.ProcessFunc)

var builtinSummaries = map[string]string{
	"[":    "evaluate a conditional expression ending in ]",
	"cd":   "change the working directory",
	"exit": "exit the shell",
	"help": "display information about builtin commands",
	"test": "evaluate a conditional expression",
}

// LookupBuiltin returns the builtin called name, or nil if there isn't one.
func LookupBuiltin(name string) vos.ProcessFunc {
	return AllBuiltins[name]
}

var _ vos.ProcessResolver = LookupBuiltin

// BuiltinNames returns the sorted builtin names.
func BuiltinNames() []string {
	var out []string
	for name := range AllBuiltins {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// BuiltinSummary returns a one line description of a builtin.
func BuiltinSummary(name string) string {
	return builtinSummaries[name]
}

// Exit asks the interpreter to stop. The status defaults to 0 and is taken
// modulo 256.
func Exit(proc *vos.Proc) int {
	args := proc.Args()
	switch len(args) {
	case 1:
		proc.Exit(0)
		return 0
	case 2:
		code, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(proc.Stderr, "%s: %s: numeric argument required\n", args[0], args[1])
			return 2
		}
		proc.Exit(code & 0xff)
		return code & 0xff
	default:
		fmt.Fprintf(proc.Stderr, "%s: too many arguments\n", args[0])
		return 1
	}
}

// Cd is the cd shell builtin
func Cd(proc *vos.Proc) int {
	args := proc.Args()
	switch len(args) {
	case 1:
		home := proc.Env.Getenv("HOME")
		if home == "" {
			fmt.Fprintf(proc.Stderr, "%s: HOME not set\n", args[0])
			return 1
		}
		args = append(args, home)
		fallthrough
	case 2:
		if err := proc.Chdir(args[1]); err != nil {
			fmt.Fprintf(proc.Stderr, "%s: %v\n", args[0], err)
			return 1
		}
	default:
		fmt.Fprintf(proc.Stderr, "%s: too many arguments\n", args[0])
		return 1
	}
	return 0
}

// Help lists the builtins.
func Help(proc *vos.Proc) int {
	cmd := &SimpleCommand{
		Use:   "help [--color=WHEN]",
		Short: "Display information about builtin commands.",
	}

	var colors ColorPrinter
	colors.Init(cmd.Flags(), proc)

	return cmd.Run(proc, func() int {
		w := proc.Stdout
		fmt.Fprintln(w, "rshell, a POSIX-style command interpreter.")
		fmt.Fprintln(w, "These shell commands are defined internally.")
		fmt.Fprintln(w)

		for _, name := range BuiltinNames() {
			fmt.Fprintf(w, "  %s %s\n", colors.Sprintf(ColorBoldBlue, "%-6s", name), BuiltinSummary(name))
		}

		return 0
	})
}

func init() {
	AllBuiltins["exit"] = Exit
	AllBuiltins["test"] = Test
	AllBuiltins["["] = Test
	AllBuiltins["cd"] = Cd
	AllBuiltins["help"] = Help
}
