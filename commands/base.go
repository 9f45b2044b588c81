// Package commands holds the shell builtins and the in-process programs the
// virtual executor runs.
package commands

import (
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/josephlewis42/rshell/core/vos"
	"github.com/mattn/go-isatty"
	getopt "github.com/pborman/getopt/v2"
)

// AllCommands holds the virtual programs keyed by their absolute path.
var AllCommands = make(map[string]vos.ProcessFunc)

// addBinCmd adds a command under /bin and /usr/bin.
func addBinCmd(name string, cmd vos.ProcessFunc) {
	AllCommands[path.Join("/bin", name)] = cmd
	AllCommands[path.Join("/usr/bin", name)] = cmd
}

// mustAddBinCmd is addBinCmd but panics if name is already taken.
func mustAddBinCmd(name string, cmd vos.ProcessFunc) {
	if _, ok := AllCommands[path.Join("/bin", name)]; ok {
		panic(fmt.Sprintf("duplicate command %q", name))
	}
	addBinCmd(name, cmd)
}

// LookupProgram resolves a virtual program by name or absolute path, it
// returns nil if there is no such program. It's a vos.ProcessResolver.
func LookupProgram(name string) vos.ProcessFunc {
	if !strings.Contains(name, "/") {
		name = path.Join("/bin", name)
	}
	return AllCommands[name]
}

var _ vos.ProcessResolver = LookupProgram

// ProgramNames lists the names of the virtual programs in /bin.
func ProgramNames() []string {
	var out []string
	for p := range AllCommands {
		if path.Dir(p) == "/bin" {
			out = append(out, path.Base(p))
		}
	}
	sort.Strings(out)
	return out
}

type SimpleCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a sone line description of the command.
	Short string
	// ShowHelp sets whether help is displayed or not.
	// If this is non-nil when Run() is called, then the default help flag isn't
	// added.
	ShowHelp *bool
	// NeverBail skips interacting with stdout/stderr on failure and
	// always runs the callback.
	NeverBail bool

	flags *getopt.Set
}

// Flags gets the command's flag set.
func (s *SimpleCommand) Flags() *getopt.Set {
	if s.flags == nil {
		s.flags = getopt.New()
	}

	return s.flags
}

// PrintHelp writes help for the command to the given writer.
func (s *SimpleCommand) PrintHelp(w io.Writer) {
	fmt.Fprint(w, "usage: ")
	fmt.Fprintln(w, s.Use)
	fmt.Fprintln(w, s.Short)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	s.Flags().PrintOptions(w)
}

// Run the command, if flag parsing was succcessful call the callback.
func (s *SimpleCommand) Run(proc *vos.Proc, callback func() int) int {
	opts := s.Flags()

	// Add help flag if not overridden.
	if s.ShowHelp == nil {
		s.ShowHelp = opts.BoolLong("help", 'h', "show this help and exit")
	}

	err := opts.Getopt(proc.Args(), nil)
	if err != nil && !s.NeverBail {
		fmt.Fprintf(proc.Stderr, "error: %s\n\n", err)

		s.PrintHelp(proc.Stdout)
		return 1
	}

	if *s.ShowHelp {
		s.PrintHelp(proc.Stdout)
		return 0
	}

	return callback()
}

// RunE is Run for callbacks that fail with an error, the error is written to
// stderr prefixed with the command name and the status is 1.
func (s *SimpleCommand) RunE(proc *vos.Proc, callback func() error) int {
	return s.Run(proc, func() int {
		if err := callback(); err != nil {
			fmt.Fprintf(proc.Stderr, "%s: %v\n", path.Base(proc.Args()[0]), err)
			return 1
		}
		return 0
	})
}

const (
	colorAlways = "always"
	colorAuto   = "auto"
	colorNever  = "never"
)

var (
	ColorBoldBlue  = color.New(color.FgBlue, color.Bold)
	ColorBoldGreen = color.New(color.FgGreen, color.Bold)
	ColorBoldCyan  = color.New(color.FgCyan, color.Bold)
	ColorBoldRed   = color.New(color.FgRed, color.Bold)
)

type ColorPrinter struct {
	value *string
	proc  *vos.Proc
}

// Init sets up the flag and process to determine the color output.
func (c *ColorPrinter) Init(flags *getopt.Set, proc *vos.Proc) {
	c.proc = proc
	c.value = flags.EnumLong(
		"color",
		rune(0), // No short flag.
		[]string{colorAlways, colorAuto, colorNever},
		colorAuto,
		"colorize the output (always|auto|never)")
}

func (c *ColorPrinter) ShouldColor() bool {
	switch {
	case *c.value == colorNever:
		return false
	case *c.value == colorAlways:
		return true
	default:
		return IsTerminal(c.proc.Stdout)
	}
}

func (c *ColorPrinter) Sprintf(color *color.Color, format string, a ...interface{}) string {
	if c.ShouldColor() {
		color.EnableColor()
		return color.Sprintf(format, a...)
	}
	return fmt.Sprintf(format, a...)
}

// IsTerminal reports whether stream is a terminal.
func IsTerminal(stream interface{}) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
