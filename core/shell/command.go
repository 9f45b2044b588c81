package shell

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/josephlewis42/rshell/core/vos"
)

// Command is a node in the command tree. The set of implementations is
// closed, execution dispatches on the concrete type.
type Command interface {
	command()
}

// Executable runs an external program.
type Executable struct {
	Program   string
	Arguments []string
}

// Builtin runs Func inside the interpreter process.
type Builtin struct {
	Name      string
	Arguments []string
	Func      vos.ProcessFunc
}

// Sequential runs each command in order regardless of status.
type Sequential struct {
	Commands []Command
}

// Conjunctive runs Secondary only if Primary succeeds (&&).
type Conjunctive struct {
	Primary   Command
	Secondary Command
}

// Disjunctive runs Secondary only if Primary fails (||).
type Disjunctive struct {
	Primary   Command
	Secondary Command
}

// Pipe connects the output of Primary to the input of Secondary (|).
type Pipe struct {
	Primary   Command
	Secondary Command
}

// InputRedirection reads the input of Primary from Path (<).
type InputRedirection struct {
	Primary Command
	Path    string
}

// OutputRedirection writes the output of Primary to Path, truncating it (>).
type OutputRedirection struct {
	Primary Command
	Path    string
}

// AppendRedirection appends the output of Primary to Path (>>).
type AppendRedirection struct {
	Primary Command
	Path    string
}

func (*Executable) command()        {}
func (*Builtin) command()           {}
func (*Sequential) command()        {}
func (*Conjunctive) command()       {}
func (*Disjunctive) command()       {}
func (*Pipe) command()              {}
func (*InputRedirection) command()  {}
func (*OutputRedirection) command() {}
func (*AppendRedirection) command() {}

// Dump writes an indented rendering of the tree rooted at cmd to w.
func Dump(w io.Writer, cmd Command) error {
	d := &dumper{w: w}
	d.dump(cmd, 0)
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) line(depth int, name string, words ...string) {
	if d.err != nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(name)
	for _, word := range words {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(word))
	}
	sb.WriteByte('\n')

	_, d.err = io.WriteString(d.w, sb.String())
}

func (d *dumper) dump(cmd Command, depth int) {
	switch c := cmd.(type) {
	case nil:
		d.line(depth, "<empty>")
	case *Executable:
		d.line(depth, "Executable", append([]string{c.Program}, c.Arguments...)...)
	case *Builtin:
		d.line(depth, "Builtin", append([]string{c.Name}, c.Arguments...)...)
	case *Sequential:
		d.line(depth, "Sequential")
		for _, child := range c.Commands {
			d.dump(child, depth+1)
		}
	case *Conjunctive:
		d.binary(depth, "Conjunctive", c.Primary, c.Secondary)
	case *Disjunctive:
		d.binary(depth, "Disjunctive", c.Primary, c.Secondary)
	case *Pipe:
		d.binary(depth, "Pipe", c.Primary, c.Secondary)
	case *InputRedirection:
		d.line(depth, "InputRedirection", c.Path)
		d.dump(c.Primary, depth+1)
	case *OutputRedirection:
		d.line(depth, "OutputRedirection", c.Path)
		d.dump(c.Primary, depth+1)
	case *AppendRedirection:
		d.line(depth, "AppendRedirection", c.Path)
		d.dump(c.Primary, depth+1)
	default:
		d.line(depth, fmt.Sprintf("%T", cmd))
	}
}

func (d *dumper) binary(depth int, name string, primary, secondary Command) {
	d.line(depth, name)
	d.dump(primary, depth+1)
	d.dump(secondary, depth+1)
}
