// Package vostest provides deterministic executors for tests.
package vostest

import (
	"bytes"
	"io"
	"strings"

	"github.com/josephlewis42/rshell/core/vos"
	"github.com/spf13/afero"
)

// SingleProcessResolver resolves every name to process.
func SingleProcessResolver(process vos.ProcessFunc) vos.ProcessResolver {
	return func(name string) vos.ProcessFunc {
		return process
	}
}

// MapResolver resolves names using a fixed table.
func MapResolver(programs map[string]vos.ProcessFunc) vos.ProcessResolver {
	return func(name string) vos.ProcessFunc {
		return programs[name]
	}
}

// NewDeterministicFs creates an in-memory filesystem with the directories a
// fresh session expects.
func NewDeterministicFs() vos.VFS {
	fs := afero.NewMemMapFs()
	for _, dir := range []string{"/root", "/tmp"} {
		// MemMapFs never fails to create directories.
		_ = fs.MkdirAll(dir, 0755)
	}
	return fs
}

// NewExecutor creates a virtual executor over a fresh deterministic
// filesystem with the working directory set to /root.
func NewExecutor(resolver vos.ProcessResolver, opts ...vos.VirtualOption) *vos.VirtualExecutor {
	ex := vos.NewVirtualExecutor(NewDeterministicFs(), resolver, opts...)
	_ = ex.Chdir("/root")
	return ex
}

// Cmd is similar to exec.Cmd.
type Cmd struct {
	// Process function
	Process vos.ProcessFunc
	// Process arguments, the first argument should be the process name.
	Argv []string
	// If Dir is non-empty, the child changes into the directory before
	// creating the process.
	Dir string
	// Env holds extra environment variables in the form "key=value".
	Env []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	ExitStatus int

	// Executor the process runs on. It's shared between runs so files written
	// by one are visible to the next.
	Executor *vos.VirtualExecutor
}

// Command returns the Cmd struct to execute process with the given arguments.
func Command(process vos.ProcessFunc, name string, arg ...string) *Cmd {
	return &Cmd{
		Process:  process,
		Argv:     append([]string{name}, arg...),
		Executor: NewExecutor(SingleProcessResolver(process)),
	}
}

// Fs is the filesystem the process sees.
func (c *Cmd) Fs() vos.VFS {
	return c.Executor.Fs()
}

// CombinedOutput runs the command and returns its combined standard output
// and standard error.
func (c *Cmd) CombinedOutput() ([]byte, error) {
	// stdout, stderr
	buf := &bytes.Buffer{}
	c.Stdout = buf
	c.Stderr = buf

	err := c.Run()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run starts the comand and waits for it to complete.
func (c *Cmd) Run() error {
	stdin := c.Stdin
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	c.Executor.SetStdio(stdin, orDiscard(c.Stdout), orDiscard(c.Stderr))

	if err := vos.CopyEnv(c.Executor.Env(), c.Env); err != nil {
		return err
	}
	if c.Dir != "" {
		if err := c.Executor.Chdir(c.Dir); err != nil {
			return err
		}
	}

	status, err := c.Executor.Run(&vos.Process{
		Name: c.Argv[0],
		Args: c.Argv[1:],
	}, vos.Wait)
	if err != nil {
		return err
	}

	c.ExitStatus = status
	return nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
