package vos

import (
	"io"
)

// WorkingDir tracks the interpreter's current directory.
type WorkingDir interface {
	// Getwd returns the current directory.
	Getwd() (string, error)
	// Chdir changes the current directory.
	Chdir(dir string) error
}

// Proc is the view of the interpreter a ProcessFunc runs against.
type Proc struct {
	// Argv holds command line arguments, including the command as Argv[0].
	Argv []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// FS resolves relative paths against Dir.
	FS  VFS
	Env VEnv
	Dir WorkingDir

	exitCode *int
}

// Args returns the argument vector including the command name.
func (p *Proc) Args() []string {
	return p.Argv
}

// Getwd returns the current directory.
func (p *Proc) Getwd() (string, error) {
	return p.Dir.Getwd()
}

// Chdir changes the interpreter's current directory.
func (p *Proc) Chdir(dir string) error {
	return p.Dir.Chdir(dir)
}

// Exit requests that the interpreter stop with the given code once the
// running program returns.
func (p *Proc) Exit(code int) {
	p.exitCode = &code
}

// Exited reports whether Exit was called and with which code.
func (p *Proc) Exited() (int, bool) {
	if p.exitCode == nil {
		return 0, false
	}
	return *p.exitCode, true
}

// RunBuiltin runs fn synchronously against proc. If fn called Exit, the
// returned error is a *TerminateError carrying the code.
func RunBuiltin(fn ProcessFunc, proc *Proc) (int, error) {
	status := fn(proc)
	if code, ok := proc.Exited(); ok {
		return code, &TerminateError{Code: code}
	}
	return status, nil
}
