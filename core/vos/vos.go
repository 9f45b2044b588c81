// Package vos holds the execution strategy the command tree runs against.
//
// An Executor turns leaf commands into running units of work and hands out the
// streams (pipes and files) that composite commands splice between them. The
// PosixExecutor binds it to real processes and descriptors; the
// VirtualExecutor runs in-process programs over an in-memory filesystem.
package vos

import (
	"fmt"
	"os/exec"

	"github.com/spf13/afero"
)

// VFS is the filesystem redirections and builtins operate on.
type VFS = afero.Fs

// WaitMode controls whether running a command blocks until it finishes.
type WaitMode int

const (
	// Wait blocks until the command terminates.
	Wait WaitMode = iota
	// NoWait launches the command and returns immediately.
	NoWait
)

func (w WaitMode) String() string {
	switch w {
	case Wait:
		return "wait"
	case NoWait:
		return "nowait"
	default:
		return fmt.Sprintf("waitmode(%d)", int(w))
	}
}

const (
	// StatusPending is reported for commands launched with NoWait whose exit
	// status is not yet known.
	StatusPending = 0

	// StatusError is reported when a command could not be run at all.
	StatusError = -1
)

// ErrNotFound is returned when a program can't be located.
var ErrNotFound = exec.ErrNotFound

// ProcessFunc is a program that runs inside the interpreter's own process.
type ProcessFunc func(*Proc) int

// Process describes one leaf command to run.
type Process struct {
	// Name of the program, also passed as argv[0].
	Name string
	// Args holds the arguments following the name.
	Args []string
	// Builtin, when set, is run in-process instead of spawning Name.
	Builtin ProcessFunc
}

// Argv returns the full argument vector including the program name.
func (p *Process) Argv() []string {
	return append([]string{p.Name}, p.Args...)
}

// Executor runs leaf commands and creates the streams composite commands wire
// between them.
type Executor interface {
	// CreatePipe allocates a connected pair of streams.
	CreatePipe() (*Pipe, error)
	// CreateInputFileStream opens path read-only.
	CreateInputFileStream(path string) (Stream, error)
	// CreateOutputFileStream opens path for writing, truncating it.
	CreateOutputFileStream(path string) (Stream, error)
	// CreateAppendFileStream opens path for writing at its end.
	CreateAppendFileStream(path string) (Stream, error)

	// Run realizes a single leaf. With NoWait it may return StatusPending.
	Run(proc *Process, wait WaitMode) (int, error)

	// InputStream is the stream replacing stdin, nil for the inherited one.
	InputStream() Stream
	SetInputStream(Stream)
	// OutputStream is the stream replacing stdout, nil for the inherited one.
	OutputStream() Stream
	SetOutputStream(Stream)

	// Streams holds every stream opened during the current execution.
	Streams() *StreamSet
}

// TerminateError asks the interpreter loop to stop with Code as its exit
// status. It's raised by the exit builtin and travels up through every caller
// unchanged.
type TerminateError struct {
	Code int
}

func (t *TerminateError) Error() string {
	return fmt.Sprintf("exit %d", t.Code)
}
