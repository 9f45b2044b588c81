package vos

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
)

// PosixExecutor runs programs as operating system processes and wires them
// together with real pipes and file descriptors.
type PosixExecutor struct {
	StreamState

	fs     VFS
	env    VEnv
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

var _ Executor = (*PosixExecutor)(nil)

// PosixOption configures a PosixExecutor.
type PosixOption func(*PosixExecutor)

// WithStdio replaces the standard streams children inherit when no
// redirection is in effect.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) PosixOption {
	return func(e *PosixExecutor) {
		e.stdin = stdin
		e.stdout = stdout
		e.stderr = stderr
	}
}

// WithFs replaces the filesystem redirections open files on.
func WithFs(fs VFS) PosixOption {
	return func(e *PosixExecutor) {
		e.fs = fs
	}
}

// NewPosixExecutor creates an executor bound to the interpreter's own
// process, environment and standard streams.
func NewPosixExecutor(opts ...PosixOption) *PosixExecutor {
	e := &PosixExecutor{
		fs:     afero.NewOsFs(),
		env:    OSEnv{},
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Env returns the environment children inherit.
func (e *PosixExecutor) Env() VEnv {
	return e.env
}

// Getwd returns the interpreter process's working directory.
func (e *PosixExecutor) Getwd() (string, error) {
	return osWorkingDir{}.Getwd()
}

// Chdir changes the interpreter process's working directory.
func (e *PosixExecutor) Chdir(dir string) error {
	return osWorkingDir{}.Chdir(dir)
}

// CreatePipe implements Executor.CreatePipe.
func (e *PosixExecutor) CreatePipe() (*Pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create pipe: %w", err)
	}

	return &Pipe{
		Input:  e.track(NewStream(r)),
		Output: e.track(NewStream(w)),
	}, nil
}

// CreateInputFileStream implements Executor.CreateInputFileStream.
func (e *PosixExecutor) CreateInputFileStream(path string) (Stream, error) {
	return e.openFile(path, os.O_RDONLY)
}

// CreateOutputFileStream implements Executor.CreateOutputFileStream.
func (e *PosixExecutor) CreateOutputFileStream(path string) (Stream, error) {
	return e.openFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// CreateAppendFileStream implements Executor.CreateAppendFileStream.
func (e *PosixExecutor) CreateAppendFileStream(path string) (Stream, error) {
	return e.openFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

func (e *PosixExecutor) openFile(path string, flag int) (Stream, error) {
	fd, err := e.fs.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, err
	}
	return e.track(NewStream(fd)), nil
}

// Run implements Executor.Run. Builtins run synchronously in the current
// process; everything else is spawned.
func (e *PosixExecutor) Run(proc *Process, wait WaitMode) (int, error) {
	if proc.Builtin != nil {
		return RunBuiltin(proc.Builtin, &Proc{
			Argv:   proc.Argv(),
			Stdin:  toReaderOrDiscard(e.input, e.stdin),
			Stdout: toWriterOrDiscard(e.output, e.stdout),
			Stderr: e.stderr,
			FS:     e.fs,
			Env:    e.env,
			Dir:    e,
		})
	}

	cmd := exec.Command(proc.Name, proc.Args...)
	cmd.Stdin = e.childStdin()
	cmd.Stdout = e.childStdout()
	cmd.Stderr = e.stderr

	if err := cmd.Start(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			err = execErr.Err
		}
		return StatusError, fmt.Errorf("%s: %w", proc.Name, err)
	}

	if wait == NoWait {
		// Nobody joins this child, reap it once it exits.
		go cmd.Wait()
		return StatusPending, nil
	}

	return exitStatus(cmd.Wait())
}

// childStdin hands the child the raw descriptor where possible so it reads
// the stream directly rather than through a copying goroutine.
func (e *PosixExecutor) childStdin() io.Reader {
	if e.input == nil {
		return e.stdin
	}
	if f, ok := OSFile(e.input); ok {
		return f
	}
	return e.input
}

func (e *PosixExecutor) childStdout() io.Writer {
	if e.output == nil {
		return e.stdout
	}
	if f, ok := OSFile(e.output); ok {
		return f
	}
	return e.output
}

// exitStatus converts the result of waiting on a child to a shell status.
// Children killed by a signal report 128 plus the signal number.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return StatusError, err
	}

	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal()), nil
	}
	return exitErr.ExitCode(), nil
}

// osWorkingDir is the working directory of the interpreter process.
type osWorkingDir struct{}

var _ WorkingDir = osWorkingDir{}

func (osWorkingDir) Getwd() (string, error) {
	return os.Getwd()
}

func (osWorkingDir) Chdir(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return err
	}

	if wd, err := os.Getwd(); err == nil {
		os.Setenv("PWD", filepath.Clean(wd))
	}
	return nil
}
