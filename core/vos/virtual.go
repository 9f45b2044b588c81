package vos

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sync"

	"github.com/spf13/afero"
)

// ProcessResolver looks up a virtual program by name, it returns nil if the
// program doesn't exist.
type ProcessResolver func(name string) ProcessFunc

// Invocation records one call to VirtualExecutor.Run.
type Invocation struct {
	Name    string
	Args    []string
	Wait    WaitMode
	Builtin bool

	// Stdin and Stdout name the replacement streams in effect, empty when the
	// executor's own streams were used.
	Stdin  string
	Stdout string
}

// VirtualExecutor runs in-process programs over an afero filesystem. Pipes
// are memory buffers: the primary side of a pipeline runs to completion
// before the secondary reads what it wrote. Every Run is recorded in launch
// order and can be retrieved with Trace.
type VirtualExecutor struct {
	StreamState

	fs       VFS
	env      *MapEnv
	resolver ProcessResolver

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	mu    sync.Mutex
	trace []Invocation
	pipes int
}

var _ Executor = (*VirtualExecutor)(nil)
var _ WorkingDir = (*VirtualExecutor)(nil)

// VirtualOption configures a VirtualExecutor.
type VirtualOption func(*VirtualExecutor)

// WithVirtualStdio sets the streams programs use when no redirection is in
// effect.
func WithVirtualStdio(stdin io.Reader, stdout, stderr io.Writer) VirtualOption {
	return func(e *VirtualExecutor) {
		e.stdin = stdin
		e.stdout = stdout
		e.stderr = stderr
	}
}

// WithEnviron adds "key=value" entries to the executor's environment.
func WithEnviron(environ []string) VirtualOption {
	return func(e *VirtualExecutor) {
		_ = CopyEnv(e.env, environ)
	}
}

// NewVirtualExecutor creates an executor whose programs come from resolver
// and whose files live in base. The working directory starts at "/".
func NewVirtualExecutor(base VFS, resolver ProcessResolver, opts ...VirtualOption) *VirtualExecutor {
	e := &VirtualExecutor{
		env:      NewMapEnvFromEnvList([]string{"HOME=/root", "PWD=/"}),
		resolver: resolver,
	}
	e.fs = NewPathMappingFs(base, e.resolvePath)

	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fs returns the filesystem as programs see it, relative paths resolve
// against the working directory.
func (e *VirtualExecutor) Fs() VFS {
	return e.fs
}

// Env returns the executor's environment.
func (e *VirtualExecutor) Env() VEnv {
	return e.env
}

// SetStdio replaces the streams programs use when no redirection is in
// effect.
func (e *VirtualExecutor) SetStdio(stdin io.Reader, stdout, stderr io.Writer) {
	e.stdin = stdin
	e.stdout = stdout
	e.stderr = stderr
}

// Trace returns a copy of every invocation so far.
func (e *VirtualExecutor) Trace() []Invocation {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Invocation, len(e.trace))
	copy(out, e.trace)
	return out
}

// ResetTrace forgets recorded invocations.
func (e *VirtualExecutor) ResetTrace() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.trace = nil
}

// Getwd implements WorkingDir.Getwd.
func (e *VirtualExecutor) Getwd() (string, error) {
	if wd := e.env.Getenv("PWD"); wd != "" {
		return wd, nil
	}
	return "/", nil
}

// Chdir implements WorkingDir.Chdir.
func (e *VirtualExecutor) Chdir(dir string) error {
	resolved, _ := e.resolvePath("stat", dir)

	isDir, err := afero.IsDir(e.fs, resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return &os.PathError{Op: "chdir", Path: dir, Err: os.ErrNotExist}
	case err != nil:
		return &os.PathError{Op: "chdir", Path: dir, Err: err}
	case !isDir:
		return &os.PathError{Op: "chdir", Path: dir, Err: errNotDir}
	}

	return e.env.Setenv("PWD", resolved)
}

var errNotDir = errors.New("not a directory")

func (e *VirtualExecutor) resolvePath(_, name string) (string, error) {
	if path.IsAbs(name) {
		return path.Clean(name), nil
	}
	wd, _ := e.Getwd()
	return path.Join(wd, name), nil
}

// CreatePipe implements Executor.CreatePipe.
func (e *VirtualExecutor) CreatePipe() (*Pipe, error) {
	e.mu.Lock()
	e.pipes++
	name := fmt.Sprintf("pipe:%d", e.pipes)
	e.mu.Unlock()

	buf := &bytes.Buffer{}
	return &Pipe{
		Input:  e.track(NewStream(&bufferEnd{name: name, buf: buf})),
		Output: e.track(NewStream(&bufferEnd{name: name, buf: buf})),
	}, nil
}

// CreateInputFileStream implements Executor.CreateInputFileStream.
func (e *VirtualExecutor) CreateInputFileStream(path string) (Stream, error) {
	return e.openFile(path, os.O_RDONLY)
}

// CreateOutputFileStream implements Executor.CreateOutputFileStream.
func (e *VirtualExecutor) CreateOutputFileStream(path string) (Stream, error) {
	return e.openFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// CreateAppendFileStream implements Executor.CreateAppendFileStream.
func (e *VirtualExecutor) CreateAppendFileStream(path string) (Stream, error) {
	return e.openFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

func (e *VirtualExecutor) openFile(path string, flag int) (Stream, error) {
	fd, err := e.fs.OpenFile(path, flag, 0644)
	if err != nil {
		return nil, err
	}
	return e.track(NewStream(fd)), nil
}

// Run implements Executor.Run. Programs always run to completion; with
// NoWait their status is discarded and StatusPending returned.
func (e *VirtualExecutor) Run(proc *Process, wait WaitMode) (int, error) {
	e.record(proc, wait)

	p := &Proc{
		Argv:   proc.Argv(),
		Stdin:  toReaderOrDiscard(e.input, e.stdin),
		Stdout: toWriterOrDiscard(e.output, e.stdout),
		Stderr: e.stderr,
		FS:     e.fs,
		Env:    e.env,
		Dir:    e,
	}
	if p.Stderr == nil {
		p.Stderr = io.Discard
	}

	if proc.Builtin != nil {
		return RunBuiltin(proc.Builtin, p)
	}

	var fn ProcessFunc
	if e.resolver != nil {
		fn = e.resolver(proc.Name)
	}
	if fn == nil {
		return StatusError, fmt.Errorf("%s: %w", proc.Name, ErrNotFound)
	}

	status := fn(p)
	if wait == NoWait {
		return StatusPending, nil
	}
	return status, nil
}

func (e *VirtualExecutor) record(proc *Process, wait WaitMode) {
	inv := Invocation{
		Name:    proc.Name,
		Args:    append([]string(nil), proc.Args...),
		Wait:    wait,
		Builtin: proc.Builtin != nil,
	}
	if e.input != nil {
		inv.Stdin = e.input.Name()
	}
	if e.output != nil {
		inv.Stdout = e.output.Name()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.trace = append(e.trace, inv)
}

// bufferEnd is one end of an in-memory pipe.
type bufferEnd struct {
	name string
	buf  *bytes.Buffer
}

func (b *bufferEnd) Read(p []byte) (int, error) {
	return b.buf.Read(p)
}

func (b *bufferEnd) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

func (b *bufferEnd) Name() string {
	return b.name
}

func (b *bufferEnd) Close() error {
	return nil
}
