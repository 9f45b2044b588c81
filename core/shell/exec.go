package shell

import (
	"errors"
	"fmt"

	"github.com/josephlewis42/rshell/core/vos"
)

// Execute runs the tree rooted at cmd on ex and returns the status of the
// last command that ran. Every stream opened along the way is closed before
// Execute returns, whether or not it succeeds.
//
// A *vos.TerminateError from the exit builtin is returned unchanged.
func Execute(ex vos.Executor, cmd Command) (status int, err error) {
	defer func() {
		if clearErr := ex.Streams().Clear(); clearErr != nil {
			err = errors.Join(err, fmt.Errorf("closing streams: %w", clearErr))
		}
	}()

	if cmd == nil {
		return 0, nil
	}
	return execute(ex, cmd, vos.Wait)
}

func execute(ex vos.Executor, cmd Command, wait vos.WaitMode) (int, error) {
	switch c := cmd.(type) {
	case *Executable:
		return ex.Run(&vos.Process{Name: c.Program, Args: c.Arguments}, wait)

	case *Builtin:
		return ex.Run(&vos.Process{Name: c.Name, Args: c.Arguments, Builtin: c.Func}, wait)

	case *Sequential:
		status := 0
		for _, child := range c.Commands {
			var err error
			if status, err = execute(ex, child, wait); err != nil {
				return status, err
			}
		}
		return status, nil

	case *Conjunctive:
		status, err := execute(ex, c.Primary, wait)
		if err != nil || status != 0 {
			return status, err
		}
		return execute(ex, c.Secondary, wait)

	case *Disjunctive:
		status, err := execute(ex, c.Primary, wait)
		if err != nil || status == 0 {
			return status, err
		}
		return execute(ex, c.Secondary, wait)

	case *Pipe:
		return executePipe(ex, c, wait)

	case *InputRedirection:
		return redirectInput(ex, c.Primary, c.Path, wait)

	case *OutputRedirection:
		return redirectOutput(ex, ex.CreateOutputFileStream, c.Primary, c.Path, wait)

	case *AppendRedirection:
		return redirectOutput(ex, ex.CreateAppendFileStream, c.Primary, c.Path, wait)

	default:
		return vos.StatusError, fmt.Errorf("unknown command type %T", cmd)
	}
}

// executePipe launches the primary without waiting so both sides run
// concurrently. The parent's write end is closed as soon as the primary is
// launched so the secondary sees end of file once the primary exits.
func executePipe(ex vos.Executor, p *Pipe, wait vos.WaitMode) (int, error) {
	pipe, err := ex.CreatePipe()
	if err != nil {
		return vos.StatusError, err
	}

	prevOut := ex.OutputStream()
	ex.SetOutputStream(pipe.Output)
	_, err = execute(ex, p.Primary, vos.NoWait)
	ex.SetOutputStream(prevOut)

	if closeErr := pipe.Output.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return vos.StatusError, err
	}

	prevIn := ex.InputStream()
	ex.SetInputStream(pipe.Input)
	defer ex.SetInputStream(prevIn)

	status, err := execute(ex, p.Secondary, wait)
	if closeErr := pipe.Input.Close(); err == nil && closeErr != nil {
		return vos.StatusError, closeErr
	}
	return status, err
}

func redirectInput(ex vos.Executor, primary Command, path string, wait vos.WaitMode) (int, error) {
	in, err := ex.CreateInputFileStream(path)
	if err != nil {
		return vos.StatusError, err
	}
	defer in.Close()

	prev := ex.InputStream()
	ex.SetInputStream(in)
	defer ex.SetInputStream(prev)

	return execute(ex, primary, wait)
}

func redirectOutput(ex vos.Executor, open func(string) (vos.Stream, error), primary Command, path string, wait vos.WaitMode) (int, error) {
	out, err := open(path)
	if err != nil {
		return vos.StatusError, err
	}
	defer out.Close()

	prev := ex.OutputStream()
	ex.SetOutputStream(out)
	defer ex.SetOutputStream(prev)

	return execute(ex, primary, wait)
}
