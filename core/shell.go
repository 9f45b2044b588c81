// Package core drives the interpreter: it reads lines, parses them into
// command trees and runs them against an executor.
package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/rshell/commands"
	"github.com/josephlewis42/rshell/core/config"
	"github.com/josephlewis42/rshell/core/logger"
	"github.com/josephlewis42/rshell/core/shell"
	"github.com/josephlewis42/rshell/core/vos"
)

const (
	EnvHome = "HOME"
	EnvUser = "USER"

	// StatusSyntaxError is the status of a line that fails to parse.
	StatusSyntaxError = 2
)

// Executor is the strategy the interpreter runs commands with. Beyond
// vos.Executor it exposes the working directory and environment the prompt
// is built from.
type Executor interface {
	vos.Executor
	vos.WorkingDir

	Env() vos.VEnv
}

var (
	_ Executor = (*vos.PosixExecutor)(nil)
	_ Executor = (*vos.VirtualExecutor)(nil)
)

// ShellConfig holds everything NewShell needs.
type ShellConfig struct {
	// Executor runs the parsed commands. Required.
	Executor Executor
	// Config supplies prompts, color and history. Defaults to config.Default().
	Config *config.Configuration

	// Streams the interpreter itself reads lines from and reports errors to.
	// They default to the process's standard streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// User and Host fill in the prompt. User defaults to $USER and Host to
	// the machine's host name.
	User string
	Host string

	// Logger receives diagnostics. Defaults to discarding them.
	Logger *slog.Logger
	// Events receives one entry per line run. Optional.
	Events *logger.SessionLogger

	// ParserOptions are passed to every parse.
	ParserOptions []shell.ParserOption
}

// Shell is a command interpreter session.
type Shell struct {
	executor Executor
	cfg      *config.Configuration

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	user string
	host string

	log       *slog.Logger
	events    *logger.SessionLogger
	parseOpts []shell.ParserOption

	status   int
	commands int
	exited   bool
}

// NewShell creates an interpreter session.
func NewShell(sc ShellConfig) (*Shell, error) {
	if sc.Executor == nil {
		return nil, errors.New("shell requires an executor")
	}

	s := &Shell{
		executor:  sc.Executor,
		cfg:       sc.Config,
		stdin:     sc.Stdin,
		stdout:    sc.Stdout,
		stderr:    sc.Stderr,
		user:      sc.User,
		host:      sc.Host,
		log:       sc.Logger,
		events:    sc.Events,
		parseOpts: sc.ParserOptions,
	}

	if s.cfg == nil {
		s.cfg = config.Default()
	}
	if s.stdin == nil {
		s.stdin = os.Stdin
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	if s.user == "" {
		s.user = s.executor.Env().Getenv(EnvUser)
	}
	if s.host == "" {
		s.host, _ = os.Hostname()
	}
	if s.log == nil {
		s.log = logger.Discard()
	}

	return s, nil
}

// Status is the status of the last line run.
func (s *Shell) Status() int {
	return s.status
}

// Exited reports whether a line asked the interpreter to stop, and the code
// it asked for.
func (s *Shell) Exited() (int, bool) {
	return s.status, s.exited
}

// Prompt renders the primary prompt for the current state.
func (s *Shell) Prompt() string {
	wd, err := s.executor.Getwd()
	if err != nil {
		wd = "?"
	}
	home := s.executor.Env().Getenv(EnvHome)

	return expandPrompt(s.cfg.Prompt, s.user, s.host, wd, home, s.colorEnabled())
}

func (s *Shell) colorEnabled() bool {
	switch s.cfg.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return commands.IsTerminal(s.stdout)
	}
}

// RunCommand parses and runs one line, returning its status. Parse errors
// yield StatusSyntaxError and failures to run yield vos.StatusError. A line
// running exit marks the shell as exited with the requested code.
func (s *Shell) RunCommand(line string) int {
	start := time.Now()
	status, err := s.runCommand(line)
	elapsed := time.Since(start)

	s.status = status
	s.commands++

	event := &logger.CommandRun{
		Line:       line,
		Status:     status,
		DurationMs: elapsed.Milliseconds(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	if recErr := s.events.Record(event); recErr != nil {
		s.log.Warn("recording event failed", "err", recErr)
	}

	s.log.Debug("ran command", "line", line, "status", status, "duration", elapsed)
	return status
}

func (s *Shell) runCommand(line string) (int, error) {
	cmd, err := shell.ParseLine(line, s.parseOpts...)
	if err != nil {
		s.reportError(err)
		return StatusSyntaxError, err
	}

	status, err := shell.Execute(s.executor, cmd)

	var terminate *vos.TerminateError
	switch {
	case errors.As(err, &terminate):
		s.exited = true
		return terminate.Code, nil
	case err != nil:
		s.reportError(err)
		return status, err
	default:
		return status, nil
	}
}

func (s *Shell) reportError(err error) {
	fmt.Fprintf(s.stderr, "rshell: error: %v\n", err)
}

// RunScript runs a single line as a complete non-interactive session.
func (s *Shell) RunScript(line string) int {
	s.startSession(false)
	s.RunCommand(line)
	s.endSession()
	return s.status
}

// Run reads and runs lines until the input ends or a line calls exit. It
// returns the status of the last line.
func (s *Shell) Run() int {
	rl, err := s.newReadline()
	if err != nil {
		s.reportError(err)
		return vos.StatusError
	}
	defer rl.Close()

	s.startSession(true)
	defer s.endSession()

	for !s.exited {
		line, err := s.readLine(rl)

		switch {
		case err == io.EOF:
			return s.status // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			s.reportError(err)
			return s.status

		case strings.TrimSpace(line) == "":
			continue // empty line

		default:
			stop := s.ignoreInterrupts()
			s.RunCommand(line)
			stop()
		}
	}

	return s.status
}

// readLine reads one logical line, prompting for more input while a quote or
// trailing escape is still open.
func (s *Shell) readLine(rl *readline.Instance) (string, error) {
	rl.SetPrompt(s.Prompt())
	line, err := rl.Readline()

	for err == nil {
		_, tokErr := shell.Tokenize(line)

		var incomplete *shell.IncompleteError
		if !errors.As(tokErr, &incomplete) {
			return line, nil
		}

		if incomplete.InEscape {
			line = strings.TrimSuffix(line, `\`)
		} else {
			line += "\n"
		}

		rl.SetPrompt(s.cfg.ContinuationPrompt)
		var more string
		more, err = rl.Readline()
		line += more
	}

	return "", err
}

func (s *Shell) newReadline() (*readline.Instance, error) {
	cfg := &readline.Config{
		Prompt:      s.Prompt(),
		HistoryFile: s.cfg.HistoryPath(),
		Stdin:       readline.NewCancelableStdin(s.stdin),
		Stdout:      s.stdout,
		Stderr:      s.stderr,
		FuncIsTerminal: func() bool {
			return commands.IsTerminal(s.stdin) && commands.IsTerminal(s.stdout)
		},
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	return readline.NewEx(cfg)
}

// ignoreInterrupts keeps SIGINT from killing the interpreter while a
// foreground command runs; the command itself still receives it.
func (s *Shell) ignoreInterrupts() (stop func()) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-signals:
				s.log.Debug("interrupt while running command")
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(signals)
		close(done)
	}
}

func (s *Shell) startSession(interactive bool) {
	err := s.events.Record(&logger.SessionStart{
		User:        s.user,
		Host:        s.host,
		Executor:    executorName(s.executor),
		Interactive: interactive,
	})
	if err != nil {
		s.log.Warn("recording event failed", "err", err)
	}
}

func (s *Shell) endSession() {
	err := s.events.Record(&logger.SessionEnd{
		Status:   s.status,
		Commands: s.commands,
		Exited:   s.exited,
	})
	if err != nil {
		s.log.Warn("recording event failed", "err", err)
	}
}

func executorName(ex Executor) string {
	switch ex.(type) {
	case *vos.PosixExecutor:
		return "posix"
	case *vos.VirtualExecutor:
		return "virtual"
	default:
		return fmt.Sprintf("%T", ex)
	}
}
