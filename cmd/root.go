package cmd

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/user"

	"github.com/josephlewis42/rshell/core"
	"github.com/josephlewis42/rshell/core/config"
	"github.com/josephlewis42/rshell/core/logger"
	"github.com/josephlewis42/rshell/core/vos"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	commandLine string
	verbosity   int

	// exitStatus is the process exit status once rootCmd finishes.
	exitStatus int
)

// session is the ambient state shared by commands that run the interpreter.
type session struct {
	cfg    *config.Configuration
	log    *slog.Logger
	events *logger.SessionLogger

	eventLog io.Closer
}

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}

	return configuration, err
}

func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	switch {
	case verbosity >= 2:
		level = "debug"
	case verbosity == 1:
		level = "info"
	}

	log, err := logger.New(logger.Options{Level: level, Output: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}
	log.Debug("loaded configuration", "dir", cfg.Dir())

	s := &session{cfg: cfg, log: log}

	fd, err := cfg.OpenEventLog()
	if err != nil {
		return nil, err
	}
	if fd != nil {
		log.Info("recording events", "path", fd.Name())
		s.eventLog = fd
		s.events = logger.NewJsonLinesLogRecorder(fd).NewSession()
	}

	return s, nil
}

func (s *session) Close() error {
	if s.eventLog == nil {
		return nil
	}
	return s.eventLog.Close()
}

// run starts the interpreter over ex, either for the -c command line or
// interactively.
func (s *session) run(cmd *cobra.Command, ex core.Executor, host string) (int, error) {
	username := ""
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	if envUser := ex.Env().Getenv(core.EnvUser); envUser != "" {
		username = envUser
	}

	sh, err := core.NewShell(core.ShellConfig{
		Executor: ex,
		Config:   s.cfg,
		Stdin:    cmd.InOrStdin(),
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
		User:     username,
		Host:     host,
		Logger:   s.log,
		Events:   s.events,
	})
	if err != nil {
		return 0, err
	}

	if cmd.Flags().Changed("command") {
		return sh.RunScript(commandLine), nil
	}
	return sh.Run(), nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rshell",
	Short: "A POSIX-style command interpreter",
	Long: `rshell reads command lines, parses them into a command tree and runs
them as operating system processes connected with pipes and redirections.

Supported syntax: ; && || | < > >> ( ) and single/double quotes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ex := vos.NewPosixExecutor(vos.WithStdio(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()))

		host, _ := os.Hostname()
		exitStatus, err = s.run(cmd, ex, host)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitStatus)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	rootCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
}
