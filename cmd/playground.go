package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/josephlewis42/rshell/commands"
	"github.com/josephlewis42/rshell/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const playgroundHost = "playground"

var (
	playgroundRootFs string
	playgroundMounts []string
)

// newPlaygroundFs builds the in-memory filesystem, optionally seeded from an
// archive, with host directories mounted read-only over it.
func newPlaygroundFs() (vos.VFS, error) {
	root := afero.NewMemMapFs()

	if playgroundRootFs != "" {
		fd, err := os.Open(playgroundRootFs)
		if err != nil {
			return nil, err
		}
		defer fd.Close()

		if err := vos.ExtractArchiveToVFS(root, fd); err != nil {
			return nil, err
		}
	}

	for _, dir := range []string{"/root", "/tmp"} {
		if err := root.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	mfs := vos.NewMountFS(root)
	for _, spec := range playgroundMounts {
		hostDir, mountPoint, ok := strings.Cut(spec, ":")
		if !ok || hostDir == "" || mountPoint == "" {
			return nil, fmt.Errorf("invalid mount %q, want HOSTDIR:DIR", spec)
		}
		if err := mfs.Mount(mountPoint, vos.NewHostMount(hostDir)); err != nil {
			return nil, err
		}
	}

	return mfs, nil
}

// playgroundCmd runs the interpreter over in-process programs and an
// in-memory filesystem
var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Run the interpreter against built-in programs and an in-memory filesystem.",
	Long: `Runs the interpreter with a virtual executor: programs run in-process
(see "rshell builtins --programs") and files only exist in memory until the
playground exits. The filesystem can be seeded from a tar archive and
host directories can be mounted read-only.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		fs, err := newPlaygroundFs()
		if err != nil {
			return err
		}

		ex := vos.NewVirtualExecutor(fs, commands.LookupProgram,
			vos.WithVirtualStdio(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()),
			vos.WithEnviron([]string{"USER=root", "HOME=/root"}))
		if err := ex.Chdir("/root"); err != nil {
			return err
		}

		s.log.Info("starting playground", "programs", commands.ProgramNames())

		exitStatus, err = s.run(cmd, ex, playgroundHost)
		return err
	},
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
	playgroundCmd.Flags().StringVarP(&commandLine, "command", "c", "", "run a single command line and exit")
	playgroundCmd.Flags().StringVar(&playgroundRootFs, "root-fs", "", "tar or tar.gz archive to seed the filesystem with")
	playgroundCmd.Flags().StringArrayVar(&playgroundMounts, "mount", nil, "mount a host directory read-only, HOSTDIR:DIR (repeatable)")
}
