package commands

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/josephlewis42/rshell/core/vos"
	"github.com/josephlewis42/rshell/core/vos/vostest"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func TestAllCommands(t *testing.T) {
	for name, cmd := range AllCommands {
		t.Run(name, func(t *testing.T) {
			if cmd == nil {
				t.Fatal("nil command", name)
			}
		})
	}
}

func TestAllBuiltins(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			assert.NotNil(t, LookupBuiltin(name))
			assert.NotEmpty(t, BuiltinSummary(name), "summary")
			assert.Nil(t, LookupProgram(name), "builtins must not shadow programs")
		})
	}
}

func TestLookupProgram(t *testing.T) {
	assert.NotNil(t, LookupProgram("echo"))
	assert.NotNil(t, LookupProgram("/bin/echo"))
	assert.NotNil(t, LookupProgram("/usr/bin/echo"))
	assert.Nil(t, LookupProgram("/opt/echo"))
	assert.Nil(t, LookupProgram("does-not-exist"))
}

func TestProgramNames(t *testing.T) {
	assert.Equal(t, []string{"cat", "echo", "env", "false", "grep", "mkdir", "pwd", "rm", "touch", "true", "wc", "which"}, ProgramNames())
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Args []string
}

func (gts goldenTestSuite) Run(t *testing.T, cmd vos.ProcessFunc) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			cmd := vostest.Command(cmd, tc.Args[0], tc.Args[1:]...)
			out, err := cmd.CombinedOutput()
			if err != nil {
				t.Fatal(err)
			}

			g.Assert(t, tn, out)
		})
	}
}

// runWithStdin runs cmd with the given input and returns its combined output.
func runWithStdin(t *testing.T, cmd *vostest.Cmd, stdin string) string {
	t.Helper()

	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}
