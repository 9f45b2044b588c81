package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestParseCommand(t *testing.T) {
	out, _, err := execute(t, "parse", "(a ; b)", "|", "c")
	require.NoError(t, err)
	assert.Equal(t, "Pipe\n  Sequential\n    Executable \"a\"\n    Executable \"b\"\n  Executable \"c\"\n", out)

	t.Run("syntax error", func(t *testing.T) {
		_, _, err := execute(t, "parse", "a", "&&")
		assert.EqualError(t, err, "syntax error: conjunction must be followed by command")
	})
}

func TestParseTokens(t *testing.T) {
	out, _, err := execute(t, "parse", "--tokens", `echo "a b" >> log`)
	require.NoError(t, err)
	assert.Equal(t, "\"echo\"\n\"a b\"\n>>\n\"log\"\n", out)
}

func TestBuiltinsCommand(t *testing.T) {
	out, _, err := execute(t, "builtins")
	require.NoError(t, err)
	assert.Contains(t, out, "cd ")
	assert.Contains(t, out, "exit ")
	assert.NotContains(t, out, "playground program")
}

func TestPlaygroundCommand(t *testing.T) {
	out, errOut, err := execute(t, "playground", "-c", "echo hello > f; cat f | wc -c; missing")
	require.NoError(t, err)
	assert.Equal(t, "6\n", out)
	assert.Equal(t, "rshell: error: missing: executable file not found in $PATH\n", errOut)
	assert.Equal(t, -1, exitStatus)

	t.Run("mount", func(t *testing.T) {
		hostDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(hostDir, "notes"), []byte("a\nb\n"), 0600))

		out, errOut, err := execute(t, "playground", "--mount", hostDir+":/mnt/host", "-c", "wc -l < /mnt/host/notes")
		require.NoError(t, err)
		assert.Empty(t, errOut)
		assert.Equal(t, "2\n", out)
		assert.Equal(t, 0, exitStatus)
	})
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "conf")

	_, _, err := execute(t, "init", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "config.yaml"))
	assert.NoError(t, err)
}

func TestEventsReport(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(logPath, []byte(
		`{"timestamp_micros":1,"command_run":{"line":"false","status":1,"duration_ms":2}}`+"\n"), 0600))

	out, _, err := execute(t, "events", "report", logPath)
	require.NoError(t, err)
	assert.Contains(t, out, "log_entries: 1")
	assert.Contains(t, out, "count: 1")
}
