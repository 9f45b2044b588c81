package commands

import (
	"testing"

	"github.com/josephlewis42/rshell/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPwd(t *testing.T) {
	cmd := vostest.Command(Pwd, "pwd")
	cmd.Dir = "/tmp"

	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Equal(t, "/tmp\n", string(out))
}

func TestMkdir(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		cmd := vostest.Command(Mkdir, "mkdir", "-v", "src")

		out, err := cmd.CombinedOutput()
		require.NoError(t, err)
		assert.Equal(t, 0, cmd.ExitStatus)
		assert.Equal(t, "mkdir: created directory \"src\"\n", string(out))

		isDir, err := afero.IsDir(cmd.Fs(), "/root/src")
		require.NoError(t, err)
		assert.True(t, isDir)
	})

	t.Run("parents", func(t *testing.T) {
		cmd := vostest.Command(Mkdir, "mkdir", "-p", "/tmp/a/b/c")

		require.NoError(t, cmd.Run())
		assert.Equal(t, 0, cmd.ExitStatus)

		isDir, err := afero.IsDir(cmd.Fs(), "/tmp/a/b/c")
		require.NoError(t, err)
		assert.True(t, isDir)
	})

	t.Run("missing operand", func(t *testing.T) {
		cmd := vostest.Command(Mkdir, "mkdir")

		out, err := cmd.CombinedOutput()
		require.NoError(t, err)
		assert.Equal(t, 1, cmd.ExitStatus)
		assert.Equal(t, "mkdir: missing operand\n", string(out))
	})
}

func TestRm(t *testing.T) {
	setup := func(t *testing.T, args ...string) *vostest.Cmd {
		cmd := vostest.Command(Rm, "rm", args...)
		require.NoError(t, afero.WriteFile(cmd.Fs(), "/root/file", []byte("x"), 0644))
		require.NoError(t, cmd.Fs().MkdirAll("/root/dir/sub", 0755))
		return cmd
	}

	t.Run("file", func(t *testing.T) {
		cmd := setup(t, "file")
		require.NoError(t, cmd.Run())
		assert.Equal(t, 0, cmd.ExitStatus)

		exists, _ := afero.Exists(cmd.Fs(), "/root/file")
		assert.False(t, exists)
	})

	t.Run("directory needs -r", func(t *testing.T) {
		cmd := setup(t, "dir")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err)
		assert.Equal(t, 1, cmd.ExitStatus)
		assert.Equal(t, "rm: can't remove \"dir\": is a directory\n", string(out))
	})

	t.Run("recursive", func(t *testing.T) {
		cmd := setup(t, "-r", "dir")
		require.NoError(t, cmd.Run())
		assert.Equal(t, 0, cmd.ExitStatus)

		exists, _ := afero.Exists(cmd.Fs(), "/root/dir/sub")
		assert.False(t, exists)
	})

	t.Run("missing", func(t *testing.T) {
		cmd := setup(t, "nope")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err)
		assert.Equal(t, 1, cmd.ExitStatus)
		assert.Equal(t, "rm: can't remove \"nope\": no such file or directory\n", string(out))

		forced := setup(t, "-f", "nope")
		require.NoError(t, forced.Run())
		assert.Equal(t, 0, forced.ExitStatus)
	})
}

func TestGrep(t *testing.T) {
	const input = "alpha\nBeta\ngamma\n"

	cases := map[string]struct {
		args       []string
		wantOut    string
		wantStatus int
	}{
		"match":       {[]string{"a$"}, "alpha\nBeta\ngamma\n", 0},
		"ignore case": {[]string{"-i", "^b"}, "Beta\n", 0},
		"invert":      {[]string{"-v", "mm"}, "alpha\nBeta\n", 0},
		"numbers":     {[]string{"-n", "gam"}, "3:gamma\n", 0},
		"no match":    {[]string{"delta"}, "", 1},
		"bad pattern": {[]string{"("}, "grep: error parsing regexp: missing closing ): `(`\n", 2},
		"no pattern":  {nil, "grep: missing argument PATTERN\n", 2},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := vostest.Command(Grep, "grep", tc.args...)
			out := runWithStdin(t, cmd, input)

			assert.Equal(t, tc.wantOut, out)
			assert.Equal(t, tc.wantStatus, cmd.ExitStatus)
		})
	}

	t.Run("files", func(t *testing.T) {
		cmd := vostest.Command(Grep, "grep", "a", "one", "two")
		require.NoError(t, afero.WriteFile(cmd.Fs(), "/root/one", []byte("a\nb\n"), 0644))
		require.NoError(t, afero.WriteFile(cmd.Fs(), "/root/two", []byte("ca\n"), 0644))

		out, err := cmd.CombinedOutput()
		require.NoError(t, err)
		assert.Equal(t, "one:a\ntwo:ca\n", string(out))
	})
}
