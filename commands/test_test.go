package commands

import (
	"testing"

	"github.com/josephlewis42/rshell/core/vos/vostest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestBuiltin(t *testing.T) {
	cases := map[string]struct {
		argv   []string
		status int
		out    string
	}{
		"no-args":        {[]string{"test"}, 1, ""},
		"non-empty":      {[]string{"test", "x"}, 0, ""},
		"empty":          {[]string{"test", ""}, 1, ""},
		"negate":         {[]string{"test", "!", "x"}, 1, ""},
		"z":              {[]string{"test", "-z", ""}, 0, ""},
		"n":              {[]string{"test", "-n", ""}, 1, ""},
		"equal":          {[]string{"test", "a", "=", "a"}, 0, ""},
		"not-equal":      {[]string{"test", "a", "!=", "a"}, 1, ""},
		"negate-binary":  {[]string{"test", "!", "a", "=", "b"}, 0, ""},
		"int-lt":         {[]string{"test", "2", "-lt", "10"}, 0, ""},
		"int-ge":         {[]string{"test", "2", "-ge", "10"}, 1, ""},
		"int-bad":        {[]string{"test", "x", "-eq", "1"}, 2, "test: x: integer expression expected\n"},
		"file-exists":    {[]string{"test", "-e", "file.txt"}, 0, ""},
		"file-regular":   {[]string{"test", "-f", "/root/file.txt"}, 0, ""},
		"dir-not-file":   {[]string{"test", "-f", "/tmp"}, 1, ""},
		"dir":            {[]string{"test", "-d", "/tmp"}, 0, ""},
		"size":           {[]string{"test", "-s", "file.txt"}, 0, ""},
		"size-empty":     {[]string{"test", "-s", "empty.txt"}, 1, ""},
		"missing":        {[]string{"test", "-e", "missing"}, 1, ""},
		"bad-unary":      {[]string{"test", "-q", "x"}, 2, "test: -q: unary operator expected\n"},
		"bad-binary":     {[]string{"test", "a", "b", "c"}, 2, "test: b: binary operator expected\n"},
		"too-many":       {[]string{"test", "a", "b", "c", "d", "e"}, 2, "test: too many arguments\n"},
		"bracket":        {[]string{"[", "a", "=", "a", "]"}, 0, ""},
		"bracket-empty":  {[]string{"[", "]"}, 1, ""},
		"bracket-unterm": {[]string{"[", "a", "=", "a"}, 2, "[: missing `]'\n"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cmd := vostest.Command(Test, tc.argv[0], tc.argv[1:]...)
			require.NoError(t, afero.WriteFile(cmd.Fs(), "/root/file.txt", []byte("data"), 0644))
			require.NoError(t, afero.WriteFile(cmd.Fs(), "/root/empty.txt", nil, 0644))

			out, err := cmd.CombinedOutput()
			require.NoError(t, err)

			assert.Equal(t, tc.status, cmd.ExitStatus)
			assert.Equal(t, tc.out, string(out))
		})
	}
}
