package commands

import (
	"testing"

	"github.com/josephlewis42/rshell/core/vos/vostest"
	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	cmd := vostest.Command(Env, "env")
	cmd.Env = []string{"C=charlie", "A=alpha", "B=bravo"}

	out, err := cmd.CombinedOutput()

	assert.Equal(t, 0, cmd.ExitStatus, "exit code")
	assert.Nil(t, err)
	assert.Equal(t, "A=alpha\nB=bravo\nC=charlie\nHOME=/root\nPWD=/root\n", string(out))
}

func TestWhich(t *testing.T) {
	cmd := vostest.Command(Which, "which", "echo", "/usr/bin/wc", "cd", "nope")

	out, err := cmd.CombinedOutput()

	assert.Nil(t, err)
	assert.Equal(t, 1, cmd.ExitStatus, "exit code")
	assert.Equal(t, "/bin/echo\n/usr/bin/wc\n", string(out))
}
