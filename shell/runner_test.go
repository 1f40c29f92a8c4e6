package shell

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"ls -la /tmp", "ls", true},
		{"  git   status ", "git", true},
		{"pwd", "pwd", true},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		got, ok := SplitCommand(tt.line)
		assert.Equal(t, tt.ok, ok, "line %q", tt.line)
		assert.Equal(t, tt.want, got, "line %q", tt.line)
	}
}

func TestRunCapturesOutput(t *testing.T) {
	r := NewRunner()
	home := t.TempDir()

	res, err := r.Run(context.Background(), "alice", home, "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Output)
	assert.Equal(t, 0, res.ExitCode)
}

func TestRunConfinesToHome(t *testing.T) {
	r := NewRunner()
	home := t.TempDir()

	res, err := r.Run(context.Background(), "alice", home, "pwd")
	require.NoError(t, err)
	assert.Equal(t, home, res.Output)

	res, err = r.Run(context.Background(), "alice", home, `printf '%s' "$HOME"`)
	require.NoError(t, err)
	assert.Equal(t, home, res.Output)
}

func TestRunRestrictsEnvironment(t *testing.T) {
	t.Setenv("SECRET_LEAK", "should-not-appear")
	r := NewRunner()

	res, err := r.Run(context.Background(), "alice", t.TempDir(), `printf '%s' "$SECRET_LEAK"`)
	require.NoError(t, err)
	assert.Empty(t, res.Output)

	res, err = r.Run(context.Background(), "alice", t.TempDir(), `printf '%s' "$USER"`)
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Output)
}

func TestRunReportsExitCode(t *testing.T) {
	r := NewRunner()

	res, err := r.Run(context.Background(), "alice", t.TempDir(), "sh -c 'exit 3'")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
}

func TestRunTimeout(t *testing.T) {
	r := NewRunner(WithTimeout(100 * time.Millisecond))

	start := time.Now()
	res, err := r.Run(context.Background(), "alice", t.TempDir(), "sleep 5")
	assert.Less(t, time.Since(start), 2*time.Second)
	// Killed by the context deadline: surfaced either as an error or a
	// non-zero exit, never a hang.
	if err == nil {
		assert.NotEqual(t, 0, res.ExitCode)
	}
}
