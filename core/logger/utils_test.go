package logger

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestNewJsonLinesLogRecorder(t *testing.T) {
	var out bytes.Buffer
	l := NewJsonLinesLogRecorder(&out)
	l.now = fixedClock

	session := l.Sessionless()
	require.NoError(t, session.Record(&CommandRun{Line: "echo hi", Status: 0, DurationMs: 3}))
	require.NoError(t, session.Record(&SessionEnd{Status: 4, Commands: 1, Exited: true}))

	assert.Equal(t,
		`{"timestamp_micros":1709294400000000,"command_run":{"line":"echo hi","status":0,"duration_ms":3}}`+"\n"+
			`{"timestamp_micros":1709294400000000,"session_end":{"status":4,"commands":1,"exited":true}}`+"\n",
		out.String())
}

func TestSessionLogger(t *testing.T) {
	var entries []*LogEntry
	l := &Logger{Record: func(le *LogEntry) error {
		entries = append(entries, le)
		return nil
	}}

	session := l.NewSession()
	assert.NotEmpty(t, session.SessionID())
	require.NoError(t, session.Record(&SessionStart{Executor: "posix"}))

	require.Len(t, entries, 1)
	assert.Equal(t, session.SessionID(), entries[0].SessionID)
	assert.Equal(t, &SessionStart{Executor: "posix"}, entries[0].Event())
	assert.NotZero(t, entries[0].TimestampMicros)

	t.Run("propagates errors", func(t *testing.T) {
		failing := &Logger{Record: func(*LogEntry) error { return errors.New("disk full") }}
		assert.EqualError(t, failing.Sessionless().Record(&SessionEnd{}), "disk full")
	})

	t.Run("nil logger", func(t *testing.T) {
		var nilSession *SessionLogger
		assert.NoError(t, nilSession.Record(&SessionEnd{}))
	})
}
