package logger

// LogEntry is a single line of the event log. Exactly one of the event fields
// is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	SessionStart *SessionStart `json:"session_start,omitempty"`
	CommandRun   *CommandRun   `json:"command_run,omitempty"`
	SessionEnd   *SessionEnd   `json:"session_end,omitempty"`
}

// LogType is implemented by every event that can be recorded.
type LogType interface {
	attach(*LogEntry)
}

// Event returns the event held by the entry, nil if none is set.
func (le *LogEntry) Event() LogType {
	switch {
	case le.SessionStart != nil:
		return le.SessionStart
	case le.CommandRun != nil:
		return le.CommandRun
	case le.SessionEnd != nil:
		return le.SessionEnd
	default:
		return nil
	}
}

// SessionStart is recorded when an interpreter loop begins.
type SessionStart struct {
	User        string `json:"user,omitempty"`
	Host        string `json:"host,omitempty"`
	Executor    string `json:"executor"`
	Interactive bool   `json:"interactive"`
}

func (e *SessionStart) attach(le *LogEntry) { le.SessionStart = e }

// CommandRun is recorded after each input line is executed.
type CommandRun struct {
	Line       string `json:"line"`
	Status     int    `json:"status"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

func (e *CommandRun) attach(le *LogEntry) { le.CommandRun = e }

// SessionEnd is recorded when the loop stops.
type SessionEnd struct {
	Status   int  `json:"status"`
	Commands int  `json:"commands"`
	Exited   bool `json:"exited"`
}

func (e *SessionEnd) attach(le *LogEntry) { le.SessionEnd = e }
