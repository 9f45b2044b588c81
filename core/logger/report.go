package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Sessions SessionReport `json:"session_report"`
	Commands CommandReport `json:"command_report"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		Commands: CommandReport{
			Failures: NewPathCounter("program", "status", "error"),
		},
	}
}

// Update adds a single entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.Event().(type) {
	case *SessionStart:
		r.Sessions.Started++
		r.Sessions.Executors.Increment(event.Executor)
	case *SessionEnd:
		r.Sessions.Ended++
		if event.Exited {
			r.Sessions.Exited++
		}
	case *CommandRun:
		r.Commands.update(event)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%T", event))
	}
}

// SessionReport counts interpreter sessions.
type SessionReport struct {
	Started   int        `json:"started"`
	Ended     int        `json:"ended"`
	Exited    int        `json:"exited"`
	Executors StrCounter `json:"executors"`
}

// CommandReport summarizes the lines that were run.
type CommandReport struct {
	Count int `json:"count"`
	// Programs counts the first word of each line.
	Programs StrCounter `json:"programs"`
	// Statuses counts exit statuses.
	Statuses StrCounter `json:"statuses"`
	// Failures holds lines that exited non-zero or failed to run.
	Failures *PathCounter `json:"failures"`
	// TotalDurationMs is the time spent running commands.
	TotalDurationMs int64 `json:"total_duration_ms"`
}

func (r *CommandReport) update(rc *CommandRun) {
	r.Count++
	r.TotalDurationMs += rc.DurationMs

	program := ""
	if fields := strings.Fields(rc.Line); len(fields) > 0 {
		program = fields[0]
	}
	r.Programs.Increment(program)

	status := strconv.Itoa(rc.Status)
	r.Statuses.Increment(status)
	if rc.Status != 0 || rc.Error != "" {
		r.Failures.Increment(program, status, rc.Error)
	}
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	if s.internal == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
