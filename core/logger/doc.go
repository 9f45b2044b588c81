// Package logger holds the interpreter's two logging channels: diagnostic
// logging through log/slog, and a newline delimited JSON event log recording
// what each session ran.
package logger
