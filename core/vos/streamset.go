package vos

import (
	"errors"
	"sync"
)

// StreamSet owns the streams opened during one top-level execution and
// releases them together.
type StreamSet struct {
	mu      sync.Mutex
	streams []Stream
}

// Add hands ownership of s to the set.
func (ss *StreamSet) Add(s Stream) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.streams = append(ss.streams, s)
}

// Len returns the number of streams held.
func (ss *StreamSet) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.streams)
}

// Clear closes every stream in the set and empties it. All streams are closed
// even if some fail; the failures are joined.
func (ss *StreamSet) Clear() error {
	ss.mu.Lock()
	streams := ss.streams
	ss.streams = nil
	ss.mu.Unlock()

	var errs []error
	for _, s := range streams {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StreamState carries the stream bookkeeping every Executor shares: the
// replacements for stdin and stdout and the set of open streams. Embed it to
// satisfy that part of the Executor interface.
type StreamState struct {
	input  Stream
	output Stream
	set    StreamSet
}

// InputStream implements Executor.InputStream.
func (s *StreamState) InputStream() Stream {
	return s.input
}

// SetInputStream implements Executor.SetInputStream.
func (s *StreamState) SetInputStream(in Stream) {
	s.input = in
}

// OutputStream implements Executor.OutputStream.
func (s *StreamState) OutputStream() Stream {
	return s.output
}

// SetOutputStream implements Executor.SetOutputStream.
func (s *StreamState) SetOutputStream(out Stream) {
	s.output = out
}

// Streams implements Executor.Streams.
func (s *StreamState) Streams() *StreamSet {
	return &s.set
}

// track registers s with the set and returns it.
func (s *StreamState) track(st Stream) Stream {
	s.set.Add(st)
	return st
}
