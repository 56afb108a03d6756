package testutil

import (
	"strings"
	"sync"
)

// Recorder is a concurrency-safe ordered event log.
type Recorder struct {
	mu     sync.Mutex
	events []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends an event.
func (r *Recorder) Record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of every recorded event.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// Filter returns the events starting with prefix, prefix included.
func (r *Recorder) Filter(prefix string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// Names returns the part after prefix for every event matching it.
func (r *Recorder) Names(prefix string) []string {
	filtered := r.Filter(prefix)
	out := make([]string, len(filtered))
	for i, e := range filtered {
		out[i] = strings.TrimPrefix(e, prefix)
	}
	return out
}

// Reset drops every event.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
