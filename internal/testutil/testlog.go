// Package testutil holds helpers shared by package tests.
package testutil

import (
	"sync"

	"service-courier-dispatch/internal/logx"
)

// Entry is one recorded log call.
type Entry struct {
	Level  string
	Msg    string
	Fields []logx.Field
}

// Field returns the value of the named field and whether it was set.
func (e Entry) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Recorder collects log entries in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Logger returns a logx.Logger writing into the recorder.
func (r *Recorder) Logger() logx.Logger {
	return bound{r: r}
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Events returns the entries tagged with the given event name.
func (r *Recorder) Events(name string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if v, ok := e.Field("event"); ok && v == name {
			out = append(out, e)
		}
	}
	return out
}

// HasEvent reports whether at least one entry carries the event name.
func (r *Recorder) HasEvent(name string) bool {
	return len(r.Events(name)) > 0
}

func (r *Recorder) add(level, msg string, fields []logx.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := append([]logx.Field(nil), fields...)
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: cp})
}

type bound struct {
	r    *Recorder
	base []logx.Field
}

func (b bound) fields(f []logx.Field) []logx.Field {
	out := make([]logx.Field, 0, len(b.base)+len(f))
	out = append(out, b.base...)
	return append(out, f...)
}

func (b bound) Debug(msg string, f ...logx.Field) { b.r.add("debug", msg, b.fields(f)) }
func (b bound) Info(msg string, f ...logx.Field)  { b.r.add("info", msg, b.fields(f)) }
func (b bound) Warn(msg string, f ...logx.Field)  { b.r.add("warn", msg, b.fields(f)) }
func (b bound) Error(msg string, f ...logx.Field) { b.r.add("error", msg, b.fields(f)) }

func (b bound) With(f ...logx.Field) logx.Logger {
	return bound{r: b.r, base: b.fields(f)}
}

func (b bound) Sync() error { return nil }

var _ logx.Logger = bound{}
