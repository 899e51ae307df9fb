// Package transcript records every command a session handles and what the
// game replied.
package transcript

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nathoo/shmoopland/config"
)

// Entry is one recorded turn.
type Entry struct {
	SessionID string    `json:"session_id"`
	Seq       int       `json:"seq"`
	Command   string    `json:"command"`
	Output    []string  `json:"output"`
	Location  string    `json:"location"`
	Error     string    `json:"error,omitempty"`
	Time      time.Time `json:"time"`
}

// Sink receives entries as sessions play.
type Sink interface {
	Record(ctx context.Context, e Entry) error
	Close() error
}

// Reader is implemented by sinks that can return a session's entries.
type Reader interface {
	Entries(ctx context.Context, sessionID string) ([]Entry, error)
}

// Open builds the sink selected by cfg.Transcript. It returns nil for "none".
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Sink, error) {
	switch cfg.Transcript {
	case config.TranscriptNone, "":
		return nil, nil
	case config.TranscriptMemory:
		return NewMemorySink(), nil
	case config.TranscriptRedis:
		sink, err := NewRedisSink(ctx, cfg.RedisURL, cfg.TranscriptTTL, logger)
		if err != nil {
			return nil, err
		}
		return sink, nil
	case config.TranscriptZstd:
		return NewZstdSink(cfg.TranscriptDir, "transcript"), nil
	default:
		return nil, fmt.Errorf("unknown transcript backend %q", cfg.Transcript)
	}
}

// MemorySink keeps entries in memory. It is safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	entries map[string][]Entry
}

var (
	_ Sink   = (*MemorySink)(nil)
	_ Reader = (*MemorySink)(nil)
)

func NewMemorySink() *MemorySink {
	return &MemorySink{entries: map[string][]Entry{}}
}

func (m *MemorySink) Record(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.SessionID] = append(m.entries[e.SessionID], e)
	return nil
}

func (m *MemorySink) Entries(_ context.Context, sessionID string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries[sessionID]...), nil
}

func (m *MemorySink) Close() error { return nil }
