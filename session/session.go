// Package session runs many independent games over one shared content store.
// Each session owns its engine and world; the store is read-only and shared.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/shmoopland/engine"
	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/engine/nlp"
	"github.com/nathoo/shmoopland/engine/state"
	"github.com/nathoo/shmoopland/logger"
	"github.com/nathoo/shmoopland/transcript"
	"github.com/nathoo/shmoopland/types"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrEnded    = errors.New("session has ended")
)

const recordTimeout = 2 * time.Second

// Reply is what a session returns for each command. Error holds the failure
// kind of a rejected command and is empty on success.
type Reply struct {
	SessionID string   `json:"session_id"`
	Text      string   `json:"text"`
	Running   bool     `json:"running"`
	Location  string   `json:"location"`
	Inventory []string `json:"inventory"`
	Error     string   `json:"error,omitempty"`
}

// Info describes a live session.
type Info struct {
	ID       string    `json:"id"`
	Running  bool      `json:"running"`
	Turns    int       `json:"turns"`
	Location string    `json:"location"`
	Started  time.Time `json:"started"`
	LastSeen time.Time `json:"last_seen"`
}

type session struct {
	mu       sync.Mutex
	id       string
	eng      *engine.Engine
	seq      int
	running  bool
	started  time.Time
	lastSeen time.Time
}

// Manager owns the live sessions.
type Manager struct {
	store   *content.Store
	timeout time.Duration
	seed    int64
	tagger  nlp.Tagger
	sink    transcript.Sink
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimeout sets how long a session may sit idle before Sweep ends it.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// WithSeed gives every session the same RNG seed. Zero seeds each session
// from the clock.
func WithSeed(seed int64) Option {
	return func(m *Manager) { m.seed = seed }
}

func WithTagger(t nlp.Tagger) Option {
	return func(m *Manager) { m.tagger = t }
}

// WithTranscript records every handled command to sink.
func WithTranscript(sink transcript.Sink) Option {
	return func(m *Manager) { m.sink = sink }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store *content.Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		timeout:  30 * time.Minute,
		now:      time.Now,
		sessions: map[string]*session{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m
}

// Start creates a session and returns its introduction.
func (m *Manager) Start(ctx context.Context) (Reply, error) {
	id := uuid.NewString()
	now := m.now()

	seed := m.seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	log := logger.WithSession(m.logger, id)
	opts := []engine.Option{engine.WithSeed(seed), engine.WithLogger(log)}
	if m.tagger != nil {
		opts = append(opts, engine.WithTagger(m.tagger))
	}
	eng := engine.New(m.store, opts...)
	res := eng.Start()

	s := &session{id: id, eng: eng, running: true, started: now, lastSeen: now}
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	log.Info("session started", "seed", seed)
	m.record(ctx, s, "", res)
	return s.reply(res), nil
}

// Handle runs one command in the session. Commands for the same session are
// serialized; different sessions run concurrently.
func (m *Manager) Handle(ctx context.Context, id, raw string) (Reply, error) {
	s, err := m.get(id)
	if err != nil {
		return Reply{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return Reply{}, fmt.Errorf("session %s: %w", id, ErrEnded)
	}

	res := s.eng.Step(raw)
	s.seq++
	s.lastSeen = m.now()
	if res.Quit {
		s.running = false
		m.logger.Info("session quit", "session_id", id, "turns", s.eng.World.Turns)
	}
	m.record(ctx, s, raw, res)
	return s.reply(res), nil
}

// End removes the session.
func (m *Manager) End(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	delete(m.sessions, id)
	m.logger.Info("session ended", "session_id", id)
	return nil
}

// Snapshot returns a copy of the session's world.
func (m *Manager) Snapshot(id string) (*state.World, error) {
	s, err := m.get(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return state.Clone(s.eng.World), nil
}

// Info describes the session.
func (m *Manager) Info(id string) (Info, error) {
	s, err := m.get(id)
	if err != nil {
		return Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:       s.id,
		Running:  s.running,
		Turns:    s.eng.World.Turns,
		Location: s.eng.World.Location,
		Started:  s.started,
		LastSeen: s.lastSeen,
	}, nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep ends sessions idle for longer than the timeout and returns how many
// it removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.timeout)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("idle sessions swept", "removed", removed, "remaining", len(m.sessions))
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) get(id string) (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return s, nil
}

// record writes a transcript entry. A failing sink is logged, never fatal.
func (m *Manager) record(ctx context.Context, s *session, command string, res types.Result) {
	if m.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, recordTimeout)
	defer cancel()

	e := transcript.Entry{
		SessionID: s.id,
		Seq:       s.seq,
		Command:   command,
		Output:    res.Output,
		Location:  s.eng.World.Location,
		Error:     errorKind(res.Err),
		Time:      m.now(),
	}
	if err := m.sink.Record(ctx, e); err != nil {
		m.logger.Warn("failed to record transcript", "session_id", s.id, "error", err)
	}
}

func (s *session) reply(res types.Result) Reply {
	return Reply{
		SessionID: s.id,
		Text:      strings.Join(res.Output, "\n"),
		Running:   s.running,
		Location:  s.eng.World.Location,
		Inventory: append([]string{}, s.eng.World.Inventory...),
		Error:     errorKind(res.Err),
	}
}

func errorKind(err error) string {
	if err == nil {
		return ""
	}
	var cerr *engine.CommandError
	if errors.As(err, &cerr) {
		return cerr.Kind.Error()
	}
	return err.Error()
}
