package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/shmoopland/data"
	"github.com/nathoo/shmoopland/engine/content"
	"github.com/nathoo/shmoopland/loader"
	"github.com/nathoo/shmoopland/transcript"
)

func loadStore(t *testing.T) *content.Store {
	t.Helper()
	store, err := loader.LoadFS(data.Game())
	require.NoError(t, err)
	return store
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type failingSink struct{}

func (failingSink) Record(context.Context, transcript.Entry) error { return errors.New("disk full") }
func (failingSink) Close() error                                   { return nil }

func TestManager_StartAndHandle(t *testing.T) {
	ctx := context.Background()
	m := NewManager(loadStore(t), WithSeed(42))

	start, err := m.Start(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, start.SessionID)
	assert.True(t, start.Running)
	assert.Equal(t, "start", start.Location)
	assert.Contains(t, start.Text, "Shmoopland")

	reply, err := m.Handle(ctx, start.SessionID, "take map")
	require.NoError(t, err)
	assert.Empty(t, reply.Error)
	assert.Equal(t, []string{"old_map"}, reply.Inventory)

	reply, err = m.Handle(ctx, start.SessionID, "north")
	require.NoError(t, err)
	assert.Equal(t, "town_square", reply.Location)
	assert.Contains(t, reply.Text, "Town Square")
}

func TestManager_HandleReportsErrorKind(t *testing.T) {
	ctx := context.Background()
	m := NewManager(loadStore(t), WithSeed(42))
	start, err := m.Start(ctx)
	require.NoError(t, err)

	reply, err := m.Handle(ctx, start.SessionID, "xyzzy")
	require.NoError(t, err)
	assert.Equal(t, "unrecognized command", reply.Error)
	assert.True(t, reply.Running)
	assert.Equal(t, "start", reply.Location)
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	m := NewManager(loadStore(t), WithSeed(42))

	a, err := m.Start(ctx)
	require.NoError(t, err)
	b, err := m.Start(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.SessionID, b.SessionID)

	_, err = m.Handle(ctx, a.SessionID, "north")
	require.NoError(t, err)

	wa, err := m.Snapshot(a.SessionID)
	require.NoError(t, err)
	wb, err := m.Snapshot(b.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "town_square", wa.Location)
	assert.Equal(t, "start", wb.Location)
	assert.Equal(t, 2, m.Len())
}

func TestManager_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	m := NewManager(loadStore(t), WithSeed(42))
	start, err := m.Start(ctx)
	require.NoError(t, err)

	w, err := m.Snapshot(start.SessionID)
	require.NoError(t, err)
	w.Location = "crystal_caves"

	info, err := m.Info(start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "start", info.Location)
}

func TestManager_QuitEndsPlay(t *testing.T) {
	ctx := context.Background()
	m := NewManager(loadStore(t), WithSeed(42))
	start, err := m.Start(ctx)
	require.NoError(t, err)

	reply, err := m.Handle(ctx, start.SessionID, "quit")
	require.NoError(t, err)
	assert.False(t, reply.Running)

	_, err = m.Handle(ctx, start.SessionID, "look")
	assert.ErrorIs(t, err, ErrEnded)

	info, err := m.Info(start.SessionID)
	require.NoError(t, err)
	assert.False(t, info.Running)
}

func TestManager_UnknownSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(loadStore(t))

	_, err := m.Handle(ctx, "nope", "look")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Snapshot("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Info("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.End("nope"), ErrNotFound)
}

func TestManager_End(t *testing.T) {
	ctx := context.Background()
	m := NewManager(loadStore(t))
	start, err := m.Start(ctx)
	require.NoError(t, err)

	require.NoError(t, m.End(start.SessionID))
	assert.Equal(t, 0, m.Len())
	_, err = m.Handle(ctx, start.SessionID, "look")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_SweepRemovesIdleSessions(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(loadStore(t), WithTimeout(10*time.Minute), WithClock(clock.Now))

	idle, err := m.Start(ctx)
	require.NoError(t, err)
	busy, err := m.Start(ctx)
	require.NoError(t, err)

	clock.Advance(8 * time.Minute)
	_, err = m.Handle(ctx, busy.SessionID, "look")
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	_, err = m.Info(idle.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Info(busy.SessionID)
	assert.NoError(t, err)
}

func TestManager_RunSweeperStopsWithContext(t *testing.T) {
	m := NewManager(loadStore(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunSweeper(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestManager_RecordsTranscript(t *testing.T) {
	ctx := context.Background()
	sink := transcript.NewMemorySink()
	m := NewManager(loadStore(t), WithSeed(42), WithTranscript(sink))

	start, err := m.Start(ctx)
	require.NoError(t, err)
	_, err = m.Handle(ctx, start.SessionID, "north")
	require.NoError(t, err)
	_, err = m.Handle(ctx, start.SessionID, "xyzzy")
	require.NoError(t, err)

	entries, err := sink.Entries(ctx, start.SessionID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "", entries[0].Command)
	assert.Equal(t, "north", entries[1].Command)
	assert.Equal(t, 1, entries[1].Seq)
	assert.Equal(t, "town_square", entries[1].Location)
	assert.Equal(t, "unrecognized command", entries[2].Error)
}

func TestManager_FailingSinkDoesNotFailCommands(t *testing.T) {
	ctx := context.Background()
	m := NewManager(loadStore(t), WithTranscript(failingSink{}))

	start, err := m.Start(ctx)
	require.NoError(t, err)
	_, err = m.Handle(ctx, start.SessionID, "look")
	assert.NoError(t, err)
}

func TestManager_ConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	m := NewManager(loadStore(t), WithSeed(42))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start, err := m.Start(ctx)
			if !assert.NoError(t, err) {
				return
			}
			for _, cmd := range []string{"take map", "north", "look", "south", "drop map"} {
				_, err := m.Handle(ctx, start.SessionID, cmd)
				assert.NoError(t, err)
			}
			w, err := m.Snapshot(start.SessionID)
			if assert.NoError(t, err) {
				assert.Equal(t, "start", w.Location)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, m.Len())
}
