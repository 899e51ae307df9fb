package transcript

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/shmoopland/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleEntries(session string) []Entry {
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	return []Entry{
		{SessionID: session, Seq: 1, Command: "look", Output: []string{"Gate"}, Location: "gate", Time: at},
		{SessionID: session, Seq: 2, Command: "north", Output: []string{"Town Square"}, Location: "town_square", Time: at.Add(time.Second)},
		{SessionID: session, Seq: 3, Command: "xyzzy", Output: []string{"Nothing happens."}, Location: "town_square", Error: "unrecognized", Time: at.Add(2 * time.Second)},
	}
}

func TestMemorySink_RecordsPerSession(t *testing.T) {
	ctx := context.Background()
	sink := NewMemorySink()

	for _, e := range sampleEntries("a") {
		require.NoError(t, sink.Record(ctx, e))
	}
	require.NoError(t, sink.Record(ctx, Entry{SessionID: "b", Seq: 1, Command: "look"}))

	got, err := sink.Entries(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, sampleEntries("a"), got)

	got, err = sink.Entries(ctx, "b")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = sink.Entries(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, sink.Close())
}

func TestMemorySink_EntriesIsACopy(t *testing.T) {
	ctx := context.Background()
	sink := NewMemorySink()
	require.NoError(t, sink.Record(ctx, Entry{SessionID: "a", Command: "look"}))

	got, err := sink.Entries(ctx, "a")
	require.NoError(t, err)
	got[0].Command = "changed"

	again, err := sink.Entries(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "look", again[0].Command)
}

func TestRedisSink_RoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	sink, err := NewRedisSink(ctx, "redis://"+mr.Addr(), time.Hour, quietLogger())
	require.NoError(t, err)
	defer sink.Close()

	for _, e := range sampleEntries("s1") {
		require.NoError(t, sink.Record(ctx, e))
	}

	got, err := sink.Entries(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "north", got[1].Command)
	assert.Equal(t, "unrecognized", got[2].Error)
	assert.True(t, got[0].Time.Equal(sampleEntries("s1")[0].Time))

	assert.True(t, mr.Exists(keyPrefix+"s1"))
	assert.Equal(t, time.Hour, mr.TTL(keyPrefix+"s1"))
}

func TestRedisSink_ExpiresTranscripts(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	sink, err := NewRedisSink(ctx, "redis://"+mr.Addr(), time.Minute, quietLogger())
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Record(ctx, Entry{SessionID: "s1", Command: "look"}))
	mr.FastForward(2 * time.Minute)

	got, err := sink.Entries(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisSink_SkipsCorruptEntries(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()
	sink, err := NewRedisSink(ctx, "redis://"+mr.Addr(), 0, quietLogger())
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Record(ctx, Entry{SessionID: "s1", Command: "look"}))
	_, err = mr.RPush(keyPrefix+"s1", "not json")
	require.NoError(t, err)

	got, err := sink.Entries(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNewRedisSink_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewRedisSink(ctx, "not a url", time.Minute, quietLogger())
	assert.ErrorContains(t, err, "failed to parse redis URL")

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedisSink(ctx, "redis://"+addr, time.Minute, quietLogger())
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestZstdSink_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	sink := NewZstdSink(dir, "transcript")

	ctx := context.Background()
	for _, e := range sampleEntries("z") {
		require.NoError(t, sink.Record(ctx, e))
	}
	require.NoError(t, sink.Close())

	path := filepath.Join(dir, "transcript-2026-03-01-12.jsonl.zst")
	got, err := ReadZstdFile(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "look", got[0].Command)
	assert.Equal(t, []string{"Town Square"}, got[1].Output)
}

func TestZstdSink_RotatesHourly(t *testing.T) {
	dir := t.TempDir()
	sink := NewZstdSink(dir, "transcript")
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 12, 59, 0, 0, time.UTC)
	require.NoError(t, sink.Record(ctx, Entry{SessionID: "z", Seq: 1, Time: at}))
	require.NoError(t, sink.Record(ctx, Entry{SessionID: "z", Seq: 2, Time: at.Add(2 * time.Minute)}))
	require.NoError(t, sink.Close())

	files, err := filepath.Glob(filepath.Join(dir, "*.jsonl.zst"))
	require.NoError(t, err)
	assert.Len(t, files, 2)

	first, err := ReadZstdFile(filepath.Join(dir, "transcript-2026-03-01-12.jsonl.zst"))
	require.NoError(t, err)
	assert.Len(t, first, 1)
	second, err := ReadZstdFile(filepath.Join(dir, "transcript-2026-03-01-13.jsonl.zst"))
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestZstdSink_CloseWithoutWrites(t *testing.T) {
	sink := NewZstdSink(t.TempDir(), "transcript")
	assert.NoError(t, sink.Close())
}

func TestReadZstdFile_Missing(t *testing.T) {
	_, err := ReadZstdFile(filepath.Join(t.TempDir(), "nope.jsonl.zst"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	sink, err := Open(ctx, &config.Config{Transcript: config.TranscriptNone}, quietLogger())
	require.NoError(t, err)
	assert.Nil(t, sink)

	sink, err = Open(ctx, &config.Config{Transcript: config.TranscriptMemory}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &MemorySink{}, sink)

	sink, err = Open(ctx, &config.Config{Transcript: config.TranscriptZstd, TranscriptDir: t.TempDir()}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &ZstdSink{}, sink)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	sink, err = Open(ctx, &config.Config{Transcript: config.TranscriptRedis, RedisURL: "redis://" + mr.Addr()}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &RedisSink{}, sink)
	require.NoError(t, sink.Close())

	_, err = Open(ctx, &config.Config{Transcript: "carrier-pigeon"}, quietLogger())
	assert.Error(t, err)
}
