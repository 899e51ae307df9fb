package transcript

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// ZstdSink appends entries as JSON lines to zstd-compressed files, one file
// per hour.
type ZstdSink struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

var _ Sink = (*ZstdSink)(nil)

func NewZstdSink(baseDir, prefix string) *ZstdSink {
	return &ZstdSink{baseDir: baseDir, prefix: prefix}
}

func (z *ZstdSink) Record(_ context.Context, e Entry) error {
	z.mu.Lock()
	defer z.mu.Unlock()

	hour := e.Time.UTC().Format("2006-01-02-15")
	if e.Time.IsZero() {
		hour = time.Now().UTC().Format("2006-01-02-15")
	}
	if hour != z.curHour {
		if err := z.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := z.w.Write(b); err != nil {
		return err
	}
	if err := z.w.WriteByte('\n'); err != nil {
		return err
	}
	return z.w.Flush()
}

func (z *ZstdSink) Close() error {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.closeLocked()
}

func (z *ZstdSink) rotateLocked(hour string) error {
	if err := z.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(z.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(z.pathForHour(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	z.f = f
	z.enc = enc
	z.w = bufio.NewWriterSize(enc, 64*1024)
	z.curHour = hour
	return nil
}

func (z *ZstdSink) closeLocked() error {
	var err error
	if z.w != nil {
		_ = z.w.Flush()
	}
	if z.enc != nil {
		err = z.enc.Close()
		z.enc = nil
	}
	if z.f != nil {
		_ = z.f.Close()
		z.f = nil
	}
	z.w = nil
	z.curHour = ""
	return err
}

func (z *ZstdSink) pathForHour(hour string) string {
	return filepath.Join(z.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", z.prefix, hour))
}

// ReadZstdFile decodes every entry in a file written by ZstdSink.
func ReadZstdFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var entries []Entry
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return entries, fmt.Errorf("%s: %w", path, err)
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}
