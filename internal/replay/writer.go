package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
)

// Writer appends entries to a replay log. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	zw     *zstd.Encoder
	enc    *json.Encoder
	file   io.Closer
	moves  int
	closed bool
}

// NewWriter writes h to w and returns a Writer for the entries.
// Closing the Writer flushes the compressor but does not close w.
func NewWriter(w io.Writer, h Header) (*Writer, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("replay: create zstd writer: %w", err)
	}
	h.Version = Version
	rw := &Writer{zw: zw, enc: json.NewEncoder(zw)}
	if err := rw.enc.Encode(h); err != nil {
		_ = zw.Close()
		return nil, fmt.Errorf("replay: write header: %w", err)
	}
	return rw, nil
}

// Create creates the file at path and writes h to it.
func Create(path string, h Header) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("replay: create %s: %w", path, err)
	}
	w, err := NewWriter(f, h)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.file = f
	return w, nil
}

// Record appends the outcome of one swap request.
func (w *Writer) Record(a, b engine.Cell, res engine.MoveResult, moveErr error, hash uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("replay: write to closed log")
	}
	w.moves++
	e, err := NewEntry(w.moves, a, b, res, moveErr, hash)
	if err != nil {
		return err
	}
	if err := w.enc.Encode(e); err != nil {
		return fmt.Errorf("replay: write move %d: %w", e.Move, err)
	}
	return nil
}

// Moves returns the number of entries written so far.
func (w *Writer) Moves() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.moves
}

// Close flushes the log and closes the underlying file when the Writer
// created it. Close is idempotent.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.zw.Close(); err != nil {
		if w.file != nil {
			_ = w.file.Close()
		}
		return fmt.Errorf("replay: close zstd writer: %w", err)
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("replay: close file: %w", err)
		}
	}
	return nil
}
