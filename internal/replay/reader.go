package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Reader reads a replay log entry by entry.
type Reader struct {
	zr     *zstd.Decoder
	dec    *json.Decoder
	file   io.Closer
	header Header
}

// NewReader reads the header from r.
func NewReader(r io.Reader) (*Reader, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("replay: create zstd reader: %w", err)
	}
	rd := &Reader{zr: zr, dec: json.NewDecoder(zr)}
	if err := rd.dec.Decode(&rd.header); err != nil {
		zr.Close()
		return nil, fmt.Errorf("replay: read header: %w", err)
	}
	if rd.header.Version != Version {
		zr.Close()
		return nil, fmt.Errorf("replay: unsupported log version %d", rd.header.Version)
	}
	return rd, nil
}

// Open opens the log at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.file = f
	return r, nil
}

// Header returns the log header.
func (r *Reader) Header() Header {
	return r.header
}

// Next returns the next entry, or io.EOF after the last one.
func (r *Reader) Next() (Entry, error) {
	var e Entry
	if err := r.dec.Decode(&e); err != nil {
		if errors.Is(err, io.EOF) {
			return Entry{}, io.EOF
		}
		return Entry{}, fmt.Errorf("replay: read entry: %w", err)
	}
	return e, nil
}

// All reads every remaining entry.
func (r *Reader) All() ([]Entry, error) {
	var entries []Entry
	for {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}
		entries = append(entries, e)
	}
}

// Close releases the decoder and the file opened by Open.
func (r *Reader) Close() error {
	r.zr.Close()
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ReadFile reads a whole log.
func ReadFile(path string) (Header, []Entry, error) {
	r, err := Open(path)
	if err != nil {
		return Header{}, nil, err
	}
	defer r.Close()

	entries, err := r.All()
	if err != nil {
		return r.Header(), entries, err
	}
	return r.Header(), entries, nil
}
