// Package tario provides sequential access to tar archive files for the
// delta pipeline, hiding the plain-vs-gzip container framing behind a small
// reader/writer strategy.
//
// Readers sniff the gzip magic, so callers never declare the input framing;
// a gzip-compressed delta applies cleanly against a plain old archive and
// vice versa. Writers select their framing explicitly at creation time.
package tario

import (
	"archive/tar"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Compression identifies the container framing of an archive file.
type Compression uint8

const (
	// CompressionNone stores the tar stream uncompressed.
	CompressionNone Compression = iota

	// CompressionGzip wraps the tar stream in a gzip member.
	CompressionGzip
)

// String returns the flag-style name of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// gzipMagic is the two-byte member header that opens every gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// Reader reads the entries of a tar archive in a single sequential pass.
type Reader struct {
	f  *os.File
	gz *gzip.Reader
	tr *tar.Reader
}

// Open opens the archive at path for sequential reading, transparently
// decompressing gzip input.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	r := &Reader{f: f}

	var src io.Reader = br
	// A short or empty file fails the peek; leave that for the tar reader
	// to report against the first header.
	if magic, peekErr := br.Peek(len(gzipMagic)); peekErr == nil && bytes.Equal(magic, gzipMagic) {
		gz, gzErr := gzip.NewReader(br)
		if gzErr != nil {
			f.Close()
			return nil, fmt.Errorf("open %s: %w", path, gzErr)
		}
		r.gz = gz
		src = gz
	}
	r.tr = tar.NewReader(src)
	return r, nil
}

// Next advances to the next entry and returns its header. It returns io.EOF
// at the end of the archive.
func (r *Reader) Next() (*tar.Header, error) {
	return r.tr.Next()
}

// Read reads from the current entry's payload.
func (r *Reader) Read(p []byte) (int, error) {
	return r.tr.Read(p)
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	var gzErr error
	if r.gz != nil {
		gzErr = r.gz.Close()
	}
	if err := r.f.Close(); err != nil {
		return err
	}
	return gzErr
}

// Writer appends entries to a tar archive being created at a path.
//
// A Writer has two terminal states. Finalize writes the tar end-of-archive
// framing, flushes compression, and closes the file; Close without a prior
// Finalize abandons the output, leaving a partial file that readers will
// reject. Callers must never present an unfinalized file as a complete
// archive.
type Writer struct {
	f         *os.File
	gz        *gzip.Writer
	tw        *tar.Writer
	finalized bool
}

// Create opens path for writing a new archive with the given framing.
// An existing file at path is truncated.
func Create(path string, c Compression) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &Writer{f: f}
	var sink io.Writer = f
	if c == CompressionGzip {
		w.gz = gzip.NewWriter(f)
		sink = w.gz
	}
	w.tw = tar.NewWriter(sink)
	return w, nil
}

// WriteHeader begins a new entry with the given header.
func (w *Writer) WriteHeader(hdr *tar.Header) error {
	return w.tw.WriteHeader(hdr)
}

// Write writes payload bytes for the current entry.
func (w *Writer) Write(p []byte) (int, error) {
	return w.tw.Write(p)
}

// Finalize writes the end-of-archive framing and closes the file. It must be
// the last action of a successful write; on error the output is incomplete.
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	if err := w.tw.Close(); err != nil {
		w.f.Close()
		return err
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil {
			w.f.Close()
			return err
		}
	}
	if err := w.f.Close(); err != nil {
		return err
	}
	w.finalized = true
	return nil
}

// Close abandons the writer without finalizing. It is a no-op after a
// successful Finalize, so callers can defer it as the abort path.
func (w *Writer) Close() error {
	if w.finalized {
		return nil
	}
	return w.f.Close()
}
