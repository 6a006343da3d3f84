// Package tartest builds and reads small tar archives for tests.
package tartest

import (
	"archive/tar"
	"bufio"
	"io"
	"os"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
)

// Entry describes one archive entry for WriteArchive and holds what
// ReadArchive recovered about one.
type Entry struct {
	Name     string
	Body     string
	Mode     int64
	ModTime  time.Time
	Typeflag byte
	Linkname string
}

// WriteArchive writes a tar archive with the given entries, in order, to
// path. Zero Mode defaults to 0644, zero Typeflag to a regular file, and a
// zero ModTime to a fixed timestamp so fingerprints are stable across runs.
func WriteArchive(t *testing.T, path string, entries ...Entry) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	writeEntries(t, f, entries)
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

// WriteArchiveGzip is WriteArchive with the tar stream gzip-compressed.
func WriteArchiveGzip(t *testing.T, path string, entries ...Entry) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	gz := gzip.NewWriter(f)
	writeEntries(t, gz, entries)
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

func writeEntries(t *testing.T, w io.Writer, entries []Entry) {
	t.Helper()
	tw := tar.NewWriter(w)
	for _, e := range entries {
		mode := e.Mode
		if mode == 0 {
			mode = 0o644
		}
		typ := e.Typeflag
		if typ == 0 {
			typ = tar.TypeReg
		}
		modTime := e.ModTime
		if modTime.IsZero() {
			modTime = time.Unix(1700000000, 0)
		}
		hdr := &tar.Header{
			Typeflag: typ,
			Name:     e.Name,
			Mode:     mode,
			Size:     int64(len(e.Body)),
			ModTime:  modTime,
			Linkname: e.Linkname,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("write header %s: %v", e.Name, err)
		}
		if _, err := io.WriteString(tw, e.Body); err != nil {
			t.Fatalf("write body %s: %v", e.Name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
}

// ReadArchive reads every entry of the tar archive at path, in order,
// transparently decompressing gzip input.
func ReadArchive(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var src io.Reader = br
	if magic, peekErr := br.Peek(2); peekErr == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, gzErr := gzip.NewReader(br)
		if gzErr != nil {
			t.Fatalf("gzip %s: %v", path, gzErr)
		}
		defer gz.Close()
		src = gz
	}

	tr := tar.NewReader(src)
	var entries []Entry
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return entries
		}
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		body, err := io.ReadAll(tr)
		if err != nil {
			t.Fatalf("read %s entry %s: %v", path, hdr.Name, err)
		}
		entries = append(entries, Entry{
			Name:     hdr.Name,
			Body:     string(body),
			Mode:     hdr.Mode,
			ModTime:  hdr.ModTime,
			Typeflag: hdr.Typeflag,
			Linkname: hdr.Linkname,
		})
	}
}

// ToMap keys entries by name, last occurrence winning.
func ToMap(entries []Entry) map[string]Entry {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[e.Name] = e
	}
	return m
}

// Names returns entry names in archive order.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
