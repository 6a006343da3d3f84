package tardelta

import (
	"archive/tar"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/meigma/tardelta/tario"
)

// ManifestName is the reserved path of the manifest entry. It is always the
// first entry of a delta archive; readers reject archives that open with
// anything else.
const ManifestName = "__delta_metadata.json"

// EncodeDelta writes a delta archive to sink: the manifest entry first, then
// the header and payload of every changed or added entry of the new archive,
// copied verbatim in new-archive order in a single sequential pass.
//
// EncodeDelta finalizes the sink as its last action. If it returns an error
// the sink was never finalized and the output must not be treated as a
// valid delta.
func EncodeDelta(ctx context.Context, newArchive *tario.Reader, m *Manifest, sink *tario.Writer) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%w: marshal manifest: %v", ErrWrite, err)
	}
	// Fixed mtime keeps the manifest entry, and with it the whole delta,
	// reproducible for identical inputs.
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     ManifestName,
		Mode:     0o644,
		Size:     int64(len(data)),
		ModTime:  time.Unix(0, 0),
	}
	if err := sink.WriteHeader(hdr); err != nil {
		return fmt.Errorf("%w: manifest header: %v", ErrWrite, err)
	}
	if _, err := sink.Write(data); err != nil {
		return fmt.Errorf("%w: manifest payload: %v", ErrWrite, err)
	}

	carried := pathSet(m.Changed, m.Added)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := newArchive.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return classifyNextErr(err)
		}
		if _, ok := carried[hdr.Name]; !ok {
			continue
		}
		if err := copyEntry(sink, hdr, newArchive); err != nil {
			return err
		}
	}

	if err := sink.Finalize(); err != nil {
		return fmt.Errorf("%w: finalize delta archive: %v", ErrWrite, err)
	}
	return nil
}

// copyEntry appends one entry to sink, header metadata preserved unmodified.
func copyEntry(sink *tario.Writer, hdr *tar.Header, payload io.Reader) error {
	if err := sink.WriteHeader(hdr); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, hdr.Name, err)
	}
	if _, err := io.Copy(sink, payload); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, hdr.Name, err)
	}
	return nil
}
