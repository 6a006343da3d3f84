package tardelta

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/meigma/tardelta/tario"
)

// ApplyDelta reconstructs the new archive into sink by merging the old
// archive with the payload carried in the delta.
//
// The output entry order is a contract: every untouched old entry in old
// order, then every changed or added entry in delta order (which mirrors
// new-archive order), never interleaved or re-sorted. Reconstruction from
// identical inputs is byte-for-byte reproducible.
//
// ApplyDelta finalizes the sink as its last action; on error the output was
// never finalized and must not be treated as a complete archive.
func ApplyDelta(ctx context.Context, oldArchive, delta *tario.Reader, sink *tario.Writer) error {
	m, err := readManifest(delta)
	if err != nil {
		return err
	}

	// Changed entries are superseded by the delta and removed entries are
	// gone; both drop out of the old pass.
	drop := pathSet(m.Changed, m.Removed)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := oldArchive.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return classifyNextErr(err)
		}
		if _, ok := drop[hdr.Name]; ok {
			continue
		}
		if err := copyEntry(sink, hdr, oldArchive); err != nil {
			return err
		}
	}

	// Every delta entry after the manifest is in changed or added by
	// construction; copy each verbatim.
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := delta.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return classifyNextErr(err)
		}
		if err := copyEntry(sink, hdr, delta); err != nil {
			return err
		}
	}

	if err := sink.Finalize(); err != nil {
		return fmt.Errorf("%w: finalize reconstructed archive: %v", ErrWrite, err)
	}
	return nil
}

// readManifest recovers the manifest from the delta archive's first entry.
func readManifest(delta *tario.Reader) (*Manifest, error) {
	hdr, err := delta.Next()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDelta
	}
	if err != nil {
		return nil, classifyNextErr(err)
	}
	if hdr.Name != ManifestName {
		return nil, fmt.Errorf("%w: first entry is %q", ErrMissingManifest, hdr.Name)
	}
	var m Manifest
	if err := json.NewDecoder(delta).Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return &m, nil
}
