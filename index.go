package tardelta

import (
	"archive/tar"
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // entry fingerprinting, not cryptography; width fixed by the delta format
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/meigma/tardelta/tario"
)

// Fingerprint identifies the state of one archive entry. Two entries are
// equal only when both the payload digest and the header checksum match, so
// a metadata-only change (permissions, mtime, ownership) still reads as
// changed.
type Fingerprint struct {
	ContentHash [sha1.Size]byte
	HeaderSum   uint32
}

// Index maps entry paths to fingerprints for a single archive. It is built
// in one sequential pass and never mutated afterwards.
type Index map[string]Fingerprint

// BuildIndex fingerprints every entry of the archive, in archive order.
//
// All enumerable entries are indexed uniformly; directories and links hash
// their (typically empty) payload. If the archive legally contains the same
// path twice, the last occurrence wins.
func BuildIndex(ctx context.Context, r *tario.Reader) (Index, error) {
	idx := make(Index)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hdr, err := r.Next()
		if errors.Is(err, io.EOF) {
			return idx, nil
		}
		if err != nil {
			return nil, classifyNextErr(err)
		}
		h := sha1.New() //nolint:gosec // see package import note
		if _, err := io.Copy(h, r); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRead, hdr.Name, err)
		}
		idx[hdr.Name] = Fingerprint{
			ContentHash: [sha1.Size]byte(h.Sum(nil)),
			HeaderSum:   headerChecksum(hdr),
		}
	}
}

// classifyNextErr maps a tar.Reader.Next failure onto the error taxonomy:
// header parse failures are corruption, everything else is an I/O failure.
func classifyNextErr(err error) error {
	if errors.Is(err, tar.ErrHeader) {
		return fmt.Errorf("%w: %v", ErrCorruptHeader, err)
	}
	return fmt.Errorf("%w: %v", ErrRead, err)
}

// headerChecksum derives the fingerprint's structural checksum from the
// header-significant metadata, covering the fields the tar format's own
// header checksum covers. The entry name is deliberately excluded: the
// index is keyed by it.
func headerChecksum(hdr *tar.Header) uint32 {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d\x00%o\x00%d\x00%d\x00%d\x00%d\x00%s\x00%s\x00%s\x00%d\x00%d",
		hdr.Typeflag, hdr.Mode, hdr.Uid, hdr.Gid, hdr.Size, hdr.ModTime.Unix(),
		hdr.Linkname, hdr.Uname, hdr.Gname, hdr.Devmajor, hdr.Devminor)
	return crc32.ChecksumIEEE(buf.Bytes())
}
