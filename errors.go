package tardelta

import "errors"

// Sentinel errors matched with errors.Is. Every failure surfaced by Diff and
// Apply wraps one of these together with the phase that produced it; there
// is no partial-success mode and no retry.
var (
	// ErrCorruptHeader is returned when an entry header cannot be parsed.
	ErrCorruptHeader = errors.New("corrupt entry header")

	// ErrRead is returned when streaming archive bytes fails mid-read,
	// for example on a truncated archive.
	ErrRead = errors.New("archive read failed")

	// ErrWrite is returned when writing or finalizing an output archive
	// fails.
	ErrWrite = errors.New("archive write failed")

	// ErrEmptyDelta is returned when a delta archive contains no entries.
	ErrEmptyDelta = errors.New("delta archive is empty")

	// ErrMissingManifest is returned when the first entry of a delta
	// archive is not the manifest path.
	ErrMissingManifest = errors.New("delta archive missing manifest as first entry")

	// ErrInvalidManifest is returned when the manifest entry does not
	// deserialize.
	ErrInvalidManifest = errors.New("invalid delta manifest")
)
