package tardelta

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/tardelta/tario"
)

// Diff compares the archives at oldPath and newPath and writes a delta
// archive to outPath containing a manifest plus every changed or added
// entry of the new archive.
//
// The two input indexes are built concurrently; they share no state, so the
// result is identical to building them sequentially. On error the file at
// outPath may exist but was never finalized and is not a valid delta.
func Diff(ctx context.Context, oldPath, newPath, outPath string, opts ...Option) error {
	cfg := newConfig(opts)
	logger := cfg.log()

	var oldIdx, newIdx Index
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		idx, err := buildIndexFile(gctx, oldPath)
		if err != nil {
			return fmt.Errorf("index old archive: %w", err)
		}
		oldIdx = idx
		return nil
	})
	g.Go(func() error {
		idx, err := buildIndexFile(gctx, newPath)
		if err != nil {
			return fmt.Errorf("index new archive: %w", err)
		}
		newIdx = idx
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Debug("indexes built", "old_entries", len(oldIdx), "new_entries", len(newIdx))

	m := ComputeDiff(oldIdx, newIdx)
	logger.Debug("diff computed",
		"changed", len(m.Changed), "added", len(m.Added), "removed", len(m.Removed))

	newArchive, err := tario.Open(newPath)
	if err != nil {
		return fmt.Errorf("encode delta: %w", err)
	}
	defer newArchive.Close()

	sink, err := tario.Create(outPath, cfg.compression)
	if err != nil {
		return fmt.Errorf("encode delta: %w: %v", ErrWrite, err)
	}
	defer sink.Close()

	if err := EncodeDelta(ctx, newArchive, m, sink); err != nil {
		return fmt.Errorf("encode delta: %w", err)
	}
	logger.Info("delta archive written",
		"path", outPath, "entries", len(m.Changed)+len(m.Added), "compression", cfg.compression.String())
	return nil
}

// Apply reconstructs the full new archive at outPath from the archive at
// oldPath and the delta archive at deltaPath.
//
// On error the file at outPath may exist but was never finalized and must
// not be treated as a complete archive.
func Apply(ctx context.Context, oldPath, deltaPath, outPath string, opts ...Option) error {
	cfg := newConfig(opts)
	logger := cfg.log()

	oldArchive, err := tario.Open(oldPath)
	if err != nil {
		return fmt.Errorf("open old archive: %w", err)
	}
	defer oldArchive.Close()

	delta, err := tario.Open(deltaPath)
	if err != nil {
		return fmt.Errorf("open delta archive: %w", err)
	}
	defer delta.Close()

	sink, err := tario.Create(outPath, cfg.compression)
	if err != nil {
		return fmt.Errorf("apply delta: %w: %v", ErrWrite, err)
	}
	defer sink.Close()

	if err := ApplyDelta(ctx, oldArchive, delta, sink); err != nil {
		return fmt.Errorf("apply delta: %w", err)
	}
	logger.Info("archive reconstructed", "path", outPath)
	return nil
}

// buildIndexFile opens the archive at path and indexes it in one pass.
func buildIndexFile(ctx context.Context, path string) (Index, error) {
	r, err := tario.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return BuildIndex(ctx, r)
}
