// tardelta ships incremental updates of tar archives. "diff" produces a
// compact delta archive holding a manifest plus only the changed and added
// entries of the new archive; "apply" combines a delta with the original old
// archive to reconstruct the new one.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/meigma/tardelta"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var verbose bool
	var gzipOut bool

	flagSet := pflag.NewFlagSet("tardelta", pflag.ContinueOnError)
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log progress and diagnostics to stderr")
	flagSet.BoolVarP(&gzipOut, "gzip", "c", false, "gzip-compress the output archive (inputs are detected automatically)")
	flagSet.Usage = func() { printUsage(flagSet) }

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	args := flagSet.Args()
	if len(args) != 4 {
		printUsage(flagSet)
		return fmt.Errorf("expected a command and three paths, got %d arguments", len(args))
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []tardelta.Option{tardelta.WithLogger(logger)}
	if gzipOut {
		opts = append(opts, tardelta.WithCompression(tardelta.CompressionGzip))
	}

	ctx := context.Background()
	switch cmd := args[0]; cmd {
	case "diff":
		return tardelta.Diff(ctx, args[1], args[2], args[3], opts...)
	case "apply":
		return tardelta.Apply(ctx, args[1], args[2], args[3], opts...)
	default:
		printUsage(flagSet)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage:
  tardelta [flags] diff <old.tar> <new.tar> <out.tar>
  tardelta [flags] apply <old.tar> <delta.tar> <out.tar>

Commands:
  diff    write a delta archive holding only the entries that differ
  apply   reconstruct the new archive from the old archive and a delta

Flags:
%s`, flagSet.FlagUsages())
}
