package tardelta

import (
	"io"
	"log/slog"

	"github.com/meigma/tardelta/tario"
)

// config holds shared configuration for Diff and Apply.
type config struct {
	logger      *slog.Logger
	compression tario.Compression
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// log returns the configured logger, falling back to a discard logger.
func (c config) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.logger
}

// Option configures Diff and Apply.
type Option func(*config)

// WithLogger enables diagnostic logging for the operation, scoped to the
// call. Index and manifest summaries are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithCompression sets the framing of the output archive. Inputs are always
// detected automatically, so this affects only what is written.
func WithCompression(c Compression) Option {
	return func(cfg *config) {
		cfg.compression = c
	}
}
