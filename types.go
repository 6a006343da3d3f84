package tardelta

import "github.com/meigma/tardelta/tario"

// Compression identifies the container framing used for output archives.
type Compression = tario.Compression

// Compression constants.
const (
	CompressionNone = tario.CompressionNone
	CompressionGzip = tario.CompressionGzip
)
