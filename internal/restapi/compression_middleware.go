package restapi

import (
	"fmt"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// compressibleTypes covers the JSON envelopes, GeoJSON exports and the debug
// page. Anything else the router serves is left as written.
var compressibleTypes = []string{"application/json", "text/html"}

// CompressionConfig controls gzip for API responses.
type CompressionConfig struct {
	// MinSize is the smallest body, in bytes, worth compressing. A route
	// with a handful of stops stays under the default.
	MinSize int
	// Level is a gzip level from -2 (Huffman only) to 9.
	Level int
}

// DefaultCompressionConfig matches the COMPRESSION_* environment defaults.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{MinSize: 1024, Level: 6}
}

// NewCompressionMiddleware builds the gzip wrapper for config. A bad level or
// size is reported rather than silently replaced so a typo in the environment
// stops the server at start-up.
func NewCompressionMiddleware(config CompressionConfig) (func(http.Handler) http.Handler, error) {
	if config.MinSize < 0 {
		return nil, fmt.Errorf("compression min size %d is negative", config.MinSize)
	}

	wrap, err := gzhttp.NewWrapper(
		gzhttp.MinSize(config.MinSize),
		gzhttp.CompressionLevel(config.Level),
		gzhttp.ContentTypes(compressibleTypes),
	)
	if err != nil {
		return nil, fmt.Errorf("compression level %d: %w", config.Level, err)
	}

	return func(next http.Handler) http.Handler {
		return wrap(next)
	}, nil
}
