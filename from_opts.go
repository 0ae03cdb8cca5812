package fsblob

import (
	"log/slog"

	"github.com/go-git/go-billy/v5"

	"github.com/meigma/fsblob/internal/fsys"
)

// FromOption configures BlobFrom and FileFrom.
type FromOption func(*fromConfig)

type fromConfig struct {
	typ       string
	detect    bool
	fs        fsys.FS
	chunkSize int
	logger    *slog.Logger
}

func newFromConfig(opts []FromOption) *fromConfig {
	c := &fromConfig{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.fs == nil {
		c.fs = fsys.OS()
	}
	return c
}

// FromWithType sets the MIME type of the returned blob.
func FromWithType(typ string) FromOption {
	return func(c *fromConfig) {
		c.typ = typ
	}
}

// FromWithDetectType sniffs the MIME type from the first bytes of the file
// when no type is set with FromWithType. Detection reads the file once at
// construction time.
func FromWithDetectType(enabled bool) FromOption {
	return func(c *fromConfig) {
		c.detect = enabled
	}
}

// FromWithFilesystem resolves paths against filesystem instead of the host
// filesystem, e.g. osfs.New(dir) to read files relative to dir.
//
// The filesystem must report real modification times; go-billy's memfs
// reports the current time and makes every read fail as stale.
func FromWithFilesystem(filesystem billy.Filesystem) FromOption {
	return func(c *fromConfig) {
		c.fs = fsys.New(filesystem)
	}
}

// FromWithChunkSize sets the maximum chunk length yielded when streaming.
// Values <= 0 use DefaultChunkSize.
func FromWithChunkSize(n int) FromOption {
	return func(c *fromConfig) {
		c.chunkSize = n
	}
}

// FromWithLogger sets the logger for debug output.
func FromWithLogger(logger *slog.Logger) FromOption {
	return func(c *fromConfig) {
		c.logger = logger
	}
}
