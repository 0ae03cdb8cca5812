package part

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/meigma/fsblob/internal/fsys"
)

// DefaultChunkSize is the size of the chunks yielded by FileRange streams.
const DefaultChunkSize = 64 * 1024

// FileRange is a lazily read byte range of a file.
//
// A FileRange records the size and modification time the file had when the
// root range was created. Every stream re-stats the file first and fails
// with ErrNotReadable if the file grew newer or changed size since then.
// A rewrite that keeps the size and does not advance the modification time
// is not detected.
//
// FileRange holds no open descriptor; each stream opens and closes its own.
type FileRange struct {
	fs           fsys.FS
	path         string
	start        int64
	size         int64
	modTime      time.Time
	originalSize int64
	chunkSize    int
	logger       *slog.Logger
}

// Interface compliance.
var (
	_ Part           = (*FileRange)(nil)
	_ Checker        = (*FileRange)(nil)
	_ fmt.Stringer   = (*FileRange)(nil)
	_ slog.LogValuer = (*FileRange)(nil)
)

// Option configures a FileRange.
type Option func(*FileRange)

// WithChunkSize sets the maximum chunk length yielded by Stream.
// Values <= 0 use DefaultChunkSize.
func WithChunkSize(n int) Option {
	return func(r *FileRange) {
		r.chunkSize = n
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *FileRange) {
		r.logger = logger
	}
}

// NewFileRange creates a root range covering the whole file at path.
//
// size and modTime must come from a stat of the file; they are the state
// later streams are validated against, at the full precision of modTime.
func NewFileRange(fs fsys.FS, path string, size int64, modTime time.Time, opts ...Option) *FileRange {
	r := &FileRange{
		fs:           fs,
		path:         path,
		size:         size,
		modTime:      modTime,
		originalSize: size,
		chunkSize:    DefaultChunkSize,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.fs == nil {
		r.fs = fsys.OS()
	}
	if r.chunkSize <= 0 {
		r.chunkSize = DefaultChunkSize
	}
	return r
}

// log returns the logger, falling back to a discard logger if nil.
func (r *FileRange) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// Size implements Part.
func (r *FileRange) Size() int64 {
	return r.size
}

// LastModified returns the modification time captured for the root file,
// in milliseconds since the Unix epoch.
func (r *FileRange) LastModified() int64 {
	return r.modTime.UnixMilli()
}

// ModTime returns the modification time captured for the root file.
func (r *FileRange) ModTime() time.Time {
	return r.modTime
}

// OriginalSize returns the size of the root file when it was captured.
func (r *FileRange) OriginalSize() int64 {
	return r.originalSize
}

// Slice implements Part.
//
// The bounds are relative to r and must satisfy 0 <= start <= end <= Size().
// The result addresses the same file; no I/O is performed.
func (r *FileRange) Slice(start, end int64) Part {
	child := *r
	child.start = r.start + start
	child.size = end - start
	return &child
}

// Check stats the file and reports whether it still matches the captured
// state. It returns a *NotReadableError when it does not; stat errors are
// returned unchanged.
func (r *FileRange) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := r.fs.Stat(r.path)
	if err != nil {
		return err
	}
	size, modTime := fsys.Snapshot(info)
	if modTime.After(r.modTime) || size != r.originalSize {
		r.log().Debug("file range stale",
			"path", r.path,
			"expected_size", r.originalSize,
			"current_size", size,
			"expected_mtime", r.modTime,
			"current_mtime", modTime,
		)
		return &NotReadableError{
			ExpectedSize:    r.originalSize,
			CurrentSize:     size,
			ExpectedModTime: r.modTime,
			CurrentModTime:  modTime,
		}
	}
	return nil
}

// Stream implements Part.
//
// The file is validated with Check before anything is yielded, so a stale
// file produces a single error and no bytes. Otherwise the range is yielded
// in order as chunks of at most the configured chunk size. Chunks are not
// reused and stay valid after the next iteration. If the file ends before
// the range does, the sequence ends with io.ErrUnexpectedEOF. The file is
// closed when the sequence finishes or the caller stops early.
func (r *FileRange) Stream(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if err := r.Check(ctx); err != nil {
			yield(nil, err)
			return
		}
		if r.size == 0 {
			return
		}

		f, err := r.fs.Open(r.path)
		if err != nil {
			yield(nil, err)
			return
		}
		defer f.Close()

		r.log().Debug("streaming file range", "path", r.path, "start", r.start, "size", r.size)

		section := io.NewSectionReader(f, r.start, r.size)
		for remaining := r.size; remaining > 0; {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			buf := make([]byte, min(int64(r.chunkSize), remaining))
			n, err := io.ReadFull(section, buf)
			if err != nil {
				if n > 0 && !yield(buf[:n], nil) {
					return
				}
				if errors.Is(err, io.EOF) {
					err = io.ErrUnexpectedEOF
				}
				yield(nil, err)
				return
			}
			remaining -= int64(n)
			if !yield(buf, nil) {
				return
			}
		}
	}
}

// String describes the range without exposing the file location.
func (r *FileRange) String() string {
	return fmt.Sprintf("FileRange(size=%d)", r.size)
}

// LogValue implements slog.LogValuer with the externally observable fields.
func (r *FileRange) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("size", r.size),
		slog.Int64("last_modified", r.LastModified()),
		slog.Int64("original_size", r.originalSize),
	)
}
