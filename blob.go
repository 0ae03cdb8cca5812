package fsblob

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/fsblob/internal/part"
)

// DefaultMediaType is reported by Descriptor for blobs without a type.
const DefaultMediaType = "application/octet-stream"

// Blob is an immutable, ordered sequence of parts.
//
// Content is produced lazily: file parts are opened only while the blob is
// streamed, and every stream re-validates them. A Blob is safe for
// concurrent use.
type Blob struct {
	parts            []Part
	size             int64
	typ              string
	logger           *slog.Logger
	checkConcurrency int
}

// New creates a Blob from parts. The parts slice is copied.
func New(parts []Part, opts ...Option) *Blob {
	return newBlob(parts, newOptions(opts))
}

// FromBytes creates a Blob holding a single in-memory part.
// The data is not copied.
func FromBytes(data []byte, opts ...Option) *Blob {
	return New([]Part{Bytes(data)}, opts...)
}

func newBlob(parts []Part, o *options) *Blob {
	b := &Blob{
		parts:            make([]Part, 0, len(parts)),
		typ:              normalizeType(o.typ),
		logger:           o.logger,
		checkConcurrency: o.checkConcurrency,
	}
	for _, p := range parts {
		if p == nil {
			continue
		}
		b.parts = append(b.parts, p)
		b.size += p.Size()
	}
	return b
}

// log returns the logger, falling back to a discard logger if nil.
func (b *Blob) log() *slog.Logger {
	if b.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.logger
}

// normalizeType lowercases typ, or returns "" if typ has characters outside
// the printable ASCII range.
func normalizeType(typ string) string {
	for i := range len(typ) {
		if c := typ[i]; c < 0x20 || c > 0x7e {
			return ""
		}
	}
	return strings.ToLower(typ)
}

// Size returns the total length of the blob in bytes.
func (b *Blob) Size() int64 {
	return b.size
}

// Type returns the normalized MIME type, or "" if unknown.
func (b *Blob) Type() string {
	return b.typ
}

// Parts returns a copy of the blob's parts, so they can be reused in a new
// blob.
func (b *Blob) Parts() []Part {
	return append([]Part(nil), b.parts...)
}

// Slice returns a blob covering bytes [start, end) of b.
//
// Negative offsets count back from Size. Offsets are clamped to [0, Size]
// and an end before start yields an empty blob. The result has no type
// unless WithType is given; the logger and check concurrency of b carry
// over unless overridden. No I/O is performed.
func (b *Blob) Slice(start, end int64, opts ...Option) *Blob {
	start, end = part.Clamp(b.size, start, end)
	span := end - start

	var parts []Part
	var added int64
	for _, p := range b.parts {
		if added >= span {
			break
		}
		size := p.Size()
		if start >= size {
			start -= size
			end -= size
			continue
		}
		chunk := p.Slice(start, min(size, end))
		added += chunk.Size()
		parts = append(parts, chunk)
		start = 0
		end -= size
	}

	o := newOptions(append([]Option{
		WithLogger(b.logger),
		WithCheckConcurrency(b.checkConcurrency),
	}, opts...))
	return newBlob(parts, o)
}

// Stream returns the blob content as a lazy sequence of chunks.
//
// Parts are streamed in order. The sequence stops at the first error, which
// is yielded as is. Each iteration over the sequence reads from scratch.
func (b *Blob) Stream(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for _, p := range b.parts {
			for chunk, err := range p.Stream(ctx) {
				if !yield(chunk, err) || err != nil {
					return
				}
			}
		}
	}
}

// Reader returns the blob content as an io.ReadCloser.
// Close releases any file still open; it must be called if the reader is
// not drained.
func (b *Blob) Reader(ctx context.Context) io.ReadCloser {
	return part.NewReader(b.Stream(ctx))
}

// Bytes reads the whole blob into memory.
func (b *Blob) Bytes(ctx context.Context) ([]byte, error) {
	buf := make([]byte, 0, b.size)
	for chunk, err := range b.Stream(ctx) {
		if err != nil {
			return nil, err
		}
		buf = append(buf, chunk...)
	}
	return buf, nil
}

// Text reads the whole blob and returns it as a string.
func (b *Blob) Text(ctx context.Context) (string, error) {
	data, err := b.Bytes(ctx)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Check validates every part that can go stale, without reading content.
// Parts are checked concurrently; the first failure is returned.
func (b *Blob) Check(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.checkConcurrency)
	for _, p := range b.parts {
		c, ok := p.(Checker)
		if !ok {
			continue
		}
		g.Go(func() error {
			return c.Check(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		b.log().Debug("blob check failed", "size", b.size, "error", err)
		return err
	}
	return nil
}

// Digest streams the blob and returns its sha256 digest.
func (b *Blob) Digest(ctx context.Context) (digest.Digest, error) {
	digester := digest.Canonical.Digester()
	h := digester.Hash()
	for chunk, err := range b.Stream(ctx) {
		if err != nil {
			return "", err
		}
		_, _ = h.Write(chunk) //nolint:errcheck // hash writes never fail
	}
	return digester.Digest(), nil
}

// Descriptor streams the blob and returns an OCI content descriptor for it.
// The media type is the blob type, or DefaultMediaType if it has none.
func (b *Blob) Descriptor(ctx context.Context) (ocispec.Descriptor, error) {
	dgst, err := b.Digest(ctx)
	if err != nil {
		return ocispec.Descriptor{}, err
	}
	mediaType := b.typ
	if mediaType == "" {
		mediaType = DefaultMediaType
	}
	return ocispec.Descriptor{
		MediaType: mediaType,
		Digest:    dgst,
		Size:      b.size,
	}, nil
}
