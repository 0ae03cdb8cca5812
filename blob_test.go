package fsblob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/fsblob/internal/fsys"
	"github.com/meigma/fsblob/internal/part"
	"github.com/meigma/fsblob/internal/testutil"
)

// fileRange writes data to a temp file and returns its path and root range.
func fileRange(t *testing.T, data []byte, opts ...part.Option) (string, *FileRange) {
	t.Helper()
	path := testutil.WriteFile(t, t.TempDir(), "part.bin", data, testutil.BaseTime)
	info, err := os.Stat(path)
	require.NoError(t, err)
	size, mtime := fsys.Snapshot(info)
	return path, part.NewFileRange(fsys.OS(), path, size, mtime, opts...)
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, r := fileRange(t, []byte("file"))
	b := New([]Part{Bytes("mem-"), nil, r}, WithType("Text/Plain"))

	assert.Equal(t, int64(8), b.Size())
	assert.Equal(t, "text/plain", b.Type())
	assert.Len(t, b.Parts(), 2, "nil parts are dropped")

	text, err := b.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mem-file", text)
}

func TestNormalizeType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{in: "", want: ""},
		{in: "application/JSON", want: "application/json"},
		{in: "text/plain; charset=UTF-8", want: "text/plain; charset=utf-8"},
		{in: "text/pläin", want: ""},
		{in: "text/plain\n", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeType(tt.in), "normalizeType(%q)", tt.in)
	}
}

func TestBlobSlice(t *testing.T) {
	t.Parallel()

	data := testutil.Pattern(300)
	_, r := fileRange(t, data[100:200])
	b := New([]Part{Bytes(data[:100]), r, Bytes(data[200:])}, WithType("application/x-test"))

	tests := []struct {
		name       string
		start, end int64
		want       []byte
		parts      int
	}{
		{name: "whole", start: 0, end: 300, want: data, parts: 3},
		{name: "first part only", start: 10, end: 90, want: data[10:90], parts: 1},
		{name: "file part only", start: 120, end: 180, want: data[120:180], parts: 1},
		{name: "across all parts", start: 50, end: 250, want: data[50:250], parts: 3},
		{name: "part boundary", start: 100, end: 200, want: data[100:200], parts: 1},
		{name: "negative start", start: -30, end: 300, want: data[270:], parts: 1},
		{name: "negative end", start: 0, end: -250, want: data[:50], parts: 1},
		{name: "end past size", start: 290, end: 1000, want: data[290:], parts: 1},
		{name: "inverted", start: 200, end: 100, want: []byte{}, parts: 0},
		{name: "start past size", start: 400, end: 500, want: []byte{}, parts: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := b.Slice(tt.start, tt.end)
			assert.Equal(t, int64(len(tt.want)), s.Size())
			assert.Len(t, s.Parts(), tt.parts)
			assert.Empty(t, s.Type(), "slices have no type by default")

			got, err := s.Bytes(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBlobSliceOfSlice(t *testing.T) {
	t.Parallel()

	data := testutil.Pattern(100)
	_, r := fileRange(t, data)
	b := New([]Part{r})

	s := b.Slice(10, 60).Slice(5, 15, WithType("text/plain"))
	assert.Equal(t, int64(10), s.Size())
	assert.Equal(t, "text/plain", s.Type())

	parts := s.Parts()
	require.Len(t, parts, 1)
	fr, ok := parts[0].(*FileRange)
	require.True(t, ok)
	assert.Equal(t, int64(100), fr.OriginalSize())
	assert.Equal(t, testutil.BaseTime.UnixMilli(), fr.LastModified())

	got, err := s.Bytes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, data[15:25], got)
}

func TestBlobStaleFilePart(t *testing.T) {
	t.Parallel()

	path, r := fileRange(t, testutil.Pattern(100))
	b := New([]Part{Bytes("prefix"), r})

	require.NoError(t, os.Truncate(path, 50))

	_, err := b.Bytes(context.Background())
	require.ErrorIs(t, err, ErrNotReadable)

	// Slicing away the stale part avoids the check entirely.
	text, err := b.Slice(0, 6).Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "prefix", text)
}

func TestBlobStreamStopsAtError(t *testing.T) {
	t.Parallel()

	path, r := fileRange(t, testutil.Pattern(10))
	b := New([]Part{Bytes("a"), r, Bytes("b")})
	testutil.SetModTime(t, path, testutil.BaseTime.Add(time.Second))

	var chunks [][]byte
	var errs []error
	for chunk, err := range b.Stream(context.Background()) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		chunks = append(chunks, chunk)
	}

	assert.Equal(t, [][]byte{[]byte("a")}, chunks)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrNotReadable)
}

func TestBlobReader(t *testing.T) {
	t.Parallel()

	data := testutil.Pattern(4096)
	_, r := fileRange(t, data, part.WithChunkSize(100))
	b := New([]Part{r, Bytes("tail")})

	rc := b.Reader(context.Background())
	defer rc.Close()

	var buf bytes.Buffer
	_, err := io.Copy(&buf, rc)
	require.NoError(t, err)
	assert.Equal(t, append(append([]byte{}, data...), "tail"...), buf.Bytes())
}

func TestBlobCheck(t *testing.T) {
	t.Parallel()

	const files = 20
	parts := make([]Part, 0, files+1)
	paths := make([]string, 0, files)
	for range files {
		path, r := fileRange(t, testutil.Pattern(32))
		parts = append(parts, r.Slice(4, 8))
		paths = append(paths, path)
	}
	parts = append(parts, Bytes("not checked"))
	b := New(parts, WithCheckConcurrency(3))

	require.NoError(t, b.Check(context.Background()))

	testutil.SetModTime(t, paths[files/2], testutil.BaseTime.Add(time.Hour))
	err := b.Check(context.Background())
	require.ErrorIs(t, err, ErrNotReadable)

	var nre *NotReadableError
	require.ErrorAs(t, err, &nre)
	assert.True(t, testutil.BaseTime.Add(time.Hour).Equal(nre.CurrentModTime), "current mtime %v", nre.CurrentModTime)
}

func TestBlobSliceKeepsSettings(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	b := New([]Part{Bytes("abcdef")}, WithLogger(logger), WithCheckConcurrency(2))

	s := b.Slice(1, 4)
	assert.Same(t, logger, s.logger)
	assert.Equal(t, 2, s.checkConcurrency)

	s = b.Slice(1, 4, WithCheckConcurrency(5))
	assert.Equal(t, 5, s.checkConcurrency)

	assert.Equal(t, DefaultCheckConcurrency, New(nil).Slice(0, 0).checkConcurrency)
}

func TestBlobDigest(t *testing.T) {
	t.Parallel()

	data := testutil.Pattern(10_000)
	_, r := fileRange(t, data, part.WithChunkSize(333))
	b := New([]Part{r})

	sum := sha256.Sum256(data)
	want := digest.NewDigestFromEncoded(digest.SHA256, hex.EncodeToString(sum[:]))

	got, err := b.Digest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, digest.FromBytes(data[10:20]), mustDigest(t, b.Slice(10, 20)))
}

func TestBlobDescriptor(t *testing.T) {
	t.Parallel()

	data := []byte(`{"hello":"world"}`)
	_, r := fileRange(t, data)

	desc, err := New([]Part{r}, WithType("application/json")).Descriptor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "application/json", desc.MediaType)
	assert.Equal(t, digest.FromBytes(data), desc.Digest)
	assert.Equal(t, int64(len(data)), desc.Size)

	desc, err = FromBytes(data).Descriptor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultMediaType, desc.MediaType)
}

func TestBlobDescriptorStale(t *testing.T) {
	t.Parallel()

	path, r := fileRange(t, testutil.Pattern(64))
	require.NoError(t, os.Truncate(path, 1))

	_, err := New([]Part{r}).Descriptor(context.Background())
	require.ErrorIs(t, err, ErrNotReadable)
}

func mustDigest(t *testing.T, b *Blob) digest.Digest {
	t.Helper()
	d, err := b.Digest(context.Background())
	require.NoError(t, err)
	return d
}
