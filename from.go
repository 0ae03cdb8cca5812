package fsblob

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/meigma/fsblob/internal/fsys"
	"github.com/meigma/fsblob/internal/part"
)

// sniffLen is the number of leading bytes inspected by FromWithDetectType.
const sniffLen = 512

// BlobFrom returns a Blob backed by the file at path.
//
// The file is stat'ed now and read only when the blob is consumed. If the
// file changes size or gets a newer modification time in between, reads
// fail with ErrNotReadable. Stat errors are returned unchanged.
func BlobFrom(path string, opts ...FromOption) (*Blob, error) {
	cfg := newFromConfig(opts)
	r, _, err := cfg.fileRange(path)
	if err != nil {
		return nil, err
	}
	typ, err := cfg.contentType(r)
	if err != nil {
		return nil, err
	}
	return New([]Part{r}, WithType(typ), WithLogger(cfg.logger)), nil
}

// FileFrom returns a File backed by the file at path.
//
// The name is the base of path and the modification time is the one
// reported by stat. See BlobFrom for the read semantics.
func FileFrom(path string, opts ...FromOption) (*File, error) {
	cfg := newFromConfig(opts)
	r, info, err := cfg.fileRange(path)
	if err != nil {
		return nil, err
	}
	typ, err := cfg.contentType(r)
	if err != nil {
		return nil, err
	}
	return NewFile([]Part{r}, filepath.Base(path),
		WithType(typ),
		WithLastModified(info.ModTime()),
		WithLogger(cfg.logger),
	), nil
}

// fileRange stats path and builds a root range for it.
func (c *fromConfig) fileRange(path string) (*part.FileRange, fs.FileInfo, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, nil, &fs.PathError{Op: "blobfrom", Path: path, Err: ErrNotRegular}
	}
	size, modTime := fsys.Snapshot(info)
	r := part.NewFileRange(c.fs, path, size, modTime,
		part.WithChunkSize(c.chunkSize),
		part.WithLogger(c.logger),
	)
	return r, info, nil
}

// contentType returns the configured type, sniffing it from the head of r
// when detection is enabled and no type was given. Empty files have no type.
func (c *fromConfig) contentType(r *part.FileRange) (string, error) {
	if c.typ != "" || !c.detect || r.Size() == 0 {
		return c.typ, nil
	}
	head, err := New([]Part{r.Slice(0, min(r.Size(), sniffLen))}).Bytes(context.Background())
	if err != nil {
		return "", fmt.Errorf("detect content type: %w", err)
	}
	return mimetype.Detect(head).String(), nil
}
