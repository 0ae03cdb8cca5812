// Package testutil provides fixtures shared by fsblob tests.
package testutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/meigma/fsblob/internal/fsys"
)

// BaseTime is a fixed modification time used by fixtures.
var BaseTime = time.UnixMilli(1_700_000_000_000)

// Pattern returns n bytes where byte i is i%251, so any offset is
// recognizable in assertions.
func Pattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

// WriteFile writes data to name under dir with modification time mtime and
// returns the full path.
func WriteFile(t testing.TB, dir, name string, data []byte, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	SetModTime(t, path, mtime)
	return path
}

// SetModTime sets the access and modification times of path.
func SetModTime(t testing.TB, path string, mtime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

// CountingFS wraps an FS and counts stats, opens and still-open files.
// It is safe for concurrent use.
type CountingFS struct {
	base  fsys.FS
	stats atomic.Int64
	opens atomic.Int64
	open  atomic.Int64
}

// NewCountingFS wraps base.
func NewCountingFS(base fsys.FS) *CountingFS {
	return &CountingFS{base: base}
}

// Stat implements fsys.FS.
func (c *CountingFS) Stat(name string) (fs.FileInfo, error) {
	c.stats.Add(1)
	return c.base.Stat(name)
}

// Open implements fsys.FS.
func (c *CountingFS) Open(name string) (fsys.File, error) {
	f, err := c.base.Open(name)
	if err != nil {
		return nil, err
	}
	c.opens.Add(1)
	c.open.Add(1)
	return &countingFile{File: f, fs: c}, nil
}

// Stats returns the number of Stat calls.
func (c *CountingFS) Stats() int64 { return c.stats.Load() }

// Opens returns the number of successful Open calls.
func (c *CountingFS) Opens() int64 { return c.opens.Load() }

// OpenFiles returns the number of opened files not yet closed.
func (c *CountingFS) OpenFiles() int64 { return c.open.Load() }

type countingFile struct {
	fsys.File
	fs   *CountingFS
	once sync.Once
}

func (f *countingFile) Close() error {
	f.once.Do(func() { f.fs.open.Add(-1) })
	return f.File.Close()
}

// ErrInjected is the default error returned by FaultFS.
var ErrInjected = errors.New("testutil: injected failure")

// FaultFS wraps an FS and injects read failures once FailAfter bytes have
// been served from an opened file. A negative FailAfter disables injection.
type FaultFS struct {
	fsys.FS
	FailAfter int64
	Err       error
}

// Open implements fsys.FS.
func (f *FaultFS) Open(name string) (fsys.File, error) {
	file, err := f.FS.Open(name)
	if err != nil {
		return nil, err
	}
	if f.FailAfter < 0 {
		return file, nil
	}
	failErr := f.Err
	if failErr == nil {
		failErr = ErrInjected
	}
	return &faultFile{File: file, budget: f.FailAfter, err: failErr}, nil
}

type faultFile struct {
	fsys.File
	mu     sync.Mutex
	budget int64
	err    error
}

func (f *faultFile) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.budget <= 0 {
		return 0, f.err
	}
	if int64(len(p)) > f.budget {
		p = p[:f.budget]
	}
	n, err := f.File.ReadAt(p, off)
	f.budget -= int64(n)
	return n, err
}
