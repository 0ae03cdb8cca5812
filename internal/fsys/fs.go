// Package fsys provides the filesystem access used by file-backed parts.
package fsys

import (
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// File is an open file supporting random access reads.
type File interface {
	io.ReaderAt
	io.Closer
}

// FS stats and opens files by name.
//
// Implementations must return errors unmodified so callers can match them
// with errors.Is (fs.ErrNotExist, fs.ErrPermission, ...).
type FS interface {
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (File, error)
}

// Billy adapts a go-billy filesystem to FS.
type Billy struct {
	fs  billy.Filesystem
	abs bool
}

// Interface compliance.
var _ FS = (*Billy)(nil)

// New wraps filesystem. Names are resolved by filesystem, so a chrooted
// filesystem rejects names that climb out of its root. A nil filesystem
// returns OS().
func New(filesystem billy.Filesystem) *Billy {
	if filesystem == nil {
		return OS()
	}
	return &Billy{fs: filesystem}
}

// OS returns an FS for the host filesystem.
// Relative names are resolved against the working directory when the file
// is stat'ed or opened, including names that start with "..".
func OS() *Billy {
	return &Billy{fs: osfs.New(""), abs: true}
}

// name converts name into the form the wrapped filesystem expects.
func (b *Billy) name(name string) (string, error) {
	if !b.abs || filepath.IsAbs(name) {
		return name, nil
	}
	return filepath.Abs(name)
}

// Stat implements FS.
func (b *Billy) Stat(name string) (fs.FileInfo, error) {
	name, err := b.name(name)
	if err != nil {
		return nil, err
	}
	return b.fs.Stat(name)
}

// Open implements FS.
func (b *Billy) Open(name string) (File, error) {
	name, err := b.name(name)
	if err != nil {
		return nil, err
	}
	return b.fs.Open(name)
}

// Snapshot returns the size and modification time recorded in info.
func Snapshot(info fs.FileInfo) (size int64, modTime time.Time) {
	return info.Size(), info.ModTime()
}
