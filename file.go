package fsblob

import "time"

// File is a Blob with a name and a modification time.
//
// Slicing a File returns a plain *Blob.
type File struct {
	*Blob
	name         string
	lastModified int64
}

// NewFile creates a File from parts.
//
// The modification time defaults to the current time; use WithLastModified
// to set it.
func NewFile(parts []Part, name string, opts ...Option) *File {
	o := newOptions(opts)
	modTime := o.lastModified
	if modTime.IsZero() {
		modTime = time.Now()
	}
	return &File{
		Blob:         newBlob(parts, o),
		name:         name,
		lastModified: modTime.UnixMilli(),
	}
}

// Name returns the file name.
func (f *File) Name() string {
	return f.name
}

// LastModified returns the modification time in milliseconds since the
// Unix epoch.
func (f *File) LastModified() int64 {
	return f.lastModified
}

// ModTime returns the modification time.
func (f *File) ModTime() time.Time {
	return time.UnixMilli(f.lastModified)
}
