package fsblob

import (
	"errors"

	"github.com/meigma/fsblob/internal/part"
)

// Errors re-exported from internal/part.
var (
	// ErrNotReadable is returned when a file changed after a blob referring
	// to it was created.
	ErrNotReadable = part.ErrNotReadable
)

// NotReadableError carries the expected and current file state of a failed
// staleness check. It unwraps to ErrNotReadable.
type NotReadableError = part.NotReadableError

// Sentinel errors specific to the fsblob package.
var (
	// ErrNotRegular is returned when a blob is requested for a directory or
	// another non-regular file.
	ErrNotRegular = errors.New("fsblob: not a regular file")
)
