package part

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotReadable is returned by FileRange streams when the backing file no
// longer matches the state captured when the range was created.
var ErrNotReadable = errors.New("fsblob: file could not be read")

// NotReadableError describes a failed staleness check.
//
// Expected values were captured when the root range was created; Current
// values come from the stat taken at the start of the stream.
type NotReadableError struct {
	ExpectedSize    int64
	CurrentSize     int64
	ExpectedModTime time.Time
	CurrentModTime  time.Time
}

func (e *NotReadableError) Error() string {
	if e.CurrentSize != e.ExpectedSize {
		return fmt.Sprintf("%v: size changed from %d to %d", ErrNotReadable, e.ExpectedSize, e.CurrentSize)
	}
	return fmt.Sprintf("%v: modified after %s (now %s)", ErrNotReadable,
		e.ExpectedModTime.UTC().Format(time.RFC3339Nano), e.CurrentModTime.UTC().Format(time.RFC3339Nano))
}

// Unwrap returns ErrNotReadable.
func (e *NotReadableError) Unwrap() error {
	return ErrNotReadable
}
