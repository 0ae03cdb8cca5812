// Package part implements the byte sources a blob is assembled from.
package part

import (
	"context"
	"iter"
)

// Part is a sliceable, streamable run of bytes.
//
// Slice takes bounds already clamped to [0, Size()] with start <= end.
// Stream returns a lazy sequence: no I/O happens until it is ranged over,
// and ranging over it again starts a fresh read.
type Part interface {
	Size() int64
	Slice(start, end int64) Part
	Stream(ctx context.Context) iter.Seq2[[]byte, error]
}

// Checker is implemented by parts whose backing store can go stale.
type Checker interface {
	Check(ctx context.Context) error
}

// Clamp resolves relative slice bounds against size.
//
// Negative values count back from size. Results are clamped to [0, size]
// and end is never less than start.
func Clamp(size, start, end int64) (int64, int64) {
	start = clampOffset(size, start)
	end = clampOffset(size, end)
	if end < start {
		end = start
	}
	return start, end
}

func clampOffset(size, off int64) int64 {
	if off < 0 {
		return max(size+off, 0)
	}
	return min(off, size)
}
