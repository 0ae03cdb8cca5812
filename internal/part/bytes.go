package part

import (
	"context"
	"iter"
)

// Bytes is an in-memory part. Slices share the backing array.
type Bytes []byte

// Interface compliance.
var _ Part = Bytes(nil)

// Size implements Part.
func (b Bytes) Size() int64 {
	return int64(len(b))
}

// Slice implements Part.
func (b Bytes) Slice(start, end int64) Part {
	return b[start:end:end]
}

// Stream implements Part. The whole part is yielded as a single chunk.
func (b Bytes) Stream(ctx context.Context) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}
		if len(b) == 0 {
			return
		}
		yield(b, nil)
	}
}
