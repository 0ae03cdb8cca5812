package part

import (
	"io"
	"io/fs"
	"iter"
)

// Reader adapts a chunk sequence to io.ReadCloser.
//
// The sequence is pulled lazily on Read. Close stops it, which releases any
// file the sequence holds open.
type Reader struct {
	next  func() ([]byte, error, bool)
	stop  func()
	chunk []byte
	err   error
}

// Interface compliance.
var (
	_ io.ReadCloser = (*Reader)(nil)
	_ io.WriterTo   = (*Reader)(nil)
)

// NewReader returns a Reader over seq.
func NewReader(seq iter.Seq2[[]byte, error]) *Reader {
	next, stop := iter.Pull2(seq)
	return &Reader{next: next, stop: stop}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(r.chunk) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		r.fill()
	}
	n := copy(p, r.chunk)
	r.chunk = r.chunk[n:]
	return n, nil
}

// WriteTo implements io.WriterTo, writing chunks without an extra copy.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for {
		for len(r.chunk) == 0 {
			if r.err == io.EOF {
				return written, nil
			}
			if r.err != nil {
				return written, r.err
			}
			r.fill()
		}
		n, err := w.Write(r.chunk)
		written += int64(n)
		r.chunk = r.chunk[n:]
		if err != nil {
			return written, err
		}
	}
}

// Close implements io.Closer.
func (r *Reader) Close() error {
	r.stop()
	r.chunk = nil
	if r.err == nil {
		r.err = fs.ErrClosed
	}
	return nil
}

func (r *Reader) fill() {
	chunk, err, ok := r.next()
	switch {
	case !ok:
		r.err = io.EOF
	case err != nil:
		r.err = err
		r.stop()
	default:
		r.chunk = chunk
	}
}
