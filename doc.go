// Package fsblob provides blobs whose content is read lazily from files on
// disk.
//
// A [Blob] is an ordered list of parts. Parts are either in-memory [Bytes]
// or a [FileRange]: a byte range of a file that is only opened when the blob
// is consumed. Slicing a blob never performs I/O; it only narrows the ranges
// its parts refer to.
//
// # Quick Start
//
//	b, err := fsblob.BlobFrom("/var/log/app.log", fsblob.FromWithType("text/plain"))
//	if err != nil {
//	    return err
//	}
//	tail := b.Slice(-4096, b.Size())
//	text, err := tail.Text(ctx)
//
// # Staleness
//
// A FileRange remembers the size and modification time of its file from the
// moment the root range was created. Every stream stats the file again and
// fails with [ErrNotReadable], before yielding anything, if the file changed
// size or got a newer modification time. A rewrite that keeps the size and
// does not advance the modification time is not detected.
package fsblob
