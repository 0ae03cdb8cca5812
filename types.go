package fsblob

import "github.com/meigma/fsblob/internal/part"

// --- Re-exports from internal/part ---

// Part is a sliceable, streamable run of bytes that a Blob is built from.
type Part = part.Part

// Checker is implemented by parts that can detect a stale backing store.
type Checker = part.Checker

// Bytes is an in-memory Part.
type Bytes = part.Bytes

// FileRange is a Part backed by a byte range of a file on disk.
type FileRange = part.FileRange

// DefaultChunkSize is the chunk length used when streaming file ranges.
const DefaultChunkSize = part.DefaultChunkSize
