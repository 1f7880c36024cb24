package gzbuf

import "fmt"

// OpenError is returned by Open when no readable decompression stream can be established
// for the given path, whether because the file is missing or unreadable, or because the
// engine rejects its header outright.
type OpenError struct {
	// Path is the path given to Open.
	Path string
	// Err is the underlying error from the engine.
	Err error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf(`open file "%s" error: %v`, e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// DecompressionError is returned by Reader.Advance when a pull produces zero bytes while
// the stream has not reached end of stream, indicating a corrupted or truncated file, or
// an I/O failure beneath the decompression layer.
//
// The Reader must not be advanced further after receiving a DecompressionError; it can
// still be closed safely.
type DecompressionError struct {
	// Err is the engine's diagnostic, verbatim.
	Err error
}

func (e *DecompressionError) Error() string {
	return "decompress error: " + e.Err.Error()
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}
