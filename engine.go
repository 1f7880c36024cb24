package gzbuf

import (
	"io"
	"runtime"
)

// Engine creates decompression streams for files of one compression format.
type Engine interface {
	// Open opens the named file for decompression.
	//
	// If the decoder cannot be set up after the file was opened, the file must be
	// closed before returning; a non-nil Stream is the caller's to close.
	Open(name string) (Stream, error)
	// Ext returns the file name extension associated with the format, e.g. ".gz".
	Ext() string
	// ContentType returns the media type of the compressed format.
	ContentType() string
}

// Stream is a single open decompression stream over one file.
//
// Read never reports errors directly; a zero return means the stream has stopped, and
// EOF and Err tell a clean end of stream apart from a failure. Both conditions latch:
// once the stream stops, it stays stopped.
type Stream interface {
	// Read decompresses up to len(p) bytes into p and returns the number of bytes
	// produced. A return of 0 means end of stream or failure; check EOF and Err.
	Read(p []byte) int
	// EOF reports whether the stream cleanly reached end of stream.
	EOF() bool
	// Err returns the error that stopped the stream, or nil.
	Err() error
	// Close releases the stream. Closing more than once is safe; only the first call
	// releases the underlying resources. Close succeeds even after a read failure:
	// that failure was already reported by Read, not Close.
	Close() error
}

// stream adapts an io.Reader decoder into a Stream, latching the end-of-stream and
// error conditions so that they can be queried after the read that hit them.
type stream struct {
	dec        io.Reader
	decCloseFn func() error
	closeFn    func() error
	eof        bool
	err        error
	closed     bool
}

var _ Stream = (*stream)(nil)

// newStream wraps the decoder; on the first Close, the decoder's own closer (nil if it
// has none) runs first, then the remaining close functions in order, typically the
// underlying file's.
func newStream(dec io.Reader, decCloseFn func() error, closeFns ...func() error) *stream {
	return &stream{dec: dec, decCloseFn: decCloseFn, closeFn: chainCloser(closeFns)}
}

func (s *stream) Read(p []byte) int {
	if s.eof || s.err != nil || s.closed || len(p) == 0 {
		return 0
	}

	for {
		n, err := s.dec.Read(p)
		switch {
		case err == io.EOF:
			s.eof = true
			return n
		case err != nil:
			s.err = err
			return n
		case n > 0:
			return n
		}

		// tolerate decoders that transiently return no data and no error.
		runtime.Gosched()
	}
}

func (s *stream) EOF() bool {
	return s.eof
}

func (s *stream) Err() error {
	return s.err
}

func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.decCloseFn != nil {
		// decoders repeat the error that stopped the stream from Close; that failure
		// was already surfaced by Read, so it is not a new error here.
		if err2 := s.decCloseFn(); err2 != nil && s.err == nil {
			err = err2
		}
	}

	if err2 := s.closeFn(); err2 != nil && err == nil {
		err = err2
	}

	return err
}

// chainCloser makes sure all the close functions are called at least once and returns
// the first error.
func chainCloser(fns []func() error) func() error {
	return func() (err error) {
		for _, fn := range fns {
			if err2 := fn(); err2 != nil && err == nil {
				err = err2
			}
		}

		return
	}
}
