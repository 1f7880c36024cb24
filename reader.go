package gzbuf

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBufferSize is the capacity of the output buffer unless overridden with
// WithBufferSize.
const DefaultBufferSize = 64 * 1024

// Reader reads decompressed bytes from a compressed file in fixed-size chunks.
//
// A Reader owns exactly one decompression stream and one reusable output buffer; both
// are mutated in place by Advance, so a Reader must not be shared across goroutines
// without external synchronisation. Close releases the stream and is safe to call at
// any point: before the first pull, mid-stream, after exhaustion, or after a failure.
type Reader struct {
	stream  Stream
	buf     []byte
	narrow  []byte
	n       int
	err     error
	limiter *rate.Limiter
}

// Open opens the named compressed file for buffered chunk reads.
//
// Unless overridden with WithEngine, the engine is chosen by file name extension (see
// EngineForName), falling back to gzip. Open returns an *OpenError if the engine cannot
// establish a readable stream; no file handle is leaked in that case.
func Open(name string, optFns ...func(*Options)) (*Reader, error) {
	opts := &Options{BufferSize: DefaultBufferSize}
	for _, fn := range optFns {
		fn(opts)
	}

	// validate everything up front so that nothing can fail after the stream is open.
	if opts.BufferSize <= 0 {
		return nil, fmt.Errorf("buffer size must be positive; got %d", opts.BufferSize)
	}
	switch opts.ElementType {
	case RawBytes, NarrowChars:
	default:
		return nil, fmt.Errorf("unknown element type: %d", opts.ElementType)
	}

	engine := opts.Engine
	if engine == nil {
		if engine = EngineForName(name); engine == nil {
			engine = GzipEngine{}
		}
	}

	s, err := engine.Open(name)
	if err != nil {
		return nil, &OpenError{Path: name, Err: err}
	}

	r := &Reader{
		stream:  s,
		buf:     make([]byte, opts.BufferSize),
		limiter: opts.Limiter,
	}
	if opts.ElementType == NarrowChars {
		r.narrow = make([]byte, opts.BufferSize)
	}

	return r, nil
}

// Advance pulls the next chunk of decompressed bytes into the output buffer,
// overwriting the previous chunk, and reports whether more data remains.
//
// Call Advance repeatedly until it returns false. Bytes and Len remain valid after the
// call that returns false; callers must consume the chunk after every call, including
// the final one, as the last stretch of the file may arrive together with the
// end-of-stream signal. Once Advance has returned false with a nil error, further calls
// harmlessly return false again with Len 0.
//
// If a pull produces zero bytes without the stream being at end of stream, Advance
// returns a *DecompressionError; the same error is returned by any subsequent call.
func (r *Reader) Advance() (bool, error) {
	if r.err != nil {
		return false, r.err
	}

	r.n = r.stream.Read(r.buf)
	if r.narrow != nil {
		copy(r.narrow[:r.n], r.buf[:r.n])
	}

	if r.n == 0 {
		if r.stream.EOF() {
			return false, nil
		}

		err := r.stream.Err()
		if err == nil {
			err = errors.New("stream stopped before end of stream")
		}
		r.err = &DecompressionError{Err: err}
		return false, r.err
	}

	if r.limiter != nil {
		r.wait(r.n)
	}

	return true, nil
}

// Bytes returns a read-only view of the most recent chunk; only the first Len bytes of
// the underlying buffer are part of the chunk, anything beyond is leftover from an
// earlier pull.
//
// With NarrowChars the view is of the copy buffer instead of the output buffer; the
// contents are byte-identical. Either way the view is overwritten by the next Advance.
func (r *Reader) Bytes() []byte {
	if r.narrow != nil {
		return r.narrow[:r.n]
	}

	return r.buf[:r.n]
}

// Len returns the number of bytes pulled by the most recent Advance, or 0 before the
// first call.
func (r *Reader) Len() int {
	return r.n
}

// Close releases the decompression stream. Closing more than once is safe; only the
// first call releases the stream.
func (r *Reader) Close() error {
	return r.stream.Close()
}

// wait sleeps until the limiter admits n more bytes, reserving at most a burst at a
// time so that chunks larger than the burst can still pass.
func (r *Reader) wait(n int) {
	burst := r.limiter.Burst()
	if burst <= 0 {
		return
	}

	for n > 0 {
		m := min(n, burst)
		time.Sleep(r.limiter.ReserveN(time.Now(), m).Delay())
		n -= m
	}
}
