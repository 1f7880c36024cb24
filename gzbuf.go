// Package gzbuf reads decompressed bytes from compressed files in fixed-size chunks.
//
// The central type is Reader: it owns exactly one decompression stream and one reusable
// output buffer, and exposes a pull-based protocol for consuming the file chunk by chunk:
//
//	r, err := gzbuf.Open("data.txt.gz")
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	for {
//		more, err := r.Advance()
//		if err != nil {
//			return err
//		}
//
//		consume(r.Bytes())
//
//		if !more {
//			break
//		}
//	}
//
// The actual decompression is delegated to an Engine; gzip (via github.com/klauspost/pgzip),
// zstd (via github.com/klauspost/compress/zstd), and xz (via github.com/ulikunitz/xz) engines
// are provided.
package gzbuf

import "golang.org/x/time/rate"

// ElementType selects the representation of the bytes returned by Reader.Bytes.
type ElementType int

const (
	// RawBytes has Reader.Bytes return a view of the output buffer itself.
	RawBytes ElementType = iota
	// NarrowChars has Reader.Bytes return a second buffer holding a copy of the chunk.
	//
	// The copy buffer has the same capacity as the output buffer and is overwritten on
	// every Reader.Advance just like the output buffer; its contents are always
	// byte-identical to the RawBytes view of the same pull.
	NarrowChars
)

// Options customises Open.
type Options struct {
	// BufferSize is the capacity of the output buffer; default DefaultBufferSize.
	//
	// The buffer is allocated once and never resized; every Reader.Advance pulls at most
	// BufferSize decompressed bytes. Must be positive.
	BufferSize int

	// ElementType selects the representation returned by Reader.Bytes; default RawBytes.
	ElementType ElementType

	// Engine overrides the decompression engine.
	//
	// By default, the engine is chosen by file name extension (see EngineForName) with
	// gzip as the fallback.
	Engine Engine

	// Limiter throttles decompressed throughput; default none.
	//
	// After every successful pull, Reader.Advance sleeps until the limiter admits the
	// number of bytes just pulled.
	Limiter *rate.Limiter
}

// WithBufferSize changes the capacity of the output buffer.
func WithBufferSize(size int) func(*Options) {
	return func(opts *Options) {
		opts.BufferSize = size
	}
}

// WithElementType changes the representation returned by Reader.Bytes.
func WithElementType(t ElementType) func(*Options) {
	return func(opts *Options) {
		opts.ElementType = t
	}
}

// WithEngine overrides the decompression engine instead of choosing one by file name.
func WithEngine(engine Engine) func(*Options) {
	return func(opts *Options) {
		opts.Engine = engine
	}
}

// WithRateLimiter throttles decompressed throughput with the given limiter.
func WithRateLimiter(limiter *rate.Limiter) func(*Options) {
	return func(opts *Options) {
		opts.Limiter = limiter
	}
}
