package gzbuf

import (
	"context"
	"io"
)

// Copy drains the Reader chunk by chunk into dst, returning the number of bytes
// written.
func Copy(dst io.Writer, r *Reader) (int64, error) {
	return CopyWithContext(context.Background(), dst, r)
}

// CopyWithContext is a variant of Copy that is cancellable via context.
//
// The context is checked for done status between chunks only; a single pull remains
// blocking. As a result, having too small a buffer may introduce too much overhead,
// while having a very large buffer may cause context cancellation to have a delayed
// effect.
func CopyWithContext(ctx context.Context, dst io.Writer, r *Reader) (int64, error) {
	var written int64

	for {
		more, err := r.Advance()

		if n := r.Len(); n > 0 {
			switch nw, werr := dst.Write(r.Bytes()); {
			case werr != nil:
				return written, werr
			case nw < n:
				return written, io.ErrShortWrite
			default:
				written += int64(nw)
			}
		}

		if err != nil {
			return written, err
		}
		if !more {
			return written, nil
		}

		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}
	}
}
