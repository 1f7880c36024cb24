package gzbuf

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGzipFile compresses data into a new file named "test.txt.gz" in a temp dir.
func writeGzipFile(t *testing.T, data []byte) string {
	t.Helper()

	name := filepath.Join(t.TempDir(), "test.txt.gz")
	f, err := os.Create(name)
	require.NoErrorf(t, err, "os.Create(%q) error = %v", name, err)

	w := pgzip.NewWriter(f)
	_, err = w.Write(data)
	require.NoErrorf(t, err, "Write(data) error = %v", err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	return name
}

func randomData(t *testing.T, n int) []byte {
	t.Helper()

	data := make([]byte, n)
	_, err := io.ReadFull(rand.Reader, data)
	require.NoError(t, err)

	return data
}

// drain pulls chunks until Advance returns false, concatenating them in call order.
func drain(t *testing.T, r *Reader) []byte {
	t.Helper()

	var got []byte
	for {
		more, err := r.Advance()
		require.NoErrorf(t, err, "Advance() error = %v", err)

		got = append(got, r.Bytes()...)

		if !more {
			return got
		}
	}
}

func TestReader_RoundTrip(t *testing.T) {
	data := randomData(t, 200_000)
	name := writeGzipFile(t, data)

	r, err := Open(name)
	require.NoErrorf(t, err, "Open(%q) error = %v", name, err)
	defer r.Close()

	got := drain(t, r)
	assert.Equalf(t, len(data), len(got), "expected %d decompressed bytes; got %d", len(data), len(got))
	assert.Equal(t, data, got, "decompressed bytes differ from original")

	assert.NoError(t, r.Close())
}

func TestReader_ChunkBoundaries(t *testing.T) {
	data := randomData(t, 10_000)
	name := writeGzipFile(t, data)

	for _, size := range []int{1, 7, 100, 4096, 65536} {
		t.Run(fmt.Sprintf("bufferSize=%d", size), func(t *testing.T) {
			r, err := Open(name, WithBufferSize(size))
			require.NoErrorf(t, err, "Open(%q) error = %v", name, err)
			defer r.Close()

			var got []byte
			for {
				more, err := r.Advance()
				require.NoError(t, err)

				assert.LessOrEqualf(t, r.Len(), size, "chunk of %d bytes exceeds buffer size %d", r.Len(), size)
				assert.Equalf(t, r.Len(), len(r.Bytes()), "Len() = %d but Bytes() has %d bytes", r.Len(), len(r.Bytes()))

				got = append(got, r.Bytes()...)
				if !more {
					break
				}
			}

			// no bytes lost or duplicated regardless of chunk boundary placement.
			assert.Equal(t, data, got)
		})
	}
}

func TestReader_BeforeFirstAdvance(t *testing.T) {
	name := writeGzipFile(t, []byte("hello world"))

	r, err := Open(name)
	require.NoError(t, err)
	defer r.Close()

	assert.Zero(t, r.Len(), "Len() should be 0 before the first Advance")
	assert.Empty(t, r.Bytes(), "Bytes() should be empty before the first Advance")
}

func TestReader_AdvanceAfterExhausted(t *testing.T) {
	name := writeGzipFile(t, []byte("hello world"))

	r, err := Open(name)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []byte("hello world"), drain(t, r))

	// once exhausted, Advance keeps returning false with no data and no error.
	for i := 0; i < 3; i++ {
		more, err := r.Advance()
		assert.NoErrorf(t, err, "Advance() #%d after exhaustion error = %v", i, err)
		assert.Falsef(t, more, "Advance() #%d after exhaustion should return false", i)
		assert.Zero(t, r.Len())
	}
}

func TestReader_EmptyFile(t *testing.T) {
	name := writeGzipFile(t, nil)

	r, err := Open(name)
	require.NoError(t, err)
	defer r.Close()

	more, err := r.Advance()
	assert.NoError(t, err)
	assert.False(t, more)
	assert.Zero(t, r.Len())
}

func TestReader_NarrowChars(t *testing.T) {
	data := randomData(t, 150_000)
	name := writeGzipFile(t, data)

	raw, err := Open(name, WithBufferSize(4096))
	require.NoError(t, err)
	defer raw.Close()

	narrow, err := Open(name, WithBufferSize(4096), WithElementType(NarrowChars))
	require.NoError(t, err)
	defer narrow.Close()

	// both representations must yield byte-identical chunks in lockstep.
	for {
		more1, err := raw.Advance()
		require.NoError(t, err)
		more2, err := narrow.Advance()
		require.NoError(t, err)

		assert.Equal(t, more1, more2, "readers advanced out of lockstep")
		assert.Equal(t, raw.Len(), narrow.Len())
		assert.Equal(t, raw.Bytes(), narrow.Bytes())

		if !more1 {
			break
		}
	}
}

func TestReader_ConcatenatedMembers(t *testing.T) {
	// two gzip members back to back must read as one continuous stream.
	name := filepath.Join(t.TempDir(), "test.txt.gz")
	f, err := os.Create(name)
	require.NoError(t, err)

	for _, part := range []string{"hello ", "world"} {
		w := pgzip.NewWriter(f)
		_, err = w.Write([]byte(part))
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	require.NoError(t, f.Close())

	r, err := Open(name)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []byte("hello world"), drain(t, r))
}

func TestOpen_MissingFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "nope.txt.gz")

	r, err := Open(name)
	require.Errorf(t, err, "Open(%q) should fail", name)
	assert.Nil(t, r)

	var oe *OpenError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, name, oe.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_BadHeader(t *testing.T) {
	name := filepath.Join(t.TempDir(), "garbage.gz")
	require.NoError(t, os.WriteFile(name, []byte("this is not a gzip file"), 0666))

	r, err := Open(name)
	require.Errorf(t, err, "Open(%q) should fail", name)
	assert.Nil(t, r)

	var oe *OpenError
	assert.ErrorAs(t, err, &oe)
}

func TestOpen_InvalidOptions(t *testing.T) {
	name := writeGzipFile(t, []byte("hello world"))

	_, err := Open(name, WithBufferSize(0))
	assert.Error(t, err, "Open with buffer size 0 should fail")

	_, err = Open(name, WithBufferSize(-1))
	assert.Error(t, err, "Open with negative buffer size should fail")

	_, err = Open(name, WithElementType(ElementType(42)))
	assert.Error(t, err, "Open with unknown element type should fail")
}

func TestReader_TruncatedFile(t *testing.T) {
	data := randomData(t, 100_000)
	name := writeGzipFile(t, data)

	fi, err := os.Stat(name)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(name, fi.Size()/2))

	r, err := Open(name, WithBufferSize(4096))
	require.NoError(t, err)
	defer r.Close()

	// some Advance call must report the truncation instead of a clean end of stream.
	var advanceErr error
	for i := 0; i < 1_000; i++ {
		more, err := r.Advance()
		if err != nil {
			advanceErr = err
			break
		}
		require.Truef(t, more, "Advance() returned false on a truncated file without an error")
	}

	require.Error(t, advanceErr)

	var de *DecompressionError
	assert.ErrorAs(t, advanceErr, &de)

	// the reader must still close cleanly after the failure.
	assert.NoError(t, r.Close())
}
