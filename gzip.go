package gzbuf

import (
	"fmt"
	"os"

	"github.com/klauspost/pgzip"
)

// GzipEngine implements Engine for gzip-compressed files.
//
// Concatenated gzip members are decompressed as one continuous stream, matching the
// behaviour of gzip itself.
type GzipEngine struct{}

var _ Engine = GzipEngine{}

func (GzipEngine) Open(name string) (Stream, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	dec, err := pgzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create gzip reader error: %w", err)
	}

	return newStream(dec, dec.Close, f.Close), nil
}

func (GzipEngine) Ext() string {
	return ".gz"
}

func (GzipEngine) ContentType() string {
	return "application/gzip"
}
