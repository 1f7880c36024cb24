package gzbuf

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// ZstdEngine implements Engine for zstd-compressed files.
type ZstdEngine struct{}

var _ Engine = ZstdEngine{}

func (ZstdEngine) Open(name string) (Stream, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create zstd reader error: %w", err)
	}

	// zstd.Decoder.Close doesn't return error.
	return newStream(dec, func() error { dec.Close(); return nil }, f.Close), nil
}

func (ZstdEngine) Ext() string {
	return ".zst"
}

func (ZstdEngine) ContentType() string {
	return "application/zstd"
}
