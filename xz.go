package gzbuf

import (
	"fmt"
	"os"

	"github.com/ulikunitz/xz"
)

// XzEngine implements Engine for xz-compressed files.
type XzEngine struct{}

var _ Engine = XzEngine{}

func (XzEngine) Open(name string) (Stream, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	dec, err := xz.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create xz reader error: %w", err)
	}

	// xz.Reader has no Close; only the file needs closing.
	return newStream(dec, nil, f.Close), nil
}

func (XzEngine) Ext() string {
	return ".xz"
}

func (XzEngine) ContentType() string {
	return "application/x-xz"
}
