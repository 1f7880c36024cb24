package gzbuf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
)

// EngineForName returns the engine matching the file name's extension, or nil if no
// engine matches. Compound extensions such as ".tar.gz" match on their last component.
func EngineForName(name string) Engine {
	switch {
	case strings.HasSuffix(name, ".gz"):
		return GzipEngine{}
	case strings.HasSuffix(name, ".zst"):
		return ZstdEngine{}
	case strings.HasSuffix(name, ".xz"):
		return XzEngine{}
	default:
		return nil
	}
}

// EngineForExt returns the engine registered for exactly the given extension, or nil.
func EngineForExt(ext string) Engine {
	switch ext {
	case ".gz":
		return GzipEngine{}
	case ".zst":
		return ZstdEngine{}
	case ".xz":
		return XzEngine{}
	default:
		return nil
	}
}

// DetectEngine sniffs the content of the named file to find the engine that can
// decompress it, so files whose extension is missing or misleading can still be read.
func DetectEngine(ctx context.Context, name string) (Engine, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf(`open file "%s" error: %w`, name, err)
	}
	defer f.Close()

	format, _, err := archives.Identify(ctx, filepath.Base(name), f)
	if err != nil {
		return nil, fmt.Errorf("identify format error: %w", err)
	}

	if engine := EngineForExt(format.Extension()); engine != nil {
		return engine, nil
	}

	return nil, fmt.Errorf("unsupported format: %s", format.Extension())
}
