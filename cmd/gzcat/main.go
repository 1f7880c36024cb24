package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/gzbuf"
	"github.com/nguyengg/gzbuf/util"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"
)

var opts struct {
	Output     flags.Filename `short:"o" long:"output" description:"write decompressed files to this directory instead of next to the source files"`
	Stdout     bool           `short:"c" long:"stdout" description:"write decompressed bytes to standard output instead of files"`
	Auto       bool           `short:"a" long:"auto" description:"detect the compression format by content instead of file name extension"`
	BufferSize int            `short:"b" long:"buffer-size" default:"65536" description:"size of the decompressed chunk buffer in bytes"`
	Limit      string         `short:"l" long:"limit" description:"throttle decompression to this many bytes per second, e.g. 10MiB"`
	Quiet      bool           `short:"q" long:"quiet" description:"do not display progress"`
	Args       struct {
		Files []flags.Filename `positional-arg-name:"file" description:"the compressed files to decompress" required:"yes"`
	} `positional-args:"yes"`
}

func main() {
	log.SetFlags(0)

	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			return
		}
		os.Exit(1)
	}

	limiter, err := newLimiter(opts.Limit)
	if err != nil {
		log.Fatalf("parse limit error: %v", err)
	}

	ctx := context.Background()
	for _, file := range opts.Args.Files {
		if err := run(ctx, string(file), limiter); err != nil {
			log.Fatalf(`decompress "%s" error: %v`, util.DirBase(string(file)), err)
		}
	}
}

func newLimiter(limit string) (*rate.Limiter, error) {
	if limit == "" {
		return nil, nil
	}

	n, err := humanize.ParseBytes(limit)
	if err != nil {
		return nil, err
	}

	return rate.NewLimiter(rate.Limit(n), int(n)), nil
}

func run(ctx context.Context, name string, limiter *rate.Limiter) error {
	engine := gzbuf.EngineForName(name)
	if opts.Auto {
		var err error
		if engine, err = gzbuf.DetectEngine(ctx, name); err != nil {
			return err
		}
	}

	r, err := gzbuf.Open(name,
		gzbuf.WithEngine(engine),
		gzbuf.WithBufferSize(opts.BufferSize),
		gzbuf.WithRateLimiter(limiter))
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := openOutput(name, engine)
	if err != nil {
		return err
	}

	var dst io.Writer = w
	if !opts.Quiet && !opts.Stdout {
		// total decompressed size isn't known up front so the bar is a spinner.
		bar := progressbar.NewOptions64(-1,
			progressbar.OptionSetDescription(fmt.Sprintf(`decompressing "%s"`, filepath.Base(name))),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionThrottle(1*time.Second),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprint(os.Stderr, "\n")
			}))
		defer bar.Close()

		dst = io.MultiWriter(w, bar)
	}

	written, err := gzbuf.CopyWithContext(ctx, dst, r)
	if !opts.Stdout {
		if f, ok := w.(*os.File); ok {
			if err != nil {
				_, _ = f.Close(), os.Remove(f.Name())
			} else if err = f.Close(); err == nil && !opts.Quiet {
				log.Printf(`wrote %s to "%s"`, humanize.IBytes(uint64(written)), util.DirBase(f.Name()))
			}
		}
	}

	return err
}

// openOutput returns the writer the decompressed bytes should go to: standard output
// with -c, a newly created file next to the source (or under -o) otherwise.
func openOutput(name string, engine gzbuf.Engine) (io.Writer, error) {
	if opts.Stdout {
		return os.Stdout, nil
	}

	dir := filepath.Dir(name)
	if opts.Output != "" {
		dir = string(opts.Output)
	}

	stem, ext := util.StemAndExt(filepath.Base(name))
	if engine != nil {
		ext = strings.TrimSuffix(ext, engine.Ext())
	}

	f, err := util.OpenExclFile(dir, stem, ext, 0666)
	if err != nil {
		return nil, fmt.Errorf("create output file error: %w", err)
	}

	return f, nil
}
