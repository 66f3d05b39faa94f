// Package batch recompress every eligible image of a directory into another one.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-imsto/imshrink/image"
	zlog "github.com/go-imsto/imshrink/log"
	"github.com/go-imsto/imshrink/utils"
)

// Compressor ...
type Compressor struct {
	opts   Options
	exts   image.ExtSet
	logger zlog.Logger
}

// New validate opts and return a ready Compressor
func New(opts Options, fns ...Option) (*Compressor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c := &Compressor{opts: opts, logger: zlog.Get()}
	if opts.StrictCase {
		c.exts = image.LegacyExts()
	} else {
		c.exts = image.DefaultExts()
	}
	for _, fn := range fns {
		fn(c)
	}
	return c, nil
}

// Options returns the validated options
func (c *Compressor) Options() Options {
	return c.opts
}

// Run walks the source directory once. Directory errors stop it, a file
// that cannot be decoded or written is logged, recorded and skipped.
func (c *Compressor) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	names, ignored, err := c.list()
	if err != nil {
		return nil, err
	}
	// before any worker writes
	if err = utils.EnsureDir(c.opts.DestDir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDestCreate, err)
	}
	c.logger.Infow("compress start", "src", c.opts.SourceDir, "dst", c.opts.DestDir,
		"files", len(names), "quality", c.opts.Quality, "optimize", c.opts.Optimize, "workers", c.opts.Workers)

	rpt := &Report{Ignored: ignored}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for _, name := range names {
		if gctx.Err() != nil {
			break
		}
		name := name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			in, out, err := c.compress(name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Warnw("skip file", "name", name, "err", err)
				rpt.Failed = append(rpt.Failed, FileError{Name: name, Err: err})
				return nil
			}
			c.logger.Debugw("compressed", "name", name, "in", in, "out", out)
			rpt.Processed++
			rpt.BytesIn += in
			rpt.BytesOut += out
			return nil
		})
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	rpt.sortFailed()
	rpt.Elapsed = time.Since(start)
	c.logger.Infow("compress done", "processed", rpt.Processed, "skipped", rpt.Skipped(),
		"ignored", rpt.Ignored, "saved", rpt.Saved())
	return rpt, err
}

// list the eligible regular files, directories are left alone
func (c *Compressor) list() (names []string, ignored int, err error) {
	if !utils.Exists(c.opts.SourceDir) {
		return nil, 0, fmt.Errorf("%w: %s", ErrSourceMissing, c.opts.SourceDir)
	}
	if !utils.IsDir(c.opts.SourceDir) {
		return nil, 0, fmt.Errorf("%w: %s", ErrSourceNotDir, c.opts.SourceDir)
	}
	entries, err := os.ReadDir(c.opts.SourceDir)
	if err != nil {
		return nil, 0, fmt.Errorf("read source: %w", err)
	}
	for _, e := range entries {
		if !c.isRegular(e) {
			continue
		}
		if !c.exts.Match(e.Name()) {
			ignored++
			continue
		}
		names = append(names, e.Name())
	}
	return
}

func (c *Compressor) isRegular(e os.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(filepath.Join(c.opts.SourceDir, e.Name()))
	return err == nil && fi.Mode().IsRegular()
}

// compress one file, the output format follows the file extension
func (c *Compressor) compress(name string) (in, out int64, err error) {
	src := filepath.Join(c.opts.SourceDir, name)
	im, err := c.open(src)
	if err != nil {
		return
	}
	if in = utils.FileSize(src); in < 0 {
		in = int64(im.Attr.Size)
	}

	wopt := c.opts.writeOption()
	wopt.Format = image.ParseExt(name)
	err = utils.WriteAtomic(filepath.Join(c.opts.DestDir, name), func(f *os.File) error {
		n, err := image.SaveTo(f, im, wopt)
		out = int64(n)
		return err
	})
	return
}

func (c *Compressor) open(src string) (*image.Image, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return image.Open(f)
}
