package batch

import (
	"errors"
	"fmt"

	"github.com/go-imsto/imshrink/config"
	"github.com/go-imsto/imshrink/image"
	zlog "github.com/go-imsto/imshrink/log"
	"github.com/go-imsto/imshrink/utils"
)

// errors of a run that stop it before any file is touched
var (
	ErrNoSource      = errors.New("source directory not set")
	ErrNoDest        = errors.New("destination directory not set")
	ErrSameDir       = errors.New("source and destination are the same directory")
	ErrQuality       = errors.New("quality out of range 1-100")
	ErrSourceMissing = errors.New("source directory does not exist")
	ErrSourceNotDir  = errors.New("source is not a directory")
	ErrDestCreate    = errors.New("cannot create destination directory")
)

// Options of a batch run
type Options struct {
	SourceDir  string
	DestDir    string
	Quality    int
	Optimize   bool
	Workers    int
	StrictCase bool
	MaxWidth   uint
	MaxHeight  uint
}

// DefaultOptions quality 30 with optimize, one worker
func DefaultOptions(src, dst string) Options {
	return Options{
		SourceDir: src,
		DestDir:   dst,
		Quality:   int(image.DefaultQuality),
		Optimize:  true,
		Workers:   1,
	}
}

// OptionsFrom ...
func OptionsFrom(s *config.Settings) Options {
	return Options{
		SourceDir:  s.SourceDir,
		DestDir:    s.DestDir,
		Quality:    s.Quality,
		Optimize:   s.Optimize,
		Workers:    s.Workers,
		StrictCase: s.StrictCase,
		MaxWidth:   s.MaxWidth,
		MaxHeight:  s.MaxHeight,
	}
}

// Validate check the options and fill zero values with defaults
func (o *Options) Validate() error {
	if o.SourceDir == "" {
		return ErrNoSource
	}
	if o.DestDir == "" {
		return ErrNoDest
	}
	if o.Quality == 0 {
		o.Quality = int(image.DefaultQuality)
	}
	if o.Quality < int(image.MinQuality) || o.Quality > int(image.MaxQuality) {
		return fmt.Errorf("%w: %d", ErrQuality, o.Quality)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if utils.SameDir(o.SourceDir, o.DestDir) {
		return ErrSameDir
	}
	return nil
}

func (o Options) writeOption() image.WriteOption {
	return image.WriteOption{
		Quality:   image.Quality(o.Quality),
		Optimize:  o.Optimize,
		MaxWidth:  o.MaxWidth,
		MaxHeight: o.MaxHeight,
	}
}

// Option of a Compressor
type Option func(*Compressor)

// WithLogger ...
func WithLogger(l zlog.Logger) Option {
	return func(c *Compressor) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithExts replace the set of eligible extensions
func WithExts(s image.ExtSet) Option {
	return func(c *Compressor) {
		if s.Len() > 0 {
			c.exts = s
		}
	}
}
