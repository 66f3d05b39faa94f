package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-imsto/imshrink/batch"
	"github.com/go-imsto/imshrink/config"
	"github.com/go-imsto/imshrink/image"
)

var cmdCompress = &Command{
	UsageLine: "compress [-src dir] [-dst dir] [-q 30]",
	Short:     "recompress every image of a directory into another",
	Long: `
Recompress every jpg, jpeg, png, gif and bmp file of the source directory
into the destination directory under the same name. The destination is
created when missing and existing files are overwritten. A file that can
not be decoded is reported and skipped.

Defaults come from IMSHRINK_* environment variables, see 'imshrink compress -env'.
`,
}

var (
	copts   batch.Options
	cexts   string
	showEnv bool
)

func init() {
	cmdCompress.Run = runCompress
	compressFlags(config.Current)
}

func compressFlags(cur *config.Settings) {
	fs := &cmdCompress.Flag
	fs.StringVar(&copts.SourceDir, "src", cur.SourceDir, "source directory")
	fs.StringVar(&copts.DestDir, "dst", cur.DestDir, "destination directory")
	fs.IntVar(&copts.Quality, "q", cur.Quality, "quality of lossy output, 1-100")
	fs.BoolVar(&copts.Optimize, "optimize", cur.Optimize, "extra encoder effort for smaller output")
	fs.IntVar(&copts.Workers, "workers", cur.Workers, "files processed at once")
	fs.BoolVar(&copts.StrictCase, "strict-case", cur.StrictCase, "match only .jpg .JPG .jpeg .png .gif .bmp literally")
	fs.UintVar(&copts.MaxWidth, "max-width", cur.MaxWidth, "scale down wider images, 0 keeps the size")
	fs.UintVar(&copts.MaxHeight, "max-height", cur.MaxHeight, "scale down taller images, 0 keeps the size")
	fs.StringVar(&cexts, "exts", strings.Join(cur.Exts, ","), "comma separated extensions replacing jpg,jpeg,png,gif,bmp")
	fs.BoolVar(&showEnv, "env", false, "print the environment variables and exit")
}

func runCompress(args []string) bool {
	if showEnv {
		if err := config.Usage(); err != nil {
			errorf("%s", err)
			setExitStatus(1)
		}
		return true
	}
	if len(args) > 0 {
		return false
	}

	opts, exts, err := mergeOptions(copts)
	if err != nil {
		errorf("%s", err)
		setExitStatus(1)
		return true
	}
	fns := []batch.Option{batch.WithLogger(logger())}
	if len(exts) > 0 {
		fns = append(fns, batch.WithExts(image.NewExtSet(!opts.StrictCase, exts...)))
	}
	c, err := batch.New(opts, fns...)
	if err != nil {
		errorf("%s", err)
		setExitStatus(1)
		return true
	}
	opts = c.Options()
	fmt.Printf("Compressing %s into %s, quality %d\n", opts.SourceDir, opts.DestDir, opts.Quality)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rpt, err := c.Run(ctx)
	if err != nil {
		logger().Errorw("compress fail", "err", err)
		errorf("%s", err)
		setExitStatus(1)
		if rpt == nil {
			return true
		}
	}
	for _, fe := range rpt.Failed {
		fmt.Fprintf(os.Stderr, "skipped %s\n", fe)
	}
	if err == nil {
		fmt.Println(batch.Done)
	}
	fmt.Println(rpt.Summary())
	return true
}

// mergeOptions let a -conf file fill what no flag set explicitly
func mergeOptions(o batch.Options) (batch.Options, []string, error) {
	set := map[string]bool{}
	cmdCompress.Flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["q"] && o.Quality == 0 {
		return o, nil, fmt.Errorf("%w: 0", batch.ErrQuality)
	}
	cur := batch.OptionsFrom(config.Current)
	if !set["src"] {
		o.SourceDir = cur.SourceDir
	}
	if !set["dst"] {
		o.DestDir = cur.DestDir
	}
	if !set["q"] {
		o.Quality = cur.Quality
	}
	if !set["optimize"] {
		o.Optimize = cur.Optimize
	}
	if !set["workers"] {
		o.Workers = cur.Workers
	}
	if !set["strict-case"] {
		o.StrictCase = cur.StrictCase
	}
	if !set["max-width"] {
		o.MaxWidth = cur.MaxWidth
	}
	if !set["max-height"] {
		o.MaxHeight = cur.MaxHeight
	}
	exts := config.Current.Exts
	if set["exts"] {
		exts = splitExts(cexts)
	}
	return o, exts, nil
}

func splitExts(s string) (exts []string) {
	for _, ext := range strings.Split(s, ",") {
		if ext = strings.TrimSpace(ext); ext != "" {
			exts = append(exts, ext)
		}
	}
	return
}
