// Package cmd The command line tool for running imshrink.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/template"

	"go.uber.org/zap"

	"github.com/go-imsto/imshrink/config"
	zlog "github.com/go-imsto/imshrink/log"
)

// Command is one action of imshrink, with its own flag set
type Command struct {
	Run                    func(args []string) bool
	UsageLine, Short, Long string
	Flag                   flag.FlagSet
}

// Name is the first word of the usage line
func (cmd *Command) Name() string {
	name, _, _ := strings.Cut(cmd.UsageLine, " ")
	return name
}

// PrintUsage writes the usage line, the flags and the description to w
func (cmd *Command) PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: imshrink %s\n\n", cmd.UsageLine)
	cmd.Flag.SetOutput(w)
	cmd.Flag.PrintDefaults()
	fmt.Fprintf(w, "\n%s\n", strings.TrimSpace(cmd.Long))
}

// main
var (
	exitStatus = 0
	exitMu     sync.Mutex
	confFile   string
)

var commands = []*Command{
	cmdCompress,
	cmdView,
	cmdVersion,
}

func setExitStatus(n int) {
	exitMu.Lock()
	if exitStatus < n {
		exitStatus = n
	}
	exitMu.Unlock()
}

func logger() zlog.Logger {
	return zlog.Get()
}

func init() {
	flag.StringVar(&confFile, "conf", "", "yaml config file, overrides env IMSHRINK_CONFIG")
}

// Main ...
func Main() {
	flag.Usage = func() { usage(1) }
	flag.Parse()
	args := flag.Args()

	if len(args) < 1 || args[0] == "help" {
		if len(args) == 1 {
			usage(0)
		}
		if len(args) > 1 {
			for _, cmd := range commands {
				if cmd.Name() == args[1] {
					cmd.PrintUsage(os.Stdout)
					return
				}
			}
		}
		usage(2)
	}

	if confFile != "" {
		if err := config.Load(config.Current, confFile); err != nil {
			errorf("load config %s: %s", confFile, err)
			os.Exit(2)
		}
	}

	var logger *zap.Logger
	if config.InDevelop() {
		logger, _ = zap.NewDevelopment()
		logger.Debug("logger start")
	} else {
		logger, _ = zap.NewProduction()
	}
	zlog.Set(logger.Sugar())

	for _, cmd := range commands {
		name := cmd.Name()
		if name == args[0] && cmd.Run != nil {
			cmd.Flag.Usage = func() {
				cmd.PrintUsage(os.Stderr)
				os.Exit(2)
			}
			cmd.Flag.Parse(args[1:])
			args = cmd.Flag.Args()

			if !cmd.Run(args) {
				cmd.Flag.Usage()
			}
			_ = logger.Sync()
			exit()
			return
		}
	}

	errorf("unknown command %q\nRun 'imshrink help' for usage.\n", args[0])
	os.Exit(2)
}

func errorf(format string, args ...interface{}) {
	// Ensure the user's command prompt starts on the next line.
	if !strings.HasSuffix(format, "\n") {
		format += "\n"
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

const usageTemplate = `imshrink recompress a directory of images into another.

usage: imshrink [-conf file] command [arguments]

commands:
{{range .}}
    {{.Name | printf "%-10s"}} {{.Short}}{{end}}

Run "imshrink help command" for the flags of a command.
`

func usage(exitCode int) {
	fmt.Fprintln(os.Stderr, "version ", config.Version)
	tmpl(os.Stderr, usageTemplate, commands)
	os.Exit(exitCode)
}

func tmpl(w io.Writer, text string, data interface{}) {
	t := template.New("top")
	template.Must(t.Parse(text))
	if err := t.Execute(w, data); err != nil {
		panic(err)
	}
}

func exit() {
	os.Exit(exitStatus)
}
