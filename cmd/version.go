package cmd

import (
	"fmt"
	"runtime"

	"github.com/go-imsto/imshrink/config"
)

var cmdVersion = &Command{
	UsageLine: "version",
	Short:     "print imshrink version",
	Long: `
print imshrink version
`,
	Run: func(args []string) bool {
		fmt.Printf("imshrink %s %s/%s %s\n", config.Version, runtime.GOOS, runtime.GOARCH, runtime.Version())
		return true
	},
}
