package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-imsto/imshrink/image"
)

var cmdView = &Command{
	UsageLine: "view filename...",
	Short:     "print the attributes of image files",
	Long: `
print format, dimensions, size and estimated jpeg quality of image files as json
`,
}

func init() {
	cmdView.Run = runView
}

func runView(args []string) bool {
	if len(args) < 1 {
		return false
	}
	for _, fn := range args {
		attr, err := viewFile(fn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", fn, err)
			setExitStatus(1)
			continue
		}
		b, err := json.MarshalIndent(attr, "", "  ")
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Printf("%s\n", b)
	}
	return true
}

func viewFile(fn string) (*image.Attr, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	im, err := image.Open(f)
	if err != nil {
		return nil, err
	}
	im.Attr.Name = filepath.Base(fn)
	return im.Attr, nil
}
