package main

import (
	"github.com/go-imsto/imshrink/cmd"
)

func main() {
	cmd.Main()
}
