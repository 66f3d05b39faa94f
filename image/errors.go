package image

import (
	"errors"
)

var (
	ErrFormat = errors.New("invalid or unsupported image format")
	ErrEmpty  = errors.New("empty image data")
)
