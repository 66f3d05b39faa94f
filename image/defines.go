package image

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"
)

// Format of an image file
type Format byte

// Supported formats
const (
	FormatNone Format = iota
	FormatGIF
	FormatJPEG
	FormatPNG
	FormatBMP
)

const (
	sigGIF = "GIF8"
	sigJPG = "\xff\xd8\xff"
	sigPNG = "\211PNG\r\n\032\n"
	sigBMP = "BM"
)

const headSize = 8

func (f Format) String() string {
	switch f {
	case FormatGIF:
		return "gif"
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatBMP:
		return "bmp"
	}
	return "unknown"
}

// Ext returns the canonical extension with a leading dot
func (f Format) Ext() string {
	switch f {
	case FormatGIF:
		return ".gif"
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	case FormatBMP:
		return ".bmp"
	}
	return ""
}

// Mime ...
func (f Format) Mime() string {
	if f == FormatBMP {
		return "image/bmp"
	}
	return mime.TypeByExtension(f.Ext())
}

// MarshalText implements the encoding.TextMarshaler interface.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (f *Format) UnmarshalText(data []byte) error {
	*f = ParseExt(string(data))
	return nil
}

// ParseExt maps a filename or a bare extension to a format, case is ignored
func ParseExt(s string) Format {
	if pos := strings.LastIndex(s, "."); pos != -1 {
		s = s[pos+1:]
	}
	switch strings.ToLower(s) {
	case "gif":
		return FormatGIF
	case "jpeg", "jpg":
		return FormatJPEG
	case "png":
		return FormatPNG
	case "bmp":
		return FormatBMP
	}
	return FormatNone
}

// GuessFormat sniff the format from the leading bytes of the content
func GuessFormat(head []byte) Format {
	switch {
	case bytes.HasPrefix(head, []byte(sigGIF)):
		return FormatGIF
	case bytes.HasPrefix(head, []byte(sigJPG)):
		return FormatJPEG
	case bytes.HasPrefix(head, []byte(sigPNG)):
		return FormatPNG
	case bytes.HasPrefix(head, []byte(sigBMP)):
		return FormatBMP
	}
	return FormatNone
}

// ExtSet is the set of file extensions eligible for recompression
type ExtSet struct {
	exts map[string]struct{}
	fold bool
}

// NewExtSet build a set, with fold the match ignores case
func NewExtSet(fold bool, exts ...string) ExtSet {
	s := ExtSet{exts: make(map[string]struct{}, len(exts)), fold: fold}
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if fold {
			ext = strings.ToLower(ext)
		}
		s.exts[ext] = struct{}{}
	}
	return s
}

// DefaultExts matches jpg, jpeg, png, gif and bmp in any case
func DefaultExts() ExtSet {
	return NewExtSet(true, ".jpg", ".jpeg", ".png", ".gif", ".bmp")
}

// LegacyExts is the literal suffix list of the old site scripts.
// Only .JPG has an upper case variant, .PNG or .GIF never match.
func LegacyExts() ExtSet {
	return NewExtSet(false, ".jpg", ".JPG", ".jpeg", ".png", ".gif", ".bmp")
}

// Match reports whether the name ends with an extension of the set
func (s ExtSet) Match(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	if s.fold {
		ext = strings.ToLower(ext)
	}
	_, ok := s.exts[ext]
	return ok
}

// Len ...
func (s ExtSet) Len() int {
	return len(s.exts)
}
