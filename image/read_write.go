package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/liut/jpegquality"
	"golang.org/x/image/bmp"
)

// quality bounds of the lossy encoder
const (
	MinQuality     Quality = 1
	MaxQuality     Quality = 100
	DefaultQuality Quality = 30
)

// WriteOption ...
type WriteOption struct {
	// Format of the output, FormatNone keeps the source format
	Format Format
	// Quality of lossy output, zero means DefaultQuality
	Quality Quality
	// Optimize spend extra encoder effort on a smaller output
	Optimize bool
	// MaxWidth and MaxHeight bound the output size, zero is unbounded
	MaxWidth, MaxHeight uint
}

func (wo WriteOption) quality() int {
	switch {
	case wo.Quality == 0:
		return int(DefaultQuality)
	case wo.Quality > MaxQuality:
		return int(MaxQuality)
	}
	return int(wo.Quality)
}

// Image is a decoded image with its attributes
type Image struct {
	m    image.Image
	anim *gif.GIF
	Attr *Attr
}

// Image returns the first frame
func (im *Image) Image() image.Image {
	return im.m
}

// Open decode an image from r, all frames of a gif are kept
func Open(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	head := data
	if len(head) > headSize {
		head = head[:headSize]
	}
	f := GuessFormat(head)
	if f == FormatNone {
		return nil, ErrFormat
	}

	im := &Image{}
	if f == FormatGIF {
		im.anim, err = gif.DecodeAll(bytes.NewReader(data))
		if err == nil && len(im.anim.Image) > 0 {
			im.m = im.anim.Image[0]
		}
	} else {
		im.m, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFormat, err)
	}
	if im.m == nil {
		return nil, ErrFormat
	}

	rec := im.m.Bounds()
	im.Attr = NewAttr(uint(rec.Dx()), uint(rec.Dy()), 0)
	im.Attr.Size = Size(len(data))
	im.Attr.Format = f
	im.Attr.Ext = f.Ext()
	im.Attr.Mime = f.Mime()
	if im.anim != nil {
		im.Attr.Frames = len(im.anim.Image)
		im.Attr.Width = Dimension(im.anim.Config.Width)
		im.Attr.Height = Dimension(im.anim.Config.Height)
	}
	if f == FormatJPEG {
		if jq, e := jpegquality.NewWithBytes(data); e == nil {
			im.Attr.Quality = Quality(jq.Quality())
		}
	}

	return im, nil
}

// SaveTo encode im into w and return the number of bytes written
func SaveTo(w io.Writer, im *Image, wopt WriteOption) (int, error) {
	if im == nil || im.m == nil {
		return 0, ErrEmpty
	}
	f := wopt.Format
	if f == FormatNone && im.Attr != nil {
		f = im.Attr.Format
	}

	cw := NewCountWriter(w)
	var err error
	switch f {
	case FormatJPEG:
		err = jpeg.Encode(cw, im.fit(wopt), &jpeg.Options{Quality: wopt.quality()})
	case FormatPNG:
		enc := &png.Encoder{CompressionLevel: png.DefaultCompression}
		if wopt.Optimize {
			enc.CompressionLevel = png.BestCompression
		}
		err = enc.Encode(cw, im.fit(wopt))
	case FormatGIF:
		err = im.saveGIF(cw, wopt)
	case FormatBMP:
		err = bmp.Encode(cw, im.fit(wopt))
	default:
		return 0, ErrFormat
	}
	return cw.Len(), err
}

func (im *Image) fit(wopt WriteOption) image.Image {
	return Fit(im.m, wopt.MaxWidth, wopt.MaxHeight)
}

// saveGIF keeps every frame unless a resize is asked for, then only the first one is written
func (im *Image) saveGIF(w io.Writer, wopt WriteOption) error {
	resized := wopt.MaxWidth > 0 || wopt.MaxHeight > 0
	if im.anim != nil && !resized {
		g := *im.anim
		if wopt.Optimize {
			g.Image = make([]*image.Paletted, len(im.anim.Image))
			for i, p := range im.anim.Image {
				g.Image[i] = trimPalette(p)
			}
		}
		return gif.EncodeAll(w, &g)
	}

	m := im.fit(wopt)
	p, ok := m.(*image.Paletted)
	if !ok {
		p = quantize(m)
	}
	if wopt.Optimize {
		p = trimPalette(p)
	}
	return gif.Encode(w, p, nil)
}

// quantize to the plan9 palette, a fully transparent pixel keeps its own entry
func quantize(m image.Image) *image.Paletted {
	b := m.Bounds()
	pal := palette.Plan9
	if hasTransparent(m) {
		pal = append(color.Palette{color.Transparent}, palette.Plan9[:255]...)
	}
	p := image.NewPaletted(b, pal)
	draw.FloydSteinberg.Draw(p, b, m, b.Min)
	return p
}

func hasTransparent(m image.Image) bool {
	if o, ok := m.(interface{ Opaque() bool }); ok && o.Opaque() {
		return false
	}
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := m.At(x, y).RGBA(); a == 0 {
				return true
			}
		}
	}
	return false
}

// trimPalette drops the palette entries no pixel refers to
func trimPalette(p *image.Paletted) *image.Paletted {
	var used [256]bool
	for _, idx := range p.Pix {
		used[idx] = true
	}
	var (
		remap [256]uint8
		pal   color.Palette
	)
	for i, c := range p.Palette {
		if i < len(used) && used[i] {
			remap[i] = uint8(len(pal))
			pal = append(pal, c)
		}
	}
	if len(pal) == len(p.Palette) || len(pal) == 0 {
		return p
	}
	out := &image.Paletted{
		Pix:     make([]uint8, len(p.Pix)),
		Stride:  p.Stride,
		Rect:    p.Rect,
		Palette: pal,
	}
	for i, idx := range p.Pix {
		out.Pix[i] = remap[idx]
	}
	return out
}
