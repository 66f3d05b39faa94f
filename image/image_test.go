package image

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

// photo draws a noisy gradient, close enough to camera output for the encoders
func photo(w, h int) *image.RGBA {
	rnd := rand.New(rand.NewSource(int64(w*h + 7)))
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, color.RGBA{
				R: uint8(x*255/w) ^ uint8(rnd.Intn(48)),
				G: uint8(y*255/h) ^ uint8(rnd.Intn(48)),
				B: uint8((x+y)*127/(w+h)) ^ uint8(rnd.Intn(48)),
				A: 255,
			})
		}
	}
	return m
}

func encode(t *testing.T, f Format, m image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatJPEG:
		err = jpeg.Encode(&buf, m, &jpeg.Options{Quality: 95})
	case FormatPNG:
		err = (&png.Encoder{CompressionLevel: png.NoCompression}).Encode(&buf, m)
	case FormatGIF:
		err = gif.Encode(&buf, m, nil)
	case FormatBMP:
		err = bmp.Encode(&buf, m)
	}
	require.NoError(t, err)
	return buf.Bytes()
}

func TestGuessFormat(t *testing.T) {
	m := photo(16, 12)
	for _, f := range []Format{FormatJPEG, FormatPNG, FormatGIF, FormatBMP} {
		assert.Equal(t, f, GuessFormat(encode(t, f, m)), f.String())
	}
	assert.Equal(t, FormatNone, GuessFormat([]byte("hello world")))
	assert.Equal(t, FormatNone, GuessFormat(nil))
}

func TestParseExt(t *testing.T) {
	cases := map[string]Format{
		"a.jpg":     FormatJPEG,
		"a.JPG":     FormatJPEG,
		"b.jpeg":    FormatJPEG,
		"c.PNG":     FormatPNG,
		"d.gif":     FormatGIF,
		"e.bmp":     FormatBMP,
		"png":       FormatPNG,
		"f.webp":    FormatNone,
		"README":    FormatNone,
		"g.tar.gif": FormatGIF,
	}
	for s, f := range cases {
		assert.Equal(t, f, ParseExt(s), s)
	}

	var f Format
	assert.NoError(t, f.UnmarshalText([]byte("jpeg")))
	assert.Equal(t, FormatJPEG, f)
	b, _ := f.MarshalText()
	assert.Equal(t, "jpeg", string(b))
	assert.Equal(t, "image/jpeg", f.Mime())
	assert.Equal(t, "image/bmp", FormatBMP.Mime())
}

func TestExtSet(t *testing.T) {
	def := DefaultExts()
	legacy := LegacyExts()
	assert.Equal(t, 5, def.Len())
	assert.Equal(t, 6, legacy.Len())

	for _, name := range []string{"a.jpg", "a.JPG", "a.jpeg", "a.png", "a.gif", "a.bmp"} {
		assert.True(t, def.Match(name), name)
		assert.True(t, legacy.Match(name), name)
	}
	for _, name := range []string{"a.PNG", "a.GIF", "a.BMP", "a.JPEG", "a.Jpg"} {
		assert.True(t, def.Match(name), name)
		assert.False(t, legacy.Match(name), name)
	}
	for _, name := range []string{"c.txt", "d.webp", "jpg", "e.jpg.bak", ""} {
		assert.False(t, def.Match(name), name)
		assert.False(t, legacy.Match(name), name)
	}

	custom := NewExtSet(true, "PNG")
	assert.True(t, custom.Match("x.png"))
	assert.False(t, custom.Match("x.jpg"))
}

func TestOpen(t *testing.T) {
	m := photo(40, 30)
	for _, f := range []Format{FormatJPEG, FormatPNG, FormatGIF, FormatBMP} {
		data := encode(t, f, m)
		im, err := Open(bytes.NewReader(data))
		require.NoError(t, err, f.String())
		require.NotNil(t, im.Attr)
		assert.Equal(t, 40, int(im.Attr.Width))
		assert.Equal(t, 30, int(im.Attr.Height))
		assert.Equal(t, len(data), int(im.Attr.Size))
		assert.Equal(t, f, im.Attr.Format)
		assert.Equal(t, f.Ext(), im.Attr.Ext)
		assert.NotNil(t, im.Image())
	}
}

func TestOpenBad(t *testing.T) {
	_, err := Open(bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Open(bytes.NewReader([]byte("plain text, not an image")))
	assert.ErrorIs(t, err, ErrFormat)

	data := encode(t, FormatPNG, photo(20, 20))
	_, err = Open(bytes.NewReader(data[:len(data)/2]))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestSaveJPEG(t *testing.T) {
	data := encode(t, FormatJPEG, photo(200, 150))
	im, err := Open(bytes.NewReader(data))
	require.NoError(t, err)
	assert.NotZero(t, im.Attr.Quality)

	var buf bytes.Buffer
	n, err := SaveTo(&buf, im, WriteOption{Quality: 30, Optimize: true})
	require.NoError(t, err)
	assert.Equal(t, buf.Len(), n)
	assert.Less(t, n, len(data))
	assert.Equal(t, FormatJPEG, GuessFormat(buf.Bytes()))

	// deterministic
	var again bytes.Buffer
	_, err = SaveTo(&again, im, WriteOption{Quality: 30, Optimize: true})
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), again.Bytes())

	// lower quality gives smaller output
	var high bytes.Buffer
	_, err = SaveTo(&high, im, WriteOption{Quality: 90})
	require.NoError(t, err)
	assert.Less(t, buf.Len(), high.Len())
}

func TestSavePNG(t *testing.T) {
	data := encode(t, FormatPNG, photo(120, 90))
	im, err := Open(bytes.NewReader(data))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := SaveTo(&buf, im, WriteOption{Quality: 30, Optimize: true})
	require.NoError(t, err)
	assert.Less(t, n, len(data))

	out, err := png.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, im.Image().Bounds(), out.Bounds())
}

func TestSaveConvert(t *testing.T) {
	im, err := Open(bytes.NewReader(encode(t, FormatPNG, photo(30, 30))))
	require.NoError(t, err)

	for _, f := range []Format{FormatJPEG, FormatGIF, FormatBMP} {
		var buf bytes.Buffer
		_, err = SaveTo(&buf, im, WriteOption{Format: f, Optimize: true})
		require.NoError(t, err, f.String())
		assert.Equal(t, f, GuessFormat(buf.Bytes()))
	}

	_, err = SaveTo(&bytes.Buffer{}, nil, WriteOption{})
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestSaveAnimatedGIF(t *testing.T) {
	pal := color.Palette{color.Black, color.White, color.RGBA{255, 0, 0, 255}, color.RGBA{0, 0, 255, 255}}
	g := &gif.GIF{}
	for i := 0; i < 3; i++ {
		p := image.NewPaletted(image.Rect(0, 0, 10, 10), pal)
		for j := range p.Pix {
			p.Pix[j] = uint8((i + j) % 2)
		}
		g.Image = append(g.Image, p)
		g.Delay = append(g.Delay, 10)
	}
	var src bytes.Buffer
	require.NoError(t, gif.EncodeAll(&src, g))

	im, err := Open(bytes.NewReader(src.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 3, im.Attr.Frames)

	var buf bytes.Buffer
	_, err = SaveTo(&buf, im, WriteOption{Optimize: true})
	require.NoError(t, err)

	out, err := gif.DecodeAll(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, out.Image, 3)
	assert.Len(t, out.Image[0].Palette, 2)

	// resizing keeps the first frame only
	buf.Reset()
	_, err = SaveTo(&buf, im, WriteOption{MaxWidth: 5})
	require.NoError(t, err)
	out, err = gif.DecodeAll(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, out.Image, 1)
	assert.Equal(t, 5, out.Image[0].Bounds().Dx())
}

func TestSaveGIFTransparent(t *testing.T) {
	pal := color.Palette{color.Transparent, color.RGBA{255, 0, 0, 255}}
	p := image.NewPaletted(image.Rect(0, 0, 40, 20), pal)
	for y := 0; y < 20; y++ {
		for x := 20; x < 40; x++ {
			p.SetColorIndex(x, y, 1)
		}
	}
	var src bytes.Buffer
	require.NoError(t, gif.Encode(&src, p, nil))
	im, err := Open(bytes.NewReader(src.Bytes()))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = SaveTo(&buf, im, WriteOption{MaxWidth: 20, Optimize: true})
	require.NoError(t, err)
	out, err := gif.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 20, out.Bounds().Dx())
	assert.Equal(t, 10, out.Bounds().Dy())

	_, _, _, a := out.At(0, 5).RGBA()
	assert.Zero(t, a, "transparent side stays transparent")
	r, _, _, a := out.At(19, 5).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Greater(t, r, uint32(0x8000))

	assert.False(t, hasTransparent(photo(4, 4)))
}

func TestTrimPalette(t *testing.T) {
	pal := color.Palette{color.Black, color.White, color.Transparent}
	p := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	p.Pix[0], p.Pix[1] = 2, 2
	out := trimPalette(p)
	assert.Len(t, out.Palette, 1)
	assert.Equal(t, []uint8{0, 0}, out.Pix)
	assert.Equal(t, color.Transparent, out.Palette[0])

	full := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{color.Black, color.White})
	full.Pix[1] = 1
	assert.Same(t, full, trimPalette(full))
}

func TestFit(t *testing.T) {
	m := photo(200, 100)
	cases := []struct {
		mw, mh uint
		w, h   int
	}{
		{0, 0, 200, 100},
		{100, 0, 100, 50},
		{0, 50, 100, 50},
		{400, 400, 200, 100},
		{100, 20, 40, 20},
	}
	for _, c := range cases {
		b := Fit(m, c.mw, c.mh).Bounds()
		assert.Equal(t, c.w, b.Dx(), "%dx%d", c.mw, c.mh)
		assert.Equal(t, c.h, b.Dy(), "%dx%d", c.mw, c.mh)
	}
	assert.Same(t, m, Fit(m, 0, 0))
}

func TestCountWriter(t *testing.T) {
	var buf bytes.Buffer
	cw := NewCountWriter(&buf)
	n, err := cw.Write([]byte("abcd"))
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	_, _ = cw.Write([]byte("ef"))
	assert.Equal(t, 6, cw.Len())
	assert.Equal(t, "abcdef", buf.String())

	var discard CountWriter
	_, _ = discard.Write([]byte("xyz"))
	assert.Equal(t, 3, discard.Len())
}
