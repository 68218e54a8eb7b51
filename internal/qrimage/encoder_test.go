package qrimage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mdqrcode/internal/foundation/errors"
)

func decodePNG(t *testing.T, b []byte) image.Image {
	t.Helper()
	require.True(t, bytes.HasPrefix(b, []byte("\x89PNG")), "missing PNG magic")
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}

func requireColor(t *testing.T, want color.Color, got color.Color) {
	t.Helper()
	wr, wg, wb, wa := want.RGBA()
	gr, gg, gb, ga := got.RGBA()
	require.Equal(t, []uint32{wr, wg, wb, wa}, []uint32{gr, gg, gb, ga})
}

func TestQREncoder_Encode(t *testing.T) {
	enc := NewQREncoder()
	b, err := enc.Encode(Request{
		Data:       "hello",
		PixelSize:  3,
		Level:      LevelL,
		Foreground: "#112233",
		Background: "#FFFFFF",
	})
	require.NoError(t, err)

	img := decodePNG(t, b)
	bounds := img.Bounds()
	require.Equal(t, bounds.Dx(), bounds.Dy())
	require.Zero(t, bounds.Dx()%3)
	require.GreaterOrEqual(t, bounds.Dx(), (21+8)*3)

	// Quiet zone is background, the finder pattern corner after it is foreground.
	requireColor(t, color.White, img.At(0, 0))
	requireColor(t, color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}, img.At(4*3+1, 4*3+1))
}

func TestQREncoder_PixelSizeScalesImage(t *testing.T) {
	enc := NewQREncoder()
	small, err := enc.Encode(Request{Data: "scale", PixelSize: 1, Foreground: "black", Background: "white"})
	require.NoError(t, err)
	large, err := enc.Encode(Request{Data: "scale", PixelSize: 5, Foreground: "black", Background: "white"})
	require.NoError(t, err)

	require.Equal(t, decodePNG(t, small).Bounds().Dx()*5, decodePNG(t, large).Bounds().Dx())
}

func TestQREncoder_WithoutBorder(t *testing.T) {
	enc := NewQREncoder(WithoutBorder())
	b, err := enc.Encode(Request{Data: "x", PixelSize: 2, Foreground: "#000", Background: "#fff"})
	require.NoError(t, err)

	img := decodePNG(t, b)
	requireColor(t, color.Black, img.At(0, 0))
}

func TestQREncoder_Deterministic(t *testing.T) {
	enc := NewQREncoder()
	req := Request{Data: "same", PixelSize: 2, Level: LevelQ, Foreground: "#000000", Background: "#FFFFFF"}
	a, err := enc.Encode(req)
	require.NoError(t, err)
	b, err := enc.Encode(req)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestQREncoder_Failures(t *testing.T) {
	enc := NewQREncoder()
	base := Request{Data: "x", PixelSize: 2, Foreground: "#000000", Background: "#FFFFFF"}

	cases := map[string]func(r *Request){
		"zero pixel size": func(r *Request) { r.PixelSize = 0 },
		"bad foreground":  func(r *Request) { r.Foreground = "nope" },
		"bad background":  func(r *Request) { r.Background = "#12" },
		"over capacity":   func(r *Request) { r.Data = strings.Repeat("x", 4000); r.Level = LevelH },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := base
			mutate(&req)
			_, err := enc.Encode(req)
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryEncoding))
		})
	}
}
