package render_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"deedles.dev/wlpaper/render"
	"deedles.dev/ximage/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T, width, height int) *render.Image {
	pix := make([]byte, width*height*3)
	for i := range pix {
		pix[i] = byte(i*37 + 11)
	}
	img, err := render.NewImage(width, height, pix)
	require.NoError(t, err)
	return img
}

func uniformImage(t *testing.T, width, height int, r, g, b byte) *render.Image {
	pix := bytes.Repeat([]byte{r, g, b}, width*height)
	img, err := render.NewImage(width, height, pix)
	require.NoError(t, err)
	return img
}

func filled(n int, v byte) []byte {
	return bytes.Repeat([]byte{v}, n)
}

func TestRenderIdentity(t *testing.T) {
	img := testImage(t, 4, 3)
	out := filled(4*3*4, 0xFF)
	render.Render(img, 4, 3, out)

	for i := 0; i < 4*3; i++ {
		assert.Equal(t, img.Pix[i*3+2], out[i*4+0], "blue of pixel %v", i)
		assert.Equal(t, img.Pix[i*3+1], out[i*4+1], "green of pixel %v", i)
		assert.Equal(t, img.Pix[i*3+0], out[i*4+2], "red of pixel %v", i)
	}

	view := &format.Image{Format: format.ARGB8888, Rect: image.Rect(0, 0, 4, 3), Pix: out}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			i := (y*4 + x) * 3
			want := color.NRGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: 0xFF}
			assert.Equal(t, color.NRGBAModel.Convert(want), color.NRGBAModel.Convert(view.At(x, y)), "pixel (%v, %v)", x, y)
		}
	}
}

func TestRenderLeavesPadding(t *testing.T) {
	sizes := []struct{ w, h int }{{4, 3}, {8, 6}, {3, 7}}
	for _, size := range sizes {
		out := filled(size.w*size.h*4, 0xA5)
		render.Render(testImage(t, 4, 3), size.w, size.h, out)
		for i := 3; i < len(out); i += 4 {
			require.Equal(t, byte(0xA5), out[i], "%vx%v: padding byte of pixel %v", size.w, size.h, i/4)
		}
	}
}

func TestRenderCoverage(t *testing.T) {
	img := uniformImage(t, 5, 4, 10, 20, 30)

	sizes := []struct{ w, h int }{{1, 1}, {5, 4}, {10, 8}, {3, 2}, {17, 1}, {1, 13}}
	for _, size := range sizes {
		out := filled(size.w*size.h*4, 0xEE)
		render.Render(img, size.w, size.h, out)
		for i := 0; i < len(out); i += 4 {
			require.Equal(t, []byte{30, 20, 10}, out[i:i+3], "%vx%v: pixel %v", size.w, size.h, i/4)
		}
	}
}

func TestRenderUpscaleSmooth(t *testing.T) {
	// Red ramps from left to right. Every row is the same.
	const w, h = 4, 3
	pix := make([]byte, 0, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pix = append(pix, byte(40+x*50), 100, 100)
		}
	}
	img, err := render.NewImage(w, h, pix)
	require.NoError(t, err)

	out := filled(8*6*4, 0)
	render.Render(img, 8, 6, out)

	row := out[:8*4]
	for y := 1; y < 6; y++ {
		assert.Equal(t, row, out[y*8*4:(y+1)*8*4], "row %v", y)
	}
	for x := 0; x < 8; x++ {
		assert.Equal(t, byte(100), row[x*4+0], "blue at %v", x)
		assert.Equal(t, byte(100), row[x*4+1], "green at %v", x)
	}
	assert.Less(t, row[2], row[7*4+2], "red does not increase")

	var distinct int
	for x := 1; x < 8; x++ {
		if row[x*4+2] != row[(x-1)*4+2] {
			distinct++
		}
	}
	assert.Greater(t, distinct, 4, "red is not interpolated")
}

func TestRenderPanics(t *testing.T) {
	img := testImage(t, 4, 3)

	assert.Panics(t, func() { render.Render(img, 4, 3, make([]byte, 4*3*4-1)) })
	assert.Panics(t, func() { render.Render(img, 4, 3, make([]byte, 4*3*4+4)) })
	assert.Panics(t, func() { render.Render(img, 0, 3, nil) })
	assert.Panics(t, func() { render.Render(img, 4, 0, nil) })
}

func TestNewImage(t *testing.T) {
	_, err := render.NewImage(2, 2, make([]byte, 12))
	assert.NoError(t, err)

	_, err = render.NewImage(2, 2, make([]byte, 11))
	assert.Error(t, err)
	_, err = render.NewImage(0, 2, nil)
	assert.Error(t, err)
}

func TestFromImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 12, 11))
	src.SetNRGBA(10, 10, color.NRGBA{R: 1, G: 2, B: 3, A: 0xFF})
	src.SetNRGBA(11, 10, color.NRGBA{R: 200, G: 200, B: 200, A: 0})

	img := render.FromImage(src)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 1, img.Height)
	assert.Equal(t, []byte{1, 2, 3, 0, 0, 0}, img.Pix)

	out := filled(2*4, 0)
	render.Render(img, 2, 1, out)
	assert.Equal(t, []byte{3, 2, 1, 0, 0, 0, 0, 0}, out)
}

func TestLoad(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := range src.Pix {
		src.Pix[i] = byte(i * 9)
		if i%4 == 3 {
			src.Pix[i] = 0xFF
		}
	}

	path := filepath.Join(t.TempDir(), "wallpaper.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, src))
	require.NoError(t, file.Close())

	img, err := render.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	for i := 0; i < 6; i++ {
		assert.Equal(t, src.Pix[i*4:i*4+3], img.Pix[i*3:i*3+3], "pixel %v", i)
	}

	_, err = render.Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLanczos3(t *testing.T) {
	assert.Equal(t, 1.0, render.Lanczos3.At(0))
	assert.InDelta(t, 0, render.Lanczos3.At(1), 1e-9)
	assert.InDelta(t, 0, render.Lanczos3.At(2), 1e-9)
	assert.Equal(t, 0.0, render.Lanczos3.At(3))
	assert.Less(t, render.Lanczos3.At(1.5), 0.0)
}
