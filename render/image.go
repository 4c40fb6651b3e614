// Package render turns decoded images into the contents of XRGB8888
// shared memory buffers.
package render

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Image is an opaque image stored as tightly packed 8-bit RGB
// triples, row by row. It must not be modified after it has been
// rendered for the first time.
type Image struct {
	Width  int
	Height int
	Pix    []byte

	rgba *image.RGBA
}

// NewImage wraps pix, which must contain exactly width*height RGB
// triples.
func NewImage(width, height int, pix []byte) (*Image, error) {
	if (width <= 0) || (height <= 0) {
		return nil, fmt.Errorf("invalid image size %vx%v", width, height)
	}
	if len(pix) != width*height*3 {
		return nil, fmt.Errorf("%vx%v image needs %v bytes, got %v", width, height, width*height*3, len(pix))
	}

	return &Image{Width: width, Height: height, Pix: pix}, nil
}

// FromImage converts img into an Image. Transparent areas of img end
// up black.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)

	pix := make([]byte, 0, b.Dx()*b.Dy()*3)
	for i := 0; i < len(rgba.Pix); i += 4 {
		pix = append(pix, rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2])
	}
	for i := 3; i < len(rgba.Pix); i += 4 {
		rgba.Pix[i] = 0xFF
	}

	return &Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    pix,
		rgba:   rgba,
	}
}

// Load decodes the image file at path.
func Load(path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	start := time.Now()
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %v: %w", path, err)
	}
	out := FromImage(img)

	log.Info("loaded image",
		"path", path,
		"format", format,
		"width", out.Width,
		"height", out.Height,
		"took", time.Since(start),
	)

	return out, nil
}

// RGBA returns an opaque RGBA copy of the image. The copy is built
// the first time that it is needed and then kept.
func (img *Image) RGBA() *image.RGBA {
	if img.rgba != nil {
		return img.rgba
	}

	rgba := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for src, dst := 0, 0; src < len(img.Pix); src, dst = src+3, dst+4 {
		rgba.Pix[dst+0] = img.Pix[src+0]
		rgba.Pix[dst+1] = img.Pix[src+1]
		rgba.Pix[dst+2] = img.Pix[src+2]
		rgba.Pix[dst+3] = 0xFF
	}

	img.rgba = rgba
	return rgba
}
