package render

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"
)

// Lanczos3 is a Lanczos resampling kernel with three lobes.
var Lanczos3 = &draw.Kernel{
	Support: 3,
	At:      lanczos3,
}

func lanczos3(t float64) float64 {
	if t == 0 {
		return 1
	}
	if t >= 3 {
		return 0
	}

	pt := math.Pi * t
	return 3 * math.Sin(pt) * math.Sin(pt/3) / (pt * pt)
}

// Render draws img stretched to width by height pixels into out as
// XRGB8888: blue, green and red in the first three bytes of each
// pixel. The fourth byte of each pixel is left as it is. If the size
// is the image's own, the pixels are copied without resampling.
//
// Render panics if either dimension is not positive or if out is not
// exactly width*height*4 bytes long.
func Render(img *Image, width, height int, out []byte) {
	if (width <= 0) || (height <= 0) {
		panic(fmt.Errorf("invalid render size %vx%v", width, height))
	}
	if len(out) != width*height*4 {
		panic(fmt.Errorf("render %vx%v: buffer is %v bytes, need %v", width, height, len(out), width*height*4))
	}

	if (width == img.Width) && (height == img.Height) {
		packRGB(out, img.Pix)
		return
	}

	start := time.Now()
	src := img.RGBA()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	Lanczos3.Scale(dst, dst.Rect, src, src.Rect, draw.Src, nil)
	packRGBA(out, dst.Pix)

	log.Debug("resized image",
		"from", fmt.Sprintf("%vx%v", img.Width, img.Height),
		"to", fmt.Sprintf("%vx%v", width, height),
		"took", time.Since(start),
	)
}

func packRGB(out, pix []byte) {
	for src, dst := 0, 0; dst < len(out); src, dst = src+3, dst+4 {
		out[dst+0] = pix[src+2]
		out[dst+1] = pix[src+1]
		out[dst+2] = pix[src+0]
	}
}

func packRGBA(out, pix []byte) {
	for i := 0; i < len(out); i += 4 {
		out[i+0] = pix[i+2]
		out[i+1] = pix[i+1]
		out[i+2] = pix[i+0]
	}
}
