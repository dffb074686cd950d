package shell

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

const (
	iconBase   = 64
	iconMaxAge = 86400
)

var (
	iconBackground = color.RGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}
	iconForeground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

type iconSpec struct {
	path        string
	size        int
	contentType string
}

var iconSpecs = []iconSpec{
	{path: "/icon-192.png", size: 192, contentType: "image/png"},
	{path: "/icon-512.png", size: 512, contentType: "image/png"},
	{path: "/icon-512.webp", size: 512, contentType: "image/webp"},
}

// drawPin paints a map pin on a square base canvas.
func drawPin() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconBase, iconBase))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: iconBackground}, image.Point{}, draw.Src)

	const (
		cx, cy = 32.0, 26.0
		radius = 14.0
		hole   = 6.0
		tipY   = 54.0
	)

	for y := 0; y < iconBase; y++ {
		for x := 0; x < iconBase; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			d := math.Hypot(fx-cx, fy-cy)

			head := d <= radius
			tail := fy >= cy && fy <= tipY && math.Abs(fx-cx) <= radius*(tipY-fy)/(tipY-cy)
			if (head || tail) && d > hole {
				img.SetRGBA(x, y, iconForeground)
			}
		}
	}

	return img
}

// renderIcons scales the pin to every manifest size and encodes it.
func renderIcons() ([]Asset, error) {
	src := drawPin()
	out := make([]Asset, 0, len(iconSpecs))

	for _, is := range iconSpecs {
		dst := image.NewRGBA(image.Rect(0, 0, is.size, is.size))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

		var buf bytes.Buffer
		var err error
		switch is.contentType {
		case "image/webp":
			err = webp.Encode(&buf, dst, &webp.Options{Lossless: true})
		default:
			err = png.Encode(&buf, dst)
		}
		if err != nil {
			return nil, fmt.Errorf("encode icon %s: %w", is.path, err)
		}

		out = append(out, newAsset(is.path, is.contentType, buf.Bytes(), iconMaxAge))
	}

	return out, nil
}
