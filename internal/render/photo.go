package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"math"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// photoPixels is the edge of the cropped photo bitmap. The photo is drawn at
// 90 pt, so this keeps it sharp when printed.
const photoPixels = 375

// CircularPNG center-crops data to a square, scales it to size pixels and
// masks everything outside the inscribed circle to transparent.
func CircularPNG(data []byte, size int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid photo size %d", size)
	}

	square := centerSquare(src.Bounds())
	if square.Empty() {
		return nil, fmt.Errorf("photo has no pixels")
	}

	scaled := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, square, draw.Src, nil)

	out := image.NewNRGBA(scaled.Bounds())
	draw.DrawMask(out, out.Bounds(), scaled, image.Point{}, circleMask{size: size}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}
	return buf.Bytes(), nil
}

func centerSquare(b image.Rectangle) image.Rectangle {
	side := min(b.Dx(), b.Dy())
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2
	return image.Rect(x0, y0, x0+side, y0+side)
}

// circleMask is an alpha mask of the circle inscribed in a size x size
// square, with a one-pixel soft edge.
type circleMask struct {
	size int
}

func (m circleMask) ColorModel() color.Model { return color.AlphaModel }

func (m circleMask) Bounds() image.Rectangle { return image.Rect(0, 0, m.size, m.size) }

func (m circleMask) At(x, y int) color.Color {
	r := float64(m.size) / 2
	dx := float64(x) + 0.5 - r
	dy := float64(y) + 0.5 - r
	coverage := r - math.Hypot(dx, dy) + 0.5
	switch {
	case coverage >= 1:
		return color.Alpha{A: 0xff}
	case coverage <= 0:
		return color.Alpha{}
	default:
		return color.Alpha{A: uint8(coverage * 0xff)}
	}
}

// imageType maps a sniffed MIME type to the fpdf image type name. An empty
// result means fpdf cannot embed it.
func imageType(data []byte) (string, string) {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("image/jpeg"):
		return "JPG", mt.String()
	case mt.Is("image/png"):
		return "PNG", mt.String()
	case mt.Is("image/gif"):
		return "GIF", mt.String()
	default:
		return "", mt.String()
	}
}
