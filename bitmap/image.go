package bitmap

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// Image is a top-down grid of 24-bit pixels. Row 0 is the topmost
// displayed row.
type Image struct {
	// Pix holds the image's pixels in R, G, B order. The pixel at
	// (x, y) starts at Pix[y*Stride + x*3].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	Width  int
	Height int
}

// New returns a black image of the given size. It panics if either
// dimension is not positive.
func New(width, height int) *Image {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("bitmap: invalid image size %dx%d", width, height))
	}
	return &Image{
		Pix:    make([]uint8, 3*width*height),
		Stride: 3 * width,
		Width:  width,
		Height: height,
	}
}

func (m *Image) offset(x, y int) int {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		panic(fmt.Sprintf("bitmap: pixel (%d, %d) out of bounds %dx%d", x, y, m.Width, m.Height))
	}
	return y*m.Stride + x*3
}

// Pixel returns the color at (x, y). It panics if (x, y) is outside the
// image.
func (m *Image) Pixel(x, y int) Color {
	i := m.offset(x, y)
	return Color{m.Pix[i], m.Pix[i+1], m.Pix[i+2]}
}

// SetPixel sets the color at (x, y). It panics if (x, y) is outside the
// image.
func (m *Image) SetPixel(x, y int, c Color) {
	i := m.offset(x, y)
	copy(m.Pix[i:i+3], c[:])
}

// SetHex parses s as RRGGBB and stores it at (x, y). The pixel is left
// unchanged if s is not a valid color.
func (m *Image) SetHex(x, y int, s string) error {
	c, err := ParseColor(s)
	if err != nil {
		return err
	}
	m.SetPixel(x, y, c)
	return nil
}

func (m *Image) ColorModel() color.Model { return ColorModel }

func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.Width, m.Height) }

// At follows the image.Image convention and returns black outside the
// bounds.
func (m *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return Black
	}
	return m.Pixel(x, y)
}

// Set implements draw.Image. Points outside the bounds are ignored.
func (m *Image) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(m.Bounds())) {
		return
	}
	m.SetPixel(x, y, ColorModel.Convert(c).(Color))
}

// Opaque reports that every pixel is fully opaque, which is always true.
func (m *Image) Opaque() bool { return true }

// Equal reports whether m and o have the same size and pixels.
func (m *Image) Equal(o *Image) bool {
	if m.Width != o.Width || m.Height != o.Height {
		return false
	}
	for y := range m.Height {
		a := m.Pix[y*m.Stride : y*m.Stride+3*m.Width]
		b := o.Pix[y*o.Stride : y*o.Stride+3*o.Width]
		if !bytes.Equal(a, b) {
			return false
		}
	}
	return true
}
