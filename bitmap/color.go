package bitmap

import (
	"encoding/hex"
	"image/color"
)

// Color is an opaque 24-bit RGB value. Its textual form is six hex digits
// in RRGGBB order.
type Color [3]byte

var (
	Black = Color{0x00, 0x00, 0x00}
	White = Color{0xff, 0xff, 0xff}
)

// ParseColor parses exactly six hexadecimal digits.
func ParseColor(s string) (Color, error) {
	var c Color
	if len(s) != 6 {
		return c, &ValueFormatError{Value: s}
	}
	if _, err := hex.Decode(c[:], []byte(s)); err != nil {
		return Color{}, &ValueFormatError{Value: s}
	}
	return c, nil
}

func (c Color) String() string {
	return hex.EncodeToString(c[:])
}

func (c Color) R() uint8 { return c[0] }
func (c Color) G() uint8 { return c[1] }
func (c Color) B() uint8 { return c[2] }

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c[0])
	r |= r << 8
	g = uint32(c[1])
	g |= g << 8
	b = uint32(c[2])
	b |= b << 8
	return r, g, b, 0xffff
}

// ColorModel converts any color to a Color. Alpha is dropped after
// premultiplication, so translucent colors flatten onto black.
var ColorModel color.Model = color.ModelFunc(colorModel)

func colorModel(c color.Color) color.Color {
	if c, ok := c.(Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return Color{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}
