// Package scramble relocates the rows and columns of a bitmap according
// to a permutation key and reverses the hex digits of every pixel. The
// result looks like noise but is restored exactly by Unscramble with the
// same key. It is obfuscation, not encryption.
package scramble

import (
	"picscramble/bitmap"
	"picscramble/permkey"
)

// ReverseColor reverses the six hex digits of c, so a1b2c3 becomes 3c2b1a.
// It is its own inverse.
func ReverseColor(c bitmap.Color) bitmap.Color {
	return bitmap.Color{swapNibbles(c[2]), swapNibbles(c[1]), swapNibbles(c[0])}
}

func swapNibbles(b byte) byte {
	return b<<4 | b>>4
}

func checkKey(m *bitmap.Image, key *permkey.Key) error {
	if err := key.CheckDimensions(m.Width, m.Height); err != nil {
		return err
	}
	return key.Validate()
}

// Scramble returns a new image where the reversed color of src(x, y) is
// stored at (key.Cols[x], key.Rows[y]). src is not modified.
func Scramble(src *bitmap.Image, key *permkey.Key) (*bitmap.Image, error) {
	if err := checkKey(src, key); err != nil {
		return nil, err
	}

	dst := bitmap.New(src.Width, src.Height)
	for y := range src.Height {
		dy := key.Rows[y]
		for x := range src.Width {
			dst.SetPixel(key.Cols[x], dy, ReverseColor(src.Pixel(x, y)))
		}
	}
	return dst, nil
}

// Unscramble undoes Scramble: (x, y) receives the reversed color of
// src(key.Cols[x], key.Rows[y]).
func Unscramble(src *bitmap.Image, key *permkey.Key) (*bitmap.Image, error) {
	if err := checkKey(src, key); err != nil {
		return nil, err
	}

	dst := bitmap.New(src.Width, src.Height)
	for y := range src.Height {
		sy := key.Rows[y]
		for x := range src.Width {
			dst.SetPixel(x, y, ReverseColor(src.Pixel(key.Cols[x], sy)))
		}
	}
	return dst, nil
}
