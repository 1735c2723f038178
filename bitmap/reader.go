// Package bitmap reads and writes uncompressed 24-bit BMP files with a
// 40-byte BITMAPINFOHEADER.
package bitmap

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"math"

	"picscramble/fileop"
)

const (
	fileHeaderLen    = 14
	infoHeaderLen    = 40
	pixelArrayOffset = fileHeaderLen + infoHeaderLen
	bitsPerPixel     = 24
	biRGB            = 0
	pixelsPerMeter   = 2835 // ~72 DPI
)

type header struct {
	fileSize    uint32
	pixOffset   uint32
	dibSize     uint32
	width       int32
	height      int32
	planes      uint16
	bpp         uint16
	compression uint32
	imageSize   uint32
}

// rowStride is the on-disk length of a row: 3 bytes per pixel rounded up
// to a multiple of 4.
func rowStride(width int) int {
	return ((width*bitsPerPixel + 31) / 32) * 4
}

func parseHeader(b []byte) (header, error) {
	var h header
	actual := int64(len(b))

	if actual < fileHeaderLen {
		return h, &SizeMismatchError{Field: "file header", Declared: fileHeaderLen, Actual: actual}
	}
	if b[0] != 'B' || b[1] != 'M' {
		return h, &FormatError{Field: "magic", Msg: fmt.Sprintf("got %q, want \"BM\"", b[0:2])}
	}
	h.fileSize = binary.LittleEndian.Uint32(b[2:6])
	if int64(h.fileSize) != actual {
		return h, &SizeMismatchError{Field: "file size", Declared: int64(h.fileSize), Actual: actual}
	}
	// b[6:10] holds two reserved words.
	h.pixOffset = binary.LittleEndian.Uint32(b[10:14])
	if h.pixOffset != pixelArrayOffset {
		return h, &FormatError{Field: "pixel array offset", Msg: fmt.Sprintf("got %d, want %d", h.pixOffset, pixelArrayOffset)}
	}

	if actual < pixelArrayOffset {
		return h, &SizeMismatchError{Field: "DIB header", Declared: pixelArrayOffset, Actual: actual}
	}
	d := b[fileHeaderLen:pixelArrayOffset]
	h.dibSize = binary.LittleEndian.Uint32(d[0:4])
	if h.dibSize != infoHeaderLen {
		return h, &FormatError{Field: "DIB header size", Msg: fmt.Sprintf("got %d, want %d", h.dibSize, infoHeaderLen)}
	}
	h.width = int32(binary.LittleEndian.Uint32(d[4:8]))
	h.height = int32(binary.LittleEndian.Uint32(d[8:12]))
	if h.width <= 0 {
		return h, &FormatError{Field: "width", Msg: fmt.Sprintf("got %d, want > 0", h.width)}
	}
	if h.height <= 0 {
		return h, &FormatError{Field: "height", Msg: fmt.Sprintf("got %d, want > 0", h.height)}
	}
	h.planes = binary.LittleEndian.Uint16(d[12:14])
	if h.planes != 1 {
		return h, &UnsupportedError{Field: "planes", Value: int64(h.planes)}
	}
	h.bpp = binary.LittleEndian.Uint16(d[14:16])
	if h.bpp != bitsPerPixel {
		return h, &UnsupportedError{Field: "bits per pixel", Value: int64(h.bpp)}
	}
	h.compression = binary.LittleEndian.Uint32(d[16:20])
	if h.compression != biRGB {
		return h, &UnsupportedError{Field: "compression", Value: int64(h.compression)}
	}
	h.imageSize = binary.LittleEndian.Uint32(d[20:24])
	if int64(h.imageSize)+pixelArrayOffset != actual {
		return h, &SizeMismatchError{Field: "image size", Declared: int64(h.imageSize) + pixelArrayOffset, Actual: actual}
	}
	// d[24:40] holds resolution and color table counts, which are ignored.

	// stride*height can overflow int64, so compare by division.
	stride := int64(rowStride(int(h.width)))
	have := actual - pixelArrayOffset
	if int64(h.height) > have/stride {
		need := int64(math.MaxInt64)
		if int64(h.height) <= math.MaxInt64/stride {
			need = stride * int64(h.height)
		}
		return h, &SizeMismatchError{Field: "pixel array", Declared: need, Actual: have}
	}

	return h, nil
}

// decodeRows expects parseHeader to have checked that pix holds
// stride*height bytes.
func decodeRows(h header, pix []byte) (*Image, error) {
	width, height := int(h.width), int(h.height)
	stride := rowStride(width)

	m := New(width, height)
	for srcRow := range height {
		dstRow := height - srcRow - 1
		buf := pix[srcRow*stride:]
		dst := m.Pix[dstRow*m.Stride:]
		for i := range width {
			dst[i*3+0] = buf[i*3+2]
			dst[i*3+1] = buf[i*3+1]
			dst[i*3+2] = buf[i*3+0]
		}
	}
	return m, nil
}

// Decode reads a 24-bit bitmap from r. The whole stream is consumed, since
// the header's size fields are checked against its actual length. On
// failure the error is one of *FormatError, *UnsupportedError or
// *SizeMismatchError, or an I/O error from r.
func Decode(r io.Reader) (*Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	h, err := parseHeader(b)
	if err != nil {
		return nil, err
	}
	return decodeRows(h, b[pixelArrayOffset:])
}

// DecodeConfig validates the headers in r and returns the image size
// without decoding pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, err
	}
	h, err := parseHeader(b)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: ColorModel, Width: int(h.width), Height: int(h.height)}, nil
}

// DecodeBytes is Decode on an in-memory file.
func DecodeBytes(b []byte) (*Image, error) {
	return Decode(bytes.NewReader(b))
}

// ReadFile decodes the bitmap stored at name.
func ReadFile(name string) (*Image, error) {
	var m *Image
	err := fileop.Open(name, func(r io.Reader) error {
		var err error
		if m, err = Decode(r); err != nil {
			return fmt.Errorf("could not decode %q: %w", name, err)
		}
		return nil
	})
	return m, err
}
