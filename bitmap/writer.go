package bitmap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"picscramble/fileop"
)

// PixelArraySize returns the on-disk size of the pixel array of a
// width x height image.
func PixelArraySize(width, height int) int {
	return rowStride(width) * height
}

// FileSize returns the size of the encoded file of a width x height image.
func FileSize(width, height int) int {
	return pixelArrayOffset + PixelArraySize(width, height)
}

// Write the BITMAPFILEHEADER structure to a slice[14].
func putFileHeader(b []byte, imageSize int) {
	b[0] = 'B'
	b[1] = 'M'
	binary.LittleEndian.PutUint32(b[2:6], uint32(pixelArrayOffset+imageSize))
	binary.LittleEndian.PutUint16(b[6:8], 0)
	binary.LittleEndian.PutUint16(b[8:10], 0)
	binary.LittleEndian.PutUint32(b[10:14], pixelArrayOffset)
}

// Write the BITMAPINFOHEADER structure to a slice[40].
func putInfoHeader(b []byte, width, height, imageSize int) {
	binary.LittleEndian.PutUint32(b[0:4], infoHeaderLen)
	binary.LittleEndian.PutUint32(b[4:8], uint32(int32(width)))
	binary.LittleEndian.PutUint32(b[8:12], uint32(int32(height)))
	binary.LittleEndian.PutUint16(b[12:14], 1) // planes
	binary.LittleEndian.PutUint16(b[14:16], bitsPerPixel)
	binary.LittleEndian.PutUint32(b[16:20], biRGB)
	binary.LittleEndian.PutUint32(b[20:24], uint32(imageSize))
	binary.LittleEndian.PutUint32(b[24:28], pixelsPerMeter)
	binary.LittleEndian.PutUint32(b[28:32], pixelsPerMeter)
	binary.LittleEndian.PutUint32(b[32:36], 0) // colors used
	binary.LittleEndian.PutUint32(b[36:40], 0) // important colors
}

// Encode writes m to w as a bottom-up 24-bit bitmap.
func Encode(w io.Writer, m *Image) error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("bitmap: cannot encode %dx%d image", m.Width, m.Height)
	}

	stride := rowStride(m.Width)
	imageSize := stride * m.Height

	var h [pixelArrayOffset]byte
	putFileHeader(h[:fileHeaderLen], imageSize)
	putInfoHeader(h[fileHeaderLen:], m.Width, m.Height, imageSize)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(h[:]); err != nil {
		return err
	}

	// Padding bytes stay zero; only the pixel part is rewritten per row.
	rowBuf := make([]byte, stride)
	for j := m.Height - 1; j >= 0; j-- {
		src := m.Pix[j*m.Stride:]
		for i := range m.Width {
			rowBuf[i*3+0] = src[i*3+2]
			rowBuf[i*3+1] = src[i*3+1]
			rowBuf[i*3+2] = src[i*3+0]
		}
		if _, err := bw.Write(rowBuf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile encodes m to name. Nothing is left at name if encoding fails.
func WriteFile(name string, m *Image, opts fileop.WriteOptions) error {
	return fileop.WriteAtomic(name, opts, func(w io.Writer) error {
		if err := Encode(w, m); err != nil {
			return fmt.Errorf("could not encode %q: %w", name, err)
		}
		return nil
	})
}
