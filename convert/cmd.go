// Package convert turns images in any supported format into 24-bit
// bitmaps that can be scrambled.
package convert

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"picscramble/bitmap"
	"picscramble/fileop"
	"picscramble/parallel"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type CLICmd struct {
	Files []string `arg:"" help:"Images to convert (gif, jpeg, png, bmp, tiff, webp)" type:"existingfile"`
	Dest  string   `help:"Destination folder for converted bitmaps" default:"converted"`
	Force bool     `help:"Overwrite existing destination files" default:"false"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	dest, err := filepath.Abs(c.Dest)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", c.Dest, err)
	}
	if info, err := os.Stat(dest); err == nil && !info.IsDir() {
		return fmt.Errorf("invalid destination path %q: not a directory", c.Dest)
	}
	c.Dest = dest
	return nil
}

func (c *CLICmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	var processedCount, errCount atomic.Uint64
	for _, file := range c.Files {
		worker(func(src string) func() {
			return func() {
				logger := slog.Default().With("file", src)
				dst := filepath.Join(c.Dest, DestName(src))

				if err := File(logger, src, dst, c.Force); err != nil {
					errCount.Add(1)
					logger.Error("could not convert image", "dest", dst, "error", err)
					return
				}
				processedCount.Add(1)
			}
		}(file))
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "converted", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

// DestName replaces the extension of src with ".bmp".
func DestName(src string) string {
	name := filepath.Base(src)
	return name[:len(name)-len(filepath.Ext(name))] + ".bmp"
}

// Image draws src into a new 24-bit bitmap. Translucent pixels are
// flattened onto black.
func Image(src image.Image) (*bitmap.Image, error) {
	sr := src.Bounds()
	if sr.Empty() {
		return nil, fmt.Errorf("empty image: %v", sr)
	}
	dst := bitmap.New(sr.Dx(), sr.Dy())
	draw.Draw(dst, dst.Bounds(), src, sr.Min, draw.Src)
	return dst, nil
}

// File decodes src with any registered decoder and writes it to dst as a
// 24-bit bitmap.
func File(logger *slog.Logger, src, dst string, overwrite bool) error {
	var img image.Image
	var format string
	err := fileop.Open(src, func(r io.Reader) error {
		var err error
		if img, format, err = image.Decode(r); err != nil {
			return fmt.Errorf("could not decode %q: %w", src, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m, err := Image(img)
	if err != nil {
		return fmt.Errorf("could not convert %q: %w", src, err)
	}
	logger.Info("converting", "format", format, "width", m.Width, "height", m.Height, "dest", dst)

	return bitmap.WriteFile(dst, m, fileop.WriteOptions{Overwrite: overwrite})
}
