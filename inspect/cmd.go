// Package inspect checks whether files are bitmaps the codec accepts.
package inspect

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"picscramble/bitmap"
	"picscramble/fileop"
	"picscramble/permkey"
)

type CLICmd struct {
	Files []string `arg:"" help:"Bitmap files to check" type:"existingfile"`
	Key   bool     `help:"Also check the key file named after each image" default:"false"`
}

func (c *CLICmd) Run() error {
	var errCount int
	for _, file := range c.Files {
		logger := slog.Default().With("file", file)
		if err := Check(logger, file, c.Key); err != nil {
			errCount++
			logger.Error("rejected", "kind", Kind(err), "error", err)
		}
	}

	slog.Info("stats", "valid", len(c.Files)-errCount, "errors", errCount, "total", len(c.Files))
	if errCount > 0 {
		return fmt.Errorf("error processing %d files", errCount)
	}
	return nil
}

// Check validates the headers of name and, if withKey is set, that its key
// file fits the image.
func Check(logger *slog.Logger, name string, withKey bool) error {
	var width, height int
	err := fileop.Open(name, func(r io.Reader) error {
		cfg, err := bitmap.DecodeConfig(r)
		if err != nil {
			return fmt.Errorf("could not decode %q: %w", name, err)
		}
		width, height = cfg.Width, cfg.Height
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("valid bitmap", "width", width, "height", height,
		"size", bitmap.FileSize(width, height))

	if !withKey {
		return nil
	}
	keyFile := permkey.FileName(name)
	key, err := permkey.ReadFile(keyFile)
	if err != nil {
		return err
	}
	if err := key.CheckDimensions(width, height); err != nil {
		return fmt.Errorf("key %q does not fit %q: %w", keyFile, name, err)
	}
	logger.Info("valid key", "key", keyFile)
	return nil
}

// Kind names the class of a codec error for reporting.
func Kind(err error) string {
	var (
		format      *bitmap.FormatError
		unsupported *bitmap.UnsupportedError
		size        *bitmap.SizeMismatchError
		value       *bitmap.ValueFormatError
		dims        *permkey.DimensionMismatchError
		key         *permkey.KeyError
	)
	switch {
	case errors.As(err, &format):
		return "format"
	case errors.As(err, &unsupported):
		return "unsupported"
	case errors.As(err, &size):
		return "size mismatch"
	case errors.As(err, &value):
		return "value format"
	case errors.As(err, &dims):
		return "key dimension mismatch"
	case errors.As(err, &key):
		return "key format"
	default:
		return "io"
	}
}
