package scramble

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"picscramble/bitmap"
	"picscramble/fileop"
	"picscramble/permkey"
)

type FileOptions struct {
	// KeyFile overrides the key file name derived with permkey.FileName.
	KeyFile   string
	Overwrite bool
	// Rand is the key generator for ScrambleFile; nil seeds from crypto/rand.
	Rand   *rand.Rand
	Logger *slog.Logger
}

func (o *FileOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// ScrambleFile scrambles the bitmap at src with a fresh key, writes the
// result to dst and the key next to it. It returns the key file name.
// The key is written before the image, so a scrambled image never exists
// without its key, and removed again if the image cannot be written.
func ScrambleFile(src, dst string, opts FileOptions) (string, error) {
	logger := opts.logger()

	keyFile := opts.KeyFile
	if keyFile == "" {
		keyFile = permkey.FileName(dst)
	}
	wo := fileop.WriteOptions{Overwrite: opts.Overwrite}
	if err := fileop.CheckDest(dst, wo.Overwrite); err != nil {
		return "", err
	}

	img, err := bitmap.ReadFile(src)
	if err != nil {
		return "", err
	}
	logger.Debug("read image", "width", img.Width, "height", img.Height)

	key := permkey.Generate(img.Width, img.Height, opts.Rand)
	out, err := Scramble(img, key)
	if err != nil {
		return "", fmt.Errorf("could not scramble %q: %w", src, err)
	}

	if err := permkey.WriteFile(keyFile, key, wo); err != nil {
		return "", err
	}
	logger.Info("wrote key", "key", keyFile)

	if err := bitmap.WriteFile(dst, out, wo); err != nil {
		if rmErr := os.Remove(keyFile); rmErr != nil {
			logger.Error("could not remove key file", "key", keyFile, "error", rmErr)
		}
		return "", err
	}
	logger.Info("wrote scrambled image", "dest", dst)
	return keyFile, nil
}

// UnscrambleFile restores the bitmap at src using its key and writes the
// result to dst.
func UnscrambleFile(src, dst string, opts FileOptions) error {
	logger := opts.logger()

	keyFile := opts.KeyFile
	if keyFile == "" {
		keyFile = permkey.FileName(src)
	}
	wo := fileop.WriteOptions{Overwrite: opts.Overwrite}
	if err := fileop.CheckDest(dst, wo.Overwrite); err != nil {
		return err
	}

	img, err := bitmap.ReadFile(src)
	if err != nil {
		return err
	}
	key, err := permkey.ReadFile(keyFile)
	if err != nil {
		return err
	}
	logger.Debug("read image and key", "width", img.Width, "height", img.Height, "key", keyFile)

	out, err := Unscramble(img, key)
	if err != nil {
		return fmt.Errorf("could not unscramble %q with key %q: %w", src, keyFile, err)
	}

	if err := bitmap.WriteFile(dst, out, wo); err != nil {
		return err
	}
	logger.Info("wrote unscrambled image", "dest", dst)
	return nil
}
