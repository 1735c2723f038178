package scramble

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"picscramble/parallel"
	"picscramble/permkey"

	"github.com/alecthomas/kong"
)

type OpParams struct {
	Files []string `arg:"" help:"Bitmap files to process" type:"existingfile"`
	Force bool     `help:"Overwrite existing destination files" default:"false"`

	dest string
}

func (p *OpParams) validate(dest string) error {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("invalid destination path %q: %w", dest, err)
	}
	if info, err := os.Stat(absDest); err == nil && !info.IsDir() {
		return fmt.Errorf("invalid destination path %q: not a directory", dest)
	}
	p.dest = absDest

	seen := make(map[string]bool, len(p.Files))
	for i, f := range p.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("invalid file path %q: %w", f, err)
		}
		base := filepath.Base(abs)
		if seen[base] {
			return fmt.Errorf("duplicate file name %q", base)
		}
		seen[base] = true
		p.Files[i] = abs
	}
	return nil
}

type opFunc func(logger *slog.Logger, src, dst string) error

func (p *OpParams) run(op string, fn opFunc, worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if err := os.MkdirAll(p.dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", p.dest, err)
	}

	var processedCount, errCount atomic.Uint64
	for _, file := range p.Files {
		worker(func(src string) func() {
			return func() {
				dst := filepath.Join(p.dest, filepath.Base(src))
				logger := slog.Default().With("op", op, "file", src)

				if err := fn(logger, src, dst); err != nil {
					errCount.Add(1)
					logger.Error("could not process image", "dest", dst, "error", err)
					return
				}
				processedCount.Add(1)
			}
		}(file))
	}

	wait(true)

	processed := processedCount.Load()
	errors := errCount.Load()
	slog.Info("stats", "op", op, "processed", processed, "errors", errors,
		"total", processed+errors)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

type ScrambleCmd struct {
	OpParams
	Dest   string `help:"Destination folder for scrambled images and their keys" default:"scrambled"`
	KeyDir string `help:"Folder for key files instead of the destination folder. Created if missing."`
}

func (c *ScrambleCmd) Validate(kctx *kong.Context) error {
	if c.KeyDir != "" {
		keyDir, err := filepath.Abs(c.KeyDir)
		if err != nil {
			return fmt.Errorf("invalid key path %q: %w", c.KeyDir, err)
		}
		if info, err := os.Stat(keyDir); err == nil && !info.IsDir() {
			return fmt.Errorf("invalid key path %q: not a directory", c.KeyDir)
		}
		c.KeyDir = keyDir
	}
	return c.validate(c.Dest)
}

func (c *ScrambleCmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	if c.KeyDir != "" {
		if err := os.MkdirAll(c.KeyDir, 0o755); err != nil {
			return fmt.Errorf("unable to create key folder %q: %w", c.KeyDir, err)
		}
	}
	return c.run("scramble", func(logger *slog.Logger, src, dst string) error {
		opts := FileOptions{Overwrite: c.Force, Logger: logger}
		if c.KeyDir != "" {
			opts.KeyFile = filepath.Join(c.KeyDir, filepath.Base(permkey.FileName(dst)))
		}
		_, err := ScrambleFile(src, dst, opts)
		return err
	}, worker, wait)
}

type UnscrambleCmd struct {
	OpParams
	Dest string `help:"Destination folder for restored images" default:"unscrambled"`
	Key  string `help:"Key file to use instead of the one named after the image. Only valid with a single image." type:"existingfile"`
}

func (c *UnscrambleCmd) Validate(kctx *kong.Context) error {
	if c.Key != "" && len(c.Files) > 1 {
		return fmt.Errorf("--key can only be used with a single image, got %d", len(c.Files))
	}
	return c.validate(c.Dest)
}

func (c *UnscrambleCmd) Run(worker parallel.WorkerFunc, wait parallel.WaitFunc) error {
	return c.run("unscramble", func(logger *slog.Logger, src, dst string) error {
		return UnscrambleFile(src, dst, FileOptions{KeyFile: c.Key, Overwrite: c.Force, Logger: logger})
	}, worker, wait)
}
