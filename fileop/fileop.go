package fileop

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// WriteOptions controls how WriteAtomic treats an existing destination.
type WriteOptions struct {
	Overwrite bool
}

// CheckSource verifies src is a regular file.
func CheckSource(src string) error {
	srcFileInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("cannot stat source file %q: %w", src, err)
	}
	if !srcFileInfo.Mode().IsRegular() {
		return fmt.Errorf("cannot read non-regular file %q: %s", srcFileInfo.Name(), srcFileInfo.Mode().String())
	}
	return nil
}

// CheckDest fails if dest exists, unless overwrite is set.
func CheckDest(dest string, overwrite bool) error {
	destFileInfo, err := os.Stat(dest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("cannot stat destination file %q: %w", dest, err)
		}
		return nil
	}
	if destFileInfo.IsDir() {
		return fmt.Errorf("destination is a directory: %q", dest)
	}
	if !overwrite {
		return fmt.Errorf("destination file already exists: %q", destFileInfo.Name())
	}
	return nil
}

// Open opens src for reading and hands it to fn. The file is closed on
// every return path.
func Open(src string, fn func(io.Reader) error) error {
	if err := CheckSource(src); err != nil {
		return err
	}

	inFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open source file %q: %w", src, err)
	}
	defer func() {
		if closeErr := inFile.Close(); closeErr != nil {
			slog.Error("could not close source file", "name", src, "error", closeErr)
		}
	}()

	return fn(inFile)
}

// WriteAtomic writes dest through a temporary file in the same directory.
// The temporary file is renamed over dest only when fn and the flush
// succeed; otherwise it is removed and dest is left untouched.
func WriteAtomic(dest string, opts WriteOptions, fn func(io.Writer) error) (err error) {
	if err = CheckDest(dest, opts.Overwrite); err != nil {
		return err
	}

	destDir, destName := filepath.Split(dest)
	if destDir == "" {
		destDir = "."
	}

	outFile, err := os.CreateTemp(destDir, "."+destName+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", dest, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination for %q: %w", dest, defErr)
			canRename = false
		}

		if canRename {
			if defErr := os.Rename(outFile.Name(), dest); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", dest, defErr)
			} else {
				return
			}
		}

		if defErr := os.Remove(outFile.Name()); defErr != nil && !errors.Is(defErr, fs.ErrNotExist) {
			slog.Error("could not remove temporary file", "name", outFile.Name(), "error", defErr)
		}
	}()

	if err = fn(outFile); err != nil {
		return err
	}

	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush temporary destination for %q: %w", dest, err)
	}

	canRename = true
	return nil
}
