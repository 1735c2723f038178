package fileop

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.bin")

	err := WriteAtomic(dest, WriteOptions{}, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	})
	if err != nil {
		t.Fatalf("WriteAtomic: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("content = %q, want %q", got, "hello")
	}
	assertOnlyFiles(t, dir, "out.bin")
}

func TestWriteAtomicFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.bin")
	boom := errors.New("boom")

	err := WriteAtomic(dest, WriteOptions{}, func(w io.Writer) error {
		if _, err := w.Write([]byte("partial")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if _, err := os.Stat(dest); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("destination exists after failed write: %v", err)
	}
	assertOnlyFiles(t, dir)
}

func TestWriteAtomicExisting(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.bin")
	if err := os.WriteFile(dest, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	write := func(w io.Writer) error {
		_, err := w.Write([]byte("new"))
		return err
	}

	if err := WriteAtomic(dest, WriteOptions{}, write); err == nil {
		t.Fatal("expected error for existing destination")
	}
	if got, _ := os.ReadFile(dest); string(got) != "old" {
		t.Errorf("destination modified: %q", got)
	}

	if err := WriteAtomic(dest, WriteOptions{Overwrite: true}, write); err != nil {
		t.Fatalf("WriteAtomic with overwrite: %v", err)
	}
	if got, _ := os.ReadFile(dest); string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	if err := Open(dir, func(io.Reader) error { return nil }); err == nil {
		t.Error("expected error when opening a directory")
	}

	src := filepath.Join(dir, "in.bin")
	if err := os.WriteFile(src, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	var got []byte
	err := Open(src, func(r io.Reader) error {
		var err error
		got, err = io.ReadAll(r)
		return err
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("content = %q, want %q", got, "abc")
	}
}

func assertOnlyFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != len(names) {
		var found []string
		for _, e := range entries {
			found = append(found, e.Name())
		}
		t.Fatalf("dir contains %v, want %v", found, names)
	}
	for i, e := range entries {
		if e.Name() != names[i] {
			t.Errorf("entry %d = %q, want %q", i, e.Name(), names[i])
		}
	}
}
