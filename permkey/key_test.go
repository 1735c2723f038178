package permkey

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"testing"

	"picscramble/fileop"
)

func isPermutation(p []int) bool {
	s := slices.Clone(p)
	slices.Sort(s)
	for i, v := range s {
		if v != i {
			return false
		}
	}
	return true
}

func TestGenerateIsBijection(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 1))
	for _, size := range [][2]int{{1, 1}, {1, 7}, {7, 1}, {2, 2}, {13, 29}, {640, 480}} {
		k := Generate(size[0], size[1], rnd)
		if k.Width() != size[0] || k.Height() != size[1] {
			t.Fatalf("key size %dx%d, want %dx%d", k.Width(), k.Height(), size[0], size[1])
		}
		if !isPermutation(k.Rows) || !isPermutation(k.Cols) {
			t.Fatalf("%dx%d: not a permutation: %v %v", size[0], size[1], k.Rows, k.Cols)
		}
		if err := k.Validate(); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	}
}

func TestGenerateDefaultRand(t *testing.T) {
	k := Generate(50, 40, nil)
	if !isPermutation(k.Rows) || !isPermutation(k.Cols) {
		t.Fatal("not a permutation")
	}
}

func TestGenerateUniform(t *testing.T) {
	// All 6 orderings of 3 elements should appear with roughly equal frequency.
	rnd := rand.New(rand.NewPCG(9, 9))
	counts := map[[3]int]int{}
	const n = 60000
	for range n {
		p := shuffled(rnd, 3)
		counts[[3]int{p[0], p[1], p[2]}]++
	}
	if len(counts) != 6 {
		t.Fatalf("saw %d orderings, want 6", len(counts))
	}
	for p, c := range counts {
		if c < n/6*9/10 || c > n/6*11/10 {
			t.Errorf("ordering %v seen %d times, want about %d", p, c, n/6)
		}
	}
}

func TestMarshalText(t *testing.T) {
	k := &Key{Rows: []int{1, 0, 2}, Cols: []int{2, 1, 0}}
	b, err := k.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(b) != "1|0|2]2|1|0]" {
		t.Errorf("got %q, want %q", b, "1|0|2]2|1|0]")
	}

	one := &Key{Rows: []int{0}, Cols: []int{0}}
	if b, _ := one.MarshalText(); string(b) != "0]0]" {
		t.Errorf("got %q, want %q", b, "0]0]")
	}

	bad := &Key{Rows: []int{0, 0}, Cols: []int{0}}
	if _, err := bad.MarshalText(); err == nil {
		t.Error("expected error marshaling invalid key")
	}
}

func TestUnmarshalText(t *testing.T) {
	var k Key
	if err := k.UnmarshalText([]byte("1|0|2]2|1|0]")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if !slices.Equal(k.Rows, []int{1, 0, 2}) || !slices.Equal(k.Cols, []int{2, 1, 0}) {
		t.Errorf("got %v %v", k.Rows, k.Cols)
	}

	if err := k.UnmarshalText([]byte("3|1|0|2]0|1]\n")); err != nil {
		t.Fatalf("UnmarshalText with trailing newline: %v", err)
	}
	if k.Height() != 4 || k.Width() != 2 {
		t.Errorf("size %dx%d, want 2x4", k.Width(), k.Height())
	}
}

func TestUnmarshalTextErrors(t *testing.T) {
	tests := []struct {
		name, in string
	}{
		{"empty", ""},
		{"missing second terminator", "1|0]0|1"},
		{"missing first terminator", "1|0|2"},
		{"empty index", "1||0]0]"},
		{"empty segment", "]0]"},
		{"letter", "1|a]0]"},
		{"negative", "-1|0]0]"},
		{"repeat", "0|0]0]"},
		{"out of range", "0|2]0]"},
		{"trailing", "0]0]1"},
		{"overflow", "99999999999999999999999]0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Key{Rows: []int{0}, Cols: []int{0}}
			err := k.UnmarshalText([]byte(tt.in))
			var ke *KeyError
			if !errors.As(err, &ke) {
				t.Fatalf("err = %v, want *KeyError", err)
			}
			if len(k.Rows) != 1 || len(k.Cols) != 1 {
				t.Errorf("key modified on error: %v %v", k.Rows, k.Cols)
			}
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewPCG(2, 3))
	for range 20 {
		k := Generate(1+rnd.IntN(300), 1+rnd.IntN(300), rnd)
		var buf bytes.Buffer
		if err := Encode(&buf, k); err != nil {
			t.Fatalf("Encode: %v", err)
		}
		got, err := Decode(&buf)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !slices.Equal(got.Rows, k.Rows) || !slices.Equal(got.Cols, k.Cols) {
			t.Fatal("round trip mismatch")
		}
	}
}

func TestCheckDimensions(t *testing.T) {
	k := Generate(4, 3, rand.New(rand.NewPCG(0, 0)))
	if err := k.CheckDimensions(4, 3); err != nil {
		t.Errorf("CheckDimensions(4, 3): %v", err)
	}
	for _, d := range [][2]int{{3, 4}, {4, 4}, {5, 3}} {
		var dme *DimensionMismatchError
		if err := k.CheckDimensions(d[0], d[1]); !errors.As(err, &dme) {
			t.Errorf("CheckDimensions(%d, %d) = %v, want *DimensionMismatchError", d[0], d[1], err)
		}
	}
}

func TestInvert(t *testing.T) {
	k := Generate(9, 11, rand.New(rand.NewPCG(4, 4)))
	inv := k.Invert()
	for y, v := range k.Rows {
		if inv.Rows[v] != y {
			t.Fatalf("inv.Rows[%d] = %d, want %d", v, inv.Rows[v], y)
		}
	}
	for x, v := range k.Cols {
		if inv.Cols[v] != x {
			t.Fatalf("inv.Cols[%d] = %d, want %d", v, inv.Cols[v], x)
		}
	}
}

func TestFileName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"photo.bmp", "photo_key.bmp"},
		{"dir/photo.bmp", "dir/photo_key.bmp"},
		{"a.BMP", "a_key.bmp"},
		{"x", "x_key.bmp"},
	}
	for _, tt := range tests {
		if got := FileName(tt.in); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFiles(t *testing.T) {
	name := filepath.Join(t.TempDir(), "img_key.bmp")
	k := Generate(5, 6, rand.New(rand.NewPCG(5, 5)))
	if err := WriteFile(name, k, fileop.WriteOptions{}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !slices.Equal(got.Rows, k.Rows) || !slices.Equal(got.Cols, k.Cols) {
		t.Error("key mismatch")
	}
}
