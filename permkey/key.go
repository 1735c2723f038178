// Package permkey generates and serializes the row and column
// permutations used to scramble a bitmap.
//
// A key file holds the row permutation followed by the column
// permutation, each as decimal indices joined by '|' and terminated by
// ']', with nothing between the two segments:
//
//	1|0|2]2|1|0]
//
// Keys are stored in cleartext and give no confidentiality.
package permkey

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
)

// Key maps source rows and columns to destination rows and columns.
type Key struct {
	// Rows[y] is the destination row of source row y.
	Rows []int
	// Cols[x] is the destination column of source column x.
	Cols []int
}

func (k *Key) Width() int  { return len(k.Cols) }
func (k *Key) Height() int { return len(k.Rows) }

// NewRand returns a generator seeded from crypto/rand.
func NewRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic(fmt.Sprintf("permkey: could not seed generator: %v", err))
	}
	return rand.New(rand.NewChaCha8(seed))
}

// Generate returns a uniformly random key for a width x height image.
// A nil rnd uses NewRand.
func Generate(width, height int, rnd *rand.Rand) *Key {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("permkey: invalid image size %dx%d", width, height))
	}
	if rnd == nil {
		rnd = NewRand()
	}
	return &Key{
		Rows: shuffled(rnd, height),
		Cols: shuffled(rnd, width),
	}
}

// shuffled returns a permutation of [0, n) by Fisher-Yates.
func shuffled(rnd *rand.Rand, n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rnd.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	return p
}

// Validate checks that Rows and Cols are both non-empty permutations.
func (k *Key) Validate() error {
	if err := checkPermutation("rows", k.Rows); err != nil {
		return err
	}
	return checkPermutation("columns", k.Cols)
}

func checkPermutation(segment string, p []int) error {
	if len(p) == 0 {
		return &KeyError{Segment: segment, Offset: -1, Msg: "empty permutation"}
	}
	seen := make([]bool, len(p))
	for i, v := range p {
		if v < 0 || v >= len(p) {
			return &KeyError{Segment: segment, Offset: -1, Msg: fmt.Sprintf("index %d at position %d out of range [0, %d)", v, i, len(p))}
		}
		if seen[v] {
			return &KeyError{Segment: segment, Offset: -1, Msg: fmt.Sprintf("index %d repeated at position %d", v, i)}
		}
		seen[v] = true
	}
	return nil
}

// CheckDimensions fails with *DimensionMismatchError unless the key fits a
// width x height image.
func (k *Key) CheckDimensions(width, height int) error {
	if k.Width() != width || k.Height() != height {
		return &DimensionMismatchError{
			KeyWidth:    k.Width(),
			KeyHeight:   k.Height(),
			ImageWidth:  width,
			ImageHeight: height,
		}
	}
	return nil
}

// Invert returns the key that undoes k as a forward mapping.
func (k *Key) Invert() *Key {
	inv := &Key{Rows: make([]int, len(k.Rows)), Cols: make([]int, len(k.Cols))}
	for i, v := range k.Rows {
		inv.Rows[v] = i
	}
	for i, v := range k.Cols {
		inv.Cols[v] = i
	}
	return inv
}
