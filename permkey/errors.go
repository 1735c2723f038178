package permkey

import "fmt"

// A KeyError reports a malformed key: bad syntax in a key file or a
// segment that is not a permutation.
type KeyError struct {
	Segment string
	Offset  int // byte offset in the key file, -1 if not from parsing
	Msg     string
}

func (e *KeyError) Error() string {
	if e.Offset >= 0 && e.Segment != "" {
		return fmt.Sprintf("permkey: %s: byte %d: %s", e.Segment, e.Offset, e.Msg)
	}
	return fmt.Sprintf("permkey: %s: %s", e.Segment, e.Msg)
}

// A DimensionMismatchError reports a key whose size does not match the
// image it is applied to.
type DimensionMismatchError struct {
	KeyWidth, KeyHeight     int
	ImageWidth, ImageHeight int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("permkey: key is %dx%d, image is %dx%d", e.KeyWidth, e.KeyHeight, e.ImageWidth, e.ImageHeight)
}
