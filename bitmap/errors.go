package bitmap

import "fmt"

// A FormatError reports that the input is not a bitmap this codec can
// parse: a bad magic number, header size or pixel array offset.
type FormatError struct {
	Field string
	Msg   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bitmap: invalid format: %s: %s", e.Field, e.Msg)
}

// An UnsupportedError reports a valid but unimplemented bitmap feature,
// such as a bit depth other than 24 or a compressed pixel array.
type UnsupportedError struct {
	Field string
	Value int64
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("bitmap: unsupported feature: %s %d", e.Field, e.Value)
}

// A SizeMismatchError reports that a declared size disagrees with the
// actual stream length, which means truncation or corruption.
type SizeMismatchError struct {
	Field    string
	Declared int64
	Actual   int64
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("bitmap: size mismatch: %s declares %d bytes, stream has %d", e.Field, e.Declared, e.Actual)
}

// A ValueFormatError reports a color value that is not exactly six
// hexadecimal digits.
type ValueFormatError struct {
	Value string
}

func (e *ValueFormatError) Error() string {
	return fmt.Sprintf("bitmap: invalid color %q: want 6 hex digits", e.Value)
}
