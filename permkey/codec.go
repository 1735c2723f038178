package permkey

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"picscramble/fileop"
)

const (
	separator  = '|'
	terminator = ']'
)

var segmentNames = [2]string{"rows", "columns"}

// MarshalText implements encoding.TextMarshaler.
func (k *Key) MarshalText() ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	b := make([]byte, 0, 4*(len(k.Rows)+len(k.Cols)))
	b = appendSegment(b, k.Rows)
	b = appendSegment(b, k.Cols)
	return b, nil
}

func appendSegment(b []byte, p []int) []byte {
	for i, v := range p {
		if i > 0 {
			b = append(b, separator)
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}
	return append(b, terminator)
}

// UnmarshalText implements encoding.TextUnmarshaler. Trailing ASCII
// whitespace after the second terminator is accepted; anything else is
// an error. The decoded key is validated.
func (k *Key) UnmarshalText(text []byte) error {
	var segs [2][]int
	pos := 0
	for i := range segs {
		p, n, err := parseSegment(text[pos:], pos, segmentNames[i])
		if err != nil {
			return err
		}
		segs[i] = p
		pos += n
	}
	if rest := bytes.TrimSpace(text[pos:]); len(rest) > 0 {
		return &KeyError{Segment: "trailer", Offset: pos, Msg: fmt.Sprintf("unexpected %d bytes after columns", len(rest))}
	}

	key := Key{Rows: segs[0], Cols: segs[1]}
	if err := key.Validate(); err != nil {
		return err
	}
	*k = key
	return nil
}

// parseSegment reads indices up to and including the next terminator and
// returns them with the number of bytes consumed.
func parseSegment(b []byte, base int, name string) ([]int, int, error) {
	var p []int
	start := 0
	for i, c := range b {
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == separator || c == terminator:
			if i == start {
				return nil, 0, &KeyError{Segment: name, Offset: base + i, Msg: "empty index"}
			}
			v, err := strconv.Atoi(string(b[start:i]))
			if err != nil {
				return nil, 0, &KeyError{Segment: name, Offset: base + start, Msg: fmt.Sprintf("bad index %q", b[start:i])}
			}
			p = append(p, v)
			start = i + 1
			if c == terminator {
				return p, i + 1, nil
			}
		default:
			return nil, 0, &KeyError{Segment: name, Offset: base + i, Msg: fmt.Sprintf("unexpected character %q", c)}
		}
	}
	return nil, 0, &KeyError{Segment: name, Offset: base + len(b), Msg: "missing ']' terminator"}
}

// Encode writes k to w in key file format.
func Encode(w io.Writer, k *Key) error {
	b, err := k.MarshalText()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Decode reads a key file from r.
func Decode(r io.Reader) (*Key, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	k := new(Key)
	if err := k.UnmarshalText(b); err != nil {
		return nil, err
	}
	return k, nil
}

// ReadFile decodes the key file at name.
func ReadFile(name string) (*Key, error) {
	var k *Key
	err := fileop.Open(name, func(r io.Reader) error {
		var err error
		if k, err = Decode(r); err != nil {
			return fmt.Errorf("could not decode key %q: %w", name, err)
		}
		return nil
	})
	return k, err
}

// WriteFile stores k at name. Nothing is left at name on failure.
func WriteFile(name string, k *Key, opts fileop.WriteOptions) error {
	return fileop.WriteAtomic(name, opts, func(w io.Writer) error {
		if err := Encode(w, k); err != nil {
			return fmt.Errorf("could not encode key %q: %w", name, err)
		}
		return nil
	})
}

// FileName returns the key file name paired with an image: the last four
// characters (normally ".bmp") are replaced by "_key.bmp". The key file is
// text despite its extension.
func FileName(imageName string) string {
	if len(imageName) < 4 {
		return imageName + "_key.bmp"
	}
	return imageName[:len(imageName)-4] + "_key.bmp"
}
