package nbt

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// maxStringLen is the largest byte length a u16 string prefix can carry.
const maxStringLen = 0xFFFF

// ModifiedUTF8Len returns the encoded Modified UTF-8 byte length of s.
// It fails with ErrInvalidString when s is not valid UTF-8.
func ModifiedUTF8Len(s string) (int, error) {
	n := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c != 0 && c < utf8.RuneSelf {
			n++
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return 0, fmt.Errorf("%w: invalid utf-8 at byte %d", ErrInvalidString, i)
		}
		switch {
		case r == 0:
			n += 2
		case r < 0x800:
			n += 2
		case r < 0x10000:
			n += 3
		default:
			n += 6
		}
		i += size
	}
	return n, nil
}

// AppendModifiedUTF8 appends the Modified UTF-8 form of s to dst. U+0000
// becomes C0 80 and supplementary code points become a surrogate pair with
// each half in three-byte form. s must be valid UTF-8.
func AppendModifiedUTF8(dst []byte, s string) ([]byte, error) {
	for i := 0; i < len(s); {
		c := s[i]
		if c != 0 && c < utf8.RuneSelf {
			dst = append(dst, c)
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return dst, fmt.Errorf("%w: invalid utf-8 at byte %d", ErrInvalidString, i)
		}
		switch {
		case r == 0:
			dst = append(dst, 0xC0, 0x80)
		case r < 0x800:
			dst = append(dst, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			dst = append3(dst, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			dst = append3(dst, hi)
			dst = append3(dst, lo)
		}
		i += size
	}
	return dst, nil
}

func append3(dst []byte, r rune) []byte {
	return append(dst, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
}

// DecodeModifiedUTF8 decodes b into a Go string. Unpaired surrogates decode
// to U+FFFD.
func DecodeModifiedUTF8(b []byte) (string, error) {
	ascii := true
	for _, c := range b {
		if c == 0 || c >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return string(b), nil
	}
	var sb strings.Builder
	sb.Grow(len(b))
	var pending rune = -1
	flush := func() {
		if pending >= 0 {
			sb.WriteRune(utf8.RuneError)
			pending = -1
		}
	}
	for i := 0; i < len(b); {
		c := b[i]
		var r rune
		switch {
		case c < 0x80:
			r = rune(c)
			i++
		case c&0xE0 == 0xC0:
			if i+1 >= len(b) || b[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: truncated 2-byte sequence at byte %d", ErrInvalidString, i)
			}
			r = rune(c&0x1F)<<6 | rune(b[i+1]&0x3F)
			i += 2
		case c&0xF0 == 0xE0:
			if i+2 >= len(b) || b[i+1]&0xC0 != 0x80 || b[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("%w: truncated 3-byte sequence at byte %d", ErrInvalidString, i)
			}
			r = rune(c&0x0F)<<12 | rune(b[i+1]&0x3F)<<6 | rune(b[i+2]&0x3F)
			i += 3
		default:
			return "", fmt.Errorf("%w: unexpected byte 0x%02X at byte %d", ErrInvalidString, c, i)
		}
		switch {
		case r >= 0xD800 && r < 0xDC00:
			flush()
			pending = r
		case r >= 0xDC00 && r < 0xE000:
			if pending >= 0 {
				sb.WriteRune(utf16.DecodeRune(pending, r))
				pending = -1
			} else {
				sb.WriteRune(utf8.RuneError)
			}
		default:
			flush()
			sb.WriteRune(r)
		}
	}
	flush()
	return sb.String(), nil
}
