package grid

import "golang.org/x/text/encoding/charmap"

// Encode converts text to glyph codes using code page 437.
// ASCII passes through unchanged, including control bytes; runes with no
// CP437 equivalent become '?'.
func Encode(text string) []byte {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if r < 0x80 {
			out = append(out, byte(r))
			continue
		}
		if b, ok := charmap.CodePage437.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		out = append(out, '?')
	}
	return out
}

// Decode returns the rune a glyph code represents in code page 437.
func Decode(code uint32) rune {
	b := byte(code)
	if b < 0x80 {
		return rune(b)
	}
	return charmap.CodePage437.DecodeByte(b)
}
