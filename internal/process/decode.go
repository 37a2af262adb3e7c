package process

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReplacementChar is substituted for every invalid UTF-8 sequence.
const ReplacementChar = "\uFFFD"

// decoder is one way of turning raw child output into text.
// ok=false hands the bytes to the next decoder in the list.
type decoder struct {
	name   string
	decode func(raw []byte) (text string, ok bool)
}

// decoders are tried in order; the first success wins. When every one
// declines, replaceInvalid produces the text.
var decoders = []decoder{
	{name: "utf8", decode: decodeUTF8},
}

// Decode converts child output to UTF-8 text, replacing invalid byte sequences
// with ReplacementChar. It never fails.
func Decode(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	for _, d := range decoders {
		if text, ok := d.decode(raw); ok {
			return text
		}
	}
	return replaceInvalid(raw)
}

func decodeUTF8(raw []byte) (string, bool) {
	if utf8.Valid(raw) {
		return string(raw), true
	}
	out, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), raw)
	if err != nil || !utf8.Valid(out) {
		return "", false
	}
	return string(out), true
}

func replaceInvalid(raw []byte) string {
	return strings.ToValidUTF8(string(raw), ReplacementChar)
}
