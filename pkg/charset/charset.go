// Package charset guesses the text encoding of delimited files and turns
// them into UTF-8 readers. Detection is heuristic: short or mixed samples
// can be misread, so callers always get a way to force or fall back.
package charset

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// SampleSize is the most bytes Detect looks at.
const SampleSize = 10000

const UTF8 = "utf-8"

var (
	ErrUndetected      = errors.New("charset: encoding could not be detected")
	ErrUnknownEncoding = errors.New("charset: unknown encoding")
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// aliases maps names chardet and spreadsheet tools emit onto labels the
// x/text indexes know.
var aliases = map[string]string{
	"gb-18030":   "gb18030",
	"gb2312":     "gbk",
	"cp950":      "big5",
	"big5-hkscs": "big5",
	"cp936":      "gbk",
	"cp932":      "shift_jis",
	"sjis":       "shift_jis",
	"ascii":      UTF8,
	"us-ascii":   UTF8,
	"utf8":       UTF8,
}

// Detect returns a best-guess encoding name for sample. Only the first
// SampleSize bytes are examined. A sample that is valid UTF-8, plain ASCII
// included, is reported as UTF-8 without consulting the detector.
func Detect(sample []byte) (string, error) {
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return UTF8, nil
	case bytes.HasPrefix(sample, bomUTF16LE):
		return "utf-16le", nil
	case bytes.HasPrefix(sample, bomUTF16BE):
		return "utf-16be", nil
	}
	if len(bytes.TrimSpace(sample)) == 0 {
		return "", ErrUndetected
	}
	if validUTF8(sample) {
		return UTF8, nil
	}
	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil || res.Charset == "" {
		return "", ErrUndetected
	}
	return Normalize(res.Charset), nil
}

// validUTF8 is utf8.Valid, except that a rune cut off by the end of the
// sample does not count against it.
func validUTF8(b []byte) bool {
	if utf8.Valid(b) {
		return true
	}
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		tail := b[len(b)-i:]
		if utf8.RuneStart(tail[0]) {
			return !utf8.FullRune(tail) && utf8.Valid(b[:len(b)-i])
		}
	}
	return false
}

// Normalize lower-cases name and resolves known aliases.
func Normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if a, ok := aliases[n]; ok {
		return a
	}
	return n
}

// Lookup resolves an encoding name. UTF-8 resolves to nil, meaning no
// transcoding is needed.
func Lookup(name string) (encoding.Encoding, error) {
	n := Normalize(name)
	if n == UTF8 {
		return nil, nil
	}
	if e, err := htmlindex.Get(n); err == nil {
		if e == unicode.UTF8 {
			return nil, nil
		}
		return e, nil
	}
	if e, err := ianaindex.IANA.Encoding(n); err == nil && e != nil {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
}

// NewReader peeks at the head of r, detects its encoding (or uses force when
// non-empty), and returns a reader yielding UTF-8 without a byte order mark.
// fallback is used when detection fails; an empty fallback turns that into
// an error. The name of the encoding used is returned.
func NewReader(r io.Reader, force, fallback string) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, SampleSize)
	name := force
	if name == "" {
		sample, err := br.Peek(SampleSize)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
			return nil, "", fmt.Errorf("charset: read sample: %w", err)
		}
		name, err = Detect(sample)
		if err != nil {
			if fallback == "" {
				return nil, "", err
			}
			name = fallback
		}
	}
	enc, err := Lookup(name)
	if err != nil {
		return nil, "", err
	}
	var out io.Reader = br
	if enc != nil {
		out = enc.NewDecoder().Reader(br)
	}
	return skipBOM(out), Normalize(name), nil
}

// skipBOM drops a leading UTF-8 byte order mark. UTF-16 decoders from
// x/text already consume theirs.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(bomUTF8)); err == nil && bytes.Equal(b, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
	}
	return br
}
