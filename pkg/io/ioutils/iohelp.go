package ioutils

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicXz   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// compressedExts are stripped by TrimCompressionExt.
var compressedExts = []string{".gz", ".zst", ".zstd", ".xz"}

// TrimCompressionExt removes a trailing compression extension so the
// remaining extension names the table format ("a.csv.gz" -> "a.csv").
func TrimCompressionExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	for _, c := range compressedExts {
		if ext == c {
			return strings.TrimSuffix(name, filepath.Ext(name))
		}
	}
	return name
}

// Decompress wraps r with a gzip, zstd or xz reader when the stream starts
// with the matching magic bytes; anything else passes through untouched.
func Decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(magicXz))
	switch {
	case bytes.HasPrefix(head, magicGzip):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case bytes.HasPrefix(head, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		return readCloser{Reader: zr, closeFn: func() error { zr.Close(); return nil }}, nil
	case bytes.HasPrefix(head, magicXz):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	}
	return io.NopCloser(br), nil
}

// OpenMaybeCompressed opens a file path or stdin ("-") and returns a reader
// that transparently decompresses gzip, zstd and xz input.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return Decompress(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := Decompress(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return readCloser{Reader: rc, closeFn: func() error { _ = rc.Close(); return f.Close() }}, nil
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error {
	if r.closeFn != nil {
		return r.closeFn()
	}
	return errors.New("no closeFn")
}
