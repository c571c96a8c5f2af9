package ioutils

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

const payload = "商品 ID,數量\nA,1\nB,2\n"

func TestDecompress(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, _ = gw.Write([]byte(payload))
	_ = gw.Close()

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = zw.Write([]byte(payload))
	_ = zw.Close()

	var xzb bytes.Buffer
	xw, err := xz.NewWriter(&xzb)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = xw.Write([]byte(payload))
	_ = xw.Close()

	cases := map[string][]byte{
		"plain": []byte(payload),
		"gzip":  gz.Bytes(),
		"zstd":  zs.Bytes(),
		"xz":    xzb.Bytes(),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			rc, err := Decompress(bytes.NewReader(in))
			if err != nil {
				t.Fatal(err)
			}
			defer func() { _ = rc.Close() }()
			got, err := io.ReadAll(rc)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != payload {
				t.Fatalf("got %q", got)
			}
		})
	}
}

func TestOpenMaybeCompressed(t *testing.T) {
	p := filepath.Join(t.TempDir(), "rows.csv.gz")
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, _ = gw.Write([]byte(payload))
	_ = gw.Close()
	if err := os.WriteFile(p, gz.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	rc, err := OpenMaybeCompressed(p)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := io.ReadAll(rc)
	if err := rc.Close(); err != nil {
		t.Fatal(err)
	}
	if string(got) != payload {
		t.Fatalf("got %q", got)
	}
}

func TestTrimCompressionExt(t *testing.T) {
	for in, want := range map[string]string{
		"a.csv.gz":   "a.csv",
		"a.XLSX.zst": "a.XLSX",
		"a.csv.xz":   "a.csv",
		"a.csv":      "a.csv",
		"a.tar":      "a.tar",
	} {
		if got := TrimCompressionExt(in); got != want {
			t.Fatalf("TrimCompressionExt(%q) = %q, want %q", in, got, want)
		}
	}
}
