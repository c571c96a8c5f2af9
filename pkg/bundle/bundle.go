// Package bundle holds named in-memory files and moves them in and out of
// zip archives.
package bundle

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
)

// ErrUnsafePath is returned for entry names that would escape the
// extraction root.
var ErrUnsafePath = errors.New("unsafe entry path")

// Entry is one file of a bundle. Name uses forward slashes.
type Entry struct {
	Name string
	Data []byte
}

// Bundle is an ordered set of files keyed by name.
type Bundle struct {
	entries []Entry
	index   map[string]int
}

func New() *Bundle { return &Bundle{index: make(map[string]int)} }

// Add stores data under name, replacing an existing entry in place.
func (b *Bundle) Add(name string, data []byte) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if i, ok := b.index[name]; ok {
		b.entries[i].Data = data
		return nil
	}
	b.index[name] = len(b.entries)
	b.entries = append(b.entries, Entry{Name: name, Data: data})
	return nil
}

func (b *Bundle) Get(name string) ([]byte, bool) {
	i, ok := b.index[name]
	if !ok {
		return nil, false
	}
	return b.entries[i].Data, true
}

func (b *Bundle) Len() int         { return len(b.entries) }
func (b *Bundle) Entries() []Entry { return b.entries }

func (b *Bundle) Names() []string {
	out := make([]string, len(b.entries))
	for i, e := range b.entries {
		out[i] = e.Name
	}
	return out
}

// ReadAll returns the entries keyed by name.
func (b *Bundle) ReadAll() map[string][]byte {
	out := make(map[string][]byte, len(b.entries))
	for _, e := range b.entries {
		out[e.Name] = e.Data
	}
	return out
}

// Encode writes the bundle as a deflated zip archive in entry order.
func (b *Bundle) Encode(w io.Writer) error {
	zw := zip.NewWriter(w)
	now := time.Now()
	for _, e := range b.entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return fmt.Errorf("zip %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("zip %s: %w", e.Name, err)
		}
	}
	return zw.Close()
}

// Bytes encodes the bundle into memory.
func (b *Bundle) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a zip archive. Directories and macOS resource-fork entries
// are skipped.
func Decode(r io.ReaderAt, size int64) (*Bundle, error) {
	zr, err := zip.NewReader(r, size)
	// names are checked entry by entry below
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	b := New()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || junk(f.Name) {
			continue
		}
		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		if err := b.Add(f.Name, data); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// DecodeBytes is Decode over an in-memory archive.
func DecodeBytes(data []byte) (*Bundle, error) {
	return Decode(bytes.NewReader(data), int64(len(data)))
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

// FromDir loads every regular file under dir, named relative to it and in
// natural order, so 2.xlsx comes before 10.xlsx.
func FromDir(dir string) (*Bundle, error) {
	var names []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, err := filepath.Rel(dir, p)
			if err != nil {
				return err
			}
			names = append(names, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })
	b := New()
	for _, n := range names {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(n)))
		if err != nil {
			return nil, err
		}
		if err := b.Add(n, data); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// WriteDir extracts the bundle under dir.
func (b *Bundle) WriteDir(dir string) error {
	for _, e := range b.entries {
		p := filepath.Join(dir, filepath.FromSlash(e.Name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(p, e.Data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func cleanName(name string) (string, error) {
	n := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if n == "." || n == ".." || path.IsAbs(n) || strings.HasPrefix(n, "../") {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return n, nil
}

func junk(name string) bool {
	if strings.HasPrefix(name, "__MACOSX/") {
		return true
	}
	return strings.HasPrefix(path.Base(name), "._")
}

// naturalLess compares runs of digits by numeric value.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		da, db := digitRun(a), digitRun(b)
		if da > 0 && db > 0 {
			na := strings.TrimLeft(a[:da], "0")
			nb := strings.TrimLeft(b[:db], "0")
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			a, b = a[da:], b[db:]
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func digitRun(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
