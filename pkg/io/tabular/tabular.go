// Package tabular picks a reader or writer for a file by its extension.
package tabular

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/wdm0006/tabsplit/pkg/io/csvio"
	iox "github.com/wdm0006/tabsplit/pkg/io/ioutils"
	"github.com/wdm0006/tabsplit/pkg/io/jsonlio"
	"github.com/wdm0006/tabsplit/pkg/io/parquetio"
	"github.com/wdm0006/tabsplit/pkg/io/xlsxio"
	"github.com/wdm0006/tabsplit/pkg/table"
	"github.com/wdm0006/tabsplit/pkg/transform/columns"
)

// ErrUnsupportedFormat means the name does not denote a table this
// package can read.
var ErrUnsupportedFormat = errors.New("unsupported table format")

type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatTSV
	FormatXLSX
	FormatParquet
	FormatJSONL
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatXLSX:
		return "xlsx"
	case FormatParquet:
		return "parquet"
	case FormatJSONL:
		return "jsonl"
	default:
		return "unknown"
	}
}

// Ext is the file extension written for the format, dot included.
func (f Format) Ext() string { return "." + f.String() }

// Family groups formats whose files can share one merged output.
type Family int

const (
	FamilyNone Family = iota
	FamilySpreadsheet
	FamilyText
)

func (f Family) String() string {
	switch f {
	case FamilySpreadsheet:
		return "spreadsheet"
	case FamilyText:
		return "text"
	default:
		return "unknown"
	}
}

func (f Format) Family() Family {
	switch f {
	case FormatXLSX:
		return FamilySpreadsheet
	case FormatCSV, FormatTSV, FormatParquet, FormatJSONL:
		return FamilyText
	default:
		return FamilyNone
	}
}

// FormatOf maps a file name to its format, case-insensitively and ignoring
// a trailing compression extension.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(iox.TrimCompressionExt(name))) {
	case ".csv":
		return FormatCSV
	case ".tsv":
		return FormatTSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".parquet":
		return FormatParquet
	case ".jsonl", ".ndjson":
		return FormatJSONL
	default:
		return FormatUnknown
	}
}

// ParseFormat maps a configured output format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	case "parquet":
		return FormatParquet, nil
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Options control how a source becomes a frame.
type Options struct {
	HeaderRows  int
	TextColumns []string
	AllText     bool
	KeepCaption bool
	// Encoding forces the encoding of delimited text; empty detects.
	Encoding         string
	FallbackEncoding string
	Delimiter        rune
}

// DefaultOptions reads one caption row and keeps the option-ID column as text.
func DefaultOptions() Options {
	return Options{HeaderRows: 1, TextColumns: []string{columns.DefaultTextColumn}}
}

// Detail describes how a delimited source was decoded. It is empty for
// other formats.
type Detail struct {
	Encoding string
	// Warnings summarises rows that did not match the header width.
	Warnings string
}

// Load reads the table in r, choosing the reader by name. Unknown
// extensions return ErrUnsupportedFormat; read errors are wrapped with the
// source name.
func Load(name string, r io.Reader, opt Options) (*table.Frame, error) {
	f, _, err := LoadDetail(name, r, opt)
	return f, err
}

// LoadDetail is Load that also reports how the source was decoded.
func LoadDetail(name string, r io.Reader, opt Options) (*table.Frame, Detail, error) {
	format := FormatOf(name)
	if format == FormatUnknown {
		return nil, Detail{}, fmt.Errorf("%s: %w", filepath.Base(name), ErrUnsupportedFormat)
	}
	rc, err := iox.Decompress(r)
	if err != nil {
		return nil, Detail{}, fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	defer func() { _ = rc.Close() }()
	f, d, err := load(format, rc, opt)
	if err != nil {
		return nil, d, fmt.Errorf("%s: %w", filepath.Base(name), err)
	}
	return f, d, nil
}

func load(format Format, r io.Reader, opt Options) (*table.Frame, Detail, error) {
	var (
		f   *table.Frame
		err error
	)
	switch format {
	case FormatCSV, FormatTSV:
		return loadDelimited(format, r, opt)
	case FormatXLSX:
		f, err = xlsxio.Read(r, xlsxio.ReaderOptions{
			HeaderRows:  opt.HeaderRows,
			TextColumns: opt.TextColumns,
			AllText:     opt.AllText,
			KeepCaption: opt.KeepCaption,
		})
	case FormatParquet:
		f, err = parquetio.Read(r, parquetio.ReaderOptions{
			HeaderRows:  opt.HeaderRows,
			TextColumns: opt.TextColumns,
			AllText:     opt.AllText,
		})
	case FormatJSONL:
		f, err = jsonlio.Read(r, jsonlio.ReaderOptions{
			HeaderRows:  opt.HeaderRows,
			TextColumns: opt.TextColumns,
			AllText:     opt.AllText,
		})
	default:
		err = ErrUnsupportedFormat
	}
	return f, Detail{}, err
}

func loadDelimited(format Format, r io.Reader, opt Options) (*table.Frame, Detail, error) {
	delim := opt.Delimiter
	if delim == 0 && format == FormatTSV {
		delim = '\t'
	}
	cr, err := csvio.NewReader(r, csvio.ReaderOptions{
		HeaderRows:       opt.HeaderRows,
		Delimiter:        delim,
		TextColumns:      opt.TextColumns,
		AllText:          opt.AllText,
		KeepCaption:      opt.KeepCaption,
		Encoding:         opt.Encoding,
		FallbackEncoding: opt.FallbackEncoding,
	})
	if err != nil {
		return nil, Detail{}, err
	}
	d := Detail{Encoding: cr.Encoding()}
	schema, err := cr.InferSchema()
	if err != nil {
		return nil, d, err
	}
	f, err := cr.ReadAll(schema)
	d.Warnings = cr.Warnings()
	return f, d, err
}

// Open loads the file at path, choosing the reader by its extension.
func Open(path string, opt Options) (*table.Frame, Detail, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, Detail{}, err
	}
	defer func() { _ = rc.Close() }()
	return LoadDetail(path, rc, opt)
}

// WriteOptions control how frames are written.
type WriteOptions struct {
	TextColumns []string
	// BOM marks delimited output as UTF-8 for spreadsheet applications.
	BOM bool
	// Template lends its header formatting to xlsx output.
	Template []byte
}

// Write encodes f to w in the given format.
func Write(w io.Writer, format Format, f *table.Frame, opt WriteOptions) error {
	switch format {
	case FormatCSV:
		return csvio.WriteAll(w, f, csvio.WriterOptions{BOM: opt.BOM})
	case FormatTSV:
		return csvio.WriteAll(w, f, csvio.WriterOptions{BOM: opt.BOM, Delimiter: '\t'})
	case FormatXLSX:
		return xlsxio.WriteAll(w, f, xlsxio.WriterOptions{TextColumns: opt.TextColumns, Template: opt.Template})
	case FormatParquet:
		return parquetio.WriteAll(w, f)
	case FormatJSONL:
		return jsonlio.WriteAll(w, f)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
