package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wdm0006/tabsplit/pkg/charset"
	iox "github.com/wdm0006/tabsplit/pkg/io/ioutils"
	"github.com/wdm0006/tabsplit/pkg/table"
)

// ErrNoHeader is returned for input without a column-name row.
var ErrNoHeader = errors.New("csv: no header row")

type ReaderOptions struct {
	HeaderRows  int  // caption rows between the column names and the data
	Delimiter   rune // 0 = sniff, default ','
	Strict      bool // if true, error on short/long records
	TextColumns []string
	AllText     bool // every column is read as raw text
	KeepCaption bool
	// Encoding forces a source encoding; empty means detect.
	Encoding string
	// FallbackEncoding is used when detection fails. Default utf-8.
	FallbackEncoding string
}

type Reader struct {
	r        *csv.Reader
	opt      ReaderOptions
	encoding string
	rec      table.Records
	// repair/warning counters
	shortRecords int
	longRecords  int
}

// NewReader decompresses and decodes r to UTF-8 and prepares a CSV reader
// over it. Nothing beyond a sniffing sample is read until InferSchema.
func NewReader(r io.Reader, opt ReaderOptions) (*Reader, error) {
	if opt.HeaderRows < 0 {
		return nil, fmt.Errorf("csv: negative header rows %d", opt.HeaderRows)
	}
	rc, err := iox.Decompress(r)
	if err != nil {
		return nil, err
	}
	fallback := opt.FallbackEncoding
	if fallback == "" {
		fallback = charset.UTF8
	}
	dec, enc, err := charset.NewReader(rc, opt.Encoding, fallback)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(dec)
	rr := csv.NewReader(br)
	rr.FieldsPerRecord = -1
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(4096)
		d, lazy := sniffDelimiterAndQuotes(sample)
		rr.Comma = d
		rr.LazyQuotes = lazy
	} else {
		rr.Comma = opt.Delimiter
	}
	return &Reader{r: rr, opt: opt, encoding: enc}, nil
}

// Read is the one-shot form: infer the schema and load every row.
func Read(r io.Reader, opt ReaderOptions) (*table.Frame, error) {
	rr, err := NewReader(r, opt)
	if err != nil {
		return nil, err
	}
	schema, err := rr.InferSchema()
	if err != nil {
		return nil, err
	}
	return rr.ReadAll(schema)
}

// Encoding reports the source encoding that was detected or forced.
func (r *Reader) Encoding() string { return r.encoding }

// InferSchema reads the column-name row and the caption rows, then buffers
// the data rows to pick a kind for every column.
func (r *Reader) InferSchema() (table.Schema, error) {
	rec, err := r.r.Read()
	if err == io.EOF {
		return table.Schema{}, ErrNoHeader
	}
	if err != nil {
		return table.Schema{}, err
	}
	names := make([]string, len(rec))
	for i := range rec {
		names[i] = strings.ToValidUTF8(rec[i], "?")
	}
	// strip BOM on first header cell if present
	if len(names) > 0 {
		names[0] = strings.TrimPrefix(names[0], "\ufeff")
	}
	r.rec.Names = names

	for len(r.rec.Caption) < r.opt.HeaderRows {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return table.Schema{}, err
		}
		r.rec.Caption = append(r.rec.Caption, rec)
	}
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return table.Schema{}, err
		}
		r.rec.Rows = append(r.rec.Rows, rec)
	}
	return r.rec.Infer(r.opt.TextColumns, r.opt.AllText), nil
}

// ReadAll converts the buffered rows into a Frame.
func (r *Reader) ReadAll(schema table.Schema) (*table.Frame, error) {
	f, st, err := r.rec.Build(schema, r.opt.KeepCaption, r.opt.Strict)
	r.shortRecords += st.Short
	r.longRecords += st.Long
	if err != nil {
		return nil, fmt.Errorf("csv %w", err)
	}
	r.rec.Rows = nil
	return f, nil
}

func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if len(sample) == 0 {
		return ',', false
	}
	// judge on complete lines only
	if i := bytes.LastIndexByte(sample, '\n'); i > 0 {
		sample = sample[:i]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		if cnt := bytes.Count(sample, []byte{c}); cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	// an odd number of quotes means a stray quote somewhere
	lazy := bytes.Count(sample, []byte{'"'})%2 != 0
	return rune(best), lazy
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
