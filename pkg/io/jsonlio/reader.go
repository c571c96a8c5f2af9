// Package jsonlio reads and writes newline-delimited JSON objects, one row
// per object. Column order follows first appearance of each key.
package jsonlio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/wdm0006/tabsplit/pkg/charset"
	"github.com/wdm0006/tabsplit/pkg/table"
)

type ReaderOptions struct {
	// HeaderRows leading records are skipped, for parity with sources that
	// carry a header block.
	HeaderRows  int
	TextColumns []string
	AllText     bool
}

// Read decodes every object in r into a frame. Values are collected as
// text and typed with the same inference the delimited reader uses;
// nested arrays and objects are kept as their JSON encoding.
func Read(r io.Reader, opt ReaderOptions) (*table.Frame, error) {
	if opt.HeaderRows < 0 {
		return nil, fmt.Errorf("jsonl: negative header rows %d", opt.HeaderRows)
	}
	src, _, err := charset.NewReader(r, charset.UTF8, "")
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(src)
	dec.UseNumber()

	var (
		rec   table.Records
		index = map[string]int{}
		n     int
	)
	for {
		keys, vals, err := readObject(dec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("jsonl record %d: %w", n+1, err)
		}
		n++
		if n <= opt.HeaderRows {
			continue
		}
		row := make([]string, len(rec.Names))
		for i, k := range keys {
			c, ok := index[k]
			if !ok {
				c = len(rec.Names)
				index[k] = c
				rec.Names = append(rec.Names, k)
				row = append(row, "")
			}
			row[c] = vals[i]
		}
		rec.Rows = append(rec.Rows, row)
	}
	f, _, err := rec.Build(rec.Infer(opt.TextColumns, opt.AllText), false, false)
	if err != nil {
		return nil, fmt.Errorf("jsonl %w", err)
	}
	return f, nil
}

// readObject reads one top-level object keeping its key order.
func readObject(dec *json.Decoder) ([]string, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}
	var keys, vals []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, truncated(err)
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, truncated(err)
		}
		keys = append(keys, key)
		vals = append(vals, text(v))
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, truncated(err)
	}
	return keys, vals, nil
}

// truncated keeps a clean EOF inside an object from reading as the end of
// the stream.
func truncated(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
