package jsonlio

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// WriteAll writes one JSON object per row with keys in column order.
// Null cells are written as null; caption rows are not written.
func WriteAll(w io.Writer, f *table.Frame) error {
	bw := bufio.NewWriter(w)
	keys := make([][]byte, f.Cols())
	for i, n := range f.Names() {
		b, err := json.Marshal(n)
		if err != nil {
			return err
		}
		keys[i] = b
	}
	for r := 0; r < f.Rows(); r++ {
		_ = bw.WriteByte('{')
		for c := 0; c < f.Cols(); c++ {
			if c > 0 {
				_ = bw.WriteByte(',')
			}
			_, _ = bw.Write(keys[c])
			_ = bw.WriteByte(':')
			col := f.Column(c)
			var v any
			if !col.IsNull(r) {
				v = col.Value(r)
				if col.Kind() == table.KindTime {
					v = col.Format(r)
				}
			}
			b, err := json.Marshal(v)
			if err != nil {
				return err
			}
			_, _ = bw.Write(b)
		}
		if _, err := bw.WriteString("}\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
