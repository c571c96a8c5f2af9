package csvio

import (
	"bytes"
	"fmt"
	"testing"
)

func BenchmarkReadKeyed(b *testing.B) {
	var buf bytes.Buffer
	buf.WriteString("商品 ID,選項ID,價格\n")
	for i := 0; i < 10000; i++ {
		fmt.Fprintf(&buf, "P%04d,%06d,%d.5\n", i/7, i, i%100)
	}
	data := buf.Bytes()
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		fr, err := Read(bytes.NewReader(data), ReaderOptions{TextColumns: []string{"選項ID"}})
		if err != nil {
			b.Fatal(err)
		}
		if fr.Rows() == 0 {
			b.Fatal("no rows")
		}
	}
}
