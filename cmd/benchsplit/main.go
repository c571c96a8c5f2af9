// Command benchsplit times partitioning and chunk writing over synthetic
// keyed listings.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/wdm0006/tabsplit/pkg/io/tabular"
	"github.com/wdm0006/tabsplit/pkg/partition"
	"github.com/wdm0006/tabsplit/pkg/table"
	"github.com/wdm0006/tabsplit/pkg/transform/columns"
)

type params struct {
	rows    int
	keys    int
	bound   int
	extra   int
	format  string
	seed    int64
	jsonOut bool
}

// generate builds a listing whose product IDs repeat in runs, the way
// variant rows of one product sit together in a marketplace export.
func generate(p params) *table.Frame {
	names := []string{"商品 ID", "選項ID"}
	for i := 0; i < p.extra; i++ {
		names = append(names, fmt.Sprintf("c%d", i))
	}
	f := table.NewFrame(table.TextSchema(names))
	rnd := rand.New(rand.NewSource(p.seed))
	per := p.rows / max(p.keys, 1)
	key := 0
	row := make([]any, len(names))
	for i := 0; i < p.rows; i++ {
		if per == 0 || (i > 0 && i%per == 0 && key < p.keys-1) {
			key++
		}
		row[0] = fmt.Sprintf("%d", 10_000_000+key)
		row[1] = fmt.Sprintf("%010d", rnd.Intn(1_000_000_000))
		for c := 2; c < len(names); c++ {
			row[c] = fmt.Sprintf("v%d", rnd.Intn(100))
		}
		_ = f.AppendRow(row)
	}
	return f
}

// discardSink encodes every chunk and throws the bytes away.
type discardSink struct {
	format tabular.Format
	rows   int
	files  int
}

func (d *discardSink) Write(f *table.Frame) error {
	d.rows += f.Rows()
	d.files++
	return tabular.Write(io.Discard, d.format, f, tabular.WriteOptions{TextColumns: []string{"選項ID"}})
}

func (d *discardSink) Close() error { return nil }

type result struct {
	Mode       string  `json:"mode"`
	Files      int     `json:"files"`
	PartitionS float64 `json:"partition_s"`
	WriteS     float64 `json:"write_s"`
	RowsPerSec float64 `json:"rows_per_sec"`
	AllocMB    uint64  `json:"total_alloc_mb"`
}

func bench(ctx context.Context, f *table.Frame, mode partition.Mode, p params, format tabular.Format) (result, error) {
	runtime.GC()
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)

	start := time.Now()
	chunks, _, err := partition.Partition(f, "商品 ID", p.bound, mode)
	if err != nil {
		return result{}, err
	}
	split := time.Since(start)

	sink := &discardSink{format: format}
	pipe := table.NewPipeline(&columns.ForceText{Columns: []string{"選項ID"}})
	start = time.Now()
	if err := table.RunStream(ctx, pipe, table.NewSliceSource(partition.Frames(chunks)...), sink, nil); err != nil {
		return result{}, err
	}
	write := time.Since(start)
	runtime.ReadMemStats(&after)

	return result{
		Mode:       mode.String(),
		Files:      sink.files,
		PartitionS: split.Seconds(),
		WriteS:     write.Seconds(),
		RowsPerSec: float64(sink.rows) / (split + write).Seconds(),
		AllocMB:    (after.TotalAlloc - before.TotalAlloc) / 1024 / 1024,
	}, nil
}

func newRootCmd() *cobra.Command {
	var p params
	cmd := &cobra.Command{
		Use:          "benchsplit",
		Short:        "Benchmark both split modes on generated data",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := tabular.ParseFormat(p.format)
			if err != nil {
				return err
			}
			start := time.Now()
			f := generate(p)
			gen := time.Since(start)

			var results []result
			for _, mode := range []partition.Mode{partition.ModeGroups, partition.ModeRows} {
				r, err := bench(cmd.Context(), f, mode, p, format)
				if err != nil {
					return err
				}
				results = append(results, r)
			}

			out := cmd.OutOrStdout()
			if p.jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"rows":       p.rows,
					"keys":       p.keys,
					"bound":      p.bound,
					"format":     format.String(),
					"generate_s": gen.Seconds(),
					"results":    results,
				})
			}
			fmt.Fprintf(out, "Rows: %d  Keys: %d  Bound: %d  Format: %s\n", p.rows, p.keys, p.bound, format)
			fmt.Fprintf(out, "Generate: %s\n", gen)
			for _, r := range results {
				fmt.Fprintf(out, "%-6s files=%d partition=%.3fs write=%.3fs throughput=%.0f rows/s alloc=%d MB\n",
					r.Mode, r.Files, r.PartitionS, r.WriteS, r.RowsPerSec, r.AllocMB)
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&p.rows, "rows", 200_000, "total rows to generate")
	flags.IntVar(&p.keys, "keys", 20_000, "distinct product IDs")
	flags.IntVar(&p.bound, "bound", 1000, "size bound per file")
	flags.IntVar(&p.extra, "extra-cols", 6, "additional text columns")
	flags.StringVar(&p.format, "format", "csv", "chunk format to encode")
	flags.Int64Var(&p.seed, "seed", 42, "random seed")
	flags.BoolVar(&p.jsonOut, "json", false, "emit JSON summary")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
