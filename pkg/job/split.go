// Package job runs the split and merge operations end to end: read the
// inputs, transform, write the outputs into a staging area and hand back a
// bundle plus the run log.
package job

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/wdm0006/tabsplit/internal/logging"
	"github.com/wdm0006/tabsplit/pkg/bundle"
	"github.com/wdm0006/tabsplit/pkg/io/tabular"
	"github.com/wdm0006/tabsplit/pkg/partition"
	"github.com/wdm0006/tabsplit/pkg/report"
	"github.com/wdm0006/tabsplit/pkg/staging"
	"github.com/wdm0006/tabsplit/pkg/table"
	"github.com/wdm0006/tabsplit/pkg/transform/columns"
)

// Common carries the settings shared by both jobs.
type Common struct {
	// Format of the written files; the zero value writes xlsx.
	Format tabular.Format
	// TextColumns are read and written as raw text, together with the
	// option-ID column.
	TextColumns []string
	Encoding    string
	StagingRoot string
	// Date stamps the log name; zero means today.
	Date     time.Time
	Logger   *slog.Logger
	Progress func(done, total int)
}

func (c *Common) format() tabular.Format {
	if c.Format == tabular.FormatUnknown {
		return tabular.FormatXLSX
	}
	return c.Format
}

func (c *Common) textColumns() []string {
	out := []string{columns.DefaultTextColumn}
	for _, n := range c.TextColumns {
		if n != columns.DefaultTextColumn {
			out = append(out, n)
		}
	}
	return out
}

func (c *Common) date() time.Time {
	if c.Date.IsZero() {
		return time.Now()
	}
	return c.Date
}

func (c *Common) progress(done, total int) {
	if c.Progress != nil {
		c.Progress(done, total)
	}
}

// SplitRequest describes one split run. Input is read when set; otherwise
// Name is opened as a path.
type SplitRequest struct {
	Common
	Name       string
	Input      io.Reader
	Mode       partition.Mode
	KeyColumn  string
	HeaderRows int
	SizeBound  int
	GroupOrder partition.GroupOrder
	// Cleanup runs on the loaded table before it is partitioned.
	Cleanup *table.Pipeline
	// Profile appends per-column statistics to the log.
	Profile bool
}

// Split partitions one table into files. The caption rows under the column
// names are dropped, so every file carries the column-name row alone. Any
// load, transform or partition error aborts the run; the staging area is
// removed either way.
func Split(ctx context.Context, req SplitRequest) (*bundle.Bundle, *report.Log, error) {
	if req.Name == "" && req.Input == nil {
		return nil, nil, ErrNoInput
	}
	key := req.KeyColumn
	if key == "" {
		key = req.Mode.DefaultKey()
	}
	ctx = logging.WithRunID(ctx, uuid.NewString())
	log := logging.WithFields(ctx, req.Logger, "op", "split", "source", filepath.Base(req.Name))

	text := req.textColumns()
	opt := tabular.Options{
		HeaderRows:       req.HeaderRows,
		TextColumns:      text,
		Encoding:         req.Encoding,
		FallbackEncoding: "utf-8",
	}
	var (
		f      *table.Frame
		detail tabular.Detail
		err    error
	)
	if req.Input != nil {
		f, detail, err = tabular.LoadDetail(req.Name, req.Input, opt)
	} else {
		f, detail, err = tabular.Open(req.Name, opt)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}
	log.Info("loaded table", "rows", f.Rows(), "cols", f.Cols(), "encoding", detail.Encoding)
	if detail.Warnings != "" {
		log.Warn("ragged rows in input", "counts", detail.Warnings)
	}

	if f, err = req.Cleanup.Run(ctx, f); err != nil {
		return nil, nil, fmt.Errorf("cleanup: %w", err)
	}

	chunks, details, err := partition.Partition(f, key, req.SizeBound, req.Mode, partition.WithGroupOrder(req.GroupOrder))
	if err != nil {
		return nil, nil, err
	}
	if len(chunks) == 0 {
		return nil, nil, ErrNoOutput
	}

	area, err := staging.New(req.StagingRoot, "split")
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if rerr := area.Remove(); rerr != nil {
			log.Warn("remove staging area", "dir", area.Dir(), "err", rerr)
		}
	}()

	format := req.format()
	sink := &dirSink{area: area, format: format, opt: tabular.WriteOptions{TextColumns: text}}
	perChunk := table.NewPipeline(&columns.ForceText{Columns: text})
	src := table.NewSliceSource(partition.Frames(chunks)...)
	err = table.RunStream(ctx, perChunk, src, sink, func(done int) {
		log.Debug("saved chunk", "file", sink.names[done-1], "detail", details[done-1])
		req.progress(done, len(chunks))
	})
	if err != nil {
		return nil, nil, err
	}

	rl := report.New("")
	rl.SplitSummary(f.Rows(), len(sink.names))
	if detail.Encoding != "" {
		rl.Addf("read %s as %s", filepath.Base(req.Name), detail.Encoding)
	}
	if detail.Warnings != "" {
		rl.Addf("rows not matching the header width: %s", detail.Warnings)
	}
	for i, name := range sink.names {
		rl.Addf("saved %s: %s", name, details[i])
	}
	if req.Profile {
		pc := report.NewCollector(f.Schema(), 3)
		pc.ConsumeFrame(f)
		for _, line := range pc.Lines() {
			rl.Add(line)
		}
	}
	if err := area.Write(report.LogName(report.KindSplit, req.date()), rl.Bytes()); err != nil {
		return nil, nil, err
	}
	b, err := area.Bundle()
	if err != nil {
		return nil, nil, err
	}
	log.Info("split finished", "files", len(sink.names), "rows", f.Rows())
	return b, rl, nil
}
