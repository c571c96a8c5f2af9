package job

import (
	"context"
	"errors"
	"os"

	"github.com/google/uuid"

	"github.com/wdm0006/tabsplit/internal/logging"
	"github.com/wdm0006/tabsplit/pkg/bundle"
	iox "github.com/wdm0006/tabsplit/pkg/io/ioutils"
	"github.com/wdm0006/tabsplit/pkg/io/tabular"
	"github.com/wdm0006/tabsplit/pkg/io/xlsxio"
	"github.com/wdm0006/tabsplit/pkg/merge"
	"github.com/wdm0006/tabsplit/pkg/report"
	"github.com/wdm0006/tabsplit/pkg/staging"
	"github.com/wdm0006/tabsplit/pkg/table"
)

// MergeRequest describes one merge run. Archive entries come first, then
// Paths, each in order. Entries that are not tables are ignored.
type MergeRequest struct {
	Common
	Archive    *bundle.Bundle
	Paths      []string
	HeaderRows int
	// KeepProtection skips the workbook unprotect step.
	KeepProtection bool
}

// Merge concatenates the request's tables. When nothing merges it returns
// a bundle holding only the log, together with ErrNothingMerged.
func Merge(ctx context.Context, req MergeRequest) (*bundle.Bundle, *report.Log, error) {
	ctx = logging.WithRunID(ctx, uuid.NewString())
	log := logging.WithFields(ctx, req.Logger, "op", "merge")

	sources := collect(req)
	if len(sources) == 0 && req.Archive == nil && len(req.Paths) == 0 {
		return nil, nil, ErrNoInput
	}
	log.Info("merge started", "sources", len(sources))

	m := &merge.Merger{
		HeaderRows: req.HeaderRows,
		Encoding:   req.Encoding,
		Logger:     log,
		Progress:   req.Progress,
	}
	if !req.KeepProtection {
		m.Preprocess = unprotect
	}
	res, err := m.Merge(ctx, sources)
	if err != nil {
		return nil, nil, err
	}

	rl := report.New("")
	rl.MergeSummary(len(sources), res.Succeeded(), res.Rows())
	for _, line := range res.Log() {
		rl.Add(line)
	}

	area, err := staging.New(req.StagingRoot, "merge")
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if rerr := area.Remove(); rerr != nil {
			log.Warn("remove staging area", "dir", area.Dir(), "err", rerr)
		}
	}()

	date := req.date()
	format := req.format()
	sink := &dirSink{area: area, format: format, opt: tabular.WriteOptions{TextColumns: req.textColumns()}}
	prefix := report.DatePrefix(date) + "_merge"
	outputs := []struct {
		name     string
		f        *table.Frame
		template []byte
	}{
		{prefix + format.Ext(), res.Spreadsheet, res.Template},
		{prefix + "_text" + format.Ext(), res.Text, nil},
	}
	if res.Spreadsheet == nil {
		outputs[1].name = prefix + format.Ext()
	}
	for _, o := range outputs {
		if o.f == nil {
			continue
		}
		opt := sink.opt
		opt.Template = o.template
		if err := sink.writeFile(o.name, o.f, opt); err != nil {
			return nil, nil, err
		}
		log.Info("wrote merged file", "file", o.name, "rows", o.f.Rows())
	}
	if err := area.Write(report.LogName(report.KindMerge, date), rl.Bytes()); err != nil {
		return nil, nil, err
	}
	b, err := area.Bundle()
	if err != nil {
		return nil, nil, err
	}
	if res.Empty() {
		return b, rl, ErrNothingMerged
	}
	return b, rl, nil
}

// collect lists the table sources in merge order. A path that cannot be
// read becomes a failed source so the rest of the batch still merges.
func collect(req MergeRequest) []merge.Source {
	var out []merge.Source
	if req.Archive != nil {
		for _, e := range req.Archive.Entries() {
			if isTable(e.Name) {
				out = append(out, merge.Source{Name: e.Name, Data: e.Data})
			}
		}
	}
	for _, p := range req.Paths {
		if !isTable(p) {
			continue
		}
		data, err := os.ReadFile(p)
		out = append(out, merge.Source{Name: p, Data: data, Err: err})
	}
	return out
}

func isTable(name string) bool { return tabular.FormatOf(name) != tabular.FormatUnknown }

// unprotect strips sheet protection from plain workbooks and passes other
// sources through.
func unprotect(name string, data []byte) ([]byte, error) {
	if tabular.FormatOf(name) != tabular.FormatXLSX || iox.TrimCompressionExt(name) != name {
		return data, nil
	}
	return xlsxio.Unprotect(data)
}

// IsEmpty reports whether err means a merge run found nothing to merge.
func IsEmpty(err error) bool { return errors.Is(err, ErrNothingMerged) }
