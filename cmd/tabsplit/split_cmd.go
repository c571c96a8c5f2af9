package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wdm0006/tabsplit/pkg/io/tabular"
	"github.com/wdm0006/tabsplit/pkg/job"
	"github.com/wdm0006/tabsplit/pkg/partition"
)

func newSplitCmd(s *settings) *cobra.Command {
	var (
		mode       string
		key        string
		headerRows int
		bound      int
		order      string
		format     string
		out        string
		textCols   []string
		encoding   string
		profile    bool
	)
	cmd := &cobra.Command{
		Use:   "split <input>",
		Short: "Split a table into files bounded by key groups or rows",
		Long: `Split reads a CSV, TSV, XLSX, Parquet or JSONL table and writes it as
numbered files. In groups mode each file holds at most --size distinct key
values; in rows mode each file holds at most --size rows and a key value is
never split across files. The result is a zip archive (or a directory when
--out does not end in .zip) holding the files and a split log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.cfg
			flags := cmd.Flags()
			if flags.Changed("mode") {
				cfg.Split.Mode = mode
			}
			if flags.Changed("key") {
				cfg.Split.KeyColumn = key
			}
			if flags.Changed("header-rows") {
				cfg.Split.HeaderRows = headerRows
			}
			if flags.Changed("size") {
				cfg.Split.SizeBound = bound
			}
			if flags.Changed("order") {
				cfg.Split.GroupOrder = order
			}
			if flags.Changed("format") {
				cfg.Output.Format = format
			}
			if flags.Changed("text-columns") {
				cfg.TextColumns = textCols
			}
			if flags.Changed("encoding") {
				cfg.Encoding = encoding
			}
			if flags.Changed("profile") {
				cfg.Split.Profile = profile
			}

			m, err := partition.ParseMode(cfg.Split.Mode)
			if err != nil {
				return err
			}
			o, err := partition.ParseGroupOrder(cfg.Split.GroupOrder)
			if err != nil {
				return err
			}
			f, err := tabular.ParseFormat(cfg.Output.Format)
			if err != nil {
				return err
			}
			cleanup, err := buildPipeline(cfg.Steps)
			if err != nil {
				return err
			}
			if out == "" {
				out = defaultOutput(cfg.Output.Dir, "split")
			}

			b, log, err := job.Split(cmd.Context(), job.SplitRequest{
				Common: job.Common{
					Format:      f,
					TextColumns: cfg.TextColumns,
					Encoding:    cfg.Encoding,
					StagingRoot: cfg.StagingDir,
					Progress: func(done, total int) {
						slog.Debug("split progress", "done", done, "total", total)
					},
				},
				Name:       args[0],
				Mode:       m,
				KeyColumn:  cfg.Split.KeyColumn,
				HeaderRows: cfg.Split.HeaderRows,
				SizeBound:  cfg.Split.SizeBound,
				GroupOrder: o,
				Cleanup:    cleanup,
				Profile:    cfg.Split.Profile,
			})
			if err != nil {
				return err
			}
			if err := saveBundle(b, out); err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), log.Text())
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&mode, "mode", "m", "groups", "groups (shopee) or rows (yahoo)")
	flags.StringVarP(&key, "key", "k", "", "key column (default depends on mode)")
	flags.IntVar(&headerRows, "header-rows", 1, "caption rows below the column names")
	flags.IntVarP(&bound, "size", "n", 1000, "max distinct keys (groups) or rows (rows) per file")
	flags.StringVar(&order, "order", "first", "rows mode group order: first or sorted")
	flags.StringVarP(&format, "format", "f", "xlsx", "output format: xlsx, csv, tsv, parquet, jsonl")
	flags.StringVarP(&out, "out", "o", "", "output .zip or directory")
	flags.StringSliceVar(&textCols, "text-columns", nil, "columns kept as text, in addition to 選項ID")
	flags.StringVar(&encoding, "encoding", "", "force the input text encoding")
	flags.BoolVar(&profile, "profile", false, "append column statistics to the log")
	return cmd
}
