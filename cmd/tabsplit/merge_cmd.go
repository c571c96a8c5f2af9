package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wdm0006/tabsplit/pkg/bundle"
	"github.com/wdm0006/tabsplit/pkg/io/tabular"
	"github.com/wdm0006/tabsplit/pkg/job"
)

func newMergeCmd(s *settings) *cobra.Command {
	var (
		headerRows int
		format     string
		out        string
		textCols   []string
		encoding   string
		keepProt   bool
	)
	cmd := &cobra.Command{
		Use:   "merge <input>...",
		Short: "Merge tables that share a header",
		Long: `Merge concatenates tables in argument order under the header of the first
one that reads. Arguments may be table files, zip archives or directories.
Spreadsheets and delimited text are merged into separate outputs. Files that
fail to read are skipped and reported in the merge log.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := s.cfg
			flags := cmd.Flags()
			if flags.Changed("header-rows") {
				cfg.Merge.HeaderRows = headerRows
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
			if flags.Changed("keep-protection") {
				cfg.Merge.KeepProtection = keepProt
			}
			f, err := tabular.ParseFormat(cfg.Output.Format)
			if err != nil {
				return err
			}
			archive, paths, err := gatherInputs(args)
			if err != nil {
				return err
			}
			if out == "" {
				out = defaultOutput(cfg.Output.Dir, "merge")
			}

			b, log, err := job.Merge(cmd.Context(), job.MergeRequest{
				Common: job.Common{
					Format:      f,
					TextColumns: cfg.TextColumns,
					Encoding:    cfg.Encoding,
					StagingRoot: cfg.StagingDir,
					Progress: func(done, total int) {
						slog.Debug("merge progress", "done", done, "total", total)
					},
				},
				Archive:        archive,
				Paths:          paths,
				HeaderRows:     cfg.Merge.HeaderRows,
				KeepProtection: cfg.Merge.KeepProtection,
			})
			empty := errors.Is(err, job.ErrNothingMerged)
			if err != nil && !empty {
				return err
			}
			if err := saveBundle(b, out); err != nil {
				return err
			}
			_, _ = fmt.Fprint(cmd.OutOrStdout(), log.Text())
			if empty {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "nothing was merged; see the merge log")
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&headerRows, "header-rows", 6, "caption rows below the column names")
	flags.StringVarP(&format, "format", "f", "xlsx", "output format: xlsx, csv, tsv, parquet, jsonl")
	flags.StringVarP(&out, "out", "o", "", "output .zip or directory")
	flags.StringSliceVar(&textCols, "text-columns", nil, "columns kept as text, in addition to 選項ID")
	flags.StringVar(&encoding, "encoding", "", "force the input text encoding")
	flags.BoolVar(&keepProt, "keep-protection", false, "do not strip workbook sheet protection")
	return cmd
}

// gatherInputs loads zip archives and directories into one bundle and
// passes plain files through as paths. Entries whose name is already taken
// are prefixed with their container's name.
func gatherInputs(args []string) (*bundle.Bundle, []string, error) {
	var (
		archive *bundle.Bundle
		paths   []string
	)
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil {
			return nil, nil, err
		}
		var b *bundle.Bundle
		switch {
		case fi.IsDir():
			b, err = bundle.FromDir(arg)
		case strings.EqualFold(filepath.Ext(arg), ".zip"):
			var data []byte
			if data, err = os.ReadFile(arg); err == nil {
				b, err = bundle.DecodeBytes(data)
			}
		default:
			paths = append(paths, arg)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", filepath.Base(arg), err)
		}
		if archive == nil {
			archive = bundle.New()
		}
		for _, e := range b.Entries() {
			name := e.Name
			if _, taken := archive.Get(name); taken {
				name = filepath.Base(arg) + "/" + name
			}
			if err := archive.Add(name, e.Data); err != nil {
				return nil, nil, err
			}
		}
	}
	return archive, paths, nil
}
