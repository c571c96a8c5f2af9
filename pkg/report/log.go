// Package report builds the plain-text run logs shipped inside output
// bundles.
package report

import (
	"fmt"
	"strings"
	"time"
)

// Kinds of run log.
const (
	KindSplit = "split"
	KindMerge = "merge"
)

// Log is a summary line followed by one entry per chunk or source.
type Log struct {
	Title   string
	Entries []string
	summary string
}

func New(title string) *Log { return &Log{Title: title} }

func (l *Log) Add(entry string) { l.Entries = append(l.Entries, entry) }

func (l *Log) Addf(format string, args ...any) { l.Add(fmt.Sprintf(format, args...)) }

// Summary sets the first line of the rendered log.
func (l *Log) Summary(format string, args ...any) { l.summary = fmt.Sprintf(format, args...) }

// SplitSummary records how many rows went into how many files.
func (l *Log) SplitSummary(rows, files int) {
	l.Summary("processed %d rows into %d files", rows, files)
}

// MergeSummary records per-source counts and merged rows.
func (l *Log) MergeSummary(files, succeeded, rows int) {
	l.Summary("processed %d files (%d succeeded, %d failed), merged %d rows", files, succeeded, files-succeeded, rows)
}

// Text renders the log: title (if any), summary, then entries, one per line.
func (l *Log) Text() string {
	var b strings.Builder
	if l.Title != "" {
		b.WriteString(l.Title)
		b.WriteByte('\n')
	}
	if l.summary != "" {
		b.WriteString(l.summary)
		b.WriteByte('\n')
	}
	for _, e := range l.Entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	return b.String()
}

func (l *Log) Bytes() []byte { return []byte(l.Text()) }

// LogName is the bundle entry name for a run log, e.g. 20260102_split_log.txt.
func LogName(kind string, date time.Time) string {
	return DatePrefix(date) + "_" + kind + "_log.txt"
}

// DatePrefix formats date as yyyymmdd.
func DatePrefix(date time.Time) string { return date.Format("20060102") }
