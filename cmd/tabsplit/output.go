package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wdm0006/tabsplit/pkg/bundle"
	"github.com/wdm0006/tabsplit/pkg/report"
)

// defaultOutput names the result archive inside dir.
func defaultOutput(dir, kind string) string {
	return filepath.Join(dir, report.DatePrefix(time.Now())+"_"+kind+".zip")
}

// saveBundle writes b as a zip archive when out ends in .zip and extracts
// it into the directory out otherwise.
func saveBundle(b *bundle.Bundle, out string) error {
	if !strings.EqualFold(filepath.Ext(out), ".zip") {
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		return b.WriteDir(out)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := b.Encode(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", out, err)
	}
	return f.Close()
}
