package standardize

import (
	"context"
	"fmt"
	"regexp"

	"github.com/wdm0006/tabsplit/pkg/table"
)

// RegexReplace rewrites matches of Pattern in text cells. Replace may use
// $1-style group references. Column, when set, is added to Columns; with
// neither set every text column is rewritten.
type RegexReplace struct {
	Column  string
	Columns []string
	Pattern string
	Replace string
	re      *regexp.Regexp
}

func (t *RegexReplace) Name() string { return "regex_replace" }

func (t *RegexReplace) Apply(ctx context.Context, f *table.Frame) (*table.Frame, error) {
	if t.re == nil {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return f, fmt.Errorf("pattern %q: %w", t.Pattern, err)
		}
		t.re = re
	}
	names := t.Columns
	if t.Column != "" {
		names = append([]string{t.Column}, names...)
	}
	for _, c := range textColumns(f, names) {
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok {
				c.Set(i, t.re.ReplaceAllString(v, t.Replace))
			}
		}
	}
	return f, nil
}
