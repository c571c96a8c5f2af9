package job

import (
	"fmt"

	"github.com/wdm0006/tabsplit/pkg/io/tabular"
	"github.com/wdm0006/tabsplit/pkg/staging"
	"github.com/wdm0006/tabsplit/pkg/table"
)

// dirSink writes each chunk into the staging area as <n>.<ext>, numbering
// from 1 in arrival order.
type dirSink struct {
	area   *staging.Area
	format tabular.Format
	opt    tabular.WriteOptions
	names  []string
}

func (s *dirSink) Write(f *table.Frame) error {
	name := fmt.Sprintf("%d%s", len(s.names)+1, s.format.Ext())
	if err := s.writeFile(name, f, s.opt); err != nil {
		return err
	}
	s.names = append(s.names, name)
	return nil
}

func (s *dirSink) writeFile(name string, f *table.Frame, opt tabular.WriteOptions) (err error) {
	out, err := s.area.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := tabular.Write(out, s.format, f, opt); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *dirSink) Close() error { return nil }
