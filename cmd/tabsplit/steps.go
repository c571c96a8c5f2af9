package main

import (
	"fmt"
	"sort"

	"github.com/wdm0006/tabsplit/pkg/table"
	"github.com/wdm0006/tabsplit/pkg/transform/columns"
	imp "github.com/wdm0006/tabsplit/pkg/transform/impute"
	std "github.com/wdm0006/tabsplit/pkg/transform/standardize"
	val "github.com/wdm0006/tabsplit/pkg/transform/validate"
)

// buildPipeline turns the configured steps into a cleanup pipeline.
// Unknown step names are an error.
func buildPipeline(steps []map[string]StepArgs) (*table.Pipeline, error) {
	p := table.NewPipeline()
	for i, step := range steps {
		// detect each step by its single key
		names := make([]string, 0, len(step))
		for k := range step {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			s := step[k]
			switch k {
			case "trim":
				p.Add(&std.Trim{Columns: withColumn(s)})
			case "regex_replace":
				p.Add(&std.RegexReplace{Columns: withColumn(s), Pattern: s.Pattern, Replace: s.Replace})
			case "map_values":
				p.Add(&std.MapValues{Column: s.Column, Map: s.Map})
			case "drop_columns":
				p.Add(&columns.Drop{Columns: withColumn(s)})
			case "force_text":
				p.Add(&columns.ForceText{Columns: withColumn(s)})
			case "fill_empty":
				p.Add(&imp.Constant{Column: s.Column, Value: s.Value})
			case "fill_down":
				p.Add(&imp.FillDown{Columns: withColumn(s)})
			case "validate_in":
				p.Add(val.NewInSet(s.Column, s.Values))
			case "validate_range":
				p.Add(&val.Range{Column: s.Column, Min: s.Min, Max: s.Max})
			case "require_values":
				p.Add(&val.Required{Columns: withColumn(s)})
			default:
				return nil, fmt.Errorf("step %d: unknown step %q", i+1, k)
			}
		}
	}
	return p, nil
}

func withColumn(s StepArgs) []string {
	if s.Column == "" {
		return s.Columns
	}
	return append([]string{s.Column}, s.Columns...)
}
