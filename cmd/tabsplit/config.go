package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wdm0006/tabsplit/pkg/transform/columns"
)

// Config mirrors the config file. Every section may be omitted; flags
// override file values.
type Config struct {
	Split struct {
		Mode       string `json:"mode" toml:"mode" yaml:"mode"`
		KeyColumn  string `json:"key_column" toml:"key_column" yaml:"key_column"`
		HeaderRows int    `json:"header_rows" toml:"header_rows" yaml:"header_rows"`
		SizeBound  int    `json:"size_bound" toml:"size_bound" yaml:"size_bound"`
		GroupOrder string `json:"group_order" toml:"group_order" yaml:"group_order"`
		Profile    bool   `json:"profile" toml:"profile" yaml:"profile"`
	} `json:"split" toml:"split" yaml:"split"`
	Merge struct {
		HeaderRows     int  `json:"header_rows" toml:"header_rows" yaml:"header_rows"`
		KeepProtection bool `json:"keep_protection" toml:"keep_protection" yaml:"keep_protection"`
	} `json:"merge" toml:"merge" yaml:"merge"`
	TextColumns []string `json:"text_columns" toml:"text_columns" yaml:"text_columns"`
	Output      struct {
		Format string `json:"format" toml:"format" yaml:"format"`
		Dir    string `json:"dir" toml:"dir" yaml:"dir"`
	} `json:"output" toml:"output" yaml:"output"`
	Encoding   string `json:"encoding" toml:"encoding" yaml:"encoding"`
	StagingDir string `json:"staging_dir" toml:"staging_dir" yaml:"staging_dir"`
	Log        struct {
		Level  string `json:"level" toml:"level" yaml:"level"`
		Format string `json:"format" toml:"format" yaml:"format"`
	} `json:"log" toml:"log" yaml:"log"`
	// Steps is the cleanup pipeline; each item has a single key naming
	// the step.
	Steps []map[string]StepArgs `json:"steps" toml:"steps" yaml:"steps"`
}

// StepArgs is the union of every step's arguments.
type StepArgs struct {
	Column  string            `json:"column" toml:"column" yaml:"column"`
	Columns []string          `json:"columns" toml:"columns" yaml:"columns"`
	Map     map[string]string `json:"map" toml:"map" yaml:"map"`
	Pattern string            `json:"pattern" toml:"pattern" yaml:"pattern"`
	Replace string            `json:"replace" toml:"replace" yaml:"replace"`
	Value   string            `json:"value" toml:"value" yaml:"value"`
	Values  []string          `json:"values" toml:"values" yaml:"values"`
	Min     *float64          `json:"min" toml:"min" yaml:"min"`
	Max     *float64          `json:"max" toml:"max" yaml:"max"`
}

// DefaultConfig holds the values used when neither file nor flag sets one.
func DefaultConfig() Config {
	var c Config
	c.Split.Mode = "groups"
	c.Split.HeaderRows = 1
	c.Split.SizeBound = 1000
	c.Split.GroupOrder = "first"
	c.Merge.HeaderRows = 6
	c.TextColumns = []string{columns.DefaultTextColumn}
	c.Output.Format = "xlsx"
	c.Output.Dir = "."
	c.Log.Level = "info"
	c.Log.Format = "text"
	return c
}

// decoders maps a config file extension to its decoder; TOML and YAML
// register themselves from their own files.
var decoders = map[string]func([]byte, any) error{
	".json": json.Unmarshal,
}

// LoadConfig reads path over the defaults. The decoder is chosen by
// extension, JSON when there is none.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		ext = ".json"
	}
	decode, ok := decoders[ext]
	if !ok {
		return cfg, fmt.Errorf("unsupported config format %q", ext)
	}
	if err := decode(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}
