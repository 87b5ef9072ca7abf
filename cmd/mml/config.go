package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/sandrolain/gomml/pkg/evaluator"
	"github.com/sandrolain/gomml/pkg/format"
)

// fileConfig is the YAML configuration file. Pointer fields distinguish
// absent keys from zero values so the defaults survive a partial file.
type fileConfig struct {
	Precision        *int              `yaml:"precision"`
	FullPrecision    *bool             `yaml:"full_precision"`
	BoolsAsNumbers   *bool             `yaml:"bools_are_nums"`
	EstimateEquality *bool             `yaml:"estimate_equality"`
	Locale           string            `yaml:"locale"`
	HistoryFile      string            `yaml:"history_file"`
	Vars             map[string]string `yaml:"vars"`
}

// settings are the resolved CLI settings after merging the config file and
// the command line.
type settings struct {
	Format           format.Config
	EstimateEquality bool
	HistoryFile      string
	// Vars holds name=expression bindings in definition order.
	Vars []binding
}

type binding struct {
	Name   string
	Source string
}

func defaultSettings() settings {
	return settings{
		Format:           format.DefaultConfig(),
		EstimateEquality: true,
	}
}

// defaultConfigPath returns $XDG_CONFIG_HOME/mml/config.yaml, falling back
// to ~/.config/mml/config.yaml.
func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mml", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "mml", "config.yaml")
}

// defaultHistoryPath returns the REPL history location.
func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mml_history")
}

// loadConfig reads the configuration file at path. A missing file is not an
// error unless required is set.
func loadConfig(path string, required bool) (*fileConfig, error) {
	if path == "" {
		return &fileConfig{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return &fileConfig{}, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Precision != nil && *cfg.Precision < 0 {
		return nil, fmt.Errorf("config %s: precision must not be negative", path)
	}
	return &cfg, nil
}

// apply overlays the file values on s.
func (c *fileConfig) apply(s *settings) {
	if c.Precision != nil {
		s.Format.Precision = *c.Precision
	}
	if c.FullPrecision != nil {
		s.Format.FullPrecision = *c.FullPrecision
	}
	if c.BoolsAsNumbers != nil {
		s.Format.BoolsAsNumbers = *c.BoolsAsNumbers
	}
	if c.EstimateEquality != nil {
		s.EstimateEquality = *c.EstimateEquality
	}
	if c.Locale != "" {
		s.Format.Locale = c.Locale
	}
	if c.HistoryFile != "" {
		s.HistoryFile = c.HistoryFile
	}

	names := make([]string, 0, len(c.Vars))
	for name := range c.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.Vars = append(s.Vars, binding{Name: name, Source: c.Vars[name]})
	}
}

// evalOptions converts the settings into session options.
func (s settings) evalOptions() []evaluator.EvalOption {
	return []evaluator.EvalOption{
		evaluator.WithFormat(s.Format),
		evaluator.WithFuzzyEquality(s.EstimateEquality),
	}
}
