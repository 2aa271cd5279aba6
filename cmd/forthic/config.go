package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// config is the optional --config file shape: a host manifest selecting
// which standard modules to install and the default trace/stack-limit
// settings, so a deployment doesn't have to repeat flags on every
// invocation.
type config struct {
	Trace      bool            `yaml:"trace"`
	StackLimit int             `yaml:"stackLimit"`
	Modules    map[string]bool `yaml:"modules"`
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg := &config{Modules: map[string]bool{"core": true}}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}
