package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type builder struct {
	configs []*Config
	err     error
}

func newBuilder() *builder {
	return &builder{
		configs: make([]*Config, 0, 3),
	}
}

func (b *builder) build() (*Config, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	cfg := new(Config)
	for _, c := range b.configs {
		if err := mergo.Merge(cfg, c, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	cfg.applyDefaults()

	return cfg, cfg.validate()
}

func (b *builder) withEnv() *builder {
	envCfg := &Config{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *builder) withFlags(args []string) *builder {
	flagCfg, err := parseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flagCfg)
	return b
}

func (b *builder) withJSON() *builder {
	var jsonPath string
	for _, c := range b.configs {
		if c.ConfigFile != "" {
			jsonPath = c.ConfigFile
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, jsonCfg)
	return b
}
