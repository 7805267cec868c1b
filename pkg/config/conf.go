package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mchmarny/gradebook/pkg/grade"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the default config file name.
	FileName = "gradebook.yaml"

	FormatJSON = "json"
	FormatYAML = "yaml"

	dirMode  = 0700
	fileMode = 0600
)

// Config represents app config object.
type Config struct {
	Input    string    `json:"input" yaml:"input" env:"GRADEBOOK_INPUT" env-default:"input.txt" env-description:"Path to the roster file"`
	Weights  []float64 `json:"weights" yaml:"weights" env:"GRADEBOOK_WEIGHTS" env-separator:"," env-default:"0.1,0.1,0.1,0.3,0.4" env-description:"Initial weights: lab1,lab2,lab3,midterm,final"`
	LogLevel string    `json:"log_level" yaml:"log_level" env:"GRADEBOOK_LOG_LEVEL" env-default:"info" env-description:"Log level [debug, info, warn, error]"`
	Format   string    `json:"format" yaml:"format" env:"GRADEBOOK_FORMAT" env-default:"json" env-description:"Output format [json, yaml]"`
	Server   Server    `json:"server" yaml:"server"`
}

// Server configures the local HTTP view.
type Server struct {
	Address string `json:"address" yaml:"address" env:"GRADEBOOK_SERVER_ADDRESS" env-default:"127.0.0.1:8080" env-description:"Address the server listens on"`
}

// Load reads config from path, or from the environment alone when path is empty.
// Environment variables override values from the file.
func Load(path string) (*Config, error) {
	var c Config
	if path == "" {
		if err := cleanenv.ReadEnv(&c); err != nil {
			return nil, fmt.Errorf("reading config from environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &c); err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the values which cleanenv can not.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config required")
	}
	if c.Format != FormatJSON && c.Format != FormatYAML {
		return fmt.Errorf("invalid format: %s", c.Format)
	}
	if _, err := c.WeightVector(); err != nil {
		return err
	}
	return nil
}

// WeightVector returns the configured weights as a vector.
func (c *Config) WeightVector() (grade.Weights, error) {
	w, err := grade.WeightsFromSlice(c.Weights)
	if err != nil {
		return w, fmt.Errorf("invalid weights: %w", err)
	}
	return w, nil
}

// Save writes c to path as YAML, creating the parent directory when needed.
func Save(path string, c *Config) error {
	if path == "" {
		return errors.New("config path required")
	}
	if c == nil {
		return errors.New("config required")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return fmt.Errorf("failed to create dir: %s: %w", dir, err)
		}
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("failed to write config file: %s: %w", path, err)
	}
	return nil
}
