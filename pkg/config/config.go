// Package config reads the strata settings file.
//
// The file is YAML. Every key is optional; missing keys keep the values of
// Default. Command-line flags override whatever the file sets.
//
//	tolerance: 1e-9
//	workers: 4
//	skip: [manifold]
//	log:
//	  level: info
//	sample:
//	  cells: 48
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/chazu/strata/pkg/geom"
	"github.com/chazu/strata/pkg/inspect"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "strata.yaml"

type Config struct {
	Tolerance float64  `yaml:"tolerance"`
	Workers   int      `yaml:"workers"`
	Skip      []string `yaml:"skip"`
	Log       Log      `yaml:"log"`
	Sample    Sample   `yaml:"sample"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Sample configures `strata sample`.
type Sample struct {
	// Cells is the marching cubes resolution along the longest side.
	Cells int `yaml:"cells"`
}

// Default returns the settings used when no file is present. Zero workers
// means one per CPU.
func Default() Config {
	return Config{
		Tolerance: geom.DefaultEpsilon,
		Log:       Log{Level: "info"},
		Sample:    Sample{Cells: 48},
	}
}

// Load reads the file at path over the defaults. An empty path reads
// DefaultFile if it exists; a missing explicit path is an error.
func Load(path string) (Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return c, nil
	}
	if err != nil {
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Validate checks value ranges and criterion names.
func (c Config) Validate() error {
	var errs []error
	if c.Tolerance <= 0 {
		errs = append(errs, fmt.Errorf("tolerance must be positive, got %g", c.Tolerance))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.Sample.Cells < 4 {
		errs = append(errs, fmt.Errorf("sample.cells must be at least 4, got %d", c.Sample.Cells))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if _, err := inspect.ParseCriteria(c.Skip); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses Log.Level.
func (c Config) Level() (zapcore.Level, error) {
	l, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return l, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// InspectOptions turns the settings into inspector options.
func (c Config) InspectOptions() ([]inspect.Option, error) {
	skip, err := inspect.ParseCriteria(c.Skip)
	if err != nil {
		return nil, err
	}
	return []inspect.Option{
		inspect.WithTolerance(c.Tolerance),
		inspect.WithWorkers(c.Workers),
		inspect.WithSkip(skip...),
	}, nil
}
