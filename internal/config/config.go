// Package config loads cohort settings from defaults, an optional YAML
// file and COHORT_* environment variables, in increasing precedence.
package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"schoolnet/cohort/internal/composition"
	"schoolnet/cohort/internal/graph"
	"schoolnet/cohort/internal/orchestrate"
)

// FileName is the project config file searched for from the working directory upward
const FileName = "cohort.yaml"

// EnvPrefix prefixes every environment override, e.g. COHORT_LOUVAIN_RESOLUTION
const EnvPrefix = "COHORT"

// Config is the complete effective configuration
type Config struct {
	Louvain  LouvainConfig  `mapstructure:"louvain" yaml:"louvain"`
	Metadata MetadataConfig `mapstructure:"metadata" yaml:"metadata"`
	Run      RunConfig      `mapstructure:"run" yaml:"run"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`

	// Source is the file the config was read from, empty for defaults only.
	Source string `mapstructure:"-" yaml:"-"`
}

type LouvainConfig struct {
	Resolution float64 `mapstructure:"resolution" yaml:"resolution"`
	Tolerance  float64 `mapstructure:"tolerance" yaml:"tolerance"`
	MaxSweeps  int     `mapstructure:"max_sweeps" yaml:"max_sweeps"`
	MaxLevels  int     `mapstructure:"max_levels" yaml:"max_levels"`
}

type MetadataConfig struct {
	Strict    bool     `mapstructure:"strict" yaml:"strict"`
	Fields    []string `mapstructure:"fields" yaml:"fields"`
	KeyColumn string   `mapstructure:"key_column" yaml:"key_column"`
}

type RunConfig struct {
	Sequential bool   `mapstructure:"sequential" yaml:"sequential"`
	TopN       int    `mapstructure:"top_n" yaml:"top_n"`
	Format     string `mapstructure:"format" yaml:"format"`
}

type LogConfig struct {
	JSON  bool   `mapstructure:"json" yaml:"json"`
	Level string `mapstructure:"level" yaml:"level"`
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("louvain.resolution", graph.DefaultResolution)
	v.SetDefault("louvain.tolerance", graph.DefaultTolerance)
	v.SetDefault("louvain.max_sweeps", graph.DefaultMaxSweeps)
	v.SetDefault("louvain.max_levels", graph.DefaultMaxLevels)

	v.SetDefault("metadata.strict", false)
	v.SetDefault("metadata.fields", []string{})
	v.SetDefault("metadata.key_column", "node")

	v.SetDefault("run.sequential", false)
	v.SetDefault("run.top_n", 10)
	v.SetDefault("run.format", "text")

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")
}

// Load builds the configuration. An explicit path must exist; otherwise
// cohort.yaml is looked up from the working directory toward the root.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if path == "" {
		path = findProjectConfig()
	} else if _, err := os.Stat(path); err != nil {
		return nil, errors.WithHint(errors.Wrapf(err, "config file %s", path),
			"pass an existing YAML file to --config or omit the flag")
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg.Source = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the optimizer or reporters cannot use
func (c *Config) Validate() error {
	if c.Louvain.Resolution <= 0 || math.IsNaN(c.Louvain.Resolution) || math.IsInf(c.Louvain.Resolution, 0) {
		return errors.WithHint(errors.Newf("louvain.resolution must be positive, got %g", c.Louvain.Resolution),
			"1.0 gives classical modularity")
	}
	if c.Louvain.Tolerance < 0 {
		return errors.Newf("louvain.tolerance must not be negative, got %g", c.Louvain.Tolerance)
	}
	if c.Louvain.MaxSweeps < 0 || c.Louvain.MaxLevels < 0 {
		return errors.New("louvain.max_sweeps and louvain.max_levels must not be negative")
	}
	if c.Run.TopN < 0 {
		return errors.Newf("run.top_n must not be negative, got %d", c.Run.TopN)
	}
	return nil
}

// Orchestrate maps the configuration onto run options
func (c *Config) Orchestrate() orchestrate.Config {
	return orchestrate.Config{
		Louvain: graph.LouvainOptions{
			Resolution: c.Louvain.Resolution,
			Tolerance:  c.Louvain.Tolerance,
			MaxSweeps:  c.Louvain.MaxSweeps,
			MaxLevels:  c.Louvain.MaxLevels,
		},
		Composition: composition.Options{
			Strict: c.Metadata.Strict,
			Fields: c.Metadata.Fields,
		},
		Sequential: c.Run.Sequential,
		TopN:       c.Run.TopN,
	}
}

// YAML renders the effective configuration
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	return out, errors.Wrap(err, "encoding config")
}

// findProjectConfig walks up from the working directory looking for FileName
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
