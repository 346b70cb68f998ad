// Package config handles configuration loading and validation for graphselect.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/imyousuf/graphselect/internal/compare"
	"github.com/imyousuf/graphselect/internal/logging"
	"github.com/imyousuf/graphselect/internal/selection"
)

const (
	// DefaultConfigFile is the default configuration file name (without extension).
	DefaultConfigFile = ".graphselect"
	// DefaultConfigType is the default configuration file type.
	DefaultConfigType = "yaml"
	// EnvPrefix prefixes every environment override, e.g. GRAPHSELECT_SELECTION_TYPE.
	EnvPrefix = "GRAPHSELECT"
	// StorePrefix marks a graph reference that names a catalog entry rather
	// than a file.
	StorePrefix = "store:"
)

// Config holds all configuration for graphselect.
type Config struct {
	// Store locates the graph catalog.
	Store StoreConfig `mapstructure:"store" yaml:"store"`
	// Selection is the rule applied when none is given on the command line.
	Selection SelectionConfig `mapstructure:"selection" yaml:"selection"`
	// Graphs lists base graph files, or store:<name> catalog references.
	Graphs []string `mapstructure:"graphs" yaml:"graphs"`
	Limits LimitsConfig `mapstructure:"limits" yaml:"limits"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`

	// ConfigFile is the file the configuration was read from; empty when
	// only defaults and environment apply.
	ConfigFile string `mapstructure:"-" yaml:"-"`
}

type StoreConfig struct {
	// Path is the local BadgerDB directory.
	Path string `mapstructure:"path" yaml:"path"`
	// SharedPath is an optional read-only catalog layered under Path.
	SharedPath string `mapstructure:"shared_path" yaml:"shared_path,omitempty"`
}

type SelectionConfig struct {
	Type              string   `mapstructure:"type" yaml:"type"`
	N                 int      `mapstructure:"n" yaml:"n"`
	Comparator        string   `mapstructure:"comparator" yaml:"comparator"`
	SelectedVariables []string `mapstructure:"selected_variables" yaml:"selected_variables"`
}

// LimitsConfig bounds path enumeration.
type LimitsConfig struct {
	// MaxPathLength caps the path bound of a path type on a large graph.
	MaxPathLength int `mapstructure:"max_path_length" yaml:"max_path_length"`
	// LargeGraphNodes is the node count above which MaxPathLength applies.
	LargeGraphNodes int `mapstructure:"large_graph_nodes" yaml:"large_graph_nodes"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Load reads configFile, or .graphselect.yaml in the working directory when
// configFile is empty, applying defaults and GRAPHSELECT_* environment
// overrides. A missing default file is not an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(DefaultConfigFile)
		v.SetConfigType(DefaultConfigType)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if _, err := c.SelectionConfig(); err != nil {
		return fmt.Errorf("selection: %w", err)
	}
	if c.Limits.MaxPathLength <= 0 {
		return fmt.Errorf("limits.max_path_length must be positive, got %d", c.Limits.MaxPathLength)
	}
	if c.Limits.LargeGraphNodes <= 0 {
		return fmt.Errorf("limits.large_graph_nodes must be positive, got %d", c.Limits.LargeGraphNodes)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	for i, ref := range c.Graphs {
		if strings.TrimSpace(ref) == "" || ref == StorePrefix {
			return fmt.Errorf("graphs[%d]: empty reference", i)
		}
	}
	return nil
}

// SelectionConfig parses the selection section.
func (c *Config) SelectionConfig() (selection.Config, error) {
	return selection.ParseConfig(c.Selection.Type, c.Selection.N, c.Selection.Comparator)
}

// GraphRef is one entry of the graphs list.
type GraphRef struct {
	// Path is set for file references, resolved against the config file's
	// directory.
	Path string
	// StoreName is set for store:<name> references.
	StoreName string
}

func (r GraphRef) String() string {
	if r.StoreName != "" {
		return StorePrefix + r.StoreName
	}
	return r.Path
}

// ParseGraphRef splits a store:<name> reference from a file path.
func ParseGraphRef(ref string) GraphRef {
	if name, ok := strings.CutPrefix(ref, StorePrefix); ok {
		return GraphRef{StoreName: name}
	}
	return GraphRef{Path: ref}
}

// GraphRefs returns the graphs list with relative file paths resolved
// against the directory of the config file.
func (c *Config) GraphRefs() []GraphRef {
	out := make([]GraphRef, 0, len(c.Graphs))
	for _, ref := range c.Graphs {
		r := ParseGraphRef(ref)
		if r.Path != "" {
			r.Path = c.ResolvePath(r.Path)
		}
		out = append(out, r)
	}
	return out
}

// ResolvePath makes a relative path relative to the config file's directory.
func (c *Config) ResolvePath(p string) string {
	if filepath.IsAbs(p) || c.ConfigFile == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.ConfigFile), p)
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("store.path", filepath.Join(".graphselect", "graphs.db"))
	v.SetDefault("store.shared_path", "")

	v.SetDefault("selection.type", selection.Subgraph.String())
	v.SetDefault("selection.n", 0)
	v.SetDefault("selection.comparator", compare.AtLeast.String())
	v.SetDefault("selection.selected_variables", []string{})

	v.SetDefault("graphs", []string{})

	v.SetDefault("limits.max_path_length", 8)
	v.SetDefault("limits.large_graph_nodes", 60)

	v.SetDefault("server.addr", "127.0.0.1:8470")
	v.SetDefault("log.level", "info")
}
