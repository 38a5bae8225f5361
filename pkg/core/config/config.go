package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
	"github.com/msto63/skymodel/pkg/core/logging"
)

// EnvVar names the environment variable holding the config file path
const EnvVar = "SKYMODEL_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Bridge  BridgeConfig  `toml:"bridge" yaml:"bridge"`
	Export  ExportConfig  `toml:"export" yaml:"export"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level" yaml:"log_level" hcl:"log_level,optional"`
	LogFormat string `toml:"log_format" yaml:"log_format" hcl:"log_format,optional"`
}

// BridgeConfig holds catalogue to sky model conversion settings
type BridgeConfig struct {
	Output  string        `toml:"output" yaml:"output"`
	Columns ColumnsConfig `toml:"columns" yaml:"columns"`
}

// ColumnsConfig names the catalogue columns read by the bridge. Empty
// names keep the bridge defaults.
type ColumnsConfig struct {
	Name  string `toml:"name" yaml:"name" hcl:"name,optional"`
	RA    string `toml:"ra" yaml:"ra" hcl:"ra,optional"`
	Dec   string `toml:"dec" yaml:"dec" hcl:"dec,optional"`
	Major string `toml:"major" yaml:"major" hcl:"major,optional"`
	Minor string `toml:"minor" yaml:"minor" hcl:"minor,optional"`
	PA    string `toml:"pa" yaml:"pa" hcl:"pa,optional"`
	Flux  string `toml:"flux" yaml:"flux" hcl:"flux,optional"`
	Freq  string `toml:"freq" yaml:"freq" hcl:"freq,optional"`
	Alpha string `toml:"alpha" yaml:"alpha" hcl:"alpha,optional"`
}

// ExportConfig holds sky model to catalogue conversion settings
type ExportConfig struct {
	Output string `toml:"output" yaml:"output" hcl:"output,optional"`
	Table  string `toml:"table" yaml:"table" hcl:"table,optional"`
}

// Format represents the configuration file format
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
	FormatHCL
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatHCL:
		return "hcl"
	default:
		return "unknown"
	}
}

// detectFormat determines the configuration format from file extension
func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return 0, skyerr.Newf("unsupported config format %q", filepath.Ext(path)).
			WithCode(skyerr.CodeInvalidConfig).
			WithDetail("path", path)
	}
}

// hclFile mirrors Config for HCL, where absent blocks must be pointers
type hclFile struct {
	General *GeneralConfig `hcl:"general,block"`
	Bridge  *hclBridge     `hcl:"bridge,block"`
	Export  *ExportConfig  `hcl:"export,block"`
}

type hclBridge struct {
	Output  string         `hcl:"output,optional"`
	Columns *ColumnsConfig `hcl:"columns,block"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML, YAML or HCL file chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, skyerr.Newf("config file not found: %s", path).
			WithCode(skyerr.CodeInvalidConfig).
			WithDetail("path", path)
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch format {
	case FormatTOML:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, parseError(err, path, format)
		}
	case FormatYAML:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, skyerr.Wrap(err, "failed to read config").WithCode(skyerr.CodeIO).WithDetail("path", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, parseError(err, path, format)
		}
	case FormatHCL:
		if err := decodeHCL(path, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeHCL(path string, cfg *Config) error {
	file, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return parseError(diags, path, FormatHCL)
	}

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, hclContext(), &parsed); diags.HasErrors() {
		return parseError(diags, path, FormatHCL)
	}

	if parsed.General != nil {
		cfg.General = *parsed.General
	}
	if parsed.Bridge != nil {
		cfg.Bridge.Output = parsed.Bridge.Output
		if parsed.Bridge.Columns != nil {
			cfg.Bridge.Columns = *parsed.Bridge.Columns
		}
	}
	if parsed.Export != nil {
		cfg.Export = *parsed.Export
	}
	return nil
}

// hclContext exposes the environment to HCL expressions as env.NAME
func hclContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = cty.StringVal(v)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(env)},
	}
}

func parseError(err error, path string, format Format) error {
	return skyerr.Wrap(err, "failed to parse config").
		WithCode(skyerr.CodeInvalidConfig).
		WithDetail("path", path).
		WithDetail("format", format.String())
}

// LoadFromEnv loads configuration from the SKYMODEL_CONFIG environment
// variable or the first default location that exists. Without any config
// file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}

	for _, p := range []string{"./skymodel.toml", "./configs/skymodel.toml"} {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Bridge
	if c.Bridge.Output == "" {
		c.Bridge.Output = "test.txt"
	}

	// Export
	if c.Export.Output == "" {
		c.Export.Output = "Skymodel.fits"
	}
	if c.Export.Table == "" {
		c.Export.Table = "components"
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.Bridge.Output = os.ExpandEnv(c.Bridge.Output)
	c.Export.Output = os.ExpandEnv(c.Export.Output)
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.General.LogLevel) {
		return invalid("general.log_level", c.General.LogLevel)
	}
	if !logging.ValidFormat(c.General.LogFormat) {
		return invalid("general.log_format", c.General.LogFormat)
	}
	if strings.TrimSpace(c.Export.Table) == "" || strings.ContainsAny(c.Export.Table, " \t\"'") {
		return invalid("export.table", c.Export.Table)
	}
	return nil
}

func invalid(key, value string) error {
	return skyerr.Newf("invalid value %q for %s", value, key).
		WithCode(skyerr.CodeInvalidConfig).
		WithDetail("key", key)
}
