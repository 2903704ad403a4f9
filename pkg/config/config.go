package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CONDEXPR_PARSER_MAX_DEPTH.
const EnvPrefix = "CONDEXPR_"

// Config holds the complete application configuration
type Config struct {
	Parser ParserConfig `toml:"parser" yaml:"parser"`
	Server ServerConfig `toml:"server" yaml:"server"`
	Log    LogConfig    `toml:"log" yaml:"log"`
}

// ParserConfig bounds a single parse run. A zero value picks the default; a negative MaxDepth, MaxInputBytes or
// Timeout switches that bound off.
type ParserConfig struct {
	MaxDepth      int      `toml:"max_depth" yaml:"max_depth"`
	MaxInputBytes int      `toml:"max_input_bytes" yaml:"max_input_bytes"`
	Timeout       Duration `toml:"timeout" yaml:"timeout"`
}

// ServerConfig holds the HTTP/WebSocket endpoint settings
type ServerConfig struct {
	Addr      string   `toml:"addr" yaml:"addr"`
	JWTSecret string   `toml:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL  Duration `toml:"token_ttl" yaml:"token_ttl"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// UnmarshalYAML parses a duration scalar such as "5s"
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a TOML or YAML file, picked by extension, then applies
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Resolve loads .env files from the working directory, then the config file
// named by path, CONDEXPR_CONFIG or one of the default locations. With no
// file anywhere it falls back to defaults plus environment overrides.
func Resolve(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path == "" {
		home, _ := os.UserHomeDir()
		candidates := []string{
			"./condexpr.toml",
			"./condexpr.yaml",
			filepath.Join(home, ".config", "condexpr", "config.toml"),
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}
	if path != "" {
		return Load(path)
	}

	cfg := &Config{}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv never overrides variables that are already set.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Parser.MaxDepth == 0 {
		c.Parser.MaxDepth = 1000
	}
	if c.Parser.MaxInputBytes == 0 {
		c.Parser.MaxInputBytes = 1 << 20
	}
	if c.Parser.Timeout.Duration == 0 {
		c.Parser.Timeout.Duration = 5 * time.Second
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.TokenTTL.Duration == 0 {
		c.Server.TokenTTL.Duration = time.Hour
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) applyEnv() error {
	ints := map[string]*int{
		"PARSER_MAX_DEPTH":       &c.Parser.MaxDepth,
		"PARSER_MAX_INPUT_BYTES": &c.Parser.MaxInputBytes,
	}
	for key, dst := range ints {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*dst = n
		}
	}

	durations := map[string]*Duration{
		"PARSER_TIMEOUT":   &c.Parser.Timeout,
		"SERVER_TOKEN_TTL": &c.Server.TokenTTL,
	}
	for key, dst := range durations {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			if err := dst.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
		}
	}

	strs := map[string]*string{
		"SERVER_ADDR":       &c.Server.Addr,
		"SERVER_JWT_SECRET": &c.Server.JWTSecret,
		"LOG_LEVEL":         &c.Log.Level,
		"LOG_FORMAT":        &c.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}
	return nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
