// Package config loads carmarket settings from defaults, carmarket.yaml,
// CARMARKET_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/spektr-org/carmarket/dataset"
)

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Defaults.
const (
	DefaultInput     = "car_sales_data.csv"
	DefaultOutDir    = "."
	DefaultFile      = "carmarket.yaml"
	DefaultTitle     = "UK Second-hand Car Market Sale Analysis"
	DefaultHeight    = 900
	DefaultLogFormat = "text"

	LoaderCSV    = "csv"
	LoaderDuckDB = "duckdb"

	envPrefix = "CARMARKET_"
)

// Config holds every setting of a run.
type Config struct {
	Input     string          `koanf:"input"`
	OutDir    string          `koanf:"out_dir"`
	Loader    string          `koanf:"loader"`
	Verbose   bool            `koanf:"verbose"`
	Clean     dataset.Bounds  `koanf:"clean"`
	Export    ExportConfig    `koanf:"export"`
	Log       LogConfig       `koanf:"log"`
	Dashboard DashboardConfig `koanf:"dashboard"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// ExportConfig switches the optional data exports.
type ExportConfig struct {
	XLSX bool `koanf:"xlsx"`
	CSV  bool `koanf:"csv"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Format string `koanf:"format"` // text | json
}

// DashboardConfig controls the combined page.
type DashboardConfig struct {
	Title  string `koanf:"title"`
	Height int    `koanf:"height"`
}

// sections are the nested key groups; env and flag names map onto them.
var sections = []string{"clean", "export", "log", "dashboard"}

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"top-brands":  "clean.top_brands",
	"min-price":   "clean.min_price",
	"max-price":   "clean.max_price",
	"max-mileage": "clean.max_mileage",
	"mileage-bin": "clean.mileage_bin",
	"xlsx":        "export.xlsx",
	"csv":         "export.csv",
	"log-format":  "log.format",
}

func defaults() map[string]any {
	b := dataset.DefaultBounds()
	return map[string]any{
		"input":             DefaultInput,
		"out_dir":           DefaultOutDir,
		"loader":            LoaderCSV,
		"verbose":           false,
		"clean.min_price":   b.MinPrice,
		"clean.max_price":   b.MaxPrice,
		"clean.max_mileage": b.MaxMileage,
		"clean.top_brands":  b.TopBrands,
		"clean.mileage_bin": b.MileageBin,
		"export.xlsx":       false,
		"export.csv":        false,
		"log.format":        DefaultLogFormat,
		"dashboard.title":   DefaultTitle,
		"dashboard.height":  DefaultHeight,
	}
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	cfg, _ := decode(koanfWithDefaults())
	return cfg
}

func koanfWithDefaults() *koanf.Koanf {
	k := koanf.New(".")
	_ = k.Load(confmap.Provider(defaults(), "."), nil)
	return k
}

// Load builds a Config.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// cfgFile may be empty, in which case ./carmarket.yaml is read if present.
// Only flags that were explicitly set override lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanfWithDefaults()

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// CARMARKET_CLEAN_TOP_BRANDS -> clean.top_brands
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg, err := decode(k)
	if err != nil {
		return nil, err
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}

// findConfigFile returns the explicit path, else carmarket.yaml/.yml in the
// working directory, else "".
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultFile, "carmarket.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range sections {
		if strings.HasPrefix(key, section+"_") {
			return section + "." + strings.TrimPrefix(key, section+"_")
		}
	}
	return key
}

func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}

// Validate reports every invalid setting at once, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(c.Input) == "" {
		add("input is required")
	}
	switch c.Loader {
	case LoaderCSV, LoaderDuckDB:
	default:
		add("loader must be %q or %q, got %q", LoaderCSV, LoaderDuckDB, c.Loader)
	}
	if c.Clean.MinPrice < 0 {
		add("clean.min_price must not be negative")
	}
	if c.Clean.MaxPrice < c.Clean.MinPrice {
		add("clean.max_price (%g) is below clean.min_price (%g)", c.Clean.MaxPrice, c.Clean.MinPrice)
	}
	if c.Clean.MaxMileage < 0 {
		add("clean.max_mileage must not be negative")
	}
	if c.Clean.MileageBin <= 0 {
		add("clean.mileage_bin must be positive")
	}
	if c.Clean.TopBrands < 0 {
		add("clean.top_brands must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		add("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Dashboard.Height <= 0 {
		add("dashboard.height must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
