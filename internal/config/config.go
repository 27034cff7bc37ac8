package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"

	"github.com/five82/nutmunch/internal/logging"
	"github.com/five82/nutmunch/internal/pricing"
)

// Config holds the client's settings.
type Config struct {
	APIURL            string
	SessionFile       string
	RequestTimeout    time.Duration
	RequestsPerSecond float64
	Log               logging.Config

	policy pricing.Policy
}

const (
	defaultConfigPath     = "~/.config/nutmunch/config.toml"
	defaultAPIURL         = "http://localhost:8000"
	defaultSessionFile    = "~/.local/share/nutmunch/session"
	defaultLogFile        = "~/.local/share/nutmunch/nutmunch.log"
	defaultRequestTimeout = 5 * time.Second
)

type rawConfig struct {
	APIURL            string  `toml:"api_url"`
	SessionFile       string  `toml:"session_file"`
	RequestTimeout    string  `toml:"request_timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Pricing           struct {
		FreeShippingThreshold string `toml:"free_shipping_threshold"`
		FlatShippingFee       string `toml:"flat_shipping_fee"`
		TaxRate               string `toml:"tax_rate"`
	} `toml:"pricing"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		Output string `toml:"output"`
	} `toml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		SessionFile:    mustExpand(defaultSessionFile),
		RequestTimeout: defaultRequestTimeout,
		Log: logging.Config{
			Level:  "info",
			Format: "json",
			Output: mustExpand(defaultLogFile),
		},
		policy: pricing.DefaultPolicy(),
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(raw.SessionFile); v != "" {
		cfg.SessionFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("parse config: request_timeout %q is not a positive duration", v)
		}
		cfg.RequestTimeout = d
	}
	if raw.RequestsPerSecond < 0 {
		return Config{}, fmt.Errorf("parse config: requests_per_second must not be negative")
	}
	cfg.RequestsPerSecond = raw.RequestsPerSecond

	if err := setDecimal(&cfg.policy.FreeShippingThreshold, "pricing.free_shipping_threshold", raw.Pricing.FreeShippingThreshold); err != nil {
		return Config{}, err
	}
	if err := setDecimal(&cfg.policy.FlatShippingFee, "pricing.flat_shipping_fee", raw.Pricing.FlatShippingFee); err != nil {
		return Config{}, err
	}
	if err := setDecimal(&cfg.policy.TaxRate, "pricing.tax_rate", raw.Pricing.TaxRate); err != nil {
		return Config{}, err
	}
	if err := cfg.policy.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: pricing: %w", err)
	}

	if v := strings.TrimSpace(raw.Log.Level); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Log.Format); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.Log.Output); v != "" {
		switch v {
		case "stdout", "stderr":
			cfg.Log.Output = v
		default:
			cfg.Log.Output = mustExpand(v)
		}
	}

	return cfg, nil
}

// Pricing returns the shipping and tax policy.
func (c Config) Pricing() pricing.Policy {
	if c.policy == (pricing.Policy{}) {
		return pricing.DefaultPolicy()
	}
	return c.policy
}

// LogPath returns the client log file, or "" when logging goes to a stream.
func (c Config) LogPath() string {
	switch strings.TrimSpace(c.Log.Output) {
	case "", "stdout", "stderr":
		return ""
	default:
		return c.Log.Output
	}
}

func setDecimal(dst *decimal.Decimal, key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("parse config: %s %q is not a number", key, value)
	}
	*dst = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
