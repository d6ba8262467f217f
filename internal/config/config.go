// Package config resolves feescan settings from defaults, an optional YAML
// file, a .env file, and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"git.sr.ht/~jakintosh/feescan/internal/core"
)

// DefaultBackendURL is used when no backend is configured.
const DefaultBackendURL = "http://localhost:8000"

// Config holds every setting the client reads.
type Config struct {
	BackendURL string        `yaml:"backend_url"`
	Currency   string        `yaml:"currency"`
	Locale     string        `yaml:"locale"`
	Timeout    time.Duration `yaml:"timeout"` // 0 waits forever
	LogFile    string        `yaml:"log_file"`
	Verbose    bool          `yaml:"verbose"`
}

// Options controls where Load looks.
type Options struct {
	// Path is an explicit config file; it must exist when set.
	Path string
	// DefaultPath is read when present and Path is empty.
	DefaultPath string
	// DotEnv is a .env file read when present.
	DotEnv string
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BackendURL: DefaultBackendURL,
		Currency:   core.DefaultCurrency,
		Locale:     "en",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/feescan/config.yaml or the platform
// equivalent, or "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "feescan", "config.yaml")
}

// Load layers defaults, the YAML file, .env and the environment, in that
// order of increasing precedence. Flags are applied by the caller.
func Load(opts Options) (Config, error) {
	cfg := Default()

	path, required := opts.Path, true
	if path == "" {
		path, required = opts.DefaultPath, false
	}
	if path != "" {
		if err := cfg.loadFile(path, required); err != nil {
			return Config{}, err
		}
	}

	dotenv := map[string]string{}
	if opts.DotEnv != "" {
		values, err := godotenv.Read(opts.DotEnv)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("reading %s: %w", opts.DotEnv, err)
		}
	}

	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	getEnv := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := lookupEnv(k); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
			if v := strings.TrimSpace(dotenv[k]); v != "" {
				return v
			}
		}
		return ""
	}

	if v := getEnv("FEESCAN_BACKEND_URL", "BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := getEnv("FEESCAN_CURRENCY"); v != "" {
		cfg.Currency = v
	}
	if v := getEnv("FEESCAN_LOCALE"); v != "" {
		cfg.Locale = v
	}
	if v := getEnv("FEESCAN_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := getEnv("FEESCAN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid FEESCAN_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = d
	}

	cfg.BackendURL = NormalizeURL(cfg.BackendURL)
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

// NormalizeURL trims whitespace and trailing slashes so paths can be appended.
func NormalizeURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// LanguageTag parses Locale, falling back to English.
func (c Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.BackendURL == "" {
		problems = append(problems, "backend URL cannot be empty")
	} else if u, err := url.Parse(c.BackendURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid backend URL '%s': %v", c.BackendURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid backend URL scheme '%s': must be 'http' or 'https'", u.Scheme))
	} else if u.Host == "" {
		problems = append(problems, fmt.Sprintf("backend URL '%s' has no host", c.BackendURL))
	}

	if c.Locale != "" {
		if _, err := language.Parse(c.Locale); err != nil {
			problems = append(problems, fmt.Sprintf("invalid locale '%s': %v", c.Locale, err))
		}
	}

	if c.Timeout < 0 {
		problems = append(problems, fmt.Sprintf("invalid timeout %v: must not be negative", c.Timeout))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
