// Package config loads server settings from defaults, an optional YAML file
// and SWIMHEALTH_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvProduction is the value of Env in production.
const EnvProduction = "production"

// Config holds every setting the server reads at start-up.
type Config struct {
	Addr      string `yaml:"addr"`
	Env       string `yaml:"env"`
	StaticDir string `yaml:"static_dir"`

	Database struct {
		Path         string `yaml:"path"`
		MaxOpenConns int    `yaml:"max_open_conns"`
	} `yaml:"database"`

	Security struct {
		CSRFKey   string        `yaml:"csrf_key"`
		JWTSecret string        `yaml:"jwt_secret"`
		JWTTTL    time.Duration `yaml:"jwt_ttl"`
	} `yaml:"security"`

	Email struct {
		ResendKey string `yaml:"resend_key"`
		From      string `yaml:"from"`
		ReplyTo   string `yaml:"reply_to"`
	} `yaml:"email"`

	Perf struct {
		SlowQueryMS   int `yaml:"slow_query_ms"`
		SlowRequestMS int `yaml:"slow_request_ms"`
	} `yaml:"perf"`

	Preferences struct {
		Language string `yaml:"language"`
		Theme    string `yaml:"theme"`
	} `yaml:"preferences"`

	SeedDemo bool `yaml:"seed_demo"`
}

// Default returns the development configuration.
func Default() Config {
	var c Config
	c.Addr = ":8080"
	c.Env = "development"
	c.StaticDir = "static"
	c.Database.Path = "swimhealth.db"
	c.Database.MaxOpenConns = 25
	c.Security.JWTTTL = time.Hour
	c.Email.From = "SwimHealth <noreply@swimhealth.test>"
	c.Email.ReplyTo = "coach@swimhealth.test"
	c.Perf.SlowQueryMS = 100
	c.Perf.SlowRequestMS = 500
	c.Preferences.Language = "en"
	c.Preferences.Theme = "light"
	return c
}

// IsProduction reports whether Env is production.
func (c Config) IsProduction() bool { return c.Env == EnvProduction }

// Load builds the configuration. path may be empty; a missing file at a
// non-empty path is an error.
// PRE: getenv is non-nil
// POST: returned Config passed Validate
func Load(path string, getenv func(string) string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// FromEnvironment loads using the file named by SWIMHEALTH_CONFIG and the process environment.
func FromEnvironment() (Config, error) {
	return Load(os.Getenv("SWIMHEALTH_CONFIG"), os.Getenv)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("SWIMHEALTH_ADDR", &c.Addr)
	str("SWIMHEALTH_ENV", &c.Env)
	str("SWIMHEALTH_STATIC_DIR", &c.StaticDir)
	str("SWIMHEALTH_DB", &c.Database.Path)
	str("SWIMHEALTH_CSRF_KEY", &c.Security.CSRFKey)
	str("SWIMHEALTH_JWT_SECRET", &c.Security.JWTSecret)
	str("SWIMHEALTH_RESEND_KEY", &c.Email.ResendKey)
	str("SWIMHEALTH_RESEND_FROM", &c.Email.From)
	str("SWIMHEALTH_REPLY_TO", &c.Email.ReplyTo)
	str("SWIMHEALTH_LANGUAGE", &c.Preferences.Language)
	str("SWIMHEALTH_THEME", &c.Preferences.Theme)

	for key, dst := range map[string]*int{
		"SWIMHEALTH_DB_MAX_CONNS":    &c.Database.MaxOpenConns,
		"SWIMHEALTH_SLOW_QUERY_MS":   &c.Perf.SlowQueryMS,
		"SWIMHEALTH_SLOW_REQUEST_MS": &c.Perf.SlowRequestMS,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	if v := getenv("SWIMHEALTH_JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SWIMHEALTH_JWT_TTL: %w", err)
		}
		c.Security.JWTTTL = d
	}
	if v := getenv("SWIMHEALTH_SEED_DEMO"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SWIMHEALTH_SEED_DEMO: %w", err)
		}
		c.SeedDemo = b
	}
	return nil
}

var (
	ErrMissingSecret = errors.New("csrf_key and jwt_secret are required in production")
	ErrShortSecret   = errors.New("csrf_key must be 32 bytes")
)

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" || c.Database.Path == "" {
		return errors.New("addr and database.path are required")
	}
	if c.Database.MaxOpenConns < 1 {
		return errors.New("database.max_open_conns must be positive")
	}
	if c.Security.JWTTTL <= 0 {
		return errors.New("security.jwt_ttl must be positive")
	}
	if c.IsProduction() && (c.Security.CSRFKey == "" || c.Security.JWTSecret == "") {
		return ErrMissingSecret
	}
	if c.Security.CSRFKey != "" && len(c.Security.CSRFKey) != 32 {
		return ErrShortSecret
	}
	return nil
}
