// Package config assembles runtime settings from, in increasing priority,
// built-in defaults, an optional YAML file and the process environment.
// .env and .env.local are loaded first but never override variables that
// are already set.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"booky/internal/store"
)

// FileEnv names the variable holding the YAML config path.
const FileEnv = "BOOKY_CONFIG"

type Config struct {
	Addr        string            `yaml:"addr" validate:"required"`
	AppName     string            `yaml:"app_name" validate:"required"`
	Storage     StorageConfig     `yaml:"storage"`
	OpenLibrary OpenLibraryConfig `yaml:"openlibrary"`
	HTTP        HTTPConfig        `yaml:"http"`
}

type StorageConfig struct {
	Driver       string        `yaml:"driver" validate:"oneof=sqlite postgres memory"`
	DSN          string        `yaml:"dsn" validate:"required_if=Driver postgres"`
	SQLitePath   string        `yaml:"sqlite_path" validate:"required_if=Driver sqlite"`
	QueryTimeout time.Duration `yaml:"query_timeout" validate:"gte=0"`
}

type OpenLibraryConfig struct {
	BaseURL     string        `yaml:"base_url" validate:"required,url"`
	CoversURL   string        `yaml:"covers_url" validate:"required,url"`
	UserAgent   string        `yaml:"user_agent"`
	RPS         int           `yaml:"rps" validate:"gte=0"`
	MaxRetries  int           `yaml:"max_retries" validate:"gte=0,lte=5"`
	Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
	EscapeQuery bool          `yaml:"escape_query"`
}

type HTTPConfig struct {
	CORSOrigins    []string `yaml:"cors_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int      `yaml:"rate_limit_burst" validate:"gte=0"`
	EnableHSTS     bool     `yaml:"enable_hsts"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes" validate:"gt=0"`
}

func Default() Config {
	return Config{
		Addr:    ":8080",
		AppName: "Booky",
		Storage: StorageConfig{
			Driver:       store.DriverSQLite,
			SQLitePath:   defaultSQLitePath(),
			QueryTimeout: 5 * time.Second,
		},
		OpenLibrary: OpenLibraryConfig{
			BaseURL:   "https://openlibrary.org",
			CoversURL: "https://covers.openlibrary.org",
			UserAgent: "booky/1.0",
			Timeout:   15 * time.Second,
		},
		HTTP: HTTPConfig{
			CORSOrigins:    []string{"http://localhost:5173"},
			RateLimitRPS:   10,
			RateLimitBurst: 20,
			MaxBodyBytes:   1 << 20,
		},
	}
}

func defaultSQLitePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "booky.db"
	}
	return filepath.Join(dir, "booky", "booky.db")
}

// LoadEnvFiles reads .env and .env.local from the working directory.
func LoadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the configuration. path overrides BOOKY_CONFIG when set.
func Load(path string) (Config, error) {
	LoadEnvFiles()

	cfg := Default()
	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path != "" {
		if err := readFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Addr, "APP_ADDR")
	setString(&cfg.AppName, "APP_NAME")

	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Storage.DSN, "DB_DSN")
	setString(&cfg.Storage.SQLitePath, "SQLITE_PATH")

	setString(&cfg.OpenLibrary.BaseURL, "OPENLIBRARY_BASE_URL")
	setString(&cfg.OpenLibrary.CoversURL, "OPENLIBRARY_COVERS_URL")
	setString(&cfg.OpenLibrary.UserAgent, "OPENLIBRARY_USER_AGENT")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}

	var errs []error
	errs = append(errs,
		setDuration(&cfg.Storage.QueryTimeout, "DB_QUERY_TIMEOUT"),
		setInt(&cfg.OpenLibrary.RPS, "OPENLIBRARY_RPS"),
		setInt(&cfg.OpenLibrary.MaxRetries, "OPENLIBRARY_MAX_RETRIES"),
		setDuration(&cfg.OpenLibrary.Timeout, "OPENLIBRARY_TIMEOUT"),
		setBool(&cfg.OpenLibrary.EscapeQuery, "OPENLIBRARY_ESCAPE_QUERY"),
		setFloat(&cfg.HTTP.RateLimitRPS, "RATE_LIMIT_RPS"),
		setInt(&cfg.HTTP.RateLimitBurst, "RATE_LIMIT_BURST"),
		setBool(&cfg.HTTP.EnableHSTS, "ENABLE_HSTS"),
		setInt64(&cfg.HTTP.MaxBodyBytes, "MAX_BODY_BYTES"),
	)
	return errors.Join(errs...)
}

var validate = validator.New()

// Validate reports the first invalid field by its YAML name.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("invalid config: %s failed %q", fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("invalid config: %w", err)
}

// StoreOptions maps the storage section onto store.Options.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Driver:       c.Storage.Driver,
		DSN:          c.Storage.DSN,
		SQLitePath:   c.Storage.SQLitePath,
		QueryTimeout: c.Storage.QueryTimeout,
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
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

func setInt64(dst *int64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
