// Package config loads the service configuration from a YAML file and
// environment variables prefixed with BYTELINK_.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/vadimbarashkov/bytelink/internal/entity"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const envPrefix = "bytelink"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env             string     `yaml:"env" envconfig:"ENV"`
	LogLevel        string     `yaml:"log_level" envconfig:"LOG_LEVEL"`
	BaseURL         string     `yaml:"base_url" envconfig:"BASE_URL"`
	ShortCodeLength int        `yaml:"short_code_length" envconfig:"SHORT_CODE_LENGTH"`
	MaxAllocRetries int        `yaml:"max_alloc_retries" envconfig:"MAX_ALLOC_RETRIES"`
	Storage         string     `yaml:"storage" envconfig:"STORAGE"`
	QR              QR         `yaml:"qr" envconfig:"QR"`
	HTTPServer      HTTPServer `yaml:"http_server" envconfig:"HTTP_SERVER"`
	Postgres        Postgres   `yaml:"postgres" envconfig:"POSTGRES"`
}

type QR struct {
	Size int `yaml:"size" envconfig:"SIZE"`
}

type HTTPServer struct {
	Port           int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	CertFile       string        `yaml:"cert_file" envconfig:"CERT_FILE"`
	KeyFile        string        `yaml:"key_file" envconfig:"KEY_FILE"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// TLSEnabled reports whether both a certificate and a key are configured.
func (s *HTTPServer) TLSEnabled() bool {
	return s.CertFile != "" && s.KeyFile != ""
}

type Postgres struct {
	User            string        `yaml:"user" envconfig:"USER"`
	Password        string        `yaml:"password" envconfig:"PASSWORD"`
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	DB              string        `yaml:"db" envconfig:"DB"`
	SSLMode         string        `yaml:"sslmode" envconfig:"SSLMODE"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" envconfig:"CONN_MAX_IDLE_TIME"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MigrationsPath  string        `yaml:"migrations_path" envconfig:"MIGRATIONS_PATH"`
}

var defaultPostgres = Postgres{
	Host:            "localhost",
	Port:            5432,
	SSLMode:         "disable",
	ConnMaxIdleTime: 5 * time.Minute,
	ConnMaxLifetime: 30 * time.Minute,
	MaxIdleConns:    5,
	MaxOpenConns:    25,
	MigrationsPath:  "file://migrations",
}

func (p *Postgres) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

// Load reads the config file at path, applies BYTELINK_ environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config
	setDefaults(&cfg)

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to process environment: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (cfg *Config) Validate() error {
	switch cfg.Env {
	case EnvDev, EnvStage, EnvProd:
	default:
		return fmt.Errorf("%w: unknown env %q", ErrInvalidConfig, cfg.Env)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, cfg.LogLevel)
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base url must be an absolute http(s) url", ErrInvalidConfig)
	}

	if cfg.ShortCodeLength < 1 || cfg.ShortCodeLength > entity.MaxShortCodeLength {
		return fmt.Errorf("%w: short code length must be between 1 and %d", ErrInvalidConfig, entity.MaxShortCodeLength)
	}

	if cfg.MaxAllocRetries < 1 {
		return fmt.Errorf("%w: max alloc retries must be positive", ErrInvalidConfig)
	}

	if cfg.QR.Size < 1 {
		return fmt.Errorf("%w: qr size must be positive", ErrInvalidConfig)
	}

	switch cfg.Storage {
	case StorageMemory:
	case StoragePostgres:
		if cfg.Postgres.User == "" || cfg.Postgres.DB == "" {
			return fmt.Errorf("%w: postgres user and db are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalidConfig, cfg.Storage)
	}

	return nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.LogLevel = "info"
	cfg.BaseURL = "http://localhost:8080"
	cfg.ShortCodeLength = 6
	cfg.MaxAllocRetries = 5
	cfg.Storage = StoragePostgres
	cfg.QR = QR{Size: 200}
	cfg.HTTPServer = defaultHTTPServer
	cfg.Postgres = defaultPostgres
}
