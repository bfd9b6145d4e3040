package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	Env       string `yaml:"env" env:"APP_ENV" env-default:"local"`
	SentryDSN string `yaml:"sentry_dsn" env:"SENTRY_DSN"`

	HTTP      HTTPConfig      `yaml:"http"`
	AI        AIConfig        `yaml:"ai"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Redis     RedisConfig     `yaml:"redis"`
	Storage   StorageConfig   `yaml:"storage"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Task      TaskConfig      `yaml:"task"`
}

type HTTPConfig struct {
	Port            string        `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

type AIConfig struct {
	APIKey      string        `yaml:"api_key" env:"GEMINI_API_KEY"`
	BaseURL     string        `yaml:"base_url" env:"GEMINI_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	TextModel   string        `yaml:"text_model" env:"AI_TEXT_MODEL" env-default:"gemini-2.0-flash"`
	ImageModel  string        `yaml:"image_model" env:"AI_IMAGE_MODEL" env-default:"gemini-2.0-flash-preview-image-generation"`
	TextBackend string        `yaml:"text_backend" env:"AI_TEXT_BACKEND" env-default:"rest"`
	Timeout     time.Duration `yaml:"timeout" env:"AI_TIMEOUT" env-default:"90s"`
	Debug       bool          `yaml:"debug" env:"AI_DEBUG"`
	Brand       string        `yaml:"brand" env:"AI_BRAND" env-default:"SAASNEXT"`
	Signature   string        `yaml:"signature" env:"AI_SIGNATURE" env-default:"Deepak Bagada"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DB_DRIVER" env-default:"sqlite"`
	DSN    string `yaml:"dsn" env:"DB_DSN" env-default:"carousel.db"`
}

type SessionConfig struct {
	Store string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
	TTL   time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"2h"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type StorageConfig struct {
	Provider  string `yaml:"provider" env:"STORAGE_PROVIDER"`
	Bucket    string `yaml:"bucket" env:"AWS_BUCKET"`
	Region    string `yaml:"region" env:"AWS_REGION"`
	AccessKey string `yaml:"access_key" env:"AWS_ACCESS_KEY_ID"`
	SecretKey string `yaml:"secret_key" env:"AWS_SECRET_ACCESS_KEY"`
	Endpoint  string `yaml:"endpoint" env:"AWS_ENDPOINT"`
	CDNDomain string `yaml:"cdn_domain" env:"AWS_CDN_DOMAIN"`
	BasePath  string `yaml:"base_path" env:"STORAGE_BASE_PATH" env-default:"carousel"`
	BaseURL   string `yaml:"base_url" env:"STORAGE_BASE_URL" env-default:"http://localhost:8080/uploads"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"0.5"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"3"`
}

type TaskConfig struct {
	LogRetentionDays int `yaml:"log_retention_days" env:"LOG_RETENTION_DAYS" env-default:"30"`
}

// MustLoad reads the config file given by -config / CONFIG_PATH, or the
// environment alone when neither is set.
func MustLoad() *Config {
	cfg, err := Load(fetchConfigPath())
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("cannot read env config: %w", err)
		}
		return &cfg, cfg.validate()
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	return &cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.AI.TextBackend {
	case "rest", "sdk":
	default:
		return fmt.Errorf("unsupported AI_TEXT_BACKEND: %s", c.AI.TextBackend)
	}
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported SESSION_STORE: %s", c.Session.Store)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.Database.Driver)
	}
	return nil
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
