// Package config handles loading and parsing application configuration.
//
// Sources, in priority order:
//  1. A local .env file (development convenience, loaded via godotenv)
//  2. A YAML file pointed at by CONFIG_PATH or --config
//  3. Environment variables (always override the YAML values)
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden by
// the corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing; better to crash at boot than to silently run with a blank
// signing secret.
type Config struct {
	// Env controls log format and verbosity. Valid values: "dev", "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"data/tutorhub.db"`

	// JWTSecret signs session tokens. Generate with: openssl rand -hex 32
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`

	// HTTPServer is embedded so its fields are accessible directly on
	// Config after promotion: cfg.Addr.
	HTTPServer `yaml:"http_server"`

	// SMTP configures password-reset mail delivery. When Host is empty
	// the server starts with mail delivery disabled (tokens are logged
	// instead; dev mode only).
	SMTP SMTP `yaml:"smtp"`

	// ObjectStore configures avatar storage. When Endpoint is empty the
	// server starts with avatar upload disabled.
	ObjectStore ObjectStore `yaml:"object_store"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:":8080"`
}

// SMTP holds the outgoing-mail account used for password resets.
type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username string `yaml:"username" env:"SMTP_USERNAME"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM" env-default:"TutorHub <no-reply@tutorhub.dev>"`
}

// ObjectStore holds the S3-compatible bucket avatar images live in.
// PublicURL is the base under which uploaded objects are reachable,
// e.g. "https://media.tutorhub.dev"; object URLs are PublicURL/key.
type ObjectStore struct {
	Endpoint  string `yaml:"endpoint" env:"OBJECT_STORE_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"OBJECT_STORE_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"OBJECT_STORE_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"OBJECT_STORE_BUCKET" env-default:"avatars"`
	UseSSL    bool   `yaml:"use_ssl" env:"OBJECT_STORE_USE_SSL" env-default:"true"`
	PublicURL string `yaml:"public_url" env:"OBJECT_STORE_PUBLIC_URL"`
}

// MustLoad reads, validates, and returns the application config.
//
// The name follows the Go convention: "Must" functions are allowed to
// fatal on failure, so callers don't check an error; if this returns,
// the config is valid.
func MustLoad() *Config {
	// .env is optional; ignore the error when the file doesn't exist.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flagPath := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flagPath
	}

	var cfg Config
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("config file does not exist: %s", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatalf("cannot read config: %s", err)
		}
		return &cfg
	}

	// No YAML file; environment variables only.
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}
	return &cfg
}
