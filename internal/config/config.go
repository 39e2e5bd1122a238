// Package config loads settings from .env, an optional YAML file and the
// environment, in increasing order of precedence.
package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"-"`
	From string `yaml:"from"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url"`
}

// Config holds every runtime setting. Secrets are tagged yaml:"-" and only
// come from the environment.
type Config struct {
	Port        string   `yaml:"port"`
	CORSOrigins string   `yaml:"cors_origins"`
	FrontendURL string   `yaml:"frontend_url"`
	LogFile     string   `yaml:"log_file"`
	DBDriver    string   `yaml:"db_driver"`
	DBDSN       string   `yaml:"db_dsn"`
	MongoURI    string   `yaml:"mongo_uri"`
	MongoDB     string   `yaml:"mongo_db"`
	RedisURL    string   `yaml:"redis_url"`
	AdminEmails []string `yaml:"admin_emails"`

	JWTSecret            string        `yaml:"-"`
	TokenTTL             time.Duration `yaml:"token_ttl"`
	BcryptCost           int           `yaml:"bcrypt_cost"`
	VerificationTTL      time.Duration `yaml:"verification_ttl"`
	RequireVerification  bool          `yaml:"require_verification"`
	PendingSweepInterval time.Duration `yaml:"pending_sweep_interval"`

	SMTP  SMTPConfig  `yaml:"smtp"`
	MinIO MinIOConfig `yaml:"minio"`

	RazorpayKeyID      string `yaml:"razorpay_key_id"`
	RazorpayKeySecret  string `yaml:"-"`
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"-"`
	GoogleCallbackURL  string `yaml:"google_callback_url"`
}

func defaults() Config {
	return Config{
		Port:            "8080",
		CORSOrigins:     "*",
		FrontendURL:     "http://localhost:3000",
		DBDriver:        "sqlite",
		DBDSN:           "toolstore.db",
		MongoURI:        "mongodb://localhost:27017",
		MongoDB:         "toolstore",
		TokenTTL:        7 * 24 * time.Hour,
		BcryptCost:      10,
		VerificationTTL: 15 * time.Minute,
		SMTP:            SMTPConfig{Port: "587"},
		MinIO:           MinIOConfig{Bucket: "toolstore"},
	}
}

var envPaths = []string{".env", "../.env"}

// Load reads the configuration and exits the process if it is unusable.
func Load() Config {
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}
	cfg, err := LoadFrom(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("[config] %v", err)
	}
	log.Printf("[config] %s", cfg)
	return cfg
}

// LoadFrom applies defaults, then the YAML file at path (if any), then the environment.
func LoadFrom(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "mongo" {
		return cfg, fmt.Errorf("DB_DRIVER must be sqlite or mongo, got %q", cfg.DBDriver)
	}
	if cfg.JWTSecret == "" {
		// Tokens will not survive a restart.
		cfg.JWTSecret = uuid.NewString() + uuid.NewString()
		log.Printf("[config] JWT_SECRET not set; using an ephemeral secret")
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("CORS_ORIGINS", &c.CORSOrigins)
	str("FRONTEND_URL", &c.FrontendURL)
	str("LOG_FILE", &c.LogFile)
	str("DB_DRIVER", &c.DBDriver)
	str("DB_DSN", &c.DBDSN)
	str("MONGO_URI", &c.MongoURI)
	str("MONGO_DB", &c.MongoDB)
	str("REDIS_URL", &c.RedisURL)
	str("JWT_SECRET", &c.JWTSecret)
	str("SMTP_HOST", &c.SMTP.Host)
	str("SMTP_PORT", &c.SMTP.Port)
	str("SMTP_USER", &c.SMTP.User)
	str("SMTP_PASS", &c.SMTP.Pass)
	str("SMTP_FROM", &c.SMTP.From)
	str("MINIO_ENDPOINT", &c.MinIO.Endpoint)
	str("MINIO_ACCESS_KEY", &c.MinIO.AccessKey)
	str("MINIO_SECRET_KEY", &c.MinIO.SecretKey)
	str("MINIO_BUCKET", &c.MinIO.Bucket)
	str("MINIO_PUBLIC_URL", &c.MinIO.PublicURL)
	str("RAZORPAY_KEY_ID", &c.RazorpayKeyID)
	str("RAZORPAY_KEY_SECRET", &c.RazorpayKeySecret)
	str("GOOGLE_CLIENT_ID", &c.GoogleClientID)
	str("GOOGLE_CLIENT_SECRET", &c.GoogleClientSecret)
	str("GOOGLE_CALLBACK_URL", &c.GoogleCallbackURL)

	if v := os.Getenv("ADMIN_EMAILS"); v != "" {
		c.AdminEmails = splitList(v)
	}

	var errs []string
	dur := func(key string, dst *time.Duration) {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = b
		}
	}
	dur("TOKEN_TTL", &c.TokenTTL)
	dur("VERIFICATION_TTL", &c.VerificationTTL)
	dur("PENDING_SWEEP_INTERVAL", &c.PendingSweepInterval)
	boolean("REQUIRE_VERIFICATION", &c.RequireVerification)
	boolean("MINIO_USE_SSL", &c.MinIO.UseSSL)
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("BCRYPT_COST: %v", err))
		} else {
			c.BcryptCost = n
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c Config) String() string {
	dsn := c.DBDSN
	if c.DBDriver == "mongo" {
		dsn = maskPassword(c.MongoURI)
	}
	return fmt.Sprintf("PORT=%s DB_DRIVER=%s DB=%s LOG_FILE=%s REDIS=%s SMTP=%s MINIO=%s RAZORPAY=%t GOOGLE=%t ADMINS=%d",
		c.Port, c.DBDriver, dsn, c.LogFile, maskPassword(c.RedisURL), c.SMTP.Host, c.MinIO.Endpoint,
		c.RazorpayKeyID != "", c.GoogleClientID != "", len(c.AdminEmails))
}

var reURLPassword = regexp.MustCompile(`(://[^:/@]*:)([^@]+)(@)`)

func maskPassword(url string) string {
	return reURLPassword.ReplaceAllString(url, "${1}***${3}")
}
