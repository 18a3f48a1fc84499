package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the signing secret used when JWT_SECRET is unset
// outside production.
const DefaultJWTSecret = "your-super-secret-key-that-should-be-in-your-env-file"

type Config struct {
	Environment        string
	Port               string
	JWTSecret          string
	UsingDefaultSecret bool
	LogLevel           string
	PublicURL          string
	CORSOrigins        []string
	TrustSellerHeader  bool
	MongoDBConfig      MongoDBConfig
	StorageConfig      StorageConfig
	RedisConfig        RedisConfig
	EmailConfig        EmailConfig
}

type MongoDBConfig struct {
	Driver   string
	URI      string
	Database string
}

type StorageConfig struct {
	Disk           string
	UploadDir      string
	MaxUploadBytes int64
	S3             S3Config
}

type S3Config struct {
	Bucket   string
	Region   string
	Key      string
	Secret   string
	Endpoint string
	URL      string
}

type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

type EmailConfig struct {
	PostmarkToken string
	Sender        string
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// CreateNewConfig reads .env (when present) and the process environment.
func CreateNewConfig() (*Config, error) {
	godotenv.Load(".env")

	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, which has the signature of
// os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	port := get("PORT", "5000")

	conf := Config{
		Environment: get("APP_ENV", "development"),
		Port:        port,
		JWTSecret:   get("JWT_SECRET", ""),
		LogLevel:    get("LOG_LEVEL", "info"),
		PublicURL:   strings.TrimRight(get("PUBLIC_URL", "http://localhost:"+port), "/"),
		CORSOrigins: splitList(get("CORS_ORIGINS", "*")),
		MongoDBConfig: MongoDBConfig{
			Driver:   get("DB_DRIVER", "mongo"),
			URI:      get("MONGO_URI", "mongodb://localhost:27017"),
			Database: get("MONGO_DB", "instaseller"),
		},
		StorageConfig: StorageConfig{
			Disk:      get("STORAGE_DISK", "local"),
			UploadDir: get("UPLOAD_DIR", "uploads"),
			S3: S3Config{
				Bucket:   get("S3_BUCKET", ""),
				Region:   get("S3_REGION", "us-east-1"),
				Key:      get("S3_KEY", ""),
				Secret:   get("S3_SECRET", ""),
				Endpoint: get("S3_ENDPOINT", ""),
				URL:      strings.TrimRight(get("S3_URL", ""), "/"),
			},
		},
		RedisConfig: RedisConfig{
			Addr:     get("REDIS_ADDR", ""),
			Password: get("REDIS_PASSWORD", ""),
		},
		EmailConfig: EmailConfig{
			PostmarkToken: get("POSTMARK_API_TOKEN", ""),
			Sender:        get("EMAIL_SENDER", "hello@instaseller.app"),
		},
	}

	if conf.JWTSecret == "" {
		if conf.IsProduction() {
			return nil, errors.New("config: JWT_SECRET must be set in production")
		}
		conf.JWTSecret = DefaultJWTSecret
		conf.UsingDefaultSecret = true
	}

	maxUploadMB, err := strconv.Atoi(get("MAX_UPLOAD_MB", "10"))
	if err != nil || maxUploadMB <= 0 {
		return nil, fmt.Errorf("config: MAX_UPLOAD_MB must be a positive integer")
	}
	conf.StorageConfig.MaxUploadBytes = int64(maxUploadMB) << 20

	ttl, err := time.ParseDuration(get("CATALOG_CACHE_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("config: CATALOG_CACHE_TTL: %w", err)
	}
	conf.RedisConfig.TTL = ttl

	conf.TrustSellerHeader, err = strconv.ParseBool(get("TRUST_SELLER_HEADER", "false"))
	if err != nil {
		return nil, fmt.Errorf("config: TRUST_SELLER_HEADER: %w", err)
	}

	switch conf.MongoDBConfig.Driver {
	case "mongo", "memory":
	default:
		return nil, fmt.Errorf("config: unknown DB_DRIVER %q", conf.MongoDBConfig.Driver)
	}

	switch conf.StorageConfig.Disk {
	case "local":
	case "s3":
		if conf.StorageConfig.S3.Bucket == "" {
			return nil, errors.New("config: S3_BUCKET is required when STORAGE_DISK=s3")
		}
	default:
		return nil, fmt.Errorf("config: unknown STORAGE_DISK %q", conf.StorageConfig.Disk)
	}

	return &conf, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
