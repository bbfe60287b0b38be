package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageMongo  = "mongo"
	StorageSQLite = "sqlite"

	UploadLocal = "local"
	UploadS3    = "s3"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the application configuration, read from the environment.
type Config struct {
	Addr          string `env:"ADDR" envDefault:":5000"`
	Env           string `env:"APP_ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"mongo"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"blog.db"`
	SessionSecret string `env:"SESSION_SECRET" envDefault:"change-me-in-production"`
	SecureCookies bool   `env:"SECURE_COOKIES" envDefault:"false"`
	BodyLimit     int64  `env:"BODY_LIMIT_BYTES" envDefault:"1048576"`

	Mongo   MongoConfig
	Uploads UploadConfig
}

// MongoConfig holds the document database connection settings.
type MongoConfig struct {
	URI             string        `env:"MONGODB_URI"`
	Database        string        `env:"MONGODB_DATABASE" envDefault:"blog"`
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"2s"`
}

// UploadConfig selects where uploaded images go.
type UploadConfig struct {
	Driver   string `env:"UPLOAD_DRIVER" envDefault:"local"`
	Dir      string `env:"UPLOAD_DIR" envDefault:"uploads"`
	BaseURL  string `env:"UPLOAD_BASE_URL" envDefault:"/uploads/"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES" envDefault:"5242880"`

	S3Bucket         string `env:"S3_BUCKET"`
	S3Region         string `env:"S3_REGION"`
	S3Endpoint       string `env:"S3_ENDPOINT"`
	S3AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"S3_SECRET_ACCESS_KEY"`
	S3BaseURL        string `env:"S3_BASE_URL"`
	S3ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements env tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("%w: MONGODB_URI is required when STORAGE_DRIVER=mongo", ErrInvalidConfig)
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: SQLITE_PATH must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORAGE_DRIVER %q", ErrInvalidConfig, c.StorageDriver)
	}

	switch c.Uploads.Driver {
	case UploadLocal:
		if c.Uploads.Dir == "" {
			return fmt.Errorf("%w: UPLOAD_DIR must not be empty", ErrInvalidConfig)
		}
	case UploadS3:
		if c.Uploads.S3Bucket == "" || c.Uploads.S3Region == "" {
			return fmt.Errorf("%w: S3_BUCKET and S3_REGION are required when UPLOAD_DRIVER=s3", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown UPLOAD_DRIVER %q", ErrInvalidConfig, c.Uploads.Driver)
	}

	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("%w: UPLOAD_MAX_BYTES must be positive", ErrInvalidConfig)
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
