package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Addr)
	assert.Equal(t, "blog.db", cfg.SQLitePath)
	assert.Equal(t, "blog", cfg.Mongo.Database)
	assert.Equal(t, 10*time.Second, cfg.Mongo.ConnectTimeout)
	assert.Equal(t, UploadLocal, cfg.Uploads.Driver)
	assert.Equal(t, int64(5<<20), cfg.Uploads.MaxBytes)
	assert.Equal(t, int64(1<<20), cfg.BodyLimit)
	assert.False(t, cfg.IsProduction())
}

func TestLoadMongo(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "inkblog")
	t.Setenv("MONGODB_RETRY_ATTEMPTS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "inkblog", cfg.Mongo.Database)
	assert.Equal(t, 5, cfg.Mongo.RetryAttempts)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			StorageDriver: StorageSQLite,
			SQLitePath:    "blog.db",
			Uploads:       UploadConfig{Driver: UploadLocal, Dir: "uploads", MaxBytes: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"sqlite ok", func(*Config) {}, true},
		{"mongo without uri", func(c *Config) { c.StorageDriver = StorageMongo }, false},
		{"mongo with uri", func(c *Config) { c.StorageDriver = StorageMongo; c.Mongo.URI = "mongodb://db" }, true},
		{"unknown storage", func(c *Config) { c.StorageDriver = "redis" }, false},
		{"s3 without bucket", func(c *Config) { c.Uploads.Driver = UploadS3 }, false},
		{"s3 complete", func(c *Config) {
			c.Uploads.Driver = UploadS3
			c.Uploads.S3Bucket = "media"
			c.Uploads.S3Region = "eu-west-1"
		}, true},
		{"unknown upload driver", func(c *Config) { c.Uploads.Driver = "ftp" }, false},
		{"zero upload limit", func(c *Config) { c.Uploads.MaxBytes = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
