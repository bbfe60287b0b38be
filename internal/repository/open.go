package repository

import (
	"context"
	"fmt"

	"inkblog/internal/config"
	"inkblog/internal/utils"

	"github.com/rs/zerolog/log"
)

// Open builds the post repository selected by cfg.StorageDriver and
// prepares its schema. The returned close function releases the connection.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (PostRepository, func(context.Context) error, error) {
	switch cfg.StorageDriver {
	case config.StorageMongo:
		db, err := utils.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		repo := NewMongoPostRepository(db, opts...)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = db.Client().Disconnect(ctx)
			return nil, nil, err
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("Using MongoDB post store")
		return repo, db.Client().Disconnect, nil

	case config.StorageSQLite:
		db, err := utils.InitDatabase(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		repo := NewPostRepository(db, opts...)
		if err := repo.AutoMigrate(); err != nil {
			_ = sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to migrate posts table: %w", err)
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("Using SQLite post store")
		return repo, func(context.Context) error { return sqlDB.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown STORAGE_DRIVER %q", config.ErrInvalidConfig, cfg.StorageDriver)
	}
}
