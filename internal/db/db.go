package db

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/student-teacher-portal/internal/config"
	"github.com/BruksfildServices01/student-teacher-portal/internal/docstore"
	"github.com/BruksfildServices01/student-teacher-portal/internal/identity"
	"github.com/BruksfildServices01/student-teacher-portal/internal/infra/repository"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Document{},
		&models.Account{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func NewRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse REDIS_URL")
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrap(err, "ping redis")
	}
	return rdb, nil
}

// Backend is the storage selected by STORE_DRIVER. Credentials share the
// driver so accounts survive alongside the documents.
type Backend struct {
	Store       docstore.Store
	Credentials identity.Credentials
	Close       func()
}

// Open connects the backend selected by STORE_DRIVER. Close releases the
// store and its connections.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		s := docstore.NewMemoryStore()
		return &Backend{
			Store:       s,
			Credentials: identity.NewMemoryCredentials(),
			Close:       func() { _ = s.Close() },
		}, nil

	case config.DriverRedis:
		rdb, err := NewRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s, err := docstore.NewRedisStore(ctx, rdb, cfg.StoreNamespace)
		if err != nil {
			_ = rdb.Close()
			return nil, err
		}
		return &Backend{
			Store:       s,
			Credentials: repository.NewCredentialRedisRepository(rdb, cfg.StoreNamespace),
			Close: func() {
				_ = s.Close()
				_ = rdb.Close()
			},
		}, nil

	case config.DriverPostgres:
		gdb := NewDB(cfg)
		s := docstore.NewGormStore(gdb, cfg.StoreNamespace)
		s.Listen(ctx, cfg.DBUrl)
		return &Backend{
			Store:       s,
			Credentials: repository.NewCredentialGormRepository(gdb, cfg.StoreNamespace),
			Close: func() {
				_ = s.Close()
				if sqlDB, err := gdb.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	}

	return nil, errors.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
