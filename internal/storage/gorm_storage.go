package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type GormStorage struct {
	db *gorm.DB
}

func NewGormStorage(driver, dsn string) (*GormStorage, error) {
	var gormDialector gorm.Dialector
	if driver == "postgres" {
		gormDialector = postgres.Open(dsn)
	} else if driver == "sqlite" {
		gormDialector = sqlite.Open(dsn)
	} else {
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := gorm.Open(gormDialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	return &GormStorage{db: db}, nil
}

func (s *GormStorage) Migrate(ctx context.Context) error {
	return s.db.AutoMigrate(
		&StoreCredential{},
		&InstallEvent{},
	)
}

// Credentials

func (s *GormStorage) GetCredential(ctx context.Context, storeHash string) (*StoreCredential, error) {
	var c StoreCredential
	result := s.db.WithContext(ctx).First(&c, "store_hash = ?", storeHash)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil // not found is nil, consistent with the memory backend
		}
		return nil, result.Error
	}
	return &c, nil
}

func (s *GormStorage) SaveCredential(ctx context.Context, c StoreCredential) error {
	now := time.Now()
	if c.InstalledAt.IsZero() {
		c.InstalledAt = now
	}
	c.UpdatedAt = now
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "scope", "updated_at"}),
	}).Create(&c).Error
}

func (s *GormStorage) DeleteCredential(ctx context.Context, storeHash string) error {
	return s.db.WithContext(ctx).Delete(&StoreCredential{}, "store_hash = ?", storeHash).Error
}

func (s *GormStorage) ListCredentials(ctx context.Context) ([]StoreCredential, error) {
	var creds []StoreCredential
	result := s.db.WithContext(ctx).Order("store_hash").Find(&creds)
	return creds, result.Error
}

// Events

func (s *GormStorage) AppendEvent(ctx context.Context, e InstallEvent) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	return s.db.WithContext(ctx).Create(&e).Error
}

func (s *GormStorage) ListEvents(ctx context.Context) ([]InstallEvent, error) {
	var events []InstallEvent
	result := s.db.WithContext(ctx).Order("occurred_at").Find(&events)
	return events, result.Error
}

func (s *GormStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
