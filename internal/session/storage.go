package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	keyToken = "token"
	keyRole  = "role"
)

// Storage persists the session across process restarts.
type Storage interface {
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, s models.Session) error
	Clear(ctx context.Context) error
}

type GormStorage struct {
	DB *gorm.DB
}

func NewGormStorage(db *gorm.DB) (*GormStorage, error) {
	if err := db.AutoMigrate(&models.LocalStorage{}); err != nil {
		return nil, fmt.Errorf("migrate local storage: %w", err)
	}
	return &GormStorage{DB: db}, nil
}

func (r *GormStorage) Load(ctx context.Context) (models.Session, error) {
	var rows []models.LocalStorage
	if err := r.DB.WithContext(ctx).Where("key IN ?", []string{keyToken, keyRole}).Find(&rows).Error; err != nil {
		return models.Session{}, err
	}

	var s models.Session
	for _, row := range rows {
		switch row.Key {
		case keyToken:
			s.Token = row.Value
		case keyRole:
			s.Role = models.Role(row.Value)
		}
	}
	if s.Token == "" {
		return models.Session{}, nil
	}
	return s, nil
}

func (r *GormStorage) Save(ctx context.Context, s models.Session) error {
	if s.Token == "" {
		return errors.New("empty token")
	}
	rows := []models.LocalStorage{
		{Key: keyToken, Value: s.Token},
		{Key: keyRole, Value: string(s.Role)},
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
}

func (r *GormStorage) Clear(ctx context.Context) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Where("key IN ?", []string{keyToken, keyRole}).Delete(&models.LocalStorage{}).Error
	})
}
