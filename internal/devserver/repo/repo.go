package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/storefront/internal/devserver/models"
	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExist = errors.New("user already exist")
	ErrNotFound         = errors.New("record not found")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(ctx context.Context, db *gorm.DB) (*GormRepo, error) {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return nil, err
	}
	return &GormRepo{DB: db}, nil
}
