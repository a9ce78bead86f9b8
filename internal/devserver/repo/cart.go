package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/devserver/models"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	items := []models.Product{}
	err := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Joins("JOIN cart_items ON cart_items.product_id = products.id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart is idempotent: adding a product twice keeps one entry.
func (r *GormRepo) AddToCart(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	item := models.CartItem{UserID: userID, ProductID: productID}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, productID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
