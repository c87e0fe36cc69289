package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) ListCart(ctx context.Context, username string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("username = ?", username).Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) FindCartItem(ctx context.Context, username string, productID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.DB.WithContext(ctx).
		Where("username = ? AND product_id = ?", username, productID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddCartItem inserts item or, when the (username, product) row already
// exists, adds item.Quantity to it capped at max. The stored row is
// returned.
func (r *GormRepo) AddCartItem(ctx context.Context, item *models.CartItem, max int) (*models.CartItem, error) {
	sum := gorm.Expr(
		"CASE WHEN cart_items.quantity + excluded.quantity > ? THEN ? ELSE cart_items.quantity + excluded.quantity END",
		max, max,
	)
	var stored models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{"quantity": sum}),
		}).Create(item).Error
		if err != nil {
			return err
		}
		return tx.Where("username = ? AND product_id = ?", item.Username, item.ProductID).First(&stored).Error
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// IncrementCartItem adds one to the row's quantity unless it is already
// at max. It returns gorm.ErrRecordNotFound when there is no such row.
func (r *GormRepo) IncrementCartItem(ctx context.Context, username string, productID uuid.UUID, max int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CartItem{}).
			Where("username = ? AND product_id = ? AND quantity < ?", username, productID, max).
			Update("quantity", gorm.Expr("quantity + 1")).Error; err != nil {
			return err
		}
		return tx.Where("username = ? AND product_id = ?", username, productID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) SetCartItemQuantity(ctx context.Context, username string, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("username = ? AND product_id = ?", username, productID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("username = ? AND product_id = ?", username, productID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, username string, productID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("username = ? AND product_id = ?", username, productID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) ClearCart(ctx context.Context, username string) (int64, error) {
	res := r.DB.WithContext(ctx).Where("username = ?", username).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
