package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/google/uuid"
)

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}

func (r *GormRepo) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.DB.WithContext(ctx).Where("product_id = ?", productID).Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *GormRepo) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{})
	return res.RowsAffected, res.Error
}
