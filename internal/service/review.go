package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

const (
	MinStars = 0
	MaxStars = 5

	DateLayout = "2006-01-02"
)

type ReviewService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

type NewReview struct {
	ProductID   string
	Stars       float64
	Description string
	Date        string
}

func (h *ReviewService) today() string {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return now().Format(DateLayout)
}

func (h *ReviewService) Add(ctx context.Context, username string, in NewReview) (*models.Review, error) {
	productID, err := parseProductID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if in.Stars < MinStars || in.Stars > MaxStars {
		return nil, newError(ErrValidation, "stars must be between %d and %d", MinStars, MaxStars)
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, newError(ErrValidation, "description is required")
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = h.today()
	}

	review := &models.Review{
		ProductID:   productID,
		Username:    username,
		Stars:       in.Stars,
		Description: description,
		Date:        date,
	}
	if err := h.Repo.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (h *ReviewService) ListByProduct(ctx context.Context, rawProductID string) ([]models.Review, error) {
	productID, err := parseProductID(rawProductID)
	if err != nil {
		return nil, err
	}
	return h.Repo.ListReviews(ctx, productID)
}

// Delete removes a review owned by username and returns it. An unknown id
// returns nil without error; someone else's review is forbidden.
func (h *ReviewService) Delete(ctx context.Context, username, rawID string) (*models.Review, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, newError(ErrValidation, "invalid review id")
	}

	review, err := h.Repo.GetReview(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if review.Username != username {
		return nil, newError(ErrForbidden, "you can only delete your own reviews")
	}

	if _, err := h.Repo.DeleteReview(ctx, id); err != nil {
		return nil, err
	}
	return review, nil
}
