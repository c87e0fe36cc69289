package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"gorm.io/gorm/clause"
)

// RevokeToken is idempotent: revoking the same jti twice keeps one row.
func (r *GormRepo) RevokeToken(ctx context.Context, token *models.RevokedToken) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(token).Error
}

func (r *GormRepo) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpiredTokens drops deny-list entries whose token has expired on
// its own. Entries for non-expiring tokens are kept.
func (r *GormRepo) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at > 0 AND expires_at < ?", now.Unix()).
		Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}
