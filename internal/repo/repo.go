package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/db"
	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

func New(gdb *gorm.DB) *GormRepo {
	return &GormRepo{DB: gdb}
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

func (r *GormRepo) Ping(ctx context.Context) error {
	return db.Ping(ctx, r.DB)
}
