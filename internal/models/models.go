package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// prices go out as JSON numbers, as the web client expects
	decimal.MarshalJSONWithoutQuotes = true
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"   json:"_id"`
	Username     string    `gorm:"uniqueIndex;not null"   json:"username"`
	PasswordHash string    `gorm:"not null"               json:"-"`
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"     json:"_id"`
	Name        string          `gorm:"not null;index"           json:"name"`
	Description string          `gorm:"not null"                 json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"price"`
}

type CartItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"                            json:"_id"`
	Username  string          `gorm:"uniqueIndex:idx_cart_user_product;not null"      json:"username"`
	ProductID uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_cart_user_product;not null" json:"productId"`
	Name      string          `gorm:"not null"                                        json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `gorm:"type:numeric(12,4);not null"                     json:"price"`
	Quantity  int             `gorm:"not null;default:1;check:quantity>0"             json:"quantity"`
}

type Review struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"   json:"_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;index;not null" json:"productId"`
	Username    string    `gorm:"not null"               json:"username"`
	Stars       float64   `gorm:"not null"               json:"stars"`
	Description string    `gorm:"not null"               json:"description"`
	Date        string    `gorm:"not null"               json:"date"`
}

// RevokedToken is a deny-list entry for a logged-out token. ExpiresAt is
// the token's own expiry in unix seconds, 0 when it never expires.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey"             json:"jti"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ExpiresAt int64     `gorm:"not null;index"         json:"expires_at"`
	RevokedAt int64     `gorm:"not null"               json:"revoked_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}

func All() []any {
	return []any{&User{}, &Product{}, &CartItem{}, &Review{}, &RevokedToken{}}
}
