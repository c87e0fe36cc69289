package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type thing struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func TestOpen_SQLiteAndDuplicateKey(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.AutoMigrate(&thing{}))
	require.NoError(t, db.Create(&thing{Name: "a"}).Error)

	err = db.Create(&thing{Name: "a"}).Error
	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err))

	require.NoError(t, Ping(ctx, db))
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), DriverSQLite, "")
	assert.Error(t, err)

	_, err = Open(context.Background(), "mysql", "dsn")
	assert.Error(t, err)
}

func TestIsDuplicateKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "gorm", err: fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), want: true},
		{name: "lib/pq", err: &pq.Error{Code: "23505"}, want: true},
		{name: "lib/pq other", err: &pq.Error{Code: "23503"}, want: false},
		{name: "other", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKey(tt.err))
		})
	}
}
