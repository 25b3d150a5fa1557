package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/you/adminconsole/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBToken represents the database model for a stored session token
type DBToken struct {
	Key       string `gorm:"column:storage_key;primaryKey;size:128"`
	Token     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (DBToken) TableName() string {
	return "console_tokens"
}

// TokenSQLRepository implements domain.TokenStore using GORM
type TokenSQLRepository struct {
	db  *gorm.DB
	key string
}

// NewTokenSQLRepository creates a SQL-backed token store, migrating its table first
func NewTokenSQLRepository(db *gorm.DB, key string) (domain.TokenStore, error) {
	if err := db.AutoMigrate(&DBToken{}); err != nil {
		return nil, fmt.Errorf("failed to migrate console_tokens table: %w", err)
	}
	return &TokenSQLRepository{db: db, key: key}, nil
}

// Save implements domain.TokenStore
func (r *TokenSQLRepository) Save(ctx context.Context, token string) error {
	row := &DBToken{Key: r.key, Token: token, UpdatedAt: time.Now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Load implements domain.TokenStore
func (r *TokenSQLRepository) Load(ctx context.Context) (string, error) {
	var row DBToken
	err := r.db.WithContext(ctx).Where("storage_key = ?", r.key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return row.Token, nil
}

// Clear implements domain.TokenStore
func (r *TokenSQLRepository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("storage_key = ?", r.key).Delete(&DBToken{}).Error; err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
