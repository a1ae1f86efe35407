package user

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/staffdesk/internal/crud"
	"github.com/simp-lee/staffdesk/internal/domain"
)

// Repository looks up accounts for authentication.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a Repository backed by the given GORM database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByUsername retrieves a user by username. A missing account yields
// domain.ErrNotFound without a gorm "record not found" log line.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	res := r.db.WithContext(ctx).Where("username = ?", username).Limit(1).Find(&user)
	if res.Error != nil {
		return nil, crud.MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return crud.MapError(err)
	}
	return nil
}
