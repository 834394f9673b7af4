// internal/repository/user_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *model.User) error
	FindByLogin(ctx context.Context, db *gorm.DB, login string) (*model.User, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	AddPoints(ctx context.Context, tx *gorm.DB, login string, delta int) error
}

type gormUserRepository struct{}

func NewGormUserRepository() UserRepository {
	return &gormUserRepository{}
}

func (r *gormUserRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(user)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating user in DB", "error", result.Error, "login", user.Login)
		return fmt.Errorf("gormUserRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormUserRepository) FindByLogin(ctx context.Context, db *gorm.DB, login string) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User
	result := db.WithContext(ctx).Where("login = ?", login).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by login in DB", "error", result.Error, "login", login)
		return nil, fmt.Errorf("gormUserRepository.FindByLogin: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error counting users in DB", "error", err)
		return 0, fmt.Errorf("gormUserRepository.Count: %w", err)
	}
	return count, nil
}

// AddPoints はポイントを加算します。読み取りを挟まずに UPDATE 一発で行う。
func (r *gormUserRepository) AddPoints(ctx context.Context, tx *gorm.DB, login string, delta int) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.User{}).
		Where("login = ?", login).
		Update("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		logger.Error("Error adding points in DB", "error", result.Error, "login", login, "delta", delta)
		return fmt.Errorf("gormUserRepository.AddPoints: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
