// internal/repository/user_term_repository.go
package repository

import (
	"context"
	"fmt"
	"time"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserTermRepository interface {
	// Touch は閲覧履歴を記録します。既にあれば last_viewed_at だけ更新する。
	Touch(ctx context.Context, tx *gorm.DB, login string, termID uint, viewedAt time.Time) error
	ListByUser(ctx context.Context, db *gorm.DB, login string) ([]model.UserTermResponse, error)
}

type gormUserTermRepository struct{}

func NewGormUserTermRepository() UserTermRepository {
	return &gormUserTermRepository{}
}

func (r *gormUserTermRepository) Touch(ctx context.Context, tx *gorm.DB, login string, termID uint, viewedAt time.Time) error {
	logger := middleware.GetLogger(ctx)
	ut := &model.UserTerm{UserLogin: login, TermID: termID, LastViewedAt: viewedAt}
	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_login"}, {Name: "term_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_viewed_at"}),
		}).
		Create(ut)
	if result.Error != nil {
		logger.Error("Error upserting user term in DB", "error", result.Error, "login", login, "term_id", termID)
		return fmt.Errorf("gormUserTermRepository.Touch: %w", result.Error)
	}
	return nil
}

func (r *gormUserTermRepository) ListByUser(ctx context.Context, db *gorm.DB, login string) ([]model.UserTermResponse, error) {
	logger := middleware.GetLogger(ctx)
	var rows []model.UserTermResponse
	result := db.WithContext(ctx).
		Table("user_terms").
		Select("user_terms.term_id, user_terms.last_viewed_at, terms.en, terms.ru, terms.domain").
		Joins("JOIN terms ON terms.id = user_terms.term_id").
		Where("user_terms.user_login = ?", login).
		Order("user_terms.last_viewed_at DESC, user_terms.id DESC").
		Scan(&rows)
	if result.Error != nil {
		logger.Error("Error listing user terms in DB", "error", result.Error, "login", login)
		return nil, fmt.Errorf("gormUserTermRepository.ListByUser: %w", result.Error)
	}
	return rows, nil
}
