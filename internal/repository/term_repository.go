// internal/repository/term_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"

	"gorm.io/gorm"
)

type TermRepository interface {
	Create(ctx context.Context, tx *gorm.DB, term *model.Term) error
	FindByID(ctx context.Context, db *gorm.DB, id uint) (*model.Term, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.Term, error)
	Update(ctx context.Context, tx *gorm.DB, term *model.Term) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	// FindByText は英語・ロシア語のどちらかに大文字小文字を無視して完全一致する最初の用語を返します
	FindByText(ctx context.Context, db *gorm.DB, text string) (*model.Term, error)
	// FindWithoutAssignment は指定方向のAssignmentをまだ持たない用語をID順に最大limit件返します
	FindWithoutAssignment(ctx context.Context, db *gorm.DB, direction model.Direction, limit int) ([]*model.Term, error)
}

type gormTermRepository struct{}

func NewGormTermRepository() TermRepository {
	return &gormTermRepository{}
}

func (r *gormTermRepository) Create(ctx context.Context, tx *gorm.DB, term *model.Term) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(term)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating term in DB", "error", result.Error, "en", term.En, "ru", term.Ru)
		return fmt.Errorf("gormTermRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormTermRepository) FindByID(ctx context.Context, db *gorm.DB, id uint) (*model.Term, error) {
	logger := middleware.GetLogger(ctx)
	var term model.Term
	result := db.WithContext(ctx).First(&term, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding term by ID in DB", "error", result.Error, "term_id", id)
		return nil, fmt.Errorf("gormTermRepository.FindByID: %w", result.Error)
	}
	return &term, nil
}

func (r *gormTermRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.Term, error) {
	var terms []*model.Term
	if err := db.WithContext(ctx).Order("id ASC").Find(&terms).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing terms in DB", "error", err)
		return nil, fmt.Errorf("gormTermRepository.FindAll: %w", err)
	}
	return terms, nil
}

func (r *gormTermRepository) Update(ctx context.Context, tx *gorm.DB, term *model.Term) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Model(&model.Term{ID: term.ID}).
		Select("en", "ru", "domain").
		Updates(term)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error updating term in DB", "error", result.Error, "term_id", term.ID)
		return fmt.Errorf("gormTermRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Delete は用語を削除します。Assignment・紐付け・閲覧履歴は外部キーのCASCADEで消える。
func (r *gormTermRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Delete(&model.Term{}, id)
	if result.Error != nil {
		logger.Error("Error deleting term in DB", "error", result.Error, "term_id", id)
		return fmt.Errorf("gormTermRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormTermRepository) FindByText(ctx context.Context, db *gorm.DB, text string) (*model.Term, error) {
	logger := middleware.GetLogger(ctx)
	lowered := strings.ToLower(text)
	var term model.Term
	result := db.WithContext(ctx).
		Where("LOWER(en) = ? OR LOWER(ru) = ?", lowered, lowered).
		Order("id ASC").
		First(&term)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding term by text in DB", "error", result.Error, "text", text)
		return nil, fmt.Errorf("gormTermRepository.FindByText: %w", result.Error)
	}
	return &term, nil
}

func (r *gormTermRepository) FindWithoutAssignment(ctx context.Context, db *gorm.DB, direction model.Direction, limit int) ([]*model.Term, error) {
	logger := middleware.GetLogger(ctx)
	var terms []*model.Term
	existing := db.Model(&model.Assignment{}).
		Select("1").
		Where("assignments.term_id = terms.id AND assignments.direction = ?", direction)
	result := db.WithContext(ctx).
		Where("NOT EXISTS (?)", existing).
		Order("id ASC").
		Limit(limit).
		Find(&terms)
	if result.Error != nil {
		logger.Error("Error finding terms without assignment in DB", "error", result.Error, "direction", direction)
		return nil, fmt.Errorf("gormTermRepository.FindWithoutAssignment: %w", result.Error)
	}
	return terms, nil
}
