// internal/repository/assignment_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, id uint) (*model.Assignment, error)
	FindWithTermByID(ctx context.Context, db *gorm.DB, id uint) (*model.AssignmentWithTerm, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.Assignment, error)
	FindByTermAndDirection(ctx context.Context, db *gorm.DB, termID uint, direction model.Direction) (*model.Assignment, error)
	// FindOrCreate は (term, direction) のAssignmentを返し、無ければ作成します。created は今回作成したかどうか。
	FindOrCreate(ctx context.Context, tx *gorm.DB, termID uint, direction model.Direction) (a *model.Assignment, created bool, err error)
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	// FindUnlinkedForUser はユーザーにまだ紐付いていないAssignmentをID順に最大limit件返します
	FindUnlinkedForUser(ctx context.Context, db *gorm.DB, login string, limit int) ([]*model.Assignment, error)
}

type gormAssignmentRepository struct{}

func NewGormAssignmentRepository() AssignmentRepository {
	return &gormAssignmentRepository{}
}

func (r *gormAssignmentRepository) FindByID(ctx context.Context, db *gorm.DB, id uint) (*model.Assignment, error) {
	logger := middleware.GetLogger(ctx)
	var a model.Assignment
	result := db.WithContext(ctx).First(&a, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding assignment by ID in DB", "error", result.Error, "assignment_id", id)
		return nil, fmt.Errorf("gormAssignmentRepository.FindByID: %w", result.Error)
	}
	return &a, nil
}

func (r *gormAssignmentRepository) FindWithTermByID(ctx context.Context, db *gorm.DB, id uint) (*model.AssignmentWithTerm, error) {
	logger := middleware.GetLogger(ctx)
	var row model.AssignmentWithTerm
	result := db.WithContext(ctx).
		Table("assignments").
		Select("assignments.id, assignments.term_id, assignments.direction, terms.en, terms.ru, terms.domain").
		Joins("JOIN terms ON terms.id = assignments.term_id").
		Where("assignments.id = ?", id).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		logger.Error("Error finding assignment with term in DB", "error", result.Error, "assignment_id", id)
		return nil, fmt.Errorf("gormAssignmentRepository.FindWithTermByID: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, model.ErrNotFound
	}
	return &row, nil
}

func (r *gormAssignmentRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.Assignment, error) {
	var list []*model.Assignment
	if err := db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing assignments in DB", "error", err)
		return nil, fmt.Errorf("gormAssignmentRepository.FindAll: %w", err)
	}
	return list, nil
}

func (r *gormAssignmentRepository) FindByTermAndDirection(ctx context.Context, db *gorm.DB, termID uint, direction model.Direction) (*model.Assignment, error) {
	logger := middleware.GetLogger(ctx)
	var a model.Assignment
	result := db.WithContext(ctx).Where("term_id = ? AND direction = ?", termID, direction).First(&a)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding assignment by term and direction in DB",
			"error", result.Error,
			"term_id", termID,
			"direction", direction,
		)
		return nil, fmt.Errorf("gormAssignmentRepository.FindByTermAndDirection: %w", result.Error)
	}
	return &a, nil
}

func (r *gormAssignmentRepository) FindOrCreate(ctx context.Context, tx *gorm.DB, termID uint, direction model.Direction) (*model.Assignment, bool, error) {
	logger := middleware.GetLogger(ctx)
	a := &model.Assignment{TermID: termID, Direction: direction}
	// 同時リクエストで先に作られていた場合は何もしない (トランザクションを壊さない)
	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "term_id"}, {Name: "direction"}}, DoNothing: true}).
		Create(a)
	if result.Error != nil {
		logger.Error("Error creating assignment in DB", "error", result.Error, "term_id", termID, "direction", direction)
		return nil, false, fmt.Errorf("gormAssignmentRepository.FindOrCreate: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return a, true, nil
	}
	existing, err := r.FindByTermAndDirection(ctx, tx, termID, direction)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Delete はAssignmentを削除します。ユーザーとの紐付けはCASCADEで消える。
func (r *gormAssignmentRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Delete(&model.Assignment{}, id)
	if result.Error != nil {
		logger.Error("Error deleting assignment in DB", "error", result.Error, "assignment_id", id)
		return fmt.Errorf("gormAssignmentRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormAssignmentRepository) FindUnlinkedForUser(ctx context.Context, db *gorm.DB, login string, limit int) ([]*model.Assignment, error) {
	logger := middleware.GetLogger(ctx)
	var list []*model.Assignment
	linked := db.Model(&model.UserAssignment{}).
		Select("1").
		Where("user_assignments.assignment_id = assignments.id AND user_assignments.user_login = ?", login)
	result := db.WithContext(ctx).
		Where("NOT EXISTS (?)", linked).
		Order("id ASC").
		Limit(limit).
		Find(&list)
	if result.Error != nil {
		logger.Error("Error finding unlinked assignments in DB", "error", result.Error, "login", login)
		return nil, fmt.Errorf("gormAssignmentRepository.FindUnlinkedForUser: %w", result.Error)
	}
	return list, nil
}
