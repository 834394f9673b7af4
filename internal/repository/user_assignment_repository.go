// internal/repository/user_assignment_repository.go
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

type UserAssignmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, link *model.UserAssignment) error
	// CreateIfMissing は紐付けが無ければ作成します。既にあれば created=false。
	CreateIfMissing(ctx context.Context, tx *gorm.DB, login string, assignmentID uint) (created bool, err error)
	FindByUserAndAssignment(ctx context.Context, db *gorm.DB, login string, assignmentID uint) (*model.UserAssignment, error)
	Save(ctx context.Context, tx *gorm.DB, link *model.UserAssignment) error
	// ListRowsByUser はユーザーの進捗一覧を未解答→解答済み、ID順で返します。solved が nil なら全件。
	ListRowsByUser(ctx context.Context, db *gorm.DB, login string, solved *bool) ([]model.UserAssignmentRow, error)
}

type gormUserAssignmentRepository struct{}

func NewGormUserAssignmentRepository() UserAssignmentRepository {
	return &gormUserAssignmentRepository{}
}

func (r *gormUserAssignmentRepository) Create(ctx context.Context, tx *gorm.DB, link *model.UserAssignment) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Create(link)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error creating user assignment in DB",
			"error", result.Error,
			"login", link.UserLogin,
			"assignment_id", link.AssignmentID,
		)
		return fmt.Errorf("gormUserAssignmentRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormUserAssignmentRepository) CreateIfMissing(ctx context.Context, tx *gorm.DB, login string, assignmentID uint) (bool, error) {
	logger := middleware.GetLogger(ctx)
	link := &model.UserAssignment{UserLogin: login, AssignmentID: assignmentID}
	result := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_login"}, {Name: "assignment_id"}}, DoNothing: true}).
		Create(link)
	if result.Error != nil {
		logger.Error("Error creating user assignment in DB", "error", result.Error, "login", login, "assignment_id", assignmentID)
		return false, fmt.Errorf("gormUserAssignmentRepository.CreateIfMissing: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormUserAssignmentRepository) FindByUserAndAssignment(ctx context.Context, db *gorm.DB, login string, assignmentID uint) (*model.UserAssignment, error) {
	logger := middleware.GetLogger(ctx)
	var link model.UserAssignment
	result := db.WithContext(ctx).Where("user_login = ? AND assignment_id = ?", login, assignmentID).First(&link)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user assignment in DB", "error", result.Error, "login", login, "assignment_id", assignmentID)
		return nil, fmt.Errorf("gormUserAssignmentRepository.FindByUserAndAssignment: %w", result.Error)
	}
	return &link, nil
}

func (r *gormUserAssignmentRepository) Save(ctx context.Context, tx *gorm.DB, link *model.UserAssignment) error {
	logger := middleware.GetLogger(ctx)
	// Select でゼロ値 (false, 0, NULL) も書き込む
	result := tx.WithContext(ctx).Model(link).
		Select("assignment_id", "is_solved", "solved_at", "attempts", "last_answered_at").
		Updates(link)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error saving user assignment in DB", "error", result.Error, "user_assignment_id", link.ID)
		return fmt.Errorf("gormUserAssignmentRepository.Save: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormUserAssignmentRepository) ListRowsByUser(ctx context.Context, db *gorm.DB, login string, solved *bool) ([]model.UserAssignmentRow, error) {
	logger := middleware.GetLogger(ctx)
	var rows []model.UserAssignmentRow
	query := db.WithContext(ctx).
		Table("user_assignments").
		Select(`user_assignments.assignment_id, assignments.term_id, assignments.direction,
			user_assignments.is_solved, user_assignments.solved_at, user_assignments.attempts,
			user_assignments.last_answered_at, terms.en, terms.ru`).
		Joins("JOIN assignments ON assignments.id = user_assignments.assignment_id").
		Joins("JOIN terms ON terms.id = assignments.term_id").
		Where("user_assignments.user_login = ?", login)
	if solved != nil {
		query = query.Where("user_assignments.is_solved = ?", *solved)
	}
	result := query.
		Order("user_assignments.is_solved ASC, user_assignments.assignment_id ASC").
		Scan(&rows)
	if result.Error != nil {
		logger.Error("Error listing user assignments in DB", "error", result.Error, "login", login)
		return nil, fmt.Errorf("gormUserAssignmentRepository.ListRowsByUser: %w", result.Error)
	}
	return rows, nil
}
