// internal/repository/stats_repository.go
package repository

import (
	"context"
	"fmt"
	"time"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"

	"gorm.io/gorm"
)

// AttemptRow は試行回数ランキングの行。問題文は方向から呼び出し側で組み立てる。
type AttemptRow struct {
	AssignmentID uint
	TermID       uint
	Direction    model.Direction
	En           string
	Ru           string
	Attempts     int
	SolvedAt     *time.Time
}

type StatsRepository interface {
	Totals(ctx context.Context, db *gorm.DB, login string) (*model.StatsTotals, error)
	ByDomain(ctx context.Context, db *gorm.DB, login string) ([]model.DomainStats, error)
	TopAttempts(ctx context.Context, db *gorm.DB, login string, solved bool, limit int) ([]AttemptRow, error)
}

type gormStatsRepository struct{}

func NewGormStatsRepository() StatsRepository {
	return &gormStatsRepository{}
}

type totalsRow struct {
	Assignments   int64
	Solved        int64
	AttemptsTotal int64
}

type lastTimeRow struct {
	At *time.Time
}

func (r *gormStatsRepository) Totals(ctx context.Context, db *gorm.DB, login string) (*model.StatsTotals, error) {
	logger := middleware.GetLogger(ctx)
	var row totalsRow
	err := db.WithContext(ctx).
		Table("user_assignments").
		Select(`COUNT(*) AS assignments,
			COALESCE(SUM(CASE WHEN is_solved THEN 1 ELSE 0 END), 0) AS solved,
			COALESCE(SUM(attempts), 0) AS attempts_total`).
		Where("user_login = ?", login).
		Scan(&row).Error
	if err != nil {
		logger.Error("Error aggregating user stats in DB", "error", err, "login", login)
		return nil, fmt.Errorf("gormStatsRepository.Totals: %w", err)
	}

	// MAX() の結果は SQLite だと文字列になるため、並べ替えで最新の1件を取る
	lastSolved, err := r.latest(ctx, db, login, "solved_at")
	if err != nil {
		return nil, err
	}
	lastAnswered, err := r.latest(ctx, db, login, "last_answered_at")
	if err != nil {
		return nil, err
	}

	return &model.StatsTotals{
		Assignments:    int(row.Assignments),
		Solved:         int(row.Solved),
		Unsolved:       int(row.Assignments - row.Solved),
		AttemptsTotal:  int(row.AttemptsTotal),
		LastSolvedAt:   lastSolved,
		LastAnsweredAt: lastAnswered,
	}, nil
}

func (r *gormStatsRepository) latest(ctx context.Context, db *gorm.DB, login, column string) (*time.Time, error) {
	var row lastTimeRow
	err := db.WithContext(ctx).
		Table("user_assignments").
		Select(column+" AS at").
		Where("user_login = ? AND "+column+" IS NOT NULL", login).
		Order(column + " DESC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error finding latest timestamp in DB", "error", err, "login", login, "column", column)
		return nil, fmt.Errorf("gormStatsRepository.latest: %w", err)
	}
	return row.At, nil
}

func (r *gormStatsRepository) ByDomain(ctx context.Context, db *gorm.DB, login string) ([]model.DomainStats, error) {
	logger := middleware.GetLogger(ctx)
	var rows []model.DomainStats
	err := db.WithContext(ctx).
		Table("user_assignments").
		Select(`terms.domain AS domain,
			SUM(CASE WHEN user_assignments.is_solved THEN 1 ELSE 0 END) AS solved,
			SUM(CASE WHEN user_assignments.is_solved THEN 0 ELSE 1 END) AS unsolved`).
		Joins("JOIN assignments ON assignments.id = user_assignments.assignment_id").
		Joins("JOIN terms ON terms.id = assignments.term_id").
		Where("user_assignments.user_login = ?", login).
		Group("terms.domain").
		Order("solved DESC, domain ASC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Error aggregating stats by domain in DB", "error", err, "login", login)
		return nil, fmt.Errorf("gormStatsRepository.ByDomain: %w", err)
	}
	return rows, nil
}

// TopAttempts は試行回数の多い順に最大limit件返します。未解答側は試行が1回以上のものだけ。
func (r *gormStatsRepository) TopAttempts(ctx context.Context, db *gorm.DB, login string, solved bool, limit int) ([]AttemptRow, error) {
	logger := middleware.GetLogger(ctx)
	var rows []AttemptRow
	query := db.WithContext(ctx).
		Table("user_assignments").
		Select(`user_assignments.assignment_id, assignments.term_id, assignments.direction,
			terms.en, terms.ru, user_assignments.attempts, user_assignments.solved_at`).
		Joins("JOIN assignments ON assignments.id = user_assignments.assignment_id").
		Joins("JOIN terms ON terms.id = assignments.term_id").
		Where("user_assignments.user_login = ? AND user_assignments.is_solved = ?", login, solved)
	if !solved {
		query = query.Where("user_assignments.attempts > 0")
	}
	err := query.
		Order("user_assignments.attempts DESC, user_assignments.assignment_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		logger.Error("Error ranking attempts in DB", "error", err, "login", login, "solved", solved)
		return nil, fmt.Errorf("gormStatsRepository.TopAttempts: %w", err)
	}
	return rows, nil
}
