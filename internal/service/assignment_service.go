// internal/service/assignment_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"
	"go_vocab_cards/internal/repository"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

type AssignmentService interface {
	ListAssignments(ctx context.Context) ([]model.AssignmentResponse, error)
	GetAssignment(ctx context.Context, id uint) (*model.AssignmentResponse, error)
	ListUserAssignments(ctx context.Context, login string, solved *bool) ([]model.UserAssignmentResponse, error)
	DeleteAssignment(ctx context.Context, id uint) error
	CreateForUser(ctx context.Context, login string, req *model.CreateAssignmentRequest) (*model.CreateAssignmentResponse, error)
	Answer(ctx context.Context, id uint, login string, req *model.AnswerRequest) (*model.AnswerResponse, error)
	SwitchDirection(ctx context.Context, id uint, login string) (*model.SwitchDirectionResponse, error)
	Generate(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResponse, error)
	AddAssignmentsToUser(ctx context.Context, req *model.AddAssignmentsRequest) (*model.AddAssignmentsResponse, error)
	MarkUnsolved(ctx context.Context, id uint, login string, req *model.MarkUnsolvedRequest) (*model.MarkUnsolvedResponse, error)
}

type assignmentService struct {
	db             *gorm.DB
	userRepo       repository.UserRepository
	termRepo       repository.TermRepository
	assignmentRepo repository.AssignmentRepository
	linkRepo       repository.UserAssignmentRepository
	now            func() time.Time
}

func NewAssignmentService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	termRepo repository.TermRepository,
	assignmentRepo repository.AssignmentRepository,
	linkRepo repository.UserAssignmentRepository,
) AssignmentService {
	return &assignmentService{
		db:             db,
		userRepo:       userRepo,
		termRepo:       termRepo,
		assignmentRepo: assignmentRepo,
		linkRepo:       linkRepo,
		now:            time.Now,
	}
}

var (
	errAssignmentNotFound = model.NewAppError("ASSIGNMENT_NOT_FOUND", "assignment not found", "id", model.ErrNotFound)
	errNotAssigned        = model.NewAppError("NOT_ASSIGNED", "this assignment is not assigned to you", "", model.ErrForbidden)
)

func toAssignmentResponse(a *model.Assignment, _ int) model.AssignmentResponse {
	return model.AssignmentResponse{ID: a.ID, TermID: a.TermID, Direction: a.Direction}
}

func (s *assignmentService) ListAssignments(ctx context.Context) ([]model.AssignmentResponse, error) {
	list, err := s.assignmentRepo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, model.NewAppError("NO_ASSIGNMENTS", "no assignments found", "", model.ErrNotFound)
	}
	return lo.Map(list, toAssignmentResponse), nil
}

func (s *assignmentService) GetAssignment(ctx context.Context, id uint) (*model.AssignmentResponse, error) {
	a, err := s.assignmentRepo.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errAssignmentNotFound
		}
		return nil, err
	}
	resp := toAssignmentResponse(a, 0)
	return &resp, nil
}

func (s *assignmentService) ListUserAssignments(ctx context.Context, login string, solved *bool) ([]model.UserAssignmentResponse, error) {
	rows, err := s.linkRepo.ListRowsByUser(ctx, s.db, login, solved)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.NewAppError("NO_ASSIGNMENTS", "no assignments for this user", "", model.ErrNotFound)
	}
	return lo.Map(rows, func(row model.UserAssignmentRow, _ int) model.UserAssignmentResponse {
		term := &model.Term{ID: row.TermID, En: row.En, Ru: row.Ru}
		resp := model.UserAssignmentResponse{
			AssignmentID:   row.AssignmentID,
			TermID:         row.TermID,
			Direction:      row.Direction,
			IsSolved:       row.IsSolved,
			SolvedAt:       row.SolvedAt,
			Attempts:       row.Attempts,
			LastAnsweredAt: row.LastAnsweredAt,
			Question:       row.Direction.Question(term),
		}
		if row.IsSolved {
			resp.Expected = lo.ToPtr(row.Direction.Expected(term))
		}
		return resp
	}), nil
}

func (s *assignmentService) DeleteAssignment(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.assignmentRepo.Delete(ctx, tx, id)
	})
	if errors.Is(err, model.ErrNotFound) {
		return errAssignmentNotFound
	}
	if err == nil {
		middleware.GetLogger(ctx).Info("Assignment deleted", "assignment_id", id)
	}
	return err
}

func (s *assignmentService) CreateForUser(ctx context.Context, login string, req *model.CreateAssignmentRequest) (*model.CreateAssignmentResponse, error) {
	direction := model.DirectionOrDefault(req.Direction)
	if !direction.Valid() {
		return nil, model.NewAppError("INVALID_DIRECTION", "direction must be EnToRu or RuToEn", "direction", model.ErrInvalidInput)
	}

	var resp *model.CreateAssignmentResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		term, err := s.termRepo.FindByID(ctx, tx, req.TermID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("TERM_NOT_FOUND", "term not found", "termId", model.ErrNotFound)
			}
			return err
		}

		a, _, err := s.assignmentRepo.FindOrCreate(ctx, tx, term.ID, direction)
		if err != nil {
			return err
		}

		alreadyLinked := model.NewAppError("ALREADY_ASSIGNED", "this assignment is already assigned to you", "termId", model.ErrConflict)
		if _, err := s.linkRepo.FindByUserAndAssignment(ctx, tx, login, a.ID); err == nil {
			return alreadyLinked
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}
		if err := s.linkRepo.Create(ctx, tx, &model.UserAssignment{UserLogin: login, AssignmentID: a.ID}); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return alreadyLinked
			}
			return err
		}

		resp = &model.CreateAssignmentResponse{
			AssignmentID: a.ID,
			TermID:       term.ID,
			Direction:    a.Direction,
			Question:     a.Direction.Question(term),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *assignmentService) Answer(ctx context.Context, id uint, login string, req *model.AnswerRequest) (*model.AnswerResponse, error) {
	logger := middleware.GetLogger(ctx)
	var resp *model.AnswerResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := s.assignmentRepo.FindWithTermByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return errAssignmentNotFound
			}
			return err
		}
		link, err := s.linkRepo.FindByUserAndAssignment(ctx, tx, login, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return errNotAssigned
			}
			return err
		}

		term := a.Term()
		resp = &model.AnswerResponse{
			AssignmentID: a.ID,
			TermID:       a.TermID,
			Direction:    a.Direction,
			Question:     a.Direction.Question(term),
			IsSolved:     link.IsSolved,
			Attempts:     link.Attempts,
		}

		// 回答なしは問題を返すだけで何も変更しない
		if req == nil || req.Answer == nil || strings.TrimSpace(*req.Answer) == "" {
			return nil
		}

		answer := strings.TrimSpace(*req.Answer)
		correct := term.CheckTranslation(a.Direction, answer)
		now := s.now()

		link.Attempts++
		link.LastAnsweredAt = &now
		if correct && !link.IsSolved {
			link.IsSolved = true
			link.SolvedAt = &now
			if err := s.userRepo.AddPoints(ctx, tx, login, model.PointsPerSolve); err != nil {
				return err
			}
			resp.PointsAwarded = model.PointsPerSolve
		}
		if err := s.linkRepo.Save(ctx, tx, link); err != nil {
			return err
		}

		resp.YourAnswer = &answer
		resp.Expected = lo.ToPtr(a.Direction.Expected(term))
		resp.Correct = &correct
		resp.IsSolved = link.IsSolved
		resp.Attempts = link.Attempts
		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.Correct != nil {
		logger.Info("Answer checked", "assignment_id", id, "correct", *resp.Correct, "points_awarded", resp.PointsAwarded)
	}
	return resp, nil
}

func (s *assignmentService) SwitchDirection(ctx context.Context, id uint, login string) (*model.SwitchDirectionResponse, error) {
	var resp *model.SwitchDirectionResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		a, err := s.assignmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return errAssignmentNotFound
			}
			return err
		}
		link, err := s.linkRepo.FindByUserAndAssignment(ctx, tx, login, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("NO_LINK_TO_MIGRATE", "this assignment is not assigned to you", "", model.ErrConflict)
			}
			return err
		}

		opposite, _, err := s.assignmentRepo.FindOrCreate(ctx, tx, a.TermID, a.Direction.Opposite())
		if err != nil {
			return err
		}

		// 反対方向の紐付けが既にあればそちらを未解答に戻し、現在の紐付けは触らない
		existing, err := s.linkRepo.FindByUserAndAssignment(ctx, tx, login, opposite.ID)
		switch {
		case err == nil:
			existing.Reset()
			if err := s.linkRepo.Save(ctx, tx, existing); err != nil {
				return err
			}
		case errors.Is(err, model.ErrNotFound):
			link.AssignmentID = opposite.ID
			link.Reset()
			if err := s.linkRepo.Save(ctx, tx, link); err != nil {
				return err
			}
		default:
			return err
		}

		resp = &model.SwitchDirectionResponse{
			AssignmentID: opposite.ID,
			TermID:       opposite.TermID,
			NewDirection: opposite.Direction,
			IsSolved:     false,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *assignmentService) Generate(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResponse, error) {
	if req.Count <= 0 {
		return nil, model.NewAppError("VALIDATION_ERROR", "count must be positive", "count", model.ErrInvalidInput)
	}
	direction := req.Direction
	if direction == "" {
		direction = model.EnToRu
	}
	if !direction.Valid() {
		return nil, model.NewAppError("INVALID_DIRECTION", "direction must be EnToRu or RuToEn", "direction", model.ErrInvalidInput)
	}

	resp := &model.GenerateResponse{Requested: req.Count, Direction: direction, Items: []model.GeneratedItem{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidates, err := s.termRepo.FindWithoutAssignment(ctx, tx, direction, req.Count)
		if err != nil {
			return err
		}
		for _, term := range candidates {
			a, created, err := s.assignmentRepo.FindOrCreate(ctx, tx, term.ID, direction)
			if err != nil {
				return err
			}
			if !created {
				continue
			}
			resp.Items = append(resp.Items, model.GeneratedItem{AssignmentID: a.ID, TermID: a.TermID, Direction: a.Direction})
		}
		if len(resp.Items) == 0 {
			return model.NewAppError("NOTHING_TO_GENERATE", "every term already has an assignment in this direction", "", model.ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.Created = len(resp.Items)
	middleware.GetLogger(ctx).Info("Assignments generated", "requested", resp.Requested, "created", resp.Created, "direction", direction)
	return resp, nil
}

func (s *assignmentService) AddAssignmentsToUser(ctx context.Context, req *model.AddAssignmentsRequest) (*model.AddAssignmentsResponse, error) {
	login := strings.TrimSpace(req.UserLogin)
	if login == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "userLogin is required", "userLogin", model.ErrInvalidInput)
	}
	if req.Count <= 0 {
		return nil, model.NewAppError("VALIDATION_ERROR", "count must be positive", "count", model.ErrInvalidInput)
	}

	resp := &model.AddAssignmentsResponse{User: login, RequestedLinks: req.Count, Items: []model.LinkedItem{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByLogin(ctx, tx, login); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("USER_NOT_FOUND", "user not found", "userLogin", model.ErrNotFound)
			}
			return err
		}

		candidates, err := s.assignmentRepo.FindUnlinkedForUser(ctx, tx, login, req.Count)
		if err != nil {
			return err
		}
		for _, a := range candidates {
			link := &model.UserAssignment{UserLogin: login, AssignmentID: a.ID}
			if err := s.linkRepo.Create(ctx, tx, link); err != nil {
				return err
			}
			resp.Items = append(resp.Items, model.LinkedItem{UserAssignmentID: link.ID, AssignmentID: a.ID})
		}
		if len(resp.Items) == 0 {
			return model.NewAppError("NOTHING_TO_LINK", "user already has every assignment", "", model.ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp.CreatedLinks = len(resp.Items)
	middleware.GetLogger(ctx).Info("Assignments linked to user", "user", login, "created", resp.CreatedLinks)
	return resp, nil
}

func (s *assignmentService) MarkUnsolved(ctx context.Context, id uint, login string, req *model.MarkUnsolvedRequest) (*model.MarkUnsolvedResponse, error) {
	resetAttempts, clearTimestamps := true, true
	if req != nil {
		resetAttempts = lo.FromPtrOr(req.ResetAttempts, true)
		clearTimestamps = lo.FromPtrOr(req.ClearTimestamps, true)
	}

	var resp *model.MarkUnsolvedResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.assignmentRepo.FindByID(ctx, tx, id); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return errAssignmentNotFound
			}
			return err
		}
		link, err := s.linkRepo.FindByUserAndAssignment(ctx, tx, login, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return errNotAssigned
			}
			return err
		}

		link.Reset()
		if resetAttempts {
			link.Attempts = 0
		}
		if clearTimestamps {
			link.LastAnsweredAt = nil
		}
		if err := s.linkRepo.Save(ctx, tx, link); err != nil {
			return err
		}

		resp = &model.MarkUnsolvedResponse{
			AssignmentID:   link.AssignmentID,
			IsSolved:       link.IsSolved,
			SolvedAt:       link.SolvedAt,
			Attempts:       link.Attempts,
			LastAnsweredAt: link.LastAnsweredAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
