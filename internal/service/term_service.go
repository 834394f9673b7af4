// internal/service/term_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"
	"go_vocab_cards/internal/repository"

	"gorm.io/gorm"
)

type TermService interface {
	ListTerms(ctx context.Context) ([]*model.Term, error)
	GetTerm(ctx context.Context, id uint) (*model.Term, error)
	CreateTerm(ctx context.Context, req *model.TermRequest) (*model.Term, error)
	UpdateTerm(ctx context.Context, id uint, req *model.TermRequest) error
	DeleteTerm(ctx context.Context, id uint) error
	Translate(ctx context.Context, login string, req *model.TranslateRequest) (*model.TranslateResponse, error)
	ListUserTerms(ctx context.Context, login string) ([]model.UserTermResponse, error)
}

type termService struct {
	db             *gorm.DB
	termRepo       repository.TermRepository
	assignmentRepo repository.AssignmentRepository
	linkRepo       repository.UserAssignmentRepository
	userTermRepo   repository.UserTermRepository
	now            func() time.Time
}

func NewTermService(
	db *gorm.DB,
	termRepo repository.TermRepository,
	assignmentRepo repository.AssignmentRepository,
	linkRepo repository.UserAssignmentRepository,
	userTermRepo repository.UserTermRepository,
) TermService {
	return &termService{
		db:             db,
		termRepo:       termRepo,
		assignmentRepo: assignmentRepo,
		linkRepo:       linkRepo,
		userTermRepo:   userTermRepo,
		now:            time.Now,
	}
}

const maxTermLength = 256

var (
	errTermNotFound  = model.NewAppError("TERM_NOT_FOUND", "term not found", "id", model.ErrNotFound)
	errTermDuplicate = model.NewAppError("TERM_EXISTS", "a term with the same en/ru pair already exists", "", model.ErrConflict)
)

func (s *termService) ListTerms(ctx context.Context) ([]*model.Term, error) {
	terms, err := s.termRepo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, model.NewAppError("NO_TERMS", "no terms found", "", model.ErrNotFound)
	}
	return terms, nil
}

func (s *termService) GetTerm(ctx context.Context, id uint) (*model.Term, error) {
	term, err := s.termRepo.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errTermNotFound
		}
		return nil, err
	}
	return term, nil
}

// normalizeTermField は前後の空白を除き、長さを検証します
func normalizeTermField(value, field string, required bool) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" && required {
		return "", model.NewAppError("VALIDATION_ERROR", field+" is required", field, model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(v) > maxTermLength {
		return "", model.NewAppError("VALIDATION_ERROR", field+" must be at most 256 characters", field, model.ErrInvalidInput)
	}
	return v, nil
}

func parseDomain(d model.TermDomain) (model.TermDomain, error) {
	domain, ok := model.ParseTermDomain(string(d))
	if !ok {
		return "", model.NewAppError("INVALID_DOMAIN", "unknown domain "+string(d), "domain", model.ErrInvalidInput)
	}
	return domain, nil
}

func (s *termService) CreateTerm(ctx context.Context, req *model.TermRequest) (*model.Term, error) {
	en, err := normalizeTermField(req.En, "en", true)
	if err != nil {
		return nil, err
	}
	ru, err := normalizeTermField(req.Ru, "ru", true)
	if err != nil {
		return nil, err
	}
	domain, err := parseDomain(req.Domain)
	if err != nil {
		return nil, err
	}

	term := &model.Term{En: en, Ru: ru, Domain: domain}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.termRepo.Create(ctx, tx, term)
	})
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, errTermDuplicate
		}
		return nil, err
	}

	middleware.GetLogger(ctx).Info("Term created", "term_id", term.ID, "domain", term.Domain)
	return term, nil
}

func (s *termService) UpdateTerm(ctx context.Context, id uint, req *model.TermRequest) error {
	en, err := normalizeTermField(req.En, "en", false)
	if err != nil {
		return err
	}
	ru, err := normalizeTermField(req.Ru, "ru", false)
	if err != nil {
		return err
	}
	var domain model.TermDomain
	if strings.TrimSpace(string(req.Domain)) != "" {
		if domain, err = parseDomain(req.Domain); err != nil {
			return err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		term, err := s.termRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		// 空のフィールドは現在の値のまま
		if en != "" {
			term.En = en
		}
		if ru != "" {
			term.Ru = ru
		}
		if domain != "" {
			term.Domain = domain
		}
		return s.termRepo.Update(ctx, tx, term)
	})
	switch {
	case errors.Is(err, model.ErrNotFound):
		return errTermNotFound
	case errors.Is(err, model.ErrConflict):
		return errTermDuplicate
	}
	return err
}

func (s *termService) DeleteTerm(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.termRepo.Delete(ctx, tx, id)
	})
	if errors.Is(err, model.ErrNotFound) {
		return errTermNotFound
	}
	if err == nil {
		middleware.GetLogger(ctx).Info("Term deleted", "term_id", id)
	}
	return err
}

func (s *termService) Translate(ctx context.Context, login string, req *model.TranslateRequest) (*model.TranslateResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "text is required", "text", model.ErrInvalidInput)
	}

	direction := model.DetectDirection(text)
	if req.Direction != nil && *req.Direction != "" {
		direction = *req.Direction
	}
	if !direction.Valid() {
		return nil, model.NewAppError("INVALID_DIRECTION", "direction must be EnToRu or RuToEn", "direction", model.ErrInvalidInput)
	}

	var resp *model.TranslateResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		term, err := s.termRepo.FindByText(ctx, tx, text)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("TRANSLATION_NOT_FOUND", "no term matches "+text, "text", model.ErrNotFound)
			}
			return err
		}

		if err := s.userTermRepo.Touch(ctx, tx, login, term.ID, s.now()); err != nil {
			return err
		}
		a, _, err := s.assignmentRepo.FindOrCreate(ctx, tx, term.ID, direction)
		if err != nil {
			return err
		}
		if _, err := s.linkRepo.CreateIfMissing(ctx, tx, login, a.ID); err != nil {
			return err
		}

		resp = &model.TranslateResponse{
			TermID:       term.ID,
			AssignmentID: a.ID,
			Direction:    direction,
			Question:     direction.Question(term),
			Translation:  direction.Expected(term),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *termService) ListUserTerms(ctx context.Context, login string) ([]model.UserTermResponse, error) {
	rows, err := s.userTermRepo.ListByUser(ctx, s.db, login)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.NewAppError("NO_TERMS", "no viewed terms for this user", "", model.ErrNotFound)
	}
	return rows, nil
}
