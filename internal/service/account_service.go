// internal/service/account_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go_vocab_cards/internal/config"
	"go_vocab_cards/internal/middleware"
	"go_vocab_cards/internal/model"
	"go_vocab_cards/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AccountService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error)
	IssueToken(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
	MyStats(ctx context.Context, login string) (*model.StatsResponse, error)
	// SeedDefaultUsers はユーザーが1人もいない場合に管理者とデモユーザーを作成します
	SeedDefaultUsers(ctx context.Context, seed config.SeedConfig) (bool, error)
}

type accountService struct {
	db        *gorm.DB
	userRepo  repository.UserRepository
	statsRepo repository.StatsRepository
	jwtCfg    config.JWTConfig
	now       func() time.Time
}

func NewAccountService(db *gorm.DB, userRepo repository.UserRepository, statsRepo repository.StatsRepository, jwtCfg config.JWTConfig) AccountService {
	return &accountService{
		db:        db,
		userRepo:  userRepo,
		statsRepo: statsRepo,
		jwtCfg:    jwtCfg,
		now:       time.Now,
	}
}

func (s *accountService) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error) {
	logger := middleware.GetLogger(ctx)
	login := strings.TrimSpace(req.Login)
	if login == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "login is required", "login", model.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, model.NewAppError("VALIDATION_ERROR", "password is required", "password", model.ErrInvalidInput)
	}
	if len(login) > 64 {
		return nil, model.NewAppError("VALIDATION_ERROR", "login must be at most 64 characters", "login", model.ErrInvalidInput)
	}
	if model.IsReservedLogin(login) {
		return nil, model.NewAppError("LOGIN_RESERVED", "this login is reserved", "login", model.ErrConflict)
	}

	// bcrypt は72バイトを超える入力を拒否する
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, model.NewAppError("VALIDATION_ERROR", "password must be at most 72 bytes", "password", model.ErrInvalidInput)
		}
		logger.Error("Failed to hash password", "error", err)
		return nil, err
	}

	user := &model.User{Login: login, PasswordHash: string(hashed)}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByLogin(ctx, tx, login); err == nil {
			return model.NewAppError("LOGIN_TAKEN", "user already exists", "login", model.ErrConflict)
		} else if !errors.Is(err, model.ErrNotFound) {
			return err
		}
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return model.NewAppError("LOGIN_TAKEN", "user already exists", "login", model.ErrConflict)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User registered", "login", login)
	return &model.UserResponse{Login: user.Login, Points: user.Points}, nil
}

func (s *accountService) IssueToken(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	logger := middleware.GetLogger(ctx)
	invalid := model.NewAppError("INVALID_CREDENTIALS", "invalid login or password", "", model.ErrUnauthorized)

	user, err := s.userRepo.FindByLogin(ctx, s.db, strings.TrimSpace(req.Login))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		logger.Warn("Token request with wrong password", "login", user.Login)
		return nil, invalid
	}

	now := s.now()
	expires := now.Add(s.jwtCfg.AccessTokenTTL)
	claims := &model.JWTCustomClaims{
		Name: user.Login,
		Role: user.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.jwtCfg.Issuer,
			Subject:   user.Login,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		logger.Error("Failed to sign token", "error", err)
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken: signed,
		Username:    user.Login,
		Role:        user.Role(),
		Expires:     expires.UTC(),
	}, nil
}

func (s *accountService) MyStats(ctx context.Context, login string) (*model.StatsResponse, error) {
	user, err := s.userRepo.FindByLogin(ctx, s.db, login)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("USER_NOT_FOUND", "user not found", "", model.ErrNotFound)
		}
		return nil, err
	}

	totals, err := s.statsRepo.Totals(ctx, s.db, login)
	if err != nil {
		return nil, err
	}
	byDomain, err := s.statsRepo.ByDomain(ctx, s.db, login)
	if err != nil {
		return nil, err
	}
	if byDomain == nil {
		byDomain = []model.DomainStats{}
	}
	hardest, err := s.statsRepo.TopAttempts(ctx, s.db, login, false, model.HardestLimit)
	if err != nil {
		return nil, err
	}
	mostSolved, err := s.statsRepo.TopAttempts(ctx, s.db, login, true, model.HardestLimit)
	if err != nil {
		return nil, err
	}

	toStat := func(row repository.AttemptRow, _ int) model.AttemptStat {
		term := &model.Term{En: row.En, Ru: row.Ru}
		return model.AttemptStat{
			AssignmentID: row.AssignmentID,
			TermID:       row.TermID,
			Question:     row.Direction.Question(term),
			Attempts:     row.Attempts,
			SolvedAt:     row.SolvedAt,
		}
	}

	if byDomain == nil {
		byDomain = []model.DomainStats{}
	}
	return &model.StatsResponse{
		User:               user.Login,
		Points:             user.Points,
		Totals:             *totals,
		ByDomain:           byDomain,
		HardestUnsolved:    lo.Map(hardest, toStat),
		MostAttemptsSolved: lo.Map(mostSolved, toStat),
	}, nil
}

func (s *accountService) SeedDefaultUsers(ctx context.Context, seed config.SeedConfig) (bool, error) {
	logger := middleware.GetLogger(ctx)
	seeded := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.userRepo.Count(ctx, tx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		accounts := []struct{ login, password string }{
			{model.AdminLogin, seed.AdminPassword},
		}
		if seed.DemoUser != "" {
			accounts = append(accounts, struct{ login, password string }{seed.DemoUser, seed.DemoPassword})
		}
		for _, a := range accounts {
			hashed, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			if err := s.userRepo.Create(ctx, tx, &model.User{Login: a.login, PasswordHash: string(hashed)}); err != nil {
				return err
			}
			logger.Info("Seeded user", "login", a.login)
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}
