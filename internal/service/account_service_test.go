package service

import (
	"context"
	"testing"
	"time"

	"go_vocab_cards/internal/config"
	"go_vocab_cards/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
)

type AccountServiceSuite struct {
	suite.Suite
	ctx context.Context
	svc *services
}

func (s *AccountServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.svc = newServices(s.T())
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) TestRegister() {
	resp, err := s.svc.accounts.Register(s.ctx, &model.RegisterRequest{Login: "  alice ", Password: "pw12345"})
	s.Require().NoError(err)
	s.Equal("alice", resp.Login)
	s.Zero(resp.Points)

	_, err = s.svc.accounts.Register(s.ctx, &model.RegisterRequest{Login: "alice", Password: "other"})
	s.ErrorIs(err, model.ErrConflict)
}

func (s *AccountServiceSuite) TestRegister_Invalid() {
	tests := []struct {
		name  string
		req   model.RegisterRequest
		want  error
		field string
	}{
		{name: "空のログイン", req: model.RegisterRequest{Login: "  ", Password: "pw"}, want: model.ErrInvalidInput, field: "login"},
		{name: "空のパスワード", req: model.RegisterRequest{Login: "bob", Password: ""}, want: model.ErrInvalidInput, field: "password"},
		{name: "admin は予約済み", req: model.RegisterRequest{Login: "admin", Password: "pw"}, want: model.ErrConflict, field: "login"},
		{name: "大文字の ADMIN も予約済み", req: model.RegisterRequest{Login: "ADMIN", Password: "pw"}, want: model.ErrConflict, field: "login"},
	}
	for _, tc := range tests {
		s.Run(tc.name, func() {
			_, err := s.svc.accounts.Register(s.ctx, &tc.req)
			s.ErrorIs(err, tc.want)
			var appErr *model.AppError
			s.Require().ErrorAs(err, &appErr)
			s.Equal(tc.field, appErr.Detail.Field)
		})
	}
}

func (s *AccountServiceSuite) TestIssueToken() {
	_, err := s.svc.accounts.Register(s.ctx, &model.RegisterRequest{Login: "alice", Password: "pw12345"})
	s.Require().NoError(err)

	resp, err := s.svc.accounts.IssueToken(s.ctx, &model.LoginRequest{Login: "alice", Password: "pw12345"})
	s.Require().NoError(err)
	s.Equal("alice", resp.Username)
	s.Equal(model.RoleUser, resp.Role)
	s.WithinDuration(time.Now().Add(testJWTConfig.AccessTokenTTL), resp.Expires, 5*time.Second)

	claims := &model.JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTConfig.SecretKey), nil
	}, jwt.WithIssuer(config.DefaultJWTIssuer), jwt.WithAudience(config.DefaultJWTAudience))
	s.Require().NoError(err)
	s.True(token.Valid)
	s.Equal("alice", claims.Name)
	s.Equal(model.RoleUser, claims.Role)
	s.NotEmpty(claims.ID)
}

func (s *AccountServiceSuite) TestIssueToken_InvalidCredentials() {
	_, err := s.svc.accounts.Register(s.ctx, &model.RegisterRequest{Login: "alice", Password: "pw12345"})
	s.Require().NoError(err)

	_, err = s.svc.accounts.IssueToken(s.ctx, &model.LoginRequest{Login: "alice", Password: "wrong"})
	s.ErrorIs(err, model.ErrUnauthorized)
	_, err = s.svc.accounts.IssueToken(s.ctx, &model.LoginRequest{Login: "nobody", Password: "pw"})
	s.ErrorIs(err, model.ErrUnauthorized)
}

func (s *AccountServiceSuite) TestSeedDefaultUsers() {
	seed := config.SeedConfig{AdminPassword: "admin", DemoUser: "user", DemoPassword: "user"}
	seeded, err := s.svc.accounts.SeedDefaultUsers(s.ctx, seed)
	s.Require().NoError(err)
	s.True(seeded)

	resp, err := s.svc.accounts.IssueToken(s.ctx, &model.LoginRequest{Login: "admin", Password: "admin"})
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, resp.Role)

	// 2回目は何もしない
	seeded, err = s.svc.accounts.SeedDefaultUsers(s.ctx, seed)
	s.Require().NoError(err)
	s.False(seeded)
	s.Equal(int64(2), s.svc.count(s.T(), &model.User{}))
}

func (s *AccountServiceSuite) TestMyStats() {
	t := s.T()
	s.svc.addUser(t, "alice")
	bit := s.svc.addTerm(t, "bit", "долото", model.DomainDrilling)
	rock := s.svc.addTerm(t, "rock", "порода", model.DomainGeology)

	a1, err := s.svc.assignments.CreateForUser(s.ctx, "alice", &model.CreateAssignmentRequest{TermID: bit.ID})
	s.Require().NoError(err)
	a2, err := s.svc.assignments.CreateForUser(s.ctx, "alice", &model.CreateAssignmentRequest{TermID: rock.ID, Direction: dirPtr(model.RuToEn)})
	s.Require().NoError(err)

	_, err = s.svc.assignments.Answer(s.ctx, a1.AssignmentID, "alice", &model.AnswerRequest{Answer: strPtr("wrong")})
	s.Require().NoError(err)
	_, err = s.svc.assignments.Answer(s.ctx, a1.AssignmentID, "alice", &model.AnswerRequest{Answer: strPtr("Долото")})
	s.Require().NoError(err)
	_, err = s.svc.assignments.Answer(s.ctx, a2.AssignmentID, "alice", &model.AnswerRequest{Answer: strPtr("stone")})
	s.Require().NoError(err)

	stats, err := s.svc.accounts.MyStats(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PointsPerSolve, stats.Points)
	s.Equal(2, stats.Totals.Assignments)
	s.Equal(1, stats.Totals.Solved)
	s.Equal(1, stats.Totals.Unsolved)
	s.Equal(3, stats.Totals.AttemptsTotal)
	s.NotNil(stats.Totals.LastSolvedAt)
	s.Equal([]model.DomainStats{
		{Domain: model.DomainDrilling, Solved: 1, Unsolved: 0},
		{Domain: model.DomainGeology, Solved: 0, Unsolved: 1},
	}, stats.ByDomain)
	s.Require().Len(stats.HardestUnsolved, 1)
	s.Equal("порода", stats.HardestUnsolved[0].Question)
	s.Require().Len(stats.MostAttemptsSolved, 1)
	s.Equal(2, stats.MostAttemptsSolved[0].Attempts)
	s.Equal("bit", stats.MostAttemptsSolved[0].Question)

	_, err = s.svc.accounts.MyStats(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrNotFound)
}
