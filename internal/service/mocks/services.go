// Package mocks はハンドラのテストで使うサービスのモック
package mocks

import (
	"context"

	"go_vocab_cards/internal/config"
	"go_vocab_cards/internal/model"

	"github.com/stretchr/testify/mock"
)

// --- AccountService ---

type AccountService struct {
	mock.Mock
}

func (m *AccountService) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*model.UserResponse)
	return resp, args.Error(1)
}

func (m *AccountService) IssueToken(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*model.TokenResponse)
	return resp, args.Error(1)
}

func (m *AccountService) MyStats(ctx context.Context, login string) (*model.StatsResponse, error) {
	args := m.Called(ctx, login)
	resp, _ := args.Get(0).(*model.StatsResponse)
	return resp, args.Error(1)
}

func (m *AccountService) SeedDefaultUsers(ctx context.Context, seed config.SeedConfig) (bool, error) {
	args := m.Called(ctx, seed)
	return args.Bool(0), args.Error(1)
}

// --- AssignmentService ---

type AssignmentService struct {
	mock.Mock
}

func (m *AssignmentService) ListAssignments(ctx context.Context) ([]model.AssignmentResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]model.AssignmentResponse)
	return resp, args.Error(1)
}

func (m *AssignmentService) GetAssignment(ctx context.Context, id uint) (*model.AssignmentResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*model.AssignmentResponse)
	return resp, args.Error(1)
}

func (m *AssignmentService) ListUserAssignments(ctx context.Context, login string, solved *bool) ([]model.UserAssignmentResponse, error) {
	args := m.Called(ctx, login, solved)
	resp, _ := args.Get(0).([]model.UserAssignmentResponse)
	return resp, args.Error(1)
}

func (m *AssignmentService) DeleteAssignment(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *AssignmentService) CreateForUser(ctx context.Context, login string, req *model.CreateAssignmentRequest) (*model.CreateAssignmentResponse, error) {
	args := m.Called(ctx, login, req)
	resp, _ := args.Get(0).(*model.CreateAssignmentResponse)
	return resp, args.Error(1)
}

func (m *AssignmentService) Answer(ctx context.Context, id uint, login string, req *model.AnswerRequest) (*model.AnswerResponse, error) {
	args := m.Called(ctx, id, login, req)
	resp, _ := args.Get(0).(*model.AnswerResponse)
	return resp, args.Error(1)
}

func (m *AssignmentService) SwitchDirection(ctx context.Context, id uint, login string) (*model.SwitchDirectionResponse, error) {
	args := m.Called(ctx, id, login)
	resp, _ := args.Get(0).(*model.SwitchDirectionResponse)
	return resp, args.Error(1)
}

func (m *AssignmentService) Generate(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*model.GenerateResponse)
	return resp, args.Error(1)
}

func (m *AssignmentService) AddAssignmentsToUser(ctx context.Context, req *model.AddAssignmentsRequest) (*model.AddAssignmentsResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*model.AddAssignmentsResponse)
	return resp, args.Error(1)
}

func (m *AssignmentService) MarkUnsolved(ctx context.Context, id uint, login string, req *model.MarkUnsolvedRequest) (*model.MarkUnsolvedResponse, error) {
	args := m.Called(ctx, id, login, req)
	resp, _ := args.Get(0).(*model.MarkUnsolvedResponse)
	return resp, args.Error(1)
}

// --- TermService ---

type TermService struct {
	mock.Mock
}

func (m *TermService) ListTerms(ctx context.Context) ([]*model.Term, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).([]*model.Term)
	return resp, args.Error(1)
}

func (m *TermService) GetTerm(ctx context.Context, id uint) (*model.Term, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*model.Term)
	return resp, args.Error(1)
}

func (m *TermService) CreateTerm(ctx context.Context, req *model.TermRequest) (*model.Term, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*model.Term)
	return resp, args.Error(1)
}

func (m *TermService) UpdateTerm(ctx context.Context, id uint, req *model.TermRequest) error {
	args := m.Called(ctx, id, req)
	return args.Error(0)
}

func (m *TermService) DeleteTerm(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TermService) Translate(ctx context.Context, login string, req *model.TranslateRequest) (*model.TranslateResponse, error) {
	args := m.Called(ctx, login, req)
	resp, _ := args.Get(0).(*model.TranslateResponse)
	return resp, args.Error(1)
}

func (m *TermService) ListUserTerms(ctx context.Context, login string) ([]model.UserTermResponse, error) {
	args := m.Called(ctx, login)
	resp, _ := args.Get(0).([]model.UserTermResponse)
	return resp, args.Error(1)
}
