package service

import (
	"testing"
	"time"

	"go_vocab_cards/internal/config"
	"go_vocab_cards/internal/model"
	"go_vocab_cards/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testJWTConfig = config.JWTConfig{
	SecretKey:      "0123456789abcdef0123456789abcdef",
	Issuer:         config.DefaultJWTIssuer,
	Audience:       config.DefaultJWTAudience,
	AccessTokenTTL: 10 * time.Minute,
}

// setupTestDB はテストごとに独立したインメモリSQLiteを作り、マイグレーション済みで返します
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.AutoMigrate(db))
	return db
}

// services は実リポジトリで組み立てたサービス一式
type services struct {
	db          *gorm.DB
	accounts    AccountService
	assignments AssignmentService
	terms       TermService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := setupTestDB(t)
	userRepo := repository.NewGormUserRepository()
	termRepo := repository.NewGormTermRepository()
	assignmentRepo := repository.NewGormAssignmentRepository()
	linkRepo := repository.NewGormUserAssignmentRepository()
	return &services{
		db:          db,
		accounts:    NewAccountService(db, userRepo, repository.NewGormStatsRepository(), testJWTConfig),
		assignments: NewAssignmentService(db, userRepo, termRepo, assignmentRepo, linkRepo),
		terms:       NewTermService(db, termRepo, assignmentRepo, linkRepo, repository.NewGormUserTermRepository()),
	}
}

func (s *services) addUser(t *testing.T, login string) {
	t.Helper()
	require.NoError(t, s.db.Create(&model.User{Login: login, PasswordHash: "x"}).Error)
}

func (s *services) addTerm(t *testing.T, en, ru string, domain model.TermDomain) *model.Term {
	t.Helper()
	term := &model.Term{En: en, Ru: ru, Domain: domain}
	require.NoError(t, s.db.Create(term).Error)
	return term
}

func (s *services) points(t *testing.T, login string) int {
	t.Helper()
	var u model.User
	require.NoError(t, s.db.First(&u, "login = ?", login).Error)
	return u.Points
}

func (s *services) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(m).Count(&n).Error)
	return n
}

func dirPtr(d model.Direction) *model.Direction { return &d }
func strPtr(s string) *string                   { return &s }
func boolPtr(b bool) *bool                      { return &b }
