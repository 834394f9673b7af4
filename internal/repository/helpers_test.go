package repository

import (
	"context"
	"testing"

	"go_vocab_cards/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB はテストごとに独立したインメモリSQLiteを用意します
func newTestDB(t *testing.T) *gorm.DB {
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

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, login string) *model.User {
	t.Helper()
	u := &model.User{Login: login, PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedTerm(t *testing.T, db *gorm.DB, en, ru string, domain model.TermDomain) *model.Term {
	t.Helper()
	term := &model.Term{En: en, Ru: ru, Domain: domain}
	require.NoError(t, db.Create(term).Error)
	return term
}

func seedAssignment(t *testing.T, db *gorm.DB, termID uint, d model.Direction) *model.Assignment {
	t.Helper()
	a := &model.Assignment{TermID: termID, Direction: d}
	require.NoError(t, db.Create(a).Error)
	return a
}

var ctx = context.Background()
