package repository

import (
	"fmt"

	"go_vocab_cards/internal/model"

	"gorm.io/gorm"
)

// Models はマイグレーション対象のエンティティ (依存順)
func Models() []any {
	return []any{
		&model.User{},
		&model.Term{},
		&model.Assignment{},
		&model.UserAssignment{},
		&model.UserTerm{},
	}
}

// AutoMigrate はスキーマを作成・更新します
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("repository.AutoMigrate: %w", err)
	}
	return nil
}
