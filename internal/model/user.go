// internal/model/user.go
package model

import (
	"strings"
	"time"
)

const (
	// AdminLogin はこのログイン名のユーザーを管理者として扱う
	AdminLogin = "admin"

	RoleAdmin = "admin"
	RoleUser  = "user"

	// PointsPerSolve は新しく解いたカード1枚あたりの加算ポイント
	PointsPerSolve = 10
)

// User はログイン名をキーとするユーザー
type User struct {
	Login        string    `gorm:"type:varchar(64);primaryKey" json:"login"`
	PasswordHash string    `gorm:"type:varchar(128);not null" json:"-"`
	Points       int       `gorm:"not null;default:0" json:"points"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Login == AdminLogin
}

func (u *User) Role() string {
	return RoleFor(u.Login)
}

// RoleFor はログイン名からロールを決定します
func RoleFor(login string) string {
	if login == AdminLogin {
		return RoleAdmin
	}
	return RoleUser
}

// IsReservedLogin は登録に使えないログイン名か判定します (大文字小文字は区別しない)
func IsReservedLogin(login string) bool {
	return strings.EqualFold(strings.TrimSpace(login), AdminLogin)
}

// RegisterRequest は新規登録APIのリクエストボディ
type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// UserResponse は登録結果として返すユーザー情報
type UserResponse struct {
	Login  string `json:"login"`
	Points int    `json:"points"`
}
