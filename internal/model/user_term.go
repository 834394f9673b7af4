// internal/model/user_term.go
package model

import "time"

// UserTerm はユーザーごとの用語閲覧履歴。(user_login, term_id) で一意。
type UserTerm struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserLogin    string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_user_terms_user_term" json:"userLogin"`
	TermID       uint      `gorm:"not null;uniqueIndex:uq_user_terms_user_term;index" json:"termId"`
	LastViewedAt time.Time `gorm:"not null" json:"lastViewedAt"`

	// 外部キー制約の定義用。JSONには含めない
	User *User `gorm:"foreignKey:UserLogin;references:Login;constraint:OnDelete:CASCADE" json:"-"`
	Term *Term `gorm:"foreignKey:TermID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserTerm) TableName() string {
	return "user_terms"
}
