// internal/model/assignment.go
package model

import "time"

// Assignment は (用語, 方向) の組。全ユーザーで共有されます。
type Assignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TermID    uint      `gorm:"not null;uniqueIndex:uq_assignments_term_direction" json:"termId"`
	Direction Direction `gorm:"type:varchar(16);not null;default:EnToRu;uniqueIndex:uq_assignments_term_direction" json:"direction"`
	CreatedAt time.Time `json:"-"`

	Term *Term `gorm:"foreignKey:TermID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// UserAssignment はユーザーとAssignmentの紐付けと解答状況
type UserAssignment struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserLogin      string     `gorm:"type:varchar(64);not null;uniqueIndex:uq_user_assignments_user_assignment" json:"userLogin"`
	AssignmentID   uint       `gorm:"not null;uniqueIndex:uq_user_assignments_user_assignment;index" json:"assignmentId"`
	IsSolved       bool       `gorm:"not null;default:false" json:"isSolved"`
	SolvedAt       *time.Time `json:"solvedAt"`
	Attempts       int        `gorm:"not null;default:0" json:"attempts"`
	LastAnsweredAt *time.Time `json:"lastAnsweredAt"`

	User       *User       `gorm:"foreignKey:UserLogin;references:Login;constraint:OnDelete:CASCADE" json:"-"`
	Assignment *Assignment `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserAssignment) TableName() string {
	return "user_assignments"
}

// Reset は未解答状態に戻します
func (ua *UserAssignment) Reset() {
	ua.IsSolved = false
	ua.SolvedAt = nil
}

// AssignmentWithTerm は Assignment と用語をJOINした読み取り用の行
type AssignmentWithTerm struct {
	ID        uint
	TermID    uint
	Direction Direction
	En        string
	Ru        string
	Domain    TermDomain
}

func (a *AssignmentWithTerm) Term() *Term {
	return &Term{ID: a.TermID, En: a.En, Ru: a.Ru, Domain: a.Domain}
}

// UserAssignmentRow はユーザーの進捗一覧の行
type UserAssignmentRow struct {
	AssignmentID   uint
	TermID         uint
	Direction      Direction
	IsSolved       bool
	SolvedAt       *time.Time
	Attempts       int
	LastAnsweredAt *time.Time
	En             string
	Ru             string
}

// --- リクエスト ---

type CreateAssignmentRequest struct {
	TermID    uint       `json:"termId" validate:"required,gt=0"`
	Direction *Direction `json:"direction,omitempty"`
}

// AnswerRequest の Answer が nil/空の場合は問題を返すだけ
type AnswerRequest struct {
	Answer *string `json:"answer,omitempty"`
}

type GenerateRequest struct {
	Count     int       `json:"count" validate:"gt=0,lte=1000"`
	Direction Direction `json:"direction"`
}

type AddAssignmentsRequest struct {
	Count     int    `json:"count" validate:"gt=0,lte=1000"`
	UserLogin string `json:"userLogin" validate:"required"`
}

// MarkUnsolvedRequest のフラグは未指定なら true
type MarkUnsolvedRequest struct {
	ResetAttempts   *bool `json:"resetAttempts,omitempty"`
	ClearTimestamps *bool `json:"clearTimestamps,omitempty"`
}

// --- レスポンス ---

type AssignmentResponse struct {
	ID        uint      `json:"id"`
	TermID    uint      `json:"termId"`
	Direction Direction `json:"direction"`
}

type UserAssignmentResponse struct {
	AssignmentID   uint       `json:"assignmentId"`
	TermID         uint       `json:"termId"`
	Direction      Direction  `json:"direction"`
	IsSolved       bool       `json:"isSolved"`
	SolvedAt       *time.Time `json:"solvedAt"`
	Attempts       int        `json:"attempts"`
	LastAnsweredAt *time.Time `json:"lastAnsweredAt"`
	Question       string     `json:"question"`
	// 解答済みの場合のみ
	Expected *string `json:"expected,omitempty"`
}

type CreateAssignmentResponse struct {
	AssignmentID uint      `json:"assignmentId"`
	TermID       uint      `json:"termId"`
	Direction    Direction `json:"direction"`
	Question     string    `json:"question"`
}

type AnswerResponse struct {
	AssignmentID  uint      `json:"assignmentId"`
	TermID        uint      `json:"termId"`
	Direction     Direction `json:"direction"`
	Question      string    `json:"question"`
	YourAnswer    *string   `json:"yourAnswer,omitempty"`
	Expected      *string   `json:"expected,omitempty"`
	Correct       *bool     `json:"correct,omitempty"`
	IsSolved      bool      `json:"isSolved"`
	Attempts      int       `json:"attempts"`
	PointsAwarded int       `json:"pointsAwarded"`
}

type SwitchDirectionResponse struct {
	AssignmentID uint      `json:"assignmentId"`
	TermID       uint      `json:"termId"`
	NewDirection Direction `json:"newDirection"`
	IsSolved     bool      `json:"isSolved"`
}

type GeneratedItem struct {
	AssignmentID uint      `json:"assignmentId"`
	TermID       uint      `json:"termId"`
	Direction    Direction `json:"direction"`
}

type GenerateResponse struct {
	Requested int             `json:"requested"`
	Created   int             `json:"created"`
	Direction Direction       `json:"direction"`
	Items     []GeneratedItem `json:"items"`
}

type LinkedItem struct {
	UserAssignmentID uint `json:"userAssignmentId"`
	AssignmentID     uint `json:"assignmentId"`
}

type AddAssignmentsResponse struct {
	User           string       `json:"user"`
	RequestedLinks int          `json:"requestedLinks"`
	CreatedLinks   int          `json:"createdLinks"`
	Items          []LinkedItem `json:"items"`
}

type MarkUnsolvedResponse struct {
	AssignmentID   uint       `json:"assignmentId"`
	IsSolved       bool       `json:"isSolved"`
	SolvedAt       *time.Time `json:"solvedAt"`
	Attempts       int        `json:"attempts"`
	LastAnsweredAt *time.Time `json:"lastAnsweredAt"`
}
