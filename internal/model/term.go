// internal/model/term.go
package model

import (
	"strings"
	"time"
	"unicode"
)

// Direction は翻訳の向き。問題は元言語側、答えは反対側。
type Direction string

const (
	EnToRu Direction = "EnToRu"
	RuToEn Direction = "RuToEn"
)

func (d Direction) Valid() bool {
	return d == EnToRu || d == RuToEn
}

func (d Direction) Opposite() Direction {
	if d == RuToEn {
		return EnToRu
	}
	return RuToEn
}

func (d Direction) String() string {
	return string(d)
}

// Question は問題として表示する側の語を返します
func (d Direction) Question(t *Term) string {
	if d == RuToEn {
		return t.Ru
	}
	return t.En
}

// Expected は正解となる側の語を返します
func (d Direction) Expected(t *Term) string {
	if d == RuToEn {
		return t.En
	}
	return t.Ru
}

// DirectionOrDefault は未指定(nil)なら EnToRu を返します
func DirectionOrDefault(d *Direction) Direction {
	if d == nil || *d == "" {
		return EnToRu
	}
	return *d
}

// DetectDirection は入力にキリル文字が含まれていれば RuToEn と判定します
func DetectDirection(text string) Direction {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return RuToEn
		}
	}
	return EnToRu
}

// TermDomain は用語の分野
type TermDomain string

const (
	DomainGeneral   TermDomain = "General"
	DomainDrilling  TermDomain = "Drilling"
	DomainGeology   TermDomain = "Geology"
	DomainEquipment TermDomain = "Equipment"
	DomainSafety    TermDomain = "Safety"
)

var termDomains = []TermDomain{DomainGeneral, DomainDrilling, DomainGeology, DomainEquipment, DomainSafety}

func (d TermDomain) Valid() bool {
	for _, known := range termDomains {
		if d == known {
			return true
		}
	}
	return false
}

// ParseTermDomain は大文字小文字を無視して分野名を解釈します
func ParseTermDomain(s string) (TermDomain, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DomainGeneral, true
	}
	for _, known := range termDomains {
		if strings.EqualFold(string(known), s) {
			return known, true
		}
	}
	return "", false
}

// Term は英語・ロシア語の対訳
type Term struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	En        string     `gorm:"type:varchar(256);not null;uniqueIndex:uq_terms_en_ru;index" json:"en"`
	Ru        string     `gorm:"type:varchar(256);not null;uniqueIndex:uq_terms_en_ru;index" json:"ru"`
	Domain    TermDomain `gorm:"type:varchar(128);not null;default:General" json:"domain"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"-"`
}

func (Term) TableName() string {
	return "terms"
}

// CheckTranslation は回答が指定方向の正解と一致するか (前後空白・大文字小文字を無視) 判定します
func (t *Term) CheckTranslation(d Direction, answer string) bool {
	return strings.EqualFold(d.Expected(t), strings.TrimSpace(answer))
}

// TermRequest は用語の作成・更新リクエスト
type TermRequest struct {
	En     string     `json:"en" validate:"max=256"`
	Ru     string     `json:"ru" validate:"max=256"`
	Domain TermDomain `json:"domain"`
}

// TranslateRequest は「翻訳して覚える」のリクエスト
type TranslateRequest struct {
	Text      string     `json:"text" validate:"required"`
	Direction *Direction `json:"direction,omitempty"`
}

type TranslateResponse struct {
	TermID       uint      `json:"termId"`
	AssignmentID uint      `json:"assignmentId"`
	Direction    Direction `json:"direction"`
	Question     string    `json:"question"`
	Translation  string    `json:"translation"`
}

// UserTermResponse は閲覧履歴の1件
type UserTermResponse struct {
	TermID       uint       `json:"termId"`
	LastViewedAt time.Time  `json:"lastViewedAt"`
	En           string     `json:"en"`
	Ru           string     `json:"ru"`
	Domain       TermDomain `json:"domain"`
}
