package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection(t *testing.T) {
	term := &Term{En: "drill bit", Ru: "долото"}

	assert.Equal(t, "drill bit", EnToRu.Question(term))
	assert.Equal(t, "долото", EnToRu.Expected(term))
	assert.Equal(t, "долото", RuToEn.Question(term))
	assert.Equal(t, "drill bit", RuToEn.Expected(term))

	assert.Equal(t, RuToEn, EnToRu.Opposite())
	assert.Equal(t, EnToRu, RuToEn.Opposite())

	assert.True(t, EnToRu.Valid())
	assert.False(t, Direction("ToEn").Valid())

	empty := Direction("")
	rt := RuToEn
	assert.Equal(t, EnToRu, DirectionOrDefault(nil))
	assert.Equal(t, EnToRu, DirectionOrDefault(&empty))
	assert.Equal(t, RuToEn, DirectionOrDefault(&rt))
}

func TestDetectDirection(t *testing.T) {
	tests := []struct {
		text     string
		expected Direction
	}{
		{"drill bit", EnToRu},
		{"долото", RuToEn},
		{"BOP превентор", RuToEn},
		{"", EnToRu},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, DetectDirection(tc.text), tc.text)
	}
}

func TestParseTermDomain(t *testing.T) {
	tests := []struct {
		in       string
		expected TermDomain
		ok       bool
	}{
		{"", DomainGeneral, true},
		{"drilling", DomainDrilling, true},
		{" Safety ", DomainSafety, true},
		{"Astrology", "", false},
	}
	for _, tc := range tests {
		got, ok := ParseTermDomain(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.expected, got, tc.in)
	}
}

func TestCheckTranslation(t *testing.T) {
	term := &Term{En: "Casing", Ru: "обсадная колонна"}

	assert.True(t, term.CheckTranslation(EnToRu, "  обсадная колонна "))
	assert.True(t, term.CheckTranslation(EnToRu, "ОБСАДНАЯ КОЛОННА"))
	assert.True(t, term.CheckTranslation(RuToEn, "casing"))
	assert.False(t, term.CheckTranslation(RuToEn, "обсадная колонна"))
	assert.False(t, term.CheckTranslation(EnToRu, ""))
}

func TestRoles(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleFor("admin"))
	assert.Equal(t, RoleUser, RoleFor("alice"))
	assert.True(t, IsReservedLogin(" Admin "))
	assert.False(t, IsReservedLogin("administrator"))

	ua := &UserAssignment{IsSolved: true, Attempts: 3}
	ua.Reset()
	assert.False(t, ua.IsSolved)
	assert.Nil(t, ua.SolvedAt)
	assert.Equal(t, 3, ua.Attempts)
}
