package repository

import (
	"testing"
	"time"

	"go_vocab_cards/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentRepository_FindOrCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAssignmentRepository()
	term := seedTerm(t, db, "drill", "бурить", model.DomainDrilling)

	a, created, err := repo.FindOrCreate(ctx, db, term.ID, model.EnToRu)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.FindOrCreate(ctx, db, term.ID, model.EnToRu)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, a.ID, again.ID)

	opposite, created, err := repo.FindOrCreate(ctx, db, term.ID, model.RuToEn)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, a.ID, opposite.ID)

	var count int64
	require.NoError(t, db.Model(&model.Assignment{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAssignmentRepository_FindWithTermByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAssignmentRepository()
	term := seedTerm(t, db, "core", "керн", model.DomainGeology)
	a := seedAssignment(t, db, term.ID, model.RuToEn)

	row, err := repo.FindWithTermByID(ctx, db, a.ID)
	require.NoError(t, err)
	assert.Equal(t, term.ID, row.TermID)
	assert.Equal(t, model.RuToEn, row.Direction)
	assert.Equal(t, "керн", row.Direction.Question(row.Term()))

	_, err = repo.FindWithTermByID(ctx, db, a.ID+100)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAssignmentRepository_FindUnlinkedForUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAssignmentRepository()
	links := NewGormUserAssignmentRepository()
	seedUser(t, db, "bob")
	term := seedTerm(t, db, "pump", "насос", model.DomainEquipment)
	a1 := seedAssignment(t, db, term.ID, model.EnToRu)
	a2 := seedAssignment(t, db, term.ID, model.RuToEn)
	require.NoError(t, links.Create(ctx, db, &model.UserAssignment{UserLogin: "bob", AssignmentID: a1.ID}))

	list, err := repo.FindUnlinkedForUser(ctx, db, "bob", 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a2.ID, list[0].ID)
}

func TestAssignmentRepository_DeleteCascadesLinks(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAssignmentRepository()
	links := NewGormUserAssignmentRepository()
	seedUser(t, db, "bob")
	term := seedTerm(t, db, "pump", "насос", model.DomainEquipment)
	a := seedAssignment(t, db, term.ID, model.EnToRu)
	require.NoError(t, links.Create(ctx, db, &model.UserAssignment{UserLogin: "bob", AssignmentID: a.ID}))

	require.NoError(t, repo.Delete(ctx, db, a.ID))
	_, err := links.FindByUserAndAssignment(ctx, db, "bob", a.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, db, a.ID), model.ErrNotFound)
}

func TestUserAssignmentRepository_UniqueAndSave(t *testing.T) {
	db := newTestDB(t)
	links := NewGormUserAssignmentRepository()
	seedUser(t, db, "carol")
	term := seedTerm(t, db, "shale", "сланец", model.DomainGeology)
	a := seedAssignment(t, db, term.ID, model.EnToRu)

	link := &model.UserAssignment{UserLogin: "carol", AssignmentID: a.ID}
	require.NoError(t, links.Create(ctx, db, link))
	assert.ErrorIs(t, links.Create(ctx, db, &model.UserAssignment{UserLogin: "carol", AssignmentID: a.ID}), model.ErrConflict)

	created, err := links.CreateIfMissing(ctx, db, "carol", a.ID)
	require.NoError(t, err)
	assert.False(t, created)

	now := time.Now().UTC().Truncate(time.Second)
	link.IsSolved = true
	link.SolvedAt = &now
	link.Attempts = 3
	require.NoError(t, links.Save(ctx, db, link))

	link.Reset()
	link.Attempts = 0
	require.NoError(t, links.Save(ctx, db, link))

	got, err := links.FindByUserAndAssignment(ctx, db, "carol", a.ID)
	require.NoError(t, err)
	assert.False(t, got.IsSolved)
	assert.Nil(t, got.SolvedAt)
	assert.Zero(t, got.Attempts)
}

func TestUserAssignmentRepository_ListRowsByUser(t *testing.T) {
	db := newTestDB(t)
	links := NewGormUserAssignmentRepository()
	seedUser(t, db, "dave")
	seedUser(t, db, "erin")
	t1 := seedTerm(t, db, "sand", "песок", model.DomainGeology)
	t2 := seedTerm(t, db, "helmet", "каска", model.DomainSafety)
	a1 := seedAssignment(t, db, t1.ID, model.EnToRu)
	a2 := seedAssignment(t, db, t2.ID, model.RuToEn)
	require.NoError(t, links.Create(ctx, db, &model.UserAssignment{UserLogin: "dave", AssignmentID: a1.ID, IsSolved: true, Attempts: 1}))
	require.NoError(t, links.Create(ctx, db, &model.UserAssignment{UserLogin: "dave", AssignmentID: a2.ID}))
	require.NoError(t, links.Create(ctx, db, &model.UserAssignment{UserLogin: "erin", AssignmentID: a1.ID}))

	rows, err := links.ListRowsByUser(ctx, db, "dave", nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// 未解答が先
	assert.Equal(t, a2.ID, rows[0].AssignmentID)
	assert.Equal(t, "каска", rows[0].Ru)
	assert.True(t, rows[1].IsSolved)

	solved := true
	rows, err = links.ListRowsByUser(ctx, db, "dave", &solved)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a1.ID, rows[0].AssignmentID)
}

func TestUserTermRepository_Touch(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserTermRepository()
	seedUser(t, db, "frank")
	t1 := seedTerm(t, db, "oil", "нефть", model.DomainGeneral)
	t2 := seedTerm(t, db, "gas", "газ", model.DomainGeneral)

	base := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Touch(ctx, db, "frank", t1.ID, base))
	require.NoError(t, repo.Touch(ctx, db, "frank", t2.ID, base.Add(time.Minute)))
	require.NoError(t, repo.Touch(ctx, db, "frank", t1.ID, base.Add(2*time.Minute)))

	rows, err := repo.ListByUser(ctx, db, "frank")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, t1.ID, rows[0].TermID)
	assert.True(t, rows[0].LastViewedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, "газ", rows[1].Ru)
}
