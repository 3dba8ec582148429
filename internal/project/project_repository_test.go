package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&ExpertArea{}, &Project{}, &ProjectComment{}))
	return db
}

func TestCreateProject_OnePerParticipation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)

	p := &Project{HackathonID: 1, ParticipationID: 7, Name: "Solver", Status: StatusDraft}
	require.NoError(t, repo.CreateProject(p))

	err := repo.CreateProject(&Project{HackathonID: 1, ParticipationID: 7, Name: "Second Try", Status: StatusDraft})
	assert.ErrorIs(t, err, ErrDuplicateProject)

	// A different participation in the same hackathon is fine
	require.NoError(t, repo.CreateProject(&Project{HackathonID: 1, ParticipationID: 8, Name: "Other", Status: StatusDraft}))

	projects, err := repo.ListProjectsByHackathon(1)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestCreateComment_RequiresSubmission(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)

	draft := &Project{HackathonID: 1, ParticipationID: 7, Name: "Solver", Status: StatusDraft}
	require.NoError(t, repo.CreateProject(draft))

	err := repo.CreateComment(&ProjectComment{ProjectID: draft.ID, ExpertID: 2, Text: "too early"})
	assert.ErrorIs(t, err, ErrCommentNotAllowed)

	// No comment row may survive the rejection
	comments, err := repo.ListComments(draft.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestCreateComment_MarksProjectReviewed(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)

	p := &Project{HackathonID: 1, ParticipationID: 7, Name: "Solver", Status: StatusSubmitted}
	require.NoError(t, repo.CreateProject(p))

	rating := 8
	require.NoError(t, repo.CreateComment(&ProjectComment{ProjectID: p.ID, ExpertID: 2, Text: "solid work", Rating: &rating}))

	reloaded, err := repo.GetProjectByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReviewed, reloaded.Status)

	// Further comments keep the reviewed status
	require.NoError(t, repo.CreateComment(&ProjectComment{ProjectID: p.ID, ExpertID: 3, Text: "agreed"}))
	comments, err := repo.ListComments(p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	// Newest first
	assert.Equal(t, "agreed", comments[0].Text)
}

func TestCreateComment_UnknownProject(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)

	err := repo.CreateComment(&ProjectComment{ProjectID: 99, ExpertID: 2, Text: "ghost"})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestDeleteProject_RemovesComments(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)

	p := &Project{HackathonID: 1, ParticipationID: 7, Name: "Solver", Status: StatusSubmitted}
	require.NoError(t, repo.CreateProject(p))
	require.NoError(t, repo.CreateComment(&ProjectComment{ProjectID: p.ID, ExpertID: 2, Text: "note"}))

	require.NoError(t, repo.DeleteProject(p.ID))

	gone, err := repo.GetProjectByID(p.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	var count int64
	require.NoError(t, db.Model(&ProjectComment{}).Count(&count).Error)
	assert.Zero(t, count)

	err = repo.DeleteProject(p.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestExpertArea_UniqueTriple(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)

	require.NoError(t, repo.AddExpertArea(&ExpertArea{ExpertID: 2, HackathonID: 1, Topic: "ml"}))

	err := repo.AddExpertArea(&ExpertArea{ExpertID: 2, HackathonID: 1, Topic: "ml"})
	assert.ErrorIs(t, err, ErrDuplicateArea)

	// Same topic elsewhere or another topic here are both fine
	require.NoError(t, repo.AddExpertArea(&ExpertArea{ExpertID: 2, HackathonID: 2, Topic: "ml"}))
	require.NoError(t, repo.AddExpertArea(&ExpertArea{ExpertID: 2, HackathonID: 1, Topic: "backend"}))

	areas, err := repo.ListExpertAreas(2, 1)
	require.NoError(t, err)
	require.Len(t, areas, 2)
	// Ordered by topic
	assert.Equal(t, "backend", areas[0].Topic)
	assert.Equal(t, "ml", areas[1].Topic)
}

func TestRemoveExpertArea(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)

	area := &ExpertArea{ExpertID: 2, HackathonID: 1, Topic: "ml"}
	require.NoError(t, repo.AddExpertArea(area))

	require.NoError(t, repo.RemoveExpertArea(area.ID))
	assert.ErrorIs(t, repo.RemoveExpertArea(area.ID), ErrAreaNotFound)
}

func TestGetProjectByParticipation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)

	p := &Project{HackathonID: 1, ParticipationID: 7, Name: "Solver", Status: StatusDraft}
	require.NoError(t, repo.CreateProject(p))

	found, err := repo.GetProjectByParticipation(7)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Solver", found.Name)

	missing, err := repo.GetProjectByParticipation(8)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
