package hackathon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListVisible_PublishedOrEnoughParticipants(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHackathonRepository(db)
	pRepo := NewParticipationRepository(db)

	published := &Hackathon{
		Name: "Public Hack", StartDate: time.Now(), EndDate: time.Now().Add(time.Hour),
		Published: true, MinParticipants: 100,
	}
	require.NoError(t, repo.Create(published))

	hidden := &Hackathon{
		Name: "Hidden Hack", StartDate: time.Now(), EndDate: time.Now().Add(time.Hour),
		Published: false, MinParticipants: 2,
	}
	require.NoError(t, repo.Create(hidden))

	visible, err := repo.ListVisible("")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Public Hack", visible[0].Name)

	// Enough signups surface an unpublished hackathon
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	require.NoError(t, pRepo.Create(&Participation{UserID: alice.ID, HackathonID: hidden.ID, Role: RoleFreeParticipant}))
	require.NoError(t, pRepo.Create(&Participation{UserID: bob.ID, HackathonID: hidden.ID, Role: RoleFreeParticipant}))

	visible, err = repo.ListVisible("")
	require.NoError(t, err)
	assert.Len(t, visible, 2)

	// Admins see everything either way
	all, err := repo.ListAll("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListAll_StatusFilterAndCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHackathonRepository(db)
	pRepo := NewParticipationRepository(db)

	upcoming := &Hackathon{Name: "Next", StartDate: time.Now(), EndDate: time.Now().Add(time.Hour), Status: StatusUpcoming, Published: true}
	finished := &Hackathon{Name: "Done", StartDate: time.Now(), EndDate: time.Now().Add(time.Hour), Status: StatusFinished, Published: true}
	require.NoError(t, repo.Create(upcoming))
	require.NoError(t, repo.Create(finished))

	alice := createTestUser(t, db, "alice")
	require.NoError(t, pRepo.Create(&Participation{UserID: alice.ID, HackathonID: upcoming.ID, Role: RoleFreeParticipant}))

	list, err := repo.ListAll(string(StatusUpcoming))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Next", list[0].Name)
	assert.Equal(t, int64(1), list[0].ParticipantCount)
}

func TestDeleteHackathon_RemovesScopedRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHackathonRepository(db)
	pRepo := NewParticipationRepository(db)

	h := createTestHackathon(t, db, "Spring Hack", nil)
	other := createTestHackathon(t, db, "Autumn Hack", nil)

	alice := createTestUser(t, db, "alice")
	_, err := pRepo.CreateCaptainWithTeam(&Participation{UserID: alice.ID, HackathonID: h.ID, Role: RoleCaptain}, "Rockets", "")
	require.NoError(t, err)
	p, err := pRepo.GetByUserAndHackathon(alice.ID, h.ID)
	require.NoError(t, err)
	_, err = pRepo.UpdateReputation(p.ID, 5, alice.ID, "self note")
	require.NoError(t, err)

	// A row in another hackathon must survive the delete
	require.NoError(t, pRepo.Create(&Participation{UserID: alice.ID, HackathonID: other.ID, Role: RoleFreeParticipant}))

	require.NoError(t, repo.Delete(h.ID))

	gone, err := repo.GetByID(h.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	var participations, teams, history int64
	require.NoError(t, db.Model(&Participation{}).Where("hackathon_id = ?", h.ID).Count(&participations).Error)
	require.NoError(t, db.Model(&Team{}).Where("hackathon_id = ?", h.ID).Count(&teams).Error)
	require.NoError(t, db.Model(&ReputationHistory{}).Count(&history).Error)
	assert.Zero(t, participations)
	assert.Zero(t, teams)
	assert.Zero(t, history)

	kept, err := pRepo.GetByUserAndHackathon(alice.ID, other.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestParticipantCount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHackathonRepository(db)
	pRepo := NewParticipationRepository(db)

	h := createTestHackathon(t, db, "Spring Hack", nil)
	count, err := repo.ParticipantCount(h.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	alice := createTestUser(t, db, "alice")
	require.NoError(t, pRepo.Create(&Participation{UserID: alice.ID, HackathonID: h.ID, Role: RoleFreeParticipant}))

	count, err = repo.ParticipantCount(h.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
