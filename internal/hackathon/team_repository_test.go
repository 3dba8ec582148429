package hackathon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMember_CapacityEnforced(t *testing.T) {
	db := setupTestDB(t)
	pRepo := NewParticipationRepository(db)
	tRepo := NewTeamRepository(db)
	h := createTestHackathon(t, db, "Spring Hack", intPtr(2))

	captain := createTestUser(t, db, "alice")
	_, err := pRepo.CreateCaptainWithTeam(&Participation{UserID: captain.ID, HackathonID: h.ID, Role: RoleCaptain}, "Rockets", "")
	require.NoError(t, err)

	team, err := tRepo.GetTeamByCaptain(h.ID, captain.ID)
	require.NoError(t, err)
	require.NotNil(t, team)

	// Second member fills the team
	bob := createTestUser(t, db, "bob")
	require.NoError(t, pRepo.Create(&Participation{UserID: bob.ID, HackathonID: h.ID, Role: RoleTeamMember}))
	require.NoError(t, tRepo.AddMember(bob.ID, team.ID))

	// Third member is over capacity
	carol := createTestUser(t, db, "carol")
	require.NoError(t, pRepo.Create(&Participation{UserID: carol.ID, HackathonID: h.ID, Role: RoleTeamMember}))
	err = tRepo.AddMember(carol.ID, team.ID)
	assert.ErrorIs(t, err, ErrTeamFull)

	count, err := tRepo.MemberCount(team.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAddMember_RequiresParticipation(t *testing.T) {
	db := setupTestDB(t)
	pRepo := NewParticipationRepository(db)
	tRepo := NewTeamRepository(db)
	h := createTestHackathon(t, db, "Spring Hack", nil)

	captain := createTestUser(t, db, "alice")
	_, err := pRepo.CreateCaptainWithTeam(&Participation{UserID: captain.ID, HackathonID: h.ID, Role: RoleCaptain}, "Rockets", "")
	require.NoError(t, err)
	team, err := tRepo.GetTeamByCaptain(h.ID, captain.ID)
	require.NoError(t, err)

	outsider := createTestUser(t, db, "bob")
	err = tRepo.AddMember(outsider.ID, team.ID)
	assert.ErrorIs(t, err, ErrNotParticipating)
}

func TestAddMember_AlreadyOnTeamIsNoop(t *testing.T) {
	db := setupTestDB(t)
	pRepo := NewParticipationRepository(db)
	tRepo := NewTeamRepository(db)
	h := createTestHackathon(t, db, "Spring Hack", intPtr(2))

	captain := createTestUser(t, db, "alice")
	_, err := pRepo.CreateCaptainWithTeam(&Participation{UserID: captain.ID, HackathonID: h.ID, Role: RoleCaptain}, "Rockets", "")
	require.NoError(t, err)
	team, err := tRepo.GetTeamByCaptain(h.ID, captain.ID)
	require.NoError(t, err)

	bob := createTestUser(t, db, "bob")
	require.NoError(t, pRepo.Create(&Participation{UserID: bob.ID, HackathonID: h.ID, Role: RoleTeamMember}))
	require.NoError(t, tRepo.AddMember(bob.ID, team.ID))

	// Re-adding the same member is not a capacity violation
	require.NoError(t, tRepo.AddMember(bob.ID, team.ID))

	count, err := tRepo.MemberCount(team.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestAddMember_RejectsExpertsAndFreeParticipants(t *testing.T) {
	db := setupTestDB(t)
	pRepo := NewParticipationRepository(db)
	tRepo := NewTeamRepository(db)
	h := createTestHackathon(t, db, "Spring Hack", nil)

	captain := createTestUser(t, db, "alice")
	team, err := pRepo.CreateCaptainWithTeam(&Participation{UserID: captain.ID, HackathonID: h.ID, Role: RoleCaptain}, "Rockets", "")
	require.NoError(t, err)

	expert := createTestUser(t, db, "bob")
	require.NoError(t, pRepo.Create(&Participation{UserID: expert.ID, HackathonID: h.ID, Role: RoleExpert}))
	assert.ErrorIs(t, tRepo.AddMember(expert.ID, team.ID), ErrIneligibleRole)

	free := createTestUser(t, db, "carol")
	require.NoError(t, pRepo.Create(&Participation{UserID: free.ID, HackathonID: h.ID, Role: RoleFreeParticipant}))
	assert.ErrorIs(t, tRepo.AddMember(free.ID, team.ID), ErrIneligibleRole)

	count, err := tRepo.MemberCount(team.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRenameTeam(t *testing.T) {
	db := setupTestDB(t)
	pRepo := NewParticipationRepository(db)
	tRepo := NewTeamRepository(db)
	h := createTestHackathon(t, db, "Spring Hack", nil)

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	_, err := pRepo.CreateCaptainWithTeam(&Participation{UserID: alice.ID, HackathonID: h.ID, Role: RoleCaptain}, "Rockets", "")
	require.NoError(t, err)
	_, err = pRepo.CreateCaptainWithTeam(&Participation{UserID: bob.ID, HackathonID: h.ID, Role: RoleCaptain}, "Comets", "")
	require.NoError(t, err)

	rockets, err := tRepo.GetTeamByCaptain(h.ID, alice.ID)
	require.NoError(t, err)

	// Renaming onto another team's name conflicts
	err = tRepo.RenameTeam(rockets.ID, "Comets")
	assert.ErrorIs(t, err, ErrDuplicateTeamName)

	// Renaming to the own current name is fine
	require.NoError(t, tRepo.RenameTeam(rockets.ID, "Rockets"))

	// A fresh name goes through
	require.NoError(t, tRepo.RenameTeam(rockets.ID, "Asteroids"))
	reloaded, err := tRepo.GetTeamByID(rockets.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asteroids", reloaded.Name)
}

func TestAvailableTeams_NameOrderAndCapacity(t *testing.T) {
	db := setupTestDB(t)
	pRepo := NewParticipationRepository(db)
	tRepo := NewTeamRepository(db)
	h := createTestHackathon(t, db, "Spring Hack", intPtr(1))

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	_, err := pRepo.CreateCaptainWithTeam(&Participation{UserID: alice.ID, HackathonID: h.ID, Role: RoleCaptain}, "Zebra", "")
	require.NoError(t, err)
	_, err = pRepo.CreateCaptainWithTeam(&Participation{UserID: bob.ID, HackathonID: h.ID, Role: RoleCaptain}, "Alpha", "")
	require.NoError(t, err)

	// Both teams hold their captain already, which fills max size 1
	teams, err := tRepo.AvailableTeams(h.ID)
	require.NoError(t, err)
	assert.Empty(t, teams)

	// With room to spare, ordering is by name
	require.NoError(t, db.Model(&Hackathon{}).Where("id = ?", h.ID).Update("max_team_size", 3).Error)
	teams, err = tRepo.AvailableTeams(h.ID)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	assert.Equal(t, "Alpha", teams[0].Name)
	assert.Equal(t, "Zebra", teams[1].Name)
	assert.Equal(t, int64(1), teams[0].MemberCount)
}

func TestAvailableTeams_UnknownHackathon(t *testing.T) {
	db := setupTestDB(t)
	tRepo := NewTeamRepository(db)

	_, err := tRepo.AvailableTeams(99)
	assert.ErrorIs(t, err, ErrHackathonNotFound)
}

func TestGetTeamByJoinCode_ScopedToHackathon(t *testing.T) {
	db := setupTestDB(t)
	pRepo := NewParticipationRepository(db)
	tRepo := NewTeamRepository(db)
	h1 := createTestHackathon(t, db, "Spring Hack", nil)
	h2 := createTestHackathon(t, db, "Autumn Hack", nil)

	alice := createTestUser(t, db, "alice")
	team, err := pRepo.CreateCaptainWithTeam(&Participation{UserID: alice.ID, HackathonID: h1.ID, Role: RoleCaptain}, "Rockets", "")
	require.NoError(t, err)

	found, err := tRepo.GetTeamByJoinCode(h1.ID, team.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, team.ID, found.ID)

	// The same code does not resolve in another hackathon
	found, err = tRepo.GetTeamByJoinCode(h2.ID, team.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestRemoveMember_KeepsEmptyTeam(t *testing.T) {
	db := setupTestDB(t)
	pRepo := NewParticipationRepository(db)
	tRepo := NewTeamRepository(db)
	h := createTestHackathon(t, db, "Spring Hack", nil)

	alice := createTestUser(t, db, "alice")
	team, err := pRepo.CreateCaptainWithTeam(&Participation{UserID: alice.ID, HackathonID: h.ID, Role: RoleCaptain}, "Rockets", "")
	require.NoError(t, err)

	require.NoError(t, tRepo.RemoveMember(alice.ID, h.ID))

	p, err := pRepo.GetByUserAndHackathon(alice.ID, h.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Nil(t, p.TeamID)

	// The team itself survives
	reloaded, err := tRepo.GetTeamByID(team.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded)
}

func TestCreateTeam_ForRegisteredCaptain(t *testing.T) {
	db := setupTestDB(t)
	pRepo := NewParticipationRepository(db)
	tRepo := NewTeamRepository(db)
	h := createTestHackathon(t, db, "Spring Hack", nil)

	alice := createTestUser(t, db, "alice")
	require.NoError(t, pRepo.Create(&Participation{UserID: alice.ID, HackathonID: h.ID, Role: RoleCaptain}))

	team, err := tRepo.CreateTeam(h.ID, alice.ID, "Rockets", "late team")
	require.NoError(t, err)
	require.NotNil(t, team)

	p, err := pRepo.GetByUserAndHackathon(alice.ID, h.ID)
	require.NoError(t, err)
	require.NotNil(t, p.TeamID)
	assert.Equal(t, team.ID, *p.TeamID)

	// A captain cannot hold two teams
	_, err = tRepo.CreateTeam(h.ID, alice.ID, "Comets", "")
	assert.ErrorIs(t, err, ErrAlreadyOnTeam)
}
