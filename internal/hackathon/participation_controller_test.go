package hackathon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arkhdev/hackhub/internal/user"
	"github.com/arkhdev/hackhub/pkg/token"
)

const testJWTSecret = "test-access-secret"

func setupHackathonRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)

	r := gin.New()
	api := r.Group("/api")
	HackathonRoutes(api, db, testJWTSecret)
	return r, db
}

func createTestAdmin(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	u := createTestUser(t, db, username)
	require.NoError(t, db.Model(&user.User{}).Where("id = ?", u.ID).Update("role", user.RoleAdmin).Error)
	u.Role = user.RoleAdmin
	return u
}

func bearerFor(t *testing.T, u *user.User) string {
	t.Helper()
	tok, err := token.GenerateAccessToken(u.ID, string(u.Role), testJWTSecret, 15)
	require.NoError(t, err)
	return tok
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateReputation_AcceptsZeroValueAndOmittedReason(t *testing.T) {
	r, db := setupHackathonRouter(t)
	pRepo := NewParticipationRepository(db)

	admin := createTestAdmin(t, db, "root")
	alice := createTestUser(t, db, "alice")
	h := createTestHackathon(t, db, "Spring Hack", nil)

	p := &Participation{UserID: alice.ID, HackathonID: h.ID, Role: RoleFreeParticipant}
	require.NoError(t, pRepo.Create(p))
	_, err := pRepo.UpdateReputation(p.ID, 7, admin.ID, "strong demo")
	require.NoError(t, err)

	path := fmt.Sprintf("/api/hackathons/%d/participations/%d/reputation", h.ID, alice.ID)
	bearer := bearerFor(t, admin)

	// An explicit zero resets the score
	w := doJSON(t, r, http.MethodPut, path, gin.H{"value": 0, "reason": "reset after appeal"}, bearer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	reloaded, err := pRepo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Reputation)

	// The reason is optional
	w = doJSON(t, r, http.MethodPut, path, gin.H{"value": 5}, bearer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	reloaded, err = pRepo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.Reputation)

	history, err := pRepo.GetReputationHistory(p.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 5, history[0].NewReputation)
	assert.Empty(t, history[0].Reason)

	// The value itself is still required
	w = doJSON(t, r, http.MethodPut, path, gin.H{"reason": "no value"}, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateParticipation_AutoJoinWithoutOpenTeamsIsNotFound(t *testing.T) {
	r, db := setupHackathonRouter(t)

	alice := createTestUser(t, db, "alice")
	h := createTestHackathon(t, db, "Spring Hack", nil)

	path := fmt.Sprintf("/api/hackathons/%d/participations", h.ID)
	w := doJSON(t, r, http.MethodPost, path, gin.H{"role": "team_member"}, bearerFor(t, alice))
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())

	// The rejected registration leaves no participation behind
	p, err := NewParticipationRepository(db).GetByUserAndHackathon(alice.ID, h.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
}
