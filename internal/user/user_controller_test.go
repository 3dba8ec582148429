package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arkhdev/hackhub/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.AccessTokenSecret = "test-access-secret"
	cfg.JWT.AccessTokenExpiryMinutes = 15
	cfg.JWT.RefreshTokenSecret = "test-refresh-secret"
	cfg.JWT.RefreshTokenExpiryDays = 7
	return cfg
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	cfg := testConfig()

	r := gin.New()
	api := r.Group("/api")
	UserRoutes(api, db, cfg, cfg.JWT.AccessTokenSecret)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type authEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		User         struct {
			ID    uint   `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	} `json:"data"`
}

func register(t *testing.T, r *gin.Engine, username, email, password string) authEnvelope {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env authEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRegister_IssuesTokensAndLowercasesEmail(t *testing.T) {
	r, _ := setupAuthRouter(t)

	env := register(t, r, "alice", "Alice@Example.com", "longenough1")
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, env.Data.AccessToken)
	assert.NotEmpty(t, env.Data.RefreshToken)
	assert.Equal(t, "alice@example.com", env.Data.User.Email)
	// Self registration never grants elevated roles
	assert.Equal(t, "user", env.Data.User.Role)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	r, _ := setupAuthRouter(t)
	register(t, r, "alice", "alice@example.com", "longenough1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username": "imposter",
		"email":    "ALICE@example.com",
		"password": "longenough1",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_EmptyTelegramNickStoredAsNull(t *testing.T) {
	r, db := setupAuthRouter(t)

	// Two accounts with a blank handle must not collide on the unique index
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username":      "alice",
		"email":         "alice@example.com",
		"password":      "longenough1",
		"telegram_nick": "",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"username":      "bob",
		"email":         "bob@example.com",
		"password":      "longenough1",
		"telegram_nick": "",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var withNick int64
	require.NoError(t, db.Model(&User{}).Where("telegram_nick IS NOT NULL").Count(&withNick).Error)
	assert.Zero(t, withNick)
}

func TestLogin_VerifiesBcryptHash(t *testing.T) {
	r, _ := setupAuthRouter(t)
	register(t, r, "alice", "alice@example.com", "longenough1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "longenough1",
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// Wrong password and unknown email fail the same way
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "longenough1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh_RotatesToken(t *testing.T) {
	r, _ := setupAuthRouter(t)
	env := register(t, r, "alice", "alice@example.com", "longenough1")

	w := doJSON(t, r, http.MethodPost, "/api/auth/refresh", gin.H{
		"refresh_token": env.Data.RefreshToken,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var refreshed authEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.Data.AccessToken)

	// The consumed token no longer works
	w = doJSON(t, r, http.MethodPost, "/api/auth/refresh", gin.H{
		"refresh_token": env.Data.RefreshToken,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_RequiresAuth(t *testing.T) {
	r, _ := setupAuthRouter(t)
	env := register(t, r, "alice", "alice@example.com", "longenough1")

	w := doJSON(t, r, http.MethodGet, "/api/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/users/me", nil, env.Data.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutes_ForbiddenForRegularUsers(t *testing.T) {
	r, db := setupAuthRouter(t)
	env := register(t, r, "alice", "alice@example.com", "longenough1")

	w := doJSON(t, r, http.MethodGet, "/api/admin/users", nil, env.Data.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Promote and retry with a fresh token
	require.NoError(t, db.Model(&User{}).Where("id = ?", env.Data.User.ID).Update("role", RoleAdmin).Error)

	login := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "alice@example.com",
		"password": "longenough1",
	}, "")
	require.Equal(t, http.StatusOK, login.Code)
	var adminEnv authEnvelope
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &adminEnv))

	w = doJSON(t, r, http.MethodGet, "/api/admin/users", nil, adminEnv.Data.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSeedAdmin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	cfg := testConfig()
	cfg.Admin.Email = "root@hackhub.local"
	cfg.Admin.Password = "bootstrap-pass"

	require.NoError(t, SeedAdmin(repo, cfg))

	admin, err := repo.GetUserByEmail("root@hackhub.local")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, RoleAdmin, admin.Role)
	// Stored hashed, never plaintext
	assert.NotEqual(t, "bootstrap-pass", admin.Password)

	// Idempotent once an admin exists
	require.NoError(t, SeedAdmin(repo, cfg))
	_, total, err := repo.GetAllUsers(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
