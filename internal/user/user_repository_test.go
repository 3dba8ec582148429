package user

import (
	"testing"
	"time"

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

	require.NoError(t, db.AutoMigrate(&User{}, &RefreshToken{}))
	return db
}

func TestCreateUser_LowercasesEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	u := &User{Username: "alice", Email: "Alice@Example.COM", Password: "hashed", Role: RoleUser}
	require.NoError(t, repo.CreateUser(u))
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestGetUserByEmail_CaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.CreateUser(&User{Username: "alice", Email: "alice@example.com", Password: "hashed", Role: RoleUser}))

	found, err := repo.GetUserByEmail("ALICE@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.Username)

	missing, err := repo.GetUserByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDuplicateEmailRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.CreateUser(&User{Username: "alice", Email: "alice@example.com", Password: "hashed", Role: RoleUser}))
	err := repo.CreateUser(&User{Username: "imposter", Email: "alice@example.com", Password: "hashed", Role: RoleUser})
	assert.Error(t, err)
}

func TestGetUserByTelegram(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	nick := "@alice"
	require.NoError(t, repo.CreateUser(&User{Username: "alice", Email: "alice@example.com", Password: "hashed", Role: RoleUser, TelegramNick: &nick}))

	found, err := repo.GetUserByTelegram("@alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "alice", found.Username)
}

func TestGetAllUsers_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	names := []string{"alice", "bob", "carol"}
	for _, n := range names {
		require.NoError(t, repo.CreateUser(&User{Username: n, Email: n + "@example.com", Password: "hashed", Role: RoleUser}))
	}

	users, total, err := repo.GetAllUsers(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)

	users, _, err = repo.GetAllUsers(2, 2)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestHasAdmin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	has, err := repo.HasAdmin()
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, repo.CreateUser(&User{Username: "root", Email: "root@example.com", Password: "hashed", Role: RoleAdmin}))

	has, err = repo.HasAdmin()
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStatistics(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	require.NoError(t, repo.CreateUser(&User{Username: "root", Email: "root@example.com", Password: "hashed", Role: RoleAdmin, City: "Moscow"}))
	require.NoError(t, repo.CreateUser(&User{Username: "alice", Email: "alice@example.com", Password: "hashed", Role: RoleUser, City: "Moscow", LookingForTeam: true}))
	require.NoError(t, repo.CreateUser(&User{Username: "bob", Email: "bob@example.com", Password: "hashed", Role: RoleUser, City: "Kazan"}))

	stats, err := repo.Statistics()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.AdminUsers)
	assert.Equal(t, int64(2), stats.RegularUsers)
	assert.Equal(t, int64(3), stats.UsersThisMonth)
	assert.Equal(t, int64(1), stats.LookingForTeam)
	assert.Equal(t, int64(2), stats.CitiesStats["Moscow"])
	assert.Equal(t, int64(1), stats.CitiesStats["Kazan"])
}

func TestRefreshTokenLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	u := &User{Username: "alice", Email: "alice@example.com", Password: "hashed", Role: RoleUser}
	require.NoError(t, repo.CreateUser(u))

	rt := &RefreshToken{UserID: u.ID, Token: "tok-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.SaveRefreshToken(rt))

	found, err := repo.GetRefreshToken("tok-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.UserID)

	require.NoError(t, repo.DeleteRefreshToken("tok-1"))
	found, err = repo.GetRefreshToken("tok-1")
	require.NoError(t, err)
	assert.Nil(t, found)

	// Revoking all tokens of a user
	require.NoError(t, repo.SaveRefreshToken(&RefreshToken{UserID: u.ID, Token: "tok-2", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.SaveRefreshToken(&RefreshToken{UserID: u.ID, Token: "tok-3", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.DeleteRefreshTokensForUser(u.ID))

	found, err = repo.GetRefreshToken("tok-2")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestDeleteUser_Hard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	u := &User{Username: "alice", Email: "alice@example.com", Password: "hashed", Role: RoleUser}
	require.NoError(t, repo.CreateUser(u))
	require.NoError(t, repo.DeleteUser(u.ID))

	gone, err := repo.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Even an unscoped lookup finds nothing
	var count int64
	require.NoError(t, db.Unscoped().Model(&User{}).Count(&count).Error)
	assert.Zero(t, count)
}
