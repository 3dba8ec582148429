package hackathon

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arkhdev/hackhub/internal/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive for the test
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&Hackathon{}, &Participation{}, &Team{}, &ReputationHistory{},
		&projectRow{}, &projectCommentRow{}, &expertAreaRow{},
	))
	return db
}

// Minimal mirrors of the project package's tables. The delete cascades in
// this package reach those tables by name, and importing the project package
// from here would be a cycle.
type projectRow struct {
	gorm.Model
	HackathonID     uint
	ParticipationID uint
	TeamID          *uint
	Name            string
}

func (projectRow) TableName() string { return "projects" }

type projectCommentRow struct {
	ID        uint `gorm:"primarykey"`
	ProjectID uint
	ExpertID  uint
	Text      string
}

func (projectCommentRow) TableName() string { return "project_comments" }

type expertAreaRow struct {
	ID          uint `gorm:"primarykey"`
	ExpertID    uint
	HackathonID uint
	Topic       string
}

func (expertAreaRow) TableName() string { return "expert_areas" }

func createTestUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	u := &user.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed",
		Role:     user.RoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createTestHackathon(t *testing.T, db *gorm.DB, name string, maxTeamSize *int) *Hackathon {
	t.Helper()
	h := &Hackathon{
		Name:        name,
		StartDate:   time.Now().Add(24 * time.Hour),
		EndDate:     time.Now().Add(72 * time.Hour),
		MaxTeamSize: maxTeamSize,
		Status:      StatusUpcoming,
	}
	require.NoError(t, db.Create(h).Error)
	return h
}

func intPtr(v int) *int { return &v }
