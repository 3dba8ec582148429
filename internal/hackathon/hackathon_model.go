package hackathon

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Status is the lifecycle state of a hackathon.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusFinished Status = "finished"
)

// ParseStatus validates a raw status string against the closed enumeration.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusUpcoming, StatusOngoing, StatusFinished:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown hackathon status %q", s)
}

// Hackathon is an event definition. MaxTeamSize nil means unlimited teams.
// A hackathon is visible to non-admins once published or once enough
// participants signed up.
type Hackathon struct {
	gorm.Model
	Name            string    `json:"name" gorm:"not null"`
	Description     string    `json:"description"`
	Organizer       string    `json:"organizer"`
	StartDate       time.Time `json:"start_date" gorm:"not null"`
	EndDate         time.Time `json:"end_date" gorm:"not null"`
	DurationHours   *int      `json:"duration_hours"`
	PrizeFund       string    `json:"prize_fund"`
	MaxTeamSize     *int      `json:"max_team_size"`
	Status          Status    `json:"status" gorm:"type:varchar(16);not null;default:'upcoming'"`
	MinParticipants int       `json:"min_participants" gorm:"default:0"`
	Published       bool      `json:"published" gorm:"default:false"`
}

// HackathonWithCount is a listing row enriched with the participant count.
type HackathonWithCount struct {
	Hackathon
	ParticipantCount int64 `json:"participant_count"`
}
