package hackathon

import (
	"fmt"
	"time"

	"github.com/arkhdev/hackhub/internal/user"
	"gorm.io/gorm"
)

// ParticipantRole is a user's role within one hackathon. It is independent
// of the platform role on the account.
type ParticipantRole string

const (
	RoleCaptain         ParticipantRole = "captain"
	RoleTeamMember      ParticipantRole = "team_member"
	RoleFreeParticipant ParticipantRole = "free_participant"
	RoleExpert          ParticipantRole = "expert"
)

// ParseParticipantRole validates a raw role string against the closed enumeration.
func ParseParticipantRole(s string) (ParticipantRole, error) {
	switch ParticipantRole(s) {
	case RoleCaptain, RoleTeamMember, RoleFreeParticipant, RoleExpert:
		return ParticipantRole(s), nil
	}
	return "", fmt.Errorf("unknown participant role %q, valid roles: captain, team_member, free_participant, expert", s)
}

// Participation binds one user to one hackathon. The (user_id, hackathon_id)
// pair is unique; a user holds exactly one role per hackathon.
type Participation struct {
	gorm.Model
	UserID      uint            `json:"user_id" gorm:"uniqueIndex:idx_participation_user_hackathon;not null"`
	HackathonID uint            `json:"hackathon_id" gorm:"uniqueIndex:idx_participation_user_hackathon;not null"`
	Role        ParticipantRole `json:"role" gorm:"type:varchar(32);not null"`
	TeamID      *uint           `json:"team_id" gorm:"index"`
	Reputation  int             `json:"reputation" gorm:"default:0"`

	User      user.User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Hackathon *Hackathon `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Team      *Team      `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}

// ReputationHistory is the append-only audit log of reputation changes.
// Rows are never updated; the participation's current reputation always
// equals the NewReputation of its latest row.
type ReputationHistory struct {
	ID              uint      `json:"id" gorm:"primarykey"`
	ParticipationID uint      `json:"participation_id" gorm:"index;not null"`
	OldReputation   int       `json:"old_reputation"`
	NewReputation   int       `json:"new_reputation"`
	ChangedBy       uint      `json:"changed_by"`
	Reason          string    `json:"reason"`
	CreatedAt       time.Time `json:"created_at"`

	Participation Participation `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// ParticipantInfo is a participation row joined with the owning user's
// public fields, as shown on expert and admin participant lists.
type ParticipantInfo struct {
	ID           uint            `json:"id"`
	UserID       uint            `json:"user_id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	TelegramNick *string         `json:"telegram_nick"`
	Role         ParticipantRole `json:"role"`
	TeamID       *uint           `json:"team_id"`
	Reputation   int             `json:"reputation"`
	CreatedAt    time.Time       `json:"created_at"`
}
