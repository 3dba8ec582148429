package hackathon

import (
	"time"

	"github.com/arkhdev/hackhub/internal/user"
	"gorm.io/gorm"
)

// Team is a captain-owned group inside one hackathon. The team's numeric id
// doubles as its join code. Name is unique within the hackathon.
type Team struct {
	gorm.Model
	HackathonID uint   `json:"hackathon_id" gorm:"index:idx_team_hackathon_name,unique;not null"`
	Name        string `json:"name" gorm:"index:idx_team_hackathon_name,unique;not null"`
	CaptainID   uint   `json:"captain_id" gorm:"index;not null"`
	Description string `json:"description"`

	Hackathon *Hackathon `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Captain   user.User  `json:"-" gorm:"foreignKey:CaptainID;constraint:OnDelete:CASCADE"`
}

// TeamWithCount is a team listing row enriched with its member count.
type TeamWithCount struct {
	ID          uint      `json:"id"`
	HackathonID uint      `json:"hackathon_id"`
	Name        string    `json:"name"`
	CaptainID   uint      `json:"captain_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	MemberCount int64     `json:"member_count"`
}

// TeamDetail is a team with its members resolved.
type TeamDetail struct {
	Team    Team              `json:"team"`
	Members []ParticipantInfo `json:"members"`
}
