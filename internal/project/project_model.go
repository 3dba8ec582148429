package project

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Status is the review lifecycle of a project.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusReviewed  Status = "reviewed"
)

// ParseStatus validates a raw status string against the closed enumeration.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusDraft, StatusSubmitted, StatusReviewed:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown project status %q", s)
}

// ExpertArea is a topic an expert covers within one hackathon. The
// (expert, hackathon, topic) triple is unique.
type ExpertArea struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	ExpertID    uint      `json:"expert_id" gorm:"index:idx_expert_area,unique;not null"`
	HackathonID uint      `json:"hackathon_id" gorm:"index:idx_expert_area,unique;not null"`
	Topic       string    `json:"topic" gorm:"index:idx_expert_area,unique;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// Project is a team's or participant's submission to a hackathon.
type Project struct {
	gorm.Model
	HackathonID     uint   `json:"hackathon_id" gorm:"index;not null"`
	ParticipationID uint   `json:"participation_id" gorm:"index;not null"`
	TeamID          *uint  `json:"team_id" gorm:"index"`
	Name            string `json:"name" gorm:"not null"`
	Description     string `json:"description"`
	RepoURL         string `json:"repo_url"`
	Status          Status `json:"status" gorm:"type:varchar(16);not null;default:'draft'"`
}

// ProjectComment is an expert's review note on a project; the rating is
// optional and ranges 1 to 10 when present.
type ProjectComment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ProjectID uint      `json:"project_id" gorm:"index;not null"`
	ExpertID  uint      `json:"expert_id" gorm:"index;not null"`
	Text      string    `json:"text" gorm:"not null"`
	Rating    *int      `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
