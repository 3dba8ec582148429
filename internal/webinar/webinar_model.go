package webinar

import (
	"fmt"
	"time"

	"github.com/arkhdev/hackhub/internal/user"
	"gorm.io/gorm"
)

// EventStatus is the lifecycle of a webinar or course.
type EventStatus string

const (
	EventUpcoming EventStatus = "upcoming"
	EventOngoing  EventStatus = "ongoing"
	EventFinished EventStatus = "finished"
)

// ParseEventStatus validates a raw status string against the closed enumeration.
func ParseEventStatus(s string) (EventStatus, error) {
	switch EventStatus(s) {
	case EventUpcoming, EventOngoing, EventFinished:
		return EventStatus(s), nil
	}
	return "", fmt.Errorf("unknown event status %q", s)
}

// Webinar is a one-off educational session.
type Webinar struct {
	gorm.Model
	Name            string      `json:"name" gorm:"not null"`
	Description     string      `json:"description"`
	Speaker         string      `json:"speaker"`
	DateTime        time.Time   `json:"date_time" gorm:"not null"`
	DurationMinutes int         `json:"duration_minutes"`
	Location        string      `json:"location"`
	MaxParticipants *int        `json:"max_participants"`
	Status          EventStatus `json:"status" gorm:"type:varchar(16);not null;default:'upcoming'"`
}

// Course is a multi-week educational program.
type Course struct {
	gorm.Model
	Name         string      `json:"name" gorm:"not null"`
	Description  string      `json:"description"`
	Instructor   string      `json:"instructor"`
	StartDate    time.Time   `json:"start_date" gorm:"not null"`
	EndDate      time.Time   `json:"end_date" gorm:"not null"`
	HoursPerWeek int         `json:"hours_per_week"`
	MaxStudents  *int        `json:"max_students"`
	Status       EventStatus `json:"status" gorm:"type:varchar(16);not null;default:'upcoming'"`
	Certificate  bool        `json:"certificate"`
}

// WebinarRegistration is one user's spot in a webinar.
type WebinarRegistration struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	WebinarID uint      `json:"webinar_id" gorm:"index:idx_webinar_reg,unique;not null"`
	UserID    uint      `json:"user_id" gorm:"index:idx_webinar_reg,unique;not null"`
	CreatedAt time.Time `json:"created_at"`

	Webinar *Webinar  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User    user.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// CourseEnrollment is one user's spot in a course.
type CourseEnrollment struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CourseID  uint      `json:"course_id" gorm:"index:idx_course_enroll,unique;not null"`
	UserID    uint      `json:"user_id" gorm:"index:idx_course_enroll,unique;not null"`
	CreatedAt time.Time `json:"created_at"`

	Course *Course   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User   user.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// WebinarWithCount is a webinar listing row with its registration count and
// whether the caller already holds a spot.
type WebinarWithCount struct {
	Webinar          Webinar `json:"webinar"`
	ParticipantCount int64   `json:"participant_count"`
	IsRegistered     bool    `json:"is_registered"`
}

// CourseWithCount is a course listing row with its enrollment count and
// whether the caller already holds a spot.
type CourseWithCount struct {
	Course       Course `json:"course"`
	StudentCount int64  `json:"student_count"`
	IsRegistered bool   `json:"is_registered"`
}
