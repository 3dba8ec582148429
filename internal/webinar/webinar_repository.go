package webinar

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrWebinarNotFound      = errors.New("webinar not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrAlreadyRegistered    = errors.New("user is already registered")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrEventFull            = errors.New("no spots left")
)

// WebinarRepository defines the interface for webinar and course data operations
type WebinarRepository interface {
	CreateWebinar(w *Webinar) error
	GetWebinarByID(id uint) (*Webinar, error)
	ListWebinars(callerID uint) ([]WebinarWithCount, error)
	RegisterForWebinar(webinarID, userID uint) error
	CancelWebinarRegistration(webinarID, userID uint) error
	ListMyWebinars(userID uint) ([]Webinar, error)

	CreateCourse(course *Course) error
	GetCourseByID(id uint) (*Course, error)
	ListCourses(callerID uint) ([]CourseWithCount, error)
	EnrollInCourse(courseID, userID uint) error
	CancelCourseEnrollment(courseID, userID uint) error
	ListMyCourses(userID uint) ([]Course, error)
}

type webinarRepository struct {
	db *gorm.DB
}

// NewWebinarRepository creates a new instance of WebinarRepository
func NewWebinarRepository(db *gorm.DB) WebinarRepository {
	return &webinarRepository{db: db}
}

func (r *webinarRepository) CreateWebinar(w *Webinar) error {
	return r.db.Create(w).Error
}

func (r *webinarRepository) GetWebinarByID(id uint) (*Webinar, error) {
	var w Webinar
	if err := r.db.First(&w, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *webinarRepository) ListWebinars(callerID uint) ([]WebinarWithCount, error) {
	var webinars []Webinar
	if err := r.db.Order("date_time asc").Find(&webinars).Error; err != nil {
		return nil, err
	}

	out := make([]WebinarWithCount, 0, len(webinars))
	for _, w := range webinars {
		var count int64
		if err := r.db.Model(&WebinarRegistration{}).Where("webinar_id = ?", w.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		var mine int64
		if err := r.db.Model(&WebinarRegistration{}).
			Where("webinar_id = ? AND user_id = ?", w.ID, callerID).
			Count(&mine).Error; err != nil {
			return nil, err
		}
		out = append(out, WebinarWithCount{Webinar: w, ParticipantCount: count, IsRegistered: mine > 0})
	}
	return out, nil
}

// RegisterForWebinar takes a spot. The duplicate check and the capacity
// re-check run in the same transaction as the insert.
func (r *webinarRepository) RegisterForWebinar(webinarID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var w Webinar
		if err := tx.First(&w, webinarID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWebinarNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&WebinarRegistration{}).
			Where("webinar_id = ? AND user_id = ?", webinarID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		if w.MaxParticipants != nil {
			var count int64
			if err := tx.Model(&WebinarRegistration{}).Where("webinar_id = ?", webinarID).Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(*w.MaxParticipants) {
				return ErrEventFull
			}
		}

		return tx.Create(&WebinarRegistration{WebinarID: webinarID, UserID: userID}).Error
	})
}

func (r *webinarRepository) CancelWebinarRegistration(webinarID, userID uint) error {
	res := r.db.Where("webinar_id = ? AND user_id = ?", webinarID, userID).Delete(&WebinarRegistration{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *webinarRepository) ListMyWebinars(userID uint) ([]Webinar, error) {
	var webinars []Webinar
	err := r.db.Model(&Webinar{}).
		Joins("JOIN webinar_registrations ON webinar_registrations.webinar_id = webinars.id").
		Where("webinar_registrations.user_id = ?", userID).
		Order("webinars.date_time asc").
		Find(&webinars).Error
	return webinars, err
}

func (r *webinarRepository) CreateCourse(course *Course) error {
	return r.db.Create(course).Error
}

func (r *webinarRepository) GetCourseByID(id uint) (*Course, error) {
	var course Course
	if err := r.db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &course, nil
}

func (r *webinarRepository) ListCourses(callerID uint) ([]CourseWithCount, error) {
	var courses []Course
	if err := r.db.Order("start_date asc").Find(&courses).Error; err != nil {
		return nil, err
	}

	out := make([]CourseWithCount, 0, len(courses))
	for _, course := range courses {
		var count int64
		if err := r.db.Model(&CourseEnrollment{}).Where("course_id = ?", course.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		var mine int64
		if err := r.db.Model(&CourseEnrollment{}).
			Where("course_id = ? AND user_id = ?", course.ID, callerID).
			Count(&mine).Error; err != nil {
			return nil, err
		}
		out = append(out, CourseWithCount{Course: course, StudentCount: count, IsRegistered: mine > 0})
	}
	return out, nil
}

// EnrollInCourse mirrors webinar registration, including the in-transaction
// capacity re-check.
func (r *webinarRepository) EnrollInCourse(courseID, userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var course Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&CourseEnrollment{}).
			Where("course_id = ? AND user_id = ?", courseID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		if course.MaxStudents != nil {
			var count int64
			if err := tx.Model(&CourseEnrollment{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(*course.MaxStudents) {
				return ErrEventFull
			}
		}

		return tx.Create(&CourseEnrollment{CourseID: courseID, UserID: userID}).Error
	})
}

func (r *webinarRepository) CancelCourseEnrollment(courseID, userID uint) error {
	res := r.db.Where("course_id = ? AND user_id = ?", courseID, userID).Delete(&CourseEnrollment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}

func (r *webinarRepository) ListMyCourses(userID uint) ([]Course, error) {
	var courses []Course
	err := r.db.Model(&Course{}).
		Joins("JOIN course_enrollments ON course_enrollments.course_id = courses.id").
		Where("course_enrollments.user_id = ?", userID).
		Order("courses.start_date asc").
		Find(&courses).Error
	return courses, err
}
