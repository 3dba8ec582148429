package webinar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/arkhdev/hackhub/internal/middleware"
	"github.com/arkhdev/hackhub/pkg/responses"
	"github.com/gin-gonic/gin"
)

// WebinarController handles webinar and course HTTP requests
type WebinarController struct {
	repo WebinarRepository
}

func NewWebinarController(repo WebinarRepository) *WebinarController {
	return &WebinarController{repo: repo}
}

// --- DTOs for requests ---

type WebinarRequest struct {
	Name            string    `json:"name" binding:"required,min=3,max=200"`
	Description     string    `json:"description"`
	Speaker         string    `json:"speaker" binding:"max=200"`
	DateTime        time.Time `json:"date_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"gte=0"`
	Location        string    `json:"location"`
	MaxParticipants *int      `json:"max_participants" binding:"omitempty,gte=1"`
	Status          string    `json:"status"`
}

type CourseRequest struct {
	Name         string    `json:"name" binding:"required,min=3,max=200"`
	Description  string    `json:"description"`
	Instructor   string    `json:"instructor" binding:"max=200"`
	StartDate    time.Time `json:"start_date" binding:"required"`
	EndDate      time.Time `json:"end_date" binding:"required"`
	HoursPerWeek int       `json:"hours_per_week" binding:"gte=0"`
	MaxStudents  *int      `json:"max_students" binding:"omitempty,gte=1"`
	Status       string    `json:"status"`
	Certificate  bool      `json:"certificate"`
}

func parseIDParam(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid "+label+" ID")
		return 0, false
	}
	return uint(id), true
}

func parseStatusOrDefault(raw string) (EventStatus, error) {
	if raw == "" {
		return EventUpcoming, nil
	}
	return ParseEventStatus(raw)
}

// CreateWebinar godoc
// @Summary Create a webinar (admin)
// @Tags Webinars
// @Accept json
// @Produce json
// @Param webinar body WebinarRequest true "Webinar details"
// @Success 201 {object} responses.SuccessResponse{data=Webinar}
// @Failure 400 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/webinars [post]
func (wc *WebinarController) CreateWebinar(c *gin.Context) {
	var req WebinarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	status, err := parseStatusOrDefault(req.Status)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	w := &Webinar{
		Name:            req.Name,
		Description:     req.Description,
		Speaker:         req.Speaker,
		DateTime:        req.DateTime,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		Status:          status,
	}
	if err := wc.repo.CreateWebinar(w); err != nil {
		responses.InternalServerError(c, "Failed to create webinar: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Webinar created successfully", w)
}

// ListWebinars godoc
// @Summary List webinars with registration counts
// @Tags Webinars
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]WebinarWithCount}
// @Security ApiKeyAuth
// @Router /webinars [get]
func (wc *WebinarController) ListWebinars(c *gin.Context) {
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	webinars, err := wc.repo.ListWebinars(callerID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve webinars: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Webinars retrieved successfully", webinars)
}

// GetWebinar godoc
// @Summary Get a webinar by id
// @Tags Webinars
// @Produce json
// @Param webinar_id path uint true "Webinar ID"
// @Success 200 {object} responses.SuccessResponse{data=Webinar}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /webinars/{webinar_id} [get]
func (wc *WebinarController) GetWebinar(c *gin.Context) {
	id, ok := parseIDParam(c, "webinar_id", "webinar")
	if !ok {
		return
	}
	w, err := wc.repo.GetWebinarByID(id)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve webinar: "+err.Error())
		return
	}
	if w == nil {
		responses.NotFound(c, "Webinar")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Webinar retrieved successfully", w)
}

// RegisterForWebinar godoc
// @Summary Register the caller for a webinar
// @Tags Webinars
// @Produce json
// @Param webinar_id path uint true "Webinar ID"
// @Success 201 {object} responses.SuccessResponse
// @Failure 409 {object} responses.ErrorResponse "Already registered or full"
// @Security ApiKeyAuth
// @Router /webinars/{webinar_id}/registrations [post]
func (wc *WebinarController) RegisterForWebinar(c *gin.Context) {
	id, ok := parseIDParam(c, "webinar_id", "webinar")
	if !ok {
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	if err := wc.repo.RegisterForWebinar(id, callerID); err != nil {
		switch {
		case errors.Is(err, ErrWebinarNotFound):
			responses.NotFound(c, "Webinar")
		case errors.Is(err, ErrAlreadyRegistered):
			responses.Conflict(c, "You are already registered for this webinar")
		case errors.Is(err, ErrEventFull):
			responses.Conflict(c, "The webinar has no spots left")
		default:
			responses.InternalServerError(c, "Failed to register: "+err.Error())
		}
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Registered for webinar successfully", nil)
}

// CancelWebinarRegistration godoc
// @Summary Cancel the caller's webinar registration
// @Tags Webinars
// @Produce json
// @Param webinar_id path uint true "Webinar ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /webinars/{webinar_id}/registrations [delete]
func (wc *WebinarController) CancelWebinarRegistration(c *gin.Context) {
	id, ok := parseIDParam(c, "webinar_id", "webinar")
	if !ok {
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	if err := wc.repo.CancelWebinarRegistration(id, callerID); err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			responses.NotFound(c, "Registration")
			return
		}
		responses.InternalServerError(c, "Failed to cancel registration: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Registration cancelled successfully", nil)
}

// GetMyWebinars godoc
// @Summary List webinars the caller is registered for
// @Tags Webinars
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Webinar}
// @Security ApiKeyAuth
// @Router /users/me/webinars [get]
func (wc *WebinarController) GetMyWebinars(c *gin.Context) {
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	webinars, err := wc.repo.ListMyWebinars(callerID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve webinars: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Webinars retrieved successfully", webinars)
}

// CreateCourse godoc
// @Summary Create a course (admin)
// @Tags Courses
// @Accept json
// @Produce json
// @Param course body CourseRequest true "Course details"
// @Success 201 {object} responses.SuccessResponse{data=Course}
// @Failure 400 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses [post]
func (wc *WebinarController) CreateCourse(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if !req.EndDate.After(req.StartDate) {
		responses.BadRequest(c, "End date must be after start date")
		return
	}
	status, err := parseStatusOrDefault(req.Status)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	course := &Course{
		Name:         req.Name,
		Description:  req.Description,
		Instructor:   req.Instructor,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		HoursPerWeek: req.HoursPerWeek,
		MaxStudents:  req.MaxStudents,
		Status:       status,
		Certificate:  req.Certificate,
	}
	if err := wc.repo.CreateCourse(course); err != nil {
		responses.InternalServerError(c, "Failed to create course: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Course created successfully", course)
}

// ListCourses godoc
// @Summary List courses with enrollment counts
// @Tags Courses
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]CourseWithCount}
// @Security ApiKeyAuth
// @Router /courses [get]
func (wc *WebinarController) ListCourses(c *gin.Context) {
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	courses, err := wc.repo.ListCourses(callerID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve courses: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Courses retrieved successfully", courses)
}

// GetCourse godoc
// @Summary Get a course by id
// @Tags Courses
// @Produce json
// @Param course_id path uint true "Course ID"
// @Success 200 {object} responses.SuccessResponse{data=Course}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{course_id} [get]
func (wc *WebinarController) GetCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "course_id", "course")
	if !ok {
		return
	}
	course, err := wc.repo.GetCourseByID(id)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve course: "+err.Error())
		return
	}
	if course == nil {
		responses.NotFound(c, "Course")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Course retrieved successfully", course)
}

// EnrollInCourse godoc
// @Summary Enroll the caller in a course
// @Tags Courses
// @Produce json
// @Param course_id path uint true "Course ID"
// @Success 201 {object} responses.SuccessResponse
// @Failure 409 {object} responses.ErrorResponse "Already enrolled or full"
// @Security ApiKeyAuth
// @Router /courses/{course_id}/enrollments [post]
func (wc *WebinarController) EnrollInCourse(c *gin.Context) {
	id, ok := parseIDParam(c, "course_id", "course")
	if !ok {
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	if err := wc.repo.EnrollInCourse(id, callerID); err != nil {
		switch {
		case errors.Is(err, ErrCourseNotFound):
			responses.NotFound(c, "Course")
		case errors.Is(err, ErrAlreadyRegistered):
			responses.Conflict(c, "You are already enrolled in this course")
		case errors.Is(err, ErrEventFull):
			responses.Conflict(c, "The course has no spots left")
		default:
			responses.InternalServerError(c, "Failed to enroll: "+err.Error())
		}
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Enrolled in course successfully", nil)
}

// CancelCourseEnrollment godoc
// @Summary Cancel the caller's course enrollment
// @Tags Courses
// @Produce json
// @Param course_id path uint true "Course ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{course_id}/enrollments [delete]
func (wc *WebinarController) CancelCourseEnrollment(c *gin.Context) {
	id, ok := parseIDParam(c, "course_id", "course")
	if !ok {
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	if err := wc.repo.CancelCourseEnrollment(id, callerID); err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			responses.NotFound(c, "Enrollment")
			return
		}
		responses.InternalServerError(c, "Failed to cancel enrollment: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Enrollment cancelled successfully", nil)
}

// GetMyCourses godoc
// @Summary List courses the caller is enrolled in
// @Tags Courses
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Course}
// @Security ApiKeyAuth
// @Router /users/me/courses [get]
func (wc *WebinarController) GetMyCourses(c *gin.Context) {
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	courses, err := wc.repo.ListMyCourses(callerID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve courses: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Courses retrieved successfully", courses)
}
