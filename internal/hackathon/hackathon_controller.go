package hackathon

import (
	"net/http"
	"strconv"
	"time"

	"github.com/arkhdev/hackhub/internal/middleware"
	"github.com/arkhdev/hackhub/pkg/responses"
	"github.com/gin-gonic/gin"
)

// HackathonController handles hackathon registry HTTP requests
type HackathonController struct {
	repo HackathonRepository
}

// NewHackathonController creates a new hackathon controller
func NewHackathonController(repo HackathonRepository) *HackathonController {
	return &HackathonController{repo: repo}
}

// --- DTOs for requests ---

type HackathonRequest struct {
	Name            string    `json:"name" binding:"required,min=3,max=200"`
	Description     string    `json:"description"`
	Organizer       string    `json:"organizer" binding:"max=200"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
	DurationHours   *int      `json:"duration_hours" binding:"omitempty,gte=1"`
	PrizeFund       string    `json:"prize_fund"`
	MaxTeamSize     *int      `json:"max_team_size" binding:"omitempty,gte=1"`
	Status          string    `json:"status"`
	MinParticipants int       `json:"min_participants" binding:"gte=0"`
	Published       bool      `json:"published"`
}

func (req *HackathonRequest) toModel() (*Hackathon, error) {
	status := StatusUpcoming
	if req.Status != "" {
		parsed, err := ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	return &Hackathon{
		Name:            req.Name,
		Description:     req.Description,
		Organizer:       req.Organizer,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		DurationHours:   req.DurationHours,
		PrizeFund:       req.PrizeFund,
		MaxTeamSize:     req.MaxTeamSize,
		Status:          status,
		MinParticipants: req.MinParticipants,
		Published:       req.Published,
	}, nil
}

// ListHackathons godoc
// @Summary List hackathons
// @Description Admins see every hackathon. Others see hackathons that are published or have reached their minimum participant count.
// @Tags Hackathons
// @Produce json
// @Param status query string false "Filter by status (upcoming, ongoing, finished)"
// @Success 200 {object} responses.SuccessResponse{data=[]HackathonWithCount}
// @Router /hackathons [get]
func (hc *HackathonController) ListHackathons(c *gin.Context) {
	statusFilter := c.Query("status")
	if statusFilter != "" {
		if _, err := ParseStatus(statusFilter); err != nil {
			responses.BadRequest(c, err.Error())
			return
		}
	}

	var (
		hackathons []HackathonWithCount
		err        error
	)
	if middleware.IsAdmin(c) {
		hackathons, err = hc.repo.ListAll(statusFilter)
	} else {
		hackathons, err = hc.repo.ListVisible(statusFilter)
	}
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve hackathons: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Hackathons retrieved successfully", hackathons)
}

// GetHackathon godoc
// @Summary Get a hackathon by id
// @Tags Hackathons
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Success 200 {object} responses.SuccessResponse{data=Hackathon}
// @Failure 404 {object} responses.ErrorResponse
// @Router /hackathons/{hackathon_id} [get]
func (hc *HackathonController) GetHackathon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("hackathon_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid hackathon ID")
		return
	}

	h, err := hc.repo.GetByID(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve hackathon: "+err.Error())
		return
	}
	if h == nil {
		responses.NotFound(c, "Hackathon")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Hackathon retrieved successfully", h)
}

// CreateHackathon godoc
// @Summary Create a hackathon (admin)
// @Tags Hackathons
// @Accept json
// @Produce json
// @Param hackathon body HackathonRequest true "Hackathon definition"
// @Success 201 {object} responses.SuccessResponse{data=Hackathon}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/hackathons [post]
func (hc *HackathonController) CreateHackathon(c *gin.Context) {
	var req HackathonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if !req.EndDate.After(req.StartDate) {
		responses.BadRequest(c, "End date must be after start date")
		return
	}

	h, err := req.toModel()
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	if err := hc.repo.Create(h); err != nil {
		responses.InternalServerError(c, "Failed to create hackathon: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Hackathon created successfully", h)
}

// UpdateHackathon godoc
// @Summary Update a hackathon (admin)
// @Description A hackathon can only be edited while it is upcoming and its start date lies in the future.
// @Tags Hackathons
// @Accept json
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param hackathon body HackathonRequest true "Hackathon definition"
// @Success 200 {object} responses.SuccessResponse{data=Hackathon}
// @Failure 400 {object} responses.ErrorResponse "Hackathon already started"
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/hackathons/{hackathon_id} [put]
func (hc *HackathonController) UpdateHackathon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("hackathon_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid hackathon ID")
		return
	}

	h, err := hc.repo.GetByID(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve hackathon: "+err.Error())
		return
	}
	if h == nil {
		responses.NotFound(c, "Hackathon")
		return
	}
	if h.Status != StatusUpcoming || !h.StartDate.After(time.Now()) {
		responses.BadRequest(c, "Only upcoming hackathons can be edited")
		return
	}

	var req HackathonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	if !req.EndDate.After(req.StartDate) {
		responses.BadRequest(c, "End date must be after start date")
		return
	}

	updated, err := req.toModel()
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}
	updated.Model = h.Model

	if err := hc.repo.Update(updated); err != nil {
		responses.InternalServerError(c, "Failed to update hackathon: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Hackathon updated successfully", updated)
}

// DeleteHackathon godoc
// @Summary Delete a hackathon and everything scoped to it (admin)
// @Tags Hackathons
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/hackathons/{hackathon_id} [delete]
func (hc *HackathonController) DeleteHackathon(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("hackathon_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid hackathon ID")
		return
	}

	h, err := hc.repo.GetByID(uint(id))
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve hackathon: "+err.Error())
		return
	}
	if h == nil {
		responses.NotFound(c, "Hackathon")
		return
	}

	if err := hc.repo.Delete(uint(id)); err != nil {
		responses.InternalServerError(c, "Failed to delete hackathon: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Hackathon deleted successfully", nil)
}
