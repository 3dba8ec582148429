package project

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arkhdev/hackhub/internal/hackathon"
	"github.com/arkhdev/hackhub/internal/middleware"
	"github.com/arkhdev/hackhub/pkg/responses"
	"github.com/gin-gonic/gin"
)

// ProjectController handles project submission and review HTTP requests
type ProjectController struct {
	repo              ProjectRepository
	participationRepo hackathon.ParticipationRepository
}

func NewProjectController(repo ProjectRepository, participationRepo hackathon.ParticipationRepository) *ProjectController {
	return &ProjectController{repo: repo, participationRepo: participationRepo}
}

// --- DTOs for requests ---

type ProjectRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=200"`
	Description string `json:"description"`
	RepoURL     string `json:"repo_url" binding:"omitempty,url"`
	Status      string `json:"status"`
}

type ExpertAreaRequest struct {
	Topic string `json:"topic" binding:"required,min=2,max=100"`
}

type CommentRequest struct {
	Text   string `json:"text" binding:"required,min=1,max=2000"`
	Rating *int   `json:"rating" binding:"omitempty,gte=1,lte=10"`
}

func parseHackathonID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("hackathon_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid hackathon ID")
		return 0, false
	}
	return uint(id), true
}

func parseProjectID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("project_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid project ID")
		return 0, false
	}
	return uint(id), true
}

// canReview reports whether the caller is an admin or holds an expert
// participation in the given hackathon.
func (pc *ProjectController) canReview(c *gin.Context, hackathonID uint) (bool, error) {
	if middleware.IsAdmin(c) {
		return true, nil
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return false, err
	}
	return pc.participationRepo.IsExpert(callerID, hackathonID)
}

// ownsProject reports whether the caller's participation is the one the
// project was submitted under.
func (pc *ProjectController) ownsProject(c *gin.Context, p *Project) (bool, error) {
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return false, err
	}
	participation, err := pc.participationRepo.GetByUserAndHackathon(callerID, p.HackathonID)
	if err != nil {
		return false, err
	}
	return participation != nil && participation.ID == p.ParticipationID, nil
}

// CreateProject godoc
// @Summary Submit a project draft for a hackathon
// @Description The caller must participate in the hackathon; each participation may hold one project. The project inherits the caller's team.
// @Tags Projects
// @Accept json
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param project body ProjectRequest true "Project details"
// @Success 201 {object} responses.SuccessResponse{data=Project}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/projects [post]
func (pc *ProjectController) CreateProject(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	participation, err := pc.participationRepo.GetByUserAndHackathon(callerID, hackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve participation: "+err.Error())
		return
	}
	if participation == nil {
		responses.Forbidden(c, "You are not registered for this hackathon")
		return
	}

	p := &Project{
		HackathonID:     hackathonID,
		ParticipationID: participation.ID,
		TeamID:          participation.TeamID,
		Name:            req.Name,
		Description:     req.Description,
		RepoURL:         req.RepoURL,
		Status:          StatusDraft,
	}
	if err := pc.repo.CreateProject(p); err != nil {
		if errors.Is(err, ErrDuplicateProject) {
			responses.Conflict(c, "You already have a project in this hackathon")
			return
		}
		responses.InternalServerError(c, "Failed to create project: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Project created successfully", p)
}

// GetProject godoc
// @Summary Get a project
// @Description Visible to its owner, hackathon experts, and admins.
// @Tags Projects
// @Produce json
// @Param project_id path uint true "Project ID"
// @Success 200 {object} responses.SuccessResponse{data=Project}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /projects/{project_id} [get]
func (pc *ProjectController) GetProject(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	p, err := pc.repo.GetProjectByID(projectID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve project: "+err.Error())
		return
	}
	if p == nil {
		responses.NotFound(c, "Project")
		return
	}

	owns, err := pc.ownsProject(c, p)
	if err != nil {
		responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
		return
	}
	if !owns {
		allowed, err := pc.canReview(c, p.HackathonID)
		if err != nil {
			responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
			return
		}
		if !allowed {
			responses.Forbidden(c, "Not allowed to view this project")
			return
		}
	}
	responses.SendSuccess(c, http.StatusOK, "Project retrieved successfully", p)
}

// ListProjects godoc
// @Summary List all projects of a hackathon (expert or admin)
// @Tags Projects
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Success 200 {object} responses.SuccessResponse{data=[]Project}
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/projects [get]
func (pc *ProjectController) ListProjects(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	allowed, err := pc.canReview(c, hackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
		return
	}
	if !allowed {
		responses.Forbidden(c, "Only hackathon experts and admins can list projects")
		return
	}

	projects, err := pc.repo.ListProjectsByHackathon(hackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve projects: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Projects retrieved successfully", projects)
}

// UpdateProject godoc
// @Summary Update a project
// @Description Only the owner may update, and only while the project has not been reviewed. Setting status to submitted hands it to the experts.
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path uint true "Project ID"
// @Param project body ProjectRequest true "Project details"
// @Success 200 {object} responses.SuccessResponse{data=Project}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Already reviewed"
// @Security ApiKeyAuth
// @Router /projects/{project_id} [put]
func (pc *ProjectController) UpdateProject(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	p, err := pc.repo.GetProjectByID(projectID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve project: "+err.Error())
		return
	}
	if p == nil {
		responses.NotFound(c, "Project")
		return
	}

	owns, err := pc.ownsProject(c, p)
	if err != nil {
		responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
		return
	}
	if !owns {
		responses.Forbidden(c, "Only the project owner can update it")
		return
	}
	if p.Status == StatusReviewed {
		responses.Conflict(c, "A reviewed project can no longer be changed")
		return
	}

	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if req.Status != "" {
		status, err := ParseStatus(req.Status)
		if err != nil {
			responses.BadRequest(c, err.Error())
			return
		}
		if status == StatusReviewed {
			responses.Forbidden(c, "Only experts mark projects as reviewed")
			return
		}
		p.Status = status
	}
	p.Name = req.Name
	p.Description = req.Description
	p.RepoURL = req.RepoURL

	if err := pc.repo.UpdateProject(p); err != nil {
		responses.InternalServerError(c, "Failed to update project: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Project updated successfully", p)
}

// DeleteProject godoc
// @Summary Delete a project and its comments
// @Description Owners delete their own unreviewed projects; admins delete any project.
// @Tags Projects
// @Produce json
// @Param project_id path uint true "Project ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /projects/{project_id} [delete]
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	p, err := pc.repo.GetProjectByID(projectID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve project: "+err.Error())
		return
	}
	if p == nil {
		responses.NotFound(c, "Project")
		return
	}

	if !middleware.IsAdmin(c) {
		owns, err := pc.ownsProject(c, p)
		if err != nil {
			responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
			return
		}
		if !owns {
			responses.Forbidden(c, "Only the project owner or an admin can delete it")
			return
		}
		if p.Status == StatusReviewed {
			responses.Conflict(c, "A reviewed project can only be deleted by an admin")
			return
		}
	}

	if err := pc.repo.DeleteProject(projectID); err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			responses.NotFound(c, "Project")
			return
		}
		responses.InternalServerError(c, "Failed to delete project: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Project deleted successfully", nil)
}

// AddExpertArea godoc
// @Summary Declare a topic the caller covers as expert in a hackathon
// @Tags Expert areas
// @Accept json
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param area body ExpertAreaRequest true "Topic"
// @Success 201 {object} responses.SuccessResponse{data=ExpertArea}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/expert-areas [post]
func (pc *ProjectController) AddExpertArea(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	allowed, err := pc.canReview(c, hackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
		return
	}
	if !allowed {
		responses.Forbidden(c, "Only hackathon experts and admins can declare expert areas")
		return
	}

	var req ExpertAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	area := &ExpertArea{
		ExpertID:    callerID,
		HackathonID: hackathonID,
		Topic:       req.Topic,
	}
	if err := pc.repo.AddExpertArea(area); err != nil {
		if errors.Is(err, ErrDuplicateArea) {
			responses.Conflict(c, "You already cover this topic in the hackathon")
			return
		}
		responses.InternalServerError(c, "Failed to add expert area: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Expert area added successfully", area)
}

// RemoveExpertArea godoc
// @Summary Remove an expert area
// @Tags Expert areas
// @Produce json
// @Param area_id path uint true "Expert area ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /expert-areas/{area_id} [delete]
func (pc *ProjectController) RemoveExpertArea(c *gin.Context) {
	areaID, err := strconv.ParseUint(c.Param("area_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid expert area ID")
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	area, err := pc.repo.GetExpertArea(uint(areaID))
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve expert area: "+err.Error())
		return
	}
	if area == nil {
		responses.NotFound(c, "Expert area")
		return
	}
	if area.ExpertID != callerID && !middleware.IsAdmin(c) {
		responses.Forbidden(c, "Only the area's owner or an admin can remove it")
		return
	}

	if err := pc.repo.RemoveExpertArea(uint(areaID)); err != nil {
		if errors.Is(err, ErrAreaNotFound) {
			responses.NotFound(c, "Expert area")
			return
		}
		responses.InternalServerError(c, "Failed to remove expert area: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Expert area removed successfully", nil)
}

// ListExpertAreas godoc
// @Summary List an expert's topics in a hackathon
// @Tags Expert areas
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param expert_id path uint true "Expert user ID"
// @Success 200 {object} responses.SuccessResponse{data=[]ExpertArea}
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/experts/{expert_id}/areas [get]
func (pc *ProjectController) ListExpertAreas(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	expertID, err := strconv.ParseUint(c.Param("expert_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid expert ID")
		return
	}

	areas, err := pc.repo.ListExpertAreas(uint(expertID), hackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve expert areas: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Expert areas retrieved successfully", areas)
}

// CreateComment godoc
// @Summary Leave a review comment on a submitted project (expert or admin)
// @Description Commenting marks the project as reviewed. The optional rating ranges 1 to 10.
// @Tags Projects
// @Accept json
// @Produce json
// @Param project_id path uint true "Project ID"
// @Param comment body CommentRequest true "Review comment"
// @Success 201 {object} responses.SuccessResponse{data=ProjectComment}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Project still a draft"
// @Security ApiKeyAuth
// @Router /projects/{project_id}/comments [post]
func (pc *ProjectController) CreateComment(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	p, err := pc.repo.GetProjectByID(projectID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve project: "+err.Error())
		return
	}
	if p == nil {
		responses.NotFound(c, "Project")
		return
	}

	allowed, err := pc.canReview(c, p.HackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
		return
	}
	if !allowed {
		responses.Forbidden(c, "Only hackathon experts and admins can review projects")
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	comment := &ProjectComment{
		ProjectID: projectID,
		ExpertID:  callerID,
		Text:      req.Text,
		Rating:    req.Rating,
	}
	if err := pc.repo.CreateComment(comment); err != nil {
		switch {
		case errors.Is(err, ErrProjectNotFound):
			responses.NotFound(c, "Project")
		case errors.Is(err, ErrCommentNotAllowed):
			responses.Conflict(c, "The project has not been submitted yet")
		default:
			responses.InternalServerError(c, "Failed to create comment: "+err.Error())
		}
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Comment created successfully", comment)
}

// ListComments godoc
// @Summary List review comments on a project, newest first
// @Description Visible to the project owner, hackathon experts, and admins.
// @Tags Projects
// @Produce json
// @Param project_id path uint true "Project ID"
// @Success 200 {object} responses.SuccessResponse{data=[]ProjectComment}
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /projects/{project_id}/comments [get]
func (pc *ProjectController) ListComments(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	p, err := pc.repo.GetProjectByID(projectID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve project: "+err.Error())
		return
	}
	if p == nil {
		responses.NotFound(c, "Project")
		return
	}

	owns, err := pc.ownsProject(c, p)
	if err != nil {
		responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
		return
	}
	if !owns {
		allowed, err := pc.canReview(c, p.HackathonID)
		if err != nil {
			responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
			return
		}
		if !allowed {
			responses.Forbidden(c, "Not allowed to view these comments")
			return
		}
	}

	comments, err := pc.repo.ListComments(projectID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve comments: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Comments retrieved successfully", comments)
}
