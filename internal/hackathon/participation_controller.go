package hackathon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arkhdev/hackhub/internal/middleware"
	"github.com/arkhdev/hackhub/internal/user"
	"github.com/arkhdev/hackhub/pkg/responses"
	"github.com/gin-gonic/gin"
)

// ParticipationController handles participation and reputation HTTP requests
type ParticipationController struct {
	repo          ParticipationRepository
	hackathonRepo HackathonRepository
	teamRepo      TeamRepository
}

func NewParticipationController(repo ParticipationRepository, hackathonRepo HackathonRepository, teamRepo TeamRepository) *ParticipationController {
	return &ParticipationController{repo: repo, hackathonRepo: hackathonRepo, teamRepo: teamRepo}
}

// --- DTOs for requests ---

type CreateParticipationRequest struct {
	Role            string `json:"role" binding:"required"`
	TeamName        string `json:"team_name"`
	TeamDescription string `json:"team_description"`
	TeamCode        *uint  `json:"team_code"`
	TeamID          *uint  `json:"team_id"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Value is a pointer so that an explicit zero binds; the reason is optional.
type UpdateReputationRequest struct {
	Value  *int   `json:"value" binding:"required"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

func parseHackathonID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("hackathon_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid hackathon ID")
		return 0, false
	}
	return uint(id), true
}

// canReview reports whether the caller is an admin or holds an expert
// participation in the given hackathon.
func (pc *ParticipationController) canReview(c *gin.Context, hackathonID uint) (bool, error) {
	if middleware.IsAdmin(c) {
		return true, nil
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return false, err
	}
	return pc.repo.IsExpert(callerID, hackathonID)
}

// resolveTeam picks the team a new member ends up on. An explicit join
// code or team id wins; otherwise the first available team in name
// order is used.
func (pc *ParticipationController) resolveTeam(hackathonID uint, req *CreateParticipationRequest) (*Team, error) {
	if req.TeamCode != nil {
		return pc.teamRepo.GetTeamByJoinCode(hackathonID, *req.TeamCode)
	}
	if req.TeamID != nil {
		team, err := pc.teamRepo.GetTeamByID(*req.TeamID)
		if err != nil {
			return nil, err
		}
		if team == nil || team.HackathonID != hackathonID {
			return nil, nil
		}
		return team, nil
	}
	teams, err := pc.teamRepo.AvailableTeams(hackathonID)
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, ErrNoAvailableTeams
	}
	return pc.teamRepo.GetTeamByID(teams[0].ID)
}

// CreateParticipation godoc
// @Summary Register the caller for a hackathon
// @Description Captains must supply a team name and get their team created atomically. Team members are placed via join code, explicit team id, or auto-join.
// @Tags Participations
// @Accept json
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param participation body CreateParticipationRequest true "Registration details"
// @Success 201 {object} responses.SuccessResponse{data=Participation}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Already registered, team full, or team name taken"
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/participations [post]
func (pc *ParticipationController) CreateParticipation(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	role, err := ParseParticipantRole(req.Role)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	h, err := pc.hackathonRepo.GetByID(hackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve hackathon: "+err.Error())
		return
	}
	if h == nil {
		responses.NotFound(c, "Hackathon")
		return
	}

	if role == RoleExpert {
		callerRole, _ := middleware.GetUserRoleFromContext(c)
		if callerRole != string(user.RoleExpert) && callerRole != string(user.RoleAdmin) {
			responses.Forbidden(c, "Only experts can register as hackathon experts")
			return
		}
	}

	p := &Participation{
		UserID:      callerID,
		HackathonID: hackathonID,
		Role:        role,
	}

	switch role {
	case RoleCaptain:
		if req.TeamName == "" {
			responses.BadRequest(c, "Captains must provide a team name")
			return
		}
		team, err := pc.repo.CreateCaptainWithTeam(p, req.TeamName, req.TeamDescription)
		if err != nil {
			pc.sendCreateError(c, err)
			return
		}
		responses.SendSuccess(c, http.StatusCreated, "Registered as captain, team created", gin.H{
			"participation": p,
			"team":          team,
		})
		return
	case RoleTeamMember:
		team, err := pc.resolveTeam(hackathonID, &req)
		if err != nil {
			pc.sendCreateError(c, err)
			return
		}
		if team == nil {
			responses.NotFound(c, "Team")
			return
		}
		p.TeamID = &team.ID
	}

	if err := pc.repo.Create(p); err != nil {
		pc.sendCreateError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Registered for hackathon successfully", p)
}

func (pc *ParticipationController) sendCreateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDuplicateParticipation):
		responses.Conflict(c, "You are already registered for this hackathon")
	case errors.Is(err, ErrDuplicateTeamName):
		responses.Conflict(c, "A team with this name already exists in the hackathon")
	case errors.Is(err, ErrTeamFull):
		responses.Conflict(c, "The team is already full")
	case errors.Is(err, ErrTeamNotFound):
		responses.NotFound(c, "Team")
	case errors.Is(err, ErrNoAvailableTeams):
		responses.SendError(c, http.StatusNotFound, "No teams are open for joining")
	default:
		responses.InternalServerError(c, "Failed to register: "+err.Error())
	}
}

// CancelParticipation godoc
// @Summary Withdraw a user from a hackathon
// @Description Users can withdraw themselves, admins can withdraw anyone. A withdrawing captain takes their team down with them.
// @Tags Participations
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param user_id path uint true "User ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/participations/{user_id} [delete]
func (pc *ParticipationController) CancelParticipation(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	if uint(targetID) != callerID && !middleware.IsAdmin(c) {
		responses.Forbidden(c, "You can only withdraw your own participation")
		return
	}

	if err := pc.repo.Delete(uint(targetID), hackathonID); err != nil {
		if errors.Is(err, ErrParticipationNotFound) {
			responses.NotFound(c, "Participation")
			return
		}
		responses.InternalServerError(c, "Failed to withdraw: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Participation cancelled successfully", nil)
}

// GetMyParticipations godoc
// @Summary List the caller's participations across hackathons
// @Tags Participations
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Participation}
// @Security ApiKeyAuth
// @Router /users/me/participations [get]
func (pc *ParticipationController) GetMyParticipations(c *gin.Context) {
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	participations, err := pc.repo.ListByUser(callerID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve participations: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Participations retrieved successfully", participations)
}

// GetParticipation godoc
// @Summary Get one user's participation in a hackathon
// @Description Visible to the participant themselves, hackathon experts, and admins.
// @Tags Participations
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param user_id path uint true "User ID"
// @Success 200 {object} responses.SuccessResponse{data=Participation}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/participations/{user_id} [get]
func (pc *ParticipationController) GetParticipation(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	if uint(targetID) != callerID {
		allowed, err := pc.canReview(c, hackathonID)
		if err != nil {
			responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
			return
		}
		if !allowed {
			responses.Forbidden(c, "Not allowed to view this participation")
			return
		}
	}

	p, err := pc.repo.GetByUserAndHackathon(uint(targetID), hackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve participation: "+err.Error())
		return
	}
	if p == nil {
		responses.NotFound(c, "Participation")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Participation retrieved successfully", p)
}

// GetParticipants godoc
// @Summary List all participants of a hackathon
// @Description Restricted to hackathon experts and admins.
// @Tags Participations
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Success 200 {object} responses.SuccessResponse{data=[]ParticipantInfo}
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/participants [get]
func (pc *ParticipationController) GetParticipants(c *gin.Context) {
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
		responses.Forbidden(c, "Only hackathon experts and admins can list participants")
		return
	}

	participants, err := pc.repo.ListByHackathon(hackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve participants: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Participants retrieved successfully", participants)
}

// UpdateRole godoc
// @Summary Change a participant's role (admin)
// @Tags Participations
// @Accept json
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param user_id path uint true "User ID"
// @Param role body UpdateRoleRequest true "New role"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/hackathons/{hackathon_id}/participations/{user_id}/role [put]
func (pc *ParticipationController) UpdateRole(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	role, err := ParseParticipantRole(req.Role)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	if err := pc.repo.UpdateRole(uint(targetID), hackathonID, role); err != nil {
		if errors.Is(err, ErrParticipationNotFound) {
			responses.NotFound(c, "Participation")
			return
		}
		responses.InternalServerError(c, "Failed to update role: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Role updated successfully", nil)
}

// UpdateReputation godoc
// @Summary Set a participant's reputation (expert or admin)
// @Description Writes the new value and appends a history entry in one transaction.
// @Tags Reputation
// @Accept json
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param user_id path uint true "User ID"
// @Param reputation body UpdateReputationRequest true "New reputation and reason"
// @Success 200 {object} responses.SuccessResponse{data=ReputationHistory}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/participations/{user_id}/reputation [put]
func (pc *ParticipationController) UpdateReputation(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
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
		responses.Forbidden(c, "Only hackathon experts and admins can change reputation")
		return
	}

	var req UpdateReputationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	p, err := pc.repo.GetByUserAndHackathon(uint(targetID), hackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve participation: "+err.Error())
		return
	}
	if p == nil {
		responses.NotFound(c, "Participation")
		return
	}

	entry, err := pc.repo.UpdateReputation(p.ID, *req.Value, callerID, req.Reason)
	if err != nil {
		if errors.Is(err, ErrParticipationNotFound) {
			responses.NotFound(c, "Participation")
			return
		}
		responses.InternalServerError(c, "Failed to update reputation: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Reputation updated successfully", entry)
}

// GetReputationHistory godoc
// @Summary List reputation changes for a participant, newest first
// @Description Visible to the participant themselves, hackathon experts, and admins.
// @Tags Reputation
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param user_id path uint true "User ID"
// @Success 200 {object} responses.SuccessResponse{data=[]ReputationHistory}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/participations/{user_id}/reputation/history [get]
func (pc *ParticipationController) GetReputationHistory(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	if uint(targetID) != callerID {
		allowed, err := pc.canReview(c, hackathonID)
		if err != nil {
			responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
			return
		}
		if !allowed {
			responses.Forbidden(c, "Not allowed to view this reputation history")
			return
		}
	}

	p, err := pc.repo.GetByUserAndHackathon(uint(targetID), hackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve participation: "+err.Error())
		return
	}
	if p == nil {
		responses.NotFound(c, "Participation")
		return
	}

	history, err := pc.repo.GetReputationHistory(p.ID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve reputation history: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Reputation history retrieved successfully", history)
}
