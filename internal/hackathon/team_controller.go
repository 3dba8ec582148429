package hackathon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arkhdev/hackhub/internal/middleware"
	"github.com/arkhdev/hackhub/pkg/responses"
	"github.com/gin-gonic/gin"
)

// TeamController handles team HTTP requests
type TeamController struct {
	repo              TeamRepository
	participationRepo ParticipationRepository
}

func NewTeamController(repo TeamRepository, participationRepo ParticipationRepository) *TeamController {
	return &TeamController{repo: repo, participationRepo: participationRepo}
}

// --- DTOs for requests ---

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=500"`
}

type RenameTeamRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

func parseTeamID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("team_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return 0, false
	}
	return uint(id), true
}

// canSeeTeam reports whether the caller participates in the team's
// hackathon or is an admin.
func (tc *TeamController) canSeeTeam(c *gin.Context, hackathonID uint) (bool, error) {
	if middleware.IsAdmin(c) {
		return true, nil
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return false, err
	}
	p, err := tc.participationRepo.GetByUserAndHackathon(callerID, hackathonID)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// GetTeam godoc
// @Summary Get a team with its members
// @Description Visible to participants of the team's hackathon and admins.
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse{data=TeamDetail}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/{team_id} [get]
func (tc *TeamController) GetTeam(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team: "+err.Error())
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}

	allowed, err := tc.canSeeTeam(c, team.HackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
		return
	}
	if !allowed {
		responses.Forbidden(c, "Only hackathon participants can view teams")
		return
	}

	members, err := tc.repo.GetTeamMembers(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team members: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team retrieved successfully", TeamDetail{Team: *team, Members: members})
}

// GetTeamByCode godoc
// @Summary Resolve a join code to a team
// @Tags Teams
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param code path uint true "Join code"
// @Success 200 {object} responses.SuccessResponse{data=Team}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/teams/code/{code} [get]
func (tc *TeamController) GetTeamByCode(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	code, err := strconv.ParseUint(c.Param("code"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid join code")
		return
	}

	team, err := tc.repo.GetTeamByJoinCode(hackathonID, uint(code))
	if err != nil {
		responses.InternalServerError(c, "Failed to resolve join code: "+err.Error())
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team retrieved successfully", team)
}

// GetAvailableTeams godoc
// @Summary List teams that still have room, ordered by name
// @Tags Teams
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Success 200 {object} responses.SuccessResponse{data=[]TeamWithCount}
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/teams/available [get]
func (tc *TeamController) GetAvailableTeams(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}

	teams, err := tc.repo.AvailableTeams(hackathonID)
	if err != nil {
		if errors.Is(err, ErrHackathonNotFound) {
			responses.NotFound(c, "Hackathon")
			return
		}
		responses.InternalServerError(c, "Failed to retrieve teams: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Available teams retrieved successfully", teams)
}

// CreateTeam godoc
// @Summary Create a team for a registered captain
// @Description The caller must hold a captain participation in the hackathon and not be on a team yet.
// @Tags Teams
// @Accept json
// @Produce json
// @Param hackathon_id path uint true "Hackathon ID"
// @Param team body CreateTeamRequest true "Team details"
// @Success 201 {object} responses.SuccessResponse{data=Team}
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Name taken or captain already has a team"
// @Security ApiKeyAuth
// @Router /hackathons/{hackathon_id}/teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	hackathonID, ok := parseHackathonID(c)
	if !ok {
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	p, err := tc.participationRepo.GetByUserAndHackathon(callerID, hackathonID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve participation: "+err.Error())
		return
	}
	if p == nil {
		responses.Forbidden(c, "You are not registered for this hackathon")
		return
	}
	if p.Role != RoleCaptain {
		responses.Forbidden(c, "Only captains can create teams")
		return
	}

	team, err := tc.repo.CreateTeam(hackathonID, callerID, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateTeamName):
			responses.Conflict(c, "A team with this name already exists in the hackathon")
		case errors.Is(err, ErrAlreadyOnTeam):
			responses.Conflict(c, "You are already on a team in this hackathon")
		case errors.Is(err, ErrNotParticipating):
			responses.Forbidden(c, "You are not registered for this hackathon")
		default:
			responses.InternalServerError(c, "Failed to create team: "+err.Error())
		}
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Team created successfully", team)
}

// RenameTeam godoc
// @Summary Rename a team
// @Description Allowed for the team's captain and admins. Renaming a team to its current name succeeds.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param team body RenameTeamRequest true "New name"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/{team_id}/name [put]
func (tc *TeamController) RenameTeam(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}

	var req RenameTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team: "+err.Error())
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}
	if team.CaptainID != callerID && !middleware.IsAdmin(c) {
		responses.Forbidden(c, "Only the captain or an admin can rename the team")
		return
	}

	if err := tc.repo.RenameTeam(teamID, req.Name); err != nil {
		switch {
		case errors.Is(err, ErrTeamNotFound):
			responses.NotFound(c, "Team")
		case errors.Is(err, ErrDuplicateTeamName):
			responses.Conflict(c, "A team with this name already exists in the hackathon")
		default:
			responses.InternalServerError(c, "Failed to rename team: "+err.Error())
		}
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team renamed successfully", nil)
}

// JoinTeam godoc
// @Summary Join a team
// @Description The caller must already participate in the team's hackathon. Capacity is enforced against the hackathon's max team size.
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 409 {object} responses.ErrorResponse "Team full"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/members [post]
func (tc *TeamController) JoinTeam(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}
	callerID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "Authentication required")
		return
	}
	tc.addMember(c, callerID, teamID)
}

// AddMember godoc
// @Summary Add a participant to a team (captain or admin)
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param user_id path uint true "User ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Team full"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/members/{user_id} [post]
func (tc *TeamController) AddMember(c *gin.Context) {
	teamID, ok := parseTeamID(c)
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

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team: "+err.Error())
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}
	if team.CaptainID != callerID && !middleware.IsAdmin(c) {
		responses.Forbidden(c, "Only the captain or an admin can add members")
		return
	}

	tc.addMember(c, uint(targetID), teamID)
}

func (tc *TeamController) addMember(c *gin.Context, userID, teamID uint) {
	if err := tc.repo.AddMember(userID, teamID); err != nil {
		switch {
		case errors.Is(err, ErrTeamNotFound):
			responses.NotFound(c, "Team")
		case errors.Is(err, ErrNotParticipating):
			responses.Forbidden(c, "The user does not participate in this hackathon")
		case errors.Is(err, ErrIneligibleRole):
			responses.Forbidden(c, "Experts and free participants cannot join teams")
		case errors.Is(err, ErrTeamFull):
			responses.Conflict(c, "The team is already full")
		default:
			responses.InternalServerError(c, "Failed to join team: "+err.Error())
		}
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Team membership updated successfully", nil)
}

// RemoveMember godoc
// @Summary Remove a member from a team
// @Description Captains remove anyone from their team, members remove themselves, admins remove anyone. The team survives even when it ends up empty.
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param user_id path uint true "User ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /teams/{team_id}/members/{user_id} [delete]
func (tc *TeamController) RemoveMember(c *gin.Context) {
	teamID, ok := parseTeamID(c)
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

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team: "+err.Error())
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}
	if uint(targetID) != callerID && team.CaptainID != callerID && !middleware.IsAdmin(c) {
		responses.Forbidden(c, "Only the captain, the member themselves, or an admin can remove a member")
		return
	}

	if err := tc.repo.RemoveMember(uint(targetID), team.HackathonID); err != nil {
		if errors.Is(err, ErrParticipationNotFound) {
			responses.NotFound(c, "Participation")
			return
		}
		responses.InternalServerError(c, "Failed to remove member: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Member removed successfully", nil)
}
