package user

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/arkhdev/hackhub/config"
	"github.com/arkhdev/hackhub/internal/middleware"
	"github.com/arkhdev/hackhub/pkg/responses"
	"github.com/arkhdev/hackhub/pkg/token"
	"github.com/arkhdev/hackhub/utils"
	"github.com/gin-gonic/gin"
)

// UserController handles account and auth HTTP requests
type UserController struct {
	repo      UserRepository
	appConfig *config.Config
}

// NewUserController creates a new user controller
func NewUserController(repo UserRepository, appConfig *config.Config) *UserController {
	return &UserController{repo: repo, appConfig: appConfig}
}

// --- DTOs for requests ---

type RegisterRequest struct {
	Username       string  `json:"username" binding:"required,min=3,max=50"`
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8,max=72"`
	Age            *int    `json:"age" binding:"omitempty,gte=0,lte=150"`
	FullName       string  `json:"full_name" binding:"max=200"`
	TelegramNick   *string `json:"telegram_nick"`
	Skills         string  `json:"skills"`
	City           string  `json:"city" binding:"max=100"`
	LookingForTeam bool    `json:"looking_for_team"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	Username       *string `json:"username" binding:"omitempty,min=3,max=50"`
	Age            *int    `json:"age" binding:"omitempty,gte=0,lte=150"`
	FullName       *string `json:"full_name" binding:"omitempty,max=200"`
	TelegramNick   *string `json:"telegram_nick"`
	Skills         *string `json:"skills"`
	City           *string `json:"city" binding:"omitempty,max=100"`
	LookingForTeam *bool   `json:"looking_for_team"`
}

type AdminUpdateUserRequest struct {
	UpdateProfileRequest
	Role *string `json:"role"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

func (uc *UserController) issueTokens(u *User) (*AuthResponse, error) {
	accessToken, err := token.GenerateAccessToken(u.ID, string(u.Role), uc.appConfig.JWT.AccessTokenSecret, uc.appConfig.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		return nil, fmt.Errorf("access token generation failed: %w", err)
	}

	refreshTokenString, err := token.GenerateRefreshToken(u.ID, uc.appConfig.JWT.RefreshTokenSecret, uc.appConfig.JWT.RefreshTokenExpiryDays)
	if err != nil {
		return nil, fmt.Errorf("refresh token generation failed: %w", err)
	}

	rt := &RefreshToken{
		UserID:    u.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().AddDate(0, 0, uc.appConfig.JWT.RefreshTokenExpiryDays),
	}
	if err := uc.repo.SaveRefreshToken(rt); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         u.ToResponse(),
	}, nil
}

// Register godoc
// @Summary Register a new account
// @Description Creates an account with a bcrypt-hashed password and signs the user in.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration data"
// @Success 201 {object} responses.SuccessResponse{data=AuthResponse} "Account created"
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 409 {object} responses.ErrorResponse "Email or telegram handle already taken"
// @Router /auth/register [post]
func (uc *UserController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	existing, err := uc.repo.GetUserByEmail(req.Email)
	if err != nil {
		responses.InternalServerError(c, "Failed to check email: "+err.Error())
		return
	}
	if existing != nil {
		responses.Conflict(c, "User with this email already exists")
		return
	}

	// An empty handle is stored as NULL so it never trips the unique index.
	if req.TelegramNick != nil && *req.TelegramNick == "" {
		req.TelegramNick = nil
	}
	if req.TelegramNick != nil {
		byNick, err := uc.repo.GetUserByTelegram(*req.TelegramNick)
		if err != nil {
			responses.InternalServerError(c, "Failed to check telegram handle: "+err.Error())
			return
		}
		if byNick != nil {
			responses.Conflict(c, "User with this telegram handle already exists")
			return
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "Error hashing password")
		return
	}

	// Roles other than "user" are only assignable by an admin afterwards.
	newUser := &User{
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		Password:       hashedPassword,
		Age:            req.Age,
		FullName:       req.FullName,
		TelegramNick:   req.TelegramNick,
		Skills:         req.Skills,
		City:           req.City,
		LookingForTeam: req.LookingForTeam,
		Role:           RoleUser,
	}

	if err := uc.repo.CreateUser(newUser); err != nil {
		log.Printf("CreateUser failed: %v", err)
		responses.InternalServerError(c, "User creation failed")
		return
	}

	authResp, err := uc.issueTokens(newUser)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Registration successful", authResp)
}

// Login godoc
// @Summary Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} responses.SuccessResponse{data=AuthResponse} "Signed in"
// @Failure 401 {object} responses.ErrorResponse "Invalid email or password"
// @Router /auth/login [post]
func (uc *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	u, err := uc.repo.GetUserByEmail(req.Email)
	if err != nil {
		responses.InternalServerError(c, "Login failed: "+err.Error())
		return
	}
	// Same message for unknown email and wrong password
	if u == nil || !utils.CheckPassword(u.Password, req.Password) {
		responses.Unauthorized(c, "Invalid email or password")
		return
	}

	authResp, err := uc.issueTokens(u)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Login successful", authResp)
}

// Refresh godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param token body RefreshRequest true "Refresh token"
// @Success 200 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure 401 {object} responses.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (uc *UserController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	claims, err := token.ValidateJWT(req.RefreshToken, uc.appConfig.JWT.RefreshTokenSecret)
	if err != nil {
		responses.Unauthorized(c, "Invalid refresh token: "+err.Error())
		return
	}

	stored, err := uc.repo.GetRefreshToken(req.RefreshToken)
	if err != nil {
		responses.InternalServerError(c, "Failed to look up refresh token")
		return
	}
	if stored == nil || stored.UserID != claims.UserID || stored.ExpiresAt.Before(time.Now()) {
		responses.Unauthorized(c, "Refresh token revoked or expired")
		return
	}

	u, err := uc.repo.GetUserByID(claims.UserID)
	if err != nil || u == nil {
		responses.Unauthorized(c, "Account no longer exists")
		return
	}

	// Rotate: the presented token is consumed
	if err := uc.repo.DeleteRefreshToken(req.RefreshToken); err != nil {
		responses.InternalServerError(c, "Failed to rotate refresh token")
		return
	}

	authResp, err := uc.issueTokens(u)
	if err != nil {
		responses.InternalServerError(c, err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Token refreshed", authResp)
}

// Logout godoc
// @Summary Sign out and revoke all refresh tokens
// @Tags Auth
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Failure 401 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/logout [post]
func (uc *UserController) Logout(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	if err := uc.repo.DeleteRefreshTokensForUser(userID); err != nil {
		responses.InternalServerError(c, "Failed to revoke refresh tokens")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags Users
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=UserResponse}
// @Failure 401 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /users/me [get]
func (uc *UserController) Me(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	u, err := uc.repo.GetUserByID(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load profile: "+err.Error())
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile retrieved", u.ToResponse())
}

func applyProfileUpdate(u *User, req *UpdateProfileRequest) {
	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Age != nil {
		u.Age = req.Age
	}
	if req.FullName != nil {
		u.FullName = *req.FullName
	}
	if req.TelegramNick != nil {
		if *req.TelegramNick == "" {
			// Clearing the handle stores NULL, keeping the unique index clean
			u.TelegramNick = nil
		} else {
			u.TelegramNick = req.TelegramNick
		}
	}
	if req.Skills != nil {
		u.Skills = *req.Skills
	}
	if req.City != nil {
		u.City = *req.City
	}
	if req.LookingForTeam != nil {
		u.LookingForTeam = *req.LookingForTeam
	}
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param profile body UpdateProfileRequest true "Profile fields to update"
// @Success 200 {object} responses.SuccessResponse{data=UserResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Telegram handle already taken"
// @Security ApiKeyAuth
// @Router /users/me [put]
func (uc *UserController) UpdateMe(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	u, err := uc.repo.GetUserByID(userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to load profile: "+err.Error())
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}

	if req.TelegramNick != nil && *req.TelegramNick != "" {
		byNick, err := uc.repo.GetUserByTelegram(*req.TelegramNick)
		if err != nil {
			responses.InternalServerError(c, "Failed to check telegram handle")
			return
		}
		if byNick != nil && byNick.ID != u.ID {
			responses.Conflict(c, "User with this telegram handle already exists")
			return
		}
	}

	applyProfileUpdate(u, &req)
	if err := uc.repo.UpdateUser(u); err != nil {
		responses.InternalServerError(c, "Failed to update profile: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Profile updated", u.ToResponse())
}

// --- Admin handlers ---

// GetAllUsers godoc
// @Summary List all users (admin)
// @Tags Admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]UserResponse}
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (uc *UserController) GetAllUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	users, total, err := uc.repo.GetAllUsers(page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve users: "+err.Error())
		return
	}

	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToResponse())
	}
	responses.SendPaginated(c, http.StatusOK, "Users retrieved successfully", out, total, page, limit)
}

// AdminUpdateUser godoc
// @Summary Update any user, including their platform role (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param user_id path uint true "User ID"
// @Param user body AdminUpdateUserRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=UserResponse}
// @Failure 400 {object} responses.ErrorResponse "Unknown role"
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{user_id} [put]
func (uc *UserController) AdminUpdateUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	u, err := uc.repo.GetUserByID(uint(userID))
	if err != nil {
		responses.InternalServerError(c, "Failed to load user: "+err.Error())
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}

	if req.Role != nil {
		role, err := ParseRole(*req.Role)
		if err != nil {
			responses.BadRequest(c, err.Error())
			return
		}
		u.Role = role
	}

	applyProfileUpdate(u, &req.UpdateProfileRequest)
	if err := uc.repo.UpdateUser(u); err != nil {
		responses.InternalServerError(c, "Failed to update user: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User updated", u.ToResponse())
}

// DeleteUser godoc
// @Summary Delete a user and everything they own (admin)
// @Description Participations, teams captained and reputation history are removed by cascade. The bootstrap admin cannot be deleted.
// @Tags Admin
// @Produce json
// @Param user_id path uint true "User ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse "Attempt to delete the bootstrap admin"
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/users/{user_id} [delete]
func (uc *UserController) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid user ID")
		return
	}
	if userID == 1 {
		responses.BadRequest(c, "The bootstrap admin cannot be deleted")
		return
	}

	u, err := uc.repo.GetUserByID(uint(userID))
	if err != nil {
		responses.InternalServerError(c, "Failed to load user: "+err.Error())
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}

	if err := uc.repo.DeleteUser(uint(userID)); err != nil {
		responses.InternalServerError(c, "Failed to delete user: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "User deleted", nil)
}

// GetStatistics godoc
// @Summary Aggregate user statistics (admin)
// @Tags Admin
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=Statistics}
// @Failure 403 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/statistics [get]
func (uc *UserController) GetStatistics(c *gin.Context) {
	stats, err := uc.repo.Statistics()
	if err != nil {
		responses.InternalServerError(c, "Failed to compute statistics: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Statistics retrieved", stats)
}

// SeedAdmin creates the bootstrap admin account on first start if no admin
// exists yet. The password comes from configuration and is hashed like any
// other credential.
func SeedAdmin(repo UserRepository, cfg *config.Config) error {
	hasAdmin, err := repo.HasAdmin()
	if err != nil {
		return fmt.Errorf("admin lookup failed: %w", err)
	}
	if hasAdmin {
		return nil
	}
	if cfg.Admin.Password == "" {
		log.Println("No admin account exists and ADMIN_PASSWORD is empty; skipping admin seed")
		return nil
	}

	hashed, err := utils.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &User{
		Username: "admin",
		Email:    strings.ToLower(cfg.Admin.Email),
		Password: hashed,
		FullName: "Administrator",
		Role:     RoleAdmin,
	}
	if err := repo.CreateUser(admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Printf("Seeded bootstrap admin %s", admin.Email)
	return nil
}
