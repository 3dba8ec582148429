package hackathon

import (
	mw "github.com/arkhdev/hackhub/internal/middleware"
	"github.com/arkhdev/hackhub/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HackathonRoutes sets up hackathon, participation, reputation and team routes
func HackathonRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string) {
	hackathonRepo := NewHackathonRepository(db)
	participationRepo := NewParticipationRepository(db)
	teamRepo := NewTeamRepository(db)

	hackathonController := NewHackathonController(hackathonRepo)
	participationController := NewParticipationController(participationRepo, hackathonRepo, teamRepo)
	teamController := NewTeamController(teamRepo, participationRepo)

	authed := router.Group("/")
	authed.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authed.GET("/hackathons", hackathonController.ListHackathons)
		authed.GET("/hackathons/:hackathon_id", hackathonController.GetHackathon)

		authed.POST("/hackathons/:hackathon_id/participations", participationController.CreateParticipation)
		authed.GET("/hackathons/:hackathon_id/participations/:user_id", participationController.GetParticipation)
		authed.DELETE("/hackathons/:hackathon_id/participations/:user_id", participationController.CancelParticipation)
		authed.GET("/hackathons/:hackathon_id/participants", participationController.GetParticipants)
		authed.GET("/users/me/participations", participationController.GetMyParticipations)

		authed.PUT("/hackathons/:hackathon_id/participations/:user_id/reputation", participationController.UpdateReputation)
		authed.GET("/hackathons/:hackathon_id/participations/:user_id/reputation/history", participationController.GetReputationHistory)

		authed.POST("/hackathons/:hackathon_id/teams", teamController.CreateTeam)
		authed.GET("/hackathons/:hackathon_id/teams/available", teamController.GetAvailableTeams)
		authed.GET("/hackathons/:hackathon_id/teams/code/:code", teamController.GetTeamByCode)
		authed.GET("/teams/:team_id", teamController.GetTeam)
		authed.PUT("/teams/:team_id/name", teamController.RenameTeam)
		authed.POST("/teams/:team_id/members", teamController.JoinTeam)
		authed.POST("/teams/:team_id/members/:user_id", teamController.AddMember)
		authed.DELETE("/teams/:team_id/members/:user_id", teamController.RemoveMember)
	}

	adminRoutes := router.Group("/admin")
	adminRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	adminRoutes.Use(rmiddleware.AdminMiddleware())
	{
		adminRoutes.POST("/hackathons", hackathonController.CreateHackathon)
		adminRoutes.PUT("/hackathons/:hackathon_id", hackathonController.UpdateHackathon)
		adminRoutes.DELETE("/hackathons/:hackathon_id", hackathonController.DeleteHackathon)
		adminRoutes.PUT("/hackathons/:hackathon_id/participations/:user_id/role", participationController.UpdateRole)
	}
}
