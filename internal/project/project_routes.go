package project

import (
	"github.com/arkhdev/hackhub/internal/hackathon"
	mw "github.com/arkhdev/hackhub/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProjectRoutes sets up project, review and expert-area routes
func ProjectRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string) {
	repo := NewProjectRepository(db)
	participationRepo := hackathon.NewParticipationRepository(db)
	controller := NewProjectController(repo, participationRepo)

	authed := router.Group("/")
	authed.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authed.POST("/hackathons/:hackathon_id/projects", controller.CreateProject)
		authed.GET("/hackathons/:hackathon_id/projects", controller.ListProjects)
		authed.GET("/projects/:project_id", controller.GetProject)
		authed.PUT("/projects/:project_id", controller.UpdateProject)
		authed.DELETE("/projects/:project_id", controller.DeleteProject)

		authed.POST("/projects/:project_id/comments", controller.CreateComment)
		authed.GET("/projects/:project_id/comments", controller.ListComments)

		authed.POST("/hackathons/:hackathon_id/expert-areas", controller.AddExpertArea)
		authed.DELETE("/expert-areas/:area_id", controller.RemoveExpertArea)
		authed.GET("/hackathons/:hackathon_id/experts/:expert_id/areas", controller.ListExpertAreas)
	}
}
