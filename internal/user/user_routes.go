package user

import (
	"github.com/arkhdev/hackhub/config"
	mw "github.com/arkhdev/hackhub/internal/middleware"
	"github.com/arkhdev/hackhub/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserRoutes sets up auth, profile and admin user-management routes
func UserRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, jwtSecret string) {
	repo := NewUserRepository(db)
	controller := NewUserController(repo, appConfig)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", controller.Register)
		authGroup.POST("/login", controller.Login)
		authGroup.POST("/refresh", controller.Refresh)
	}

	authed := router.Group("/")
	authed.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authed.POST("/auth/logout", controller.Logout)
		authed.GET("/users/me", controller.Me)
		authed.PUT("/users/me", controller.UpdateMe)
	}

	adminRoutes := router.Group("/admin")
	adminRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	adminRoutes.Use(rmiddleware.AdminMiddleware())
	{
		adminRoutes.GET("/users", controller.GetAllUsers)
		adminRoutes.PUT("/users/:user_id", controller.AdminUpdateUser)
		adminRoutes.DELETE("/users/:user_id", controller.DeleteUser)
		adminRoutes.GET("/statistics", controller.GetStatistics)
	}
}
