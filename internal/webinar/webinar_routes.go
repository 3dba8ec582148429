package webinar

import (
	mw "github.com/arkhdev/hackhub/internal/middleware"
	"github.com/arkhdev/hackhub/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// WebinarRoutes sets up webinar and course routes
func WebinarRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string) {
	repo := NewWebinarRepository(db)
	controller := NewWebinarController(repo)

	authed := router.Group("/")
	authed.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authed.GET("/webinars", controller.ListWebinars)
		authed.GET("/webinars/:webinar_id", controller.GetWebinar)
		authed.POST("/webinars/:webinar_id/registrations", controller.RegisterForWebinar)
		authed.DELETE("/webinars/:webinar_id/registrations", controller.CancelWebinarRegistration)
		authed.GET("/users/me/webinars", controller.GetMyWebinars)

		authed.GET("/courses", controller.ListCourses)
		authed.GET("/courses/:course_id", controller.GetCourse)
		authed.POST("/courses/:course_id/enrollments", controller.EnrollInCourse)
		authed.DELETE("/courses/:course_id/enrollments", controller.CancelCourseEnrollment)
		authed.GET("/users/me/courses", controller.GetMyCourses)
	}

	adminRoutes := router.Group("/admin")
	adminRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	adminRoutes.Use(rmiddleware.AdminMiddleware())
	{
		adminRoutes.POST("/webinars", controller.CreateWebinar)
		adminRoutes.POST("/courses", controller.CreateCourse)
	}
}
