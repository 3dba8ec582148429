package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/arkhdev/hackhub/config"
	"github.com/arkhdev/hackhub/internal/hackathon"
	"github.com/arkhdev/hackhub/internal/project"
	"github.com/arkhdev/hackhub/internal/user"
	"github.com/arkhdev/hackhub/internal/webinar"
)

// SetupRoutes builds the gin engine with all feature routes mounted under /api.
func SetupRoutes() *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default()) // allows all origins, GET/POST/PUT

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "hackhub", "docs": "/swagger/index.html"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	cfg := config.GetConfig()
	jwtSecret := cfg.JWT.AccessTokenSecret

	api := r.Group("/api")
	user.UserRoutes(api, config.DB, cfg, jwtSecret)
	hackathon.HackathonRoutes(api, config.DB, jwtSecret)
	project.ProjectRoutes(api, config.DB, jwtSecret)
	webinar.WebinarRoutes(api, config.DB, jwtSecret)

	return r
}
