package main

import (
	"log"

	"github.com/arkhdev/hackhub/config"
	_ "github.com/arkhdev/hackhub/docs"
	"github.com/arkhdev/hackhub/internal/hackathon"
	"github.com/arkhdev/hackhub/internal/project"
	"github.com/arkhdev/hackhub/internal/user"
	"github.com/arkhdev/hackhub/internal/webinar"
	"github.com/arkhdev/hackhub/routes"
)

// @title HackHub REST API
// @version 1.0
// @description Hackathon portal: registrations, teams, reputation, projects, webinars.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{}, &user.RefreshToken{},
		&hackathon.Hackathon{}, &hackathon.Participation{},
		&hackathon.Team{}, &hackathon.ReputationHistory{},
		&project.ExpertArea{}, &project.Project{}, &project.ProjectComment{},
		&webinar.Webinar{}, &webinar.WebinarRegistration{},
		&webinar.Course{}, &webinar.CourseEnrollment{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	if err := user.SeedAdmin(user.NewUserRepository(config.DB), cfg); err != nil {
		log.Fatalf("Admin seeding failed: %v", err)
	}

	r := routes.SetupRoutes()

	log.Printf("Starting server on port %s in %s mode\n", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
