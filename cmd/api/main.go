package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Niche-Job-Board/internal/auth"
	"github.com/justsurfingit/Niche-Job-Board/internal/config"
	"github.com/justsurfingit/Niche-Job-Board/internal/database"
	"github.com/justsurfingit/Niche-Job-Board/internal/handlers"
	"github.com/justsurfingit/Niche-Job-Board/internal/mail"
	"github.com/justsurfingit/Niche-Job-Board/internal/models"
	"github.com/justsurfingit/Niche-Job-Board/internal/newsletter"
	"github.com/justsurfingit/Niche-Job-Board/internal/xlog"
)

func main() {
	// 1. Environment & logging
	cfg := config.Load()
	xlog.Init(cfg.Env, cfg.LogFile)
	log := xlog.S()

	// 2. Database connection (migrations run here)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// 3. Model layer
	q := db.Querier()
	userModel := models.NewUserModel(q, auth.HashPassword)
	jobModel := models.NewJobModel(q)
	appModel := models.NewApplicationModel(q)

	// 4. Newsletter broadcaster (shares the same bounded pool)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mailer := mail.NewSMTPMailer(cfg.SMTP)
	broadcaster := newsletter.New(jobModel, userModel, mailer, cfg.NewsletterInterval)
	broadcaster.Start(ctx)

	// 5. Handlers
	authHandler := handlers.NewAuthHandler(userModel, cfg.JWT)
	userHandler := handlers.NewUserHandler(userModel)
	jobHandler := handlers.NewJobHandler(jobModel)
	appHandler := handlers.NewApplicationHandler(appModel, jobModel, userModel)

	// 6. Router & CORS
	if cfg.Env == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = false
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 7. Routes
	secret := []byte(cfg.JWT.Secret)
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/auth/signup", authHandler.Signup)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/jobs", jobHandler.List)
		api.GET("/jobs/:id", jobHandler.Get)

		authed := api.Group("", auth.Middleware(secret))
		{
			authed.GET("/users/me", userHandler.Me)
			authed.PATCH("/users/me", userHandler.UpdateMe)
			authed.DELETE("/users/me", userHandler.DeleteMe)

			employer := authed.Group("", auth.RequireRole(models.RoleEmployer))
			{
				employer.POST("/jobs", jobHandler.Create)
				employer.PATCH("/jobs/:id", jobHandler.Update)
				employer.DELETE("/jobs/:id", jobHandler.Delete)
			}

			authed.GET("/applications", appHandler.List)
			authed.DELETE("/applications/:id", appHandler.Delete)
			seeker := authed.Group("", auth.RequireRole(models.RoleJobSeeker))
			{
				seeker.POST("/applications", appHandler.Apply)
			}
		}
	}

	log.Infof("server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server failed to start: %v", err)
	}
}
