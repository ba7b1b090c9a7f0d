package router

import (
	"salesops-web/internal/config"
	"salesops-web/internal/handler"
	"salesops-web/internal/middleware"
	"salesops-web/internal/repository"
	"salesops-web/internal/service"
	"salesops-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	designationRepo := repository.NewDesignationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	jobRepo := repository.NewImportJobRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg)
	excelService := service.NewExcelService()
	codegen := service.NewCodeGenerator(service.NewSequenceAllocator(agentRepo))
	importService := service.NewAgentImportService(
		channelRepo, designationRepo, projectRepo, agentRepo, codegen, utils.GetLogger())

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redis != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	channelHandler := handler.NewChannelHandler(channelRepo)
	designationHandler := handler.NewDesignationHandler(designationRepo, channelRepo)
	projectHandler := handler.NewProjectHandler(projectRepo)
	agentHandler := handler.NewAgentHandler(agentRepo, projectRepo, codegen)
	importHandler := handler.NewImportHandler(importService, excelService, jobRepo, asynqClient, cfg)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/logout", authHandler.Logout)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	// Auth routes
	protected.Get("/auth/me", authHandler.Me)

	// Channel routes
	channels := protected.Group("/channels")
	channels.Get("/", channelHandler.GetChannels)
	channels.Get("/:id", channelHandler.GetChannel)
	channels.Post("/", channelHandler.CreateChannel)
	channels.Put("/:id", channelHandler.UpdateChannel)
	channels.Patch("/:id/status", channelHandler.UpdateChannelStatus)

	// Designation routes
	designations := protected.Group("/designations")
	designations.Get("/", designationHandler.GetDesignations)
	designations.Get("/:id", designationHandler.GetDesignation)
	designations.Post("/", designationHandler.CreateDesignation)
	designations.Put("/:id", designationHandler.UpdateDesignation)
	designations.Patch("/:id/status", designationHandler.UpdateDesignationStatus)

	// Project routes
	projects := protected.Group("/projects")
	projects.Get("/", projectHandler.GetProjects)
	projects.Get("/:id", projectHandler.GetProject)
	projects.Post("/", projectHandler.CreateProject)
	projects.Put("/:id", projectHandler.UpdateProject)
	projects.Patch("/:id/status", projectHandler.UpdateProjectStatus)

	// Agent routes. Static paths registered before :id so "import" does
	// not get captured as an agent ID.
	agents := protected.Group("/agents")
	agents.Get("/", agentHandler.GetAgents)
	agents.Get("/import/template", importHandler.DownloadTemplate)
	agents.Get("/import/jobs", importHandler.GetImportJobs)
	agents.Get("/import/jobs/:id", importHandler.GetImportJob)
	agents.Get("/import/error-report/:filename", importHandler.DownloadErrorReport)
	agents.Post("/import", importHandler.ImportAgents)
	agents.Post("/import/async", importHandler.ImportAgentsAsync)
	agents.Get("/:id", agentHandler.GetAgent)
	agents.Post("/", agentHandler.CreateAgent)
	agents.Patch("/:id/status", agentHandler.UpdateAgentStatus)
}
