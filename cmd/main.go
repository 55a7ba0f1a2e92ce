package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/StudyBuddy/config"
	"github.com/lshigami/StudyBuddy/database"
	_ "github.com/lshigami/StudyBuddy/docs"
	"github.com/lshigami/StudyBuddy/internal/controller"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/logger"
	"github.com/lshigami/StudyBuddy/internal/middleware"
	"github.com/lshigami/StudyBuddy/internal/model"
	"github.com/lshigami/StudyBuddy/internal/realtime"
	"github.com/lshigami/StudyBuddy/internal/repository"
	"github.com/lshigami/StudyBuddy/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title StudyBuddy API
// @version 1.0
// @description Study assistant backend: AI quizzes and flashcards, progress, leaderboard, tasks and messaging.
// @contact.name API Support
// @contact.email support@studybuddy.local
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	pflag.Parse()
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			database.NewRedisClient,
			NewGinEngine,
			NewImageStore,
		),

		fx.Provide(
			repository.NewUserRepository,
			repository.NewFlashcardRepository,
			repository.NewQuizRepository,
			repository.NewSubmissionRepository,
			repository.NewProgressRepository,
			repository.NewLeaderboardRepository,
			repository.NewTaskRepository,
			repository.NewMessageRepository,
		),

		fx.Provide(
			realtime.NewRegistry,
			realtime.NewHub,
			func(hub *realtime.Hub) service.Notifier { return hub },
			func(hub *realtime.Hub, tokens service.TokenService, cfg *config.Config) *realtime.Handler {
				return realtime.NewHandler(hub, cfg.Server.CORSOrigins).
					WithTokenAuth(service.WebsocketAuthenticator(tokens), cfg.Server.WSRequireToken)
			},
		),

		fx.Provide(
			service.NewGeminiClient,
			service.NewGeminiLLMService,
			service.NewDocumentExtractor,
			service.NewQuizGeneratorService,
			service.NewFlashcardQuizService,
			service.NewLeaderboardService,
			service.NewProgressService,
			service.NewQuizService,
			service.NewFlashcardService,
			service.NewTokenService,
			service.NewMailer,
			service.NewUserService,
			service.NewTaskService,
			service.NewMessageService,
		),

		fx.Provide(
			controller.NewUserController,
			controller.NewFlashcardController,
			func(qs service.QuizService, cfg *config.Config) *controller.QuizController {
				return controller.NewQuizController(qs, cfg.Server.MaxUploadMB<<20)
			},
			controller.NewProgressController,
			controller.NewLeaderboardController,
			controller.NewTaskController,
			controller.NewMessageController,
		),

		fx.Invoke(dto.RegisterValidators),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.Static("/uploads", cfg.Server.UploadDir)

	return r
}

func NewImageStore(cfg *config.Config) controller.ImageStore {
	return controller.ImageStore{
		Dir:       cfg.Server.UploadDir,
		URLPrefix: "/uploads",
		MaxBytes:  cfg.Server.MaxUploadMB << 20,
	}
}

type routeParams struct {
	fx.In

	Lifecycle   fx.Lifecycle
	Router      *gin.Engine
	Config      *config.Config
	Tokens      service.TokenService
	WS          *realtime.Handler
	Users       *controller.UserController
	Flashcards  *controller.FlashcardController
	Quizzes     *controller.QuizController
	Progress    *controller.ProgressController
	Leaderboard *controller.LeaderboardController
	Tasks       *controller.TaskController
	Messages    *controller.MessageController
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(p routeParams) {
	router, cfg := p.Router, p.Config

	router.GET("/ws", p.WS.ServeWS)

	public := router.Group("/api/v1")
	p.Users.RegisterPublicRoutes(public)
	p.Leaderboard.RegisterRoutes(public)

	authed := router.Group("/api/v1", middleware.Auth(p.Tokens))
	p.Users.RegisterRoutes(authed)
	p.Flashcards.RegisterRoutes(authed)
	p.Quizzes.RegisterRoutes(authed)
	p.Progress.RegisterRoutes(authed)
	p.Tasks.RegisterRoutes(authed)
	p.Messages.RegisterRoutes(authed)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("%s server starting on port %s", cfg.AppName, cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownWait)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Flashcard{},
		&model.Quiz{},
		&model.Question{},
		&model.Submission{},
		&model.Progress{},
		&model.Task{},
		&model.Message{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
