package services

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	_ "github.com/anissawilliams/ai-crew-tutor/docs"
	"github.com/anissawilliams/ai-crew-tutor/middleware"
	"github.com/anissawilliams/ai-crew-tutor/services/handlers"
	"github.com/anissawilliams/ai-crew-tutor/shared"
)

type HttpService struct {
	context.DefaultService

	jwtSvc       *JWTService
	authSvc      *AuthService
	progressSvc  *ProgressService
	tutorSvc     *TutorService
	analyticsSvc *AnalyticsService
	rateLimitSvc *RateLimitService
	monitoring   *MonitoringService

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.tutorSvc = svc.Service(TUTOR_SVC).(*TutorService)
	svc.analyticsSvc = svc.Service(ANALYTICS_SVC).(*AnalyticsService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	if m, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		svc.monitoring = m
	}

	svc.app = svc.newApp()

	log.WithField("port", svc.port).Info("HTTP server listening")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		JSONEncoder:  shared.JSONMarshal,
		JSONDecoder:  shared.JSONUnmarshal,
		ErrorHandler: svc.HandleError,
	})

	app.Use(recover.New())
	if os.Getenv("LOG_LEVEL") == "TRACE" {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	if svc.monitoring != nil {
		app.Use(MonitoringMiddleware(svc.monitoring))
	}

	//Validation endpoints
	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	authHandler := handlers.NewAuthHandler(svc.authSvc)
	progressHandler := handlers.NewProgressHandler(svc.progressSvc)
	personaHandler := handlers.NewPersonaHandler(svc.progressSvc)
	tutorHandler := handlers.NewTutorHandler(svc.tutorSvc)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.analyticsSvc)
	leaderboardHandler := handlers.NewLeaderboardHandler(svc.progressSvc)

	v1 := app.Group("/api/v1", middleware.IPRateLimit(svc.rateLimitSvc))
	v1.Get("/ping", svc.ping)

	auth := v1.Group("/auth")
	auth.Post("/register", middleware.RateLimit(svc.rateLimitSvc, RateLimitRegister), authHandler.Register)
	auth.Post("/login", middleware.RateLimit(svc.rateLimitSvc, RateLimitLogin), authHandler.Login)

	api := v1.Group("", middleware.RequiredAuth(svc.jwtSvc))

	api.Get("/progress", progressHandler.GetProgress)
	api.Post("/progress/visit", progressHandler.RecordVisit)
	api.Get("/rewards/pending", progressHandler.PendingRewards)
	api.Post("/rewards/ack", progressHandler.AcknowledgeReward)

	api.Get("/personas", personaHandler.ListPersonas)
	api.Post("/personas/select", personaHandler.SelectPersona)
	api.Get("/personas/:name/snippets", personaHandler.GetSnippets)

	tutorLimit := middleware.RateLimit(svc.rateLimitSvc, RateLimitTutor)
	api.Post("/tutor/questions", tutorLimit, tutorHandler.AskQuestion)
	api.Post("/tutor/reviews", tutorLimit, tutorHandler.ReviewCode)
	api.Post("/ratings", middleware.RateLimit(svc.rateLimitSvc, RateLimitRatings), tutorHandler.SubmitRating)

	api.Get("/analytics/ratings", analyticsHandler.GetRatingStats)
	api.Post("/analytics/ratings/export", analyticsHandler.ExportRatings)

	api.Get("/leaderboard", leaderboardHandler.GetLeaderboard)

	return app
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) HandleError(c *fiber.Ctx, err error) error {
	if _, ok := shared.GetAppError(err); !ok {
		if _, isFiber := err.(*fiber.Error); !isFiber {
			log.WithError(err).WithField("path", c.Path()).Error("Unhandled request error")
		}
	}

	return shared.HandleError(c, err)
}
