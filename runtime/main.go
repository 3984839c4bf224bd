package main

import (
	"io"
	"os"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/anissawilliams/ai-crew-tutor/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file found, using system environment variables")
	}

	configureLogging()

	ctx, err := context.NewCtx(serviceList()...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service stopped")
		return
	}
}

// serviceList orders services so dependencies start first. HttpService
// blocks in Start and must stay last.
func serviceList() []context.Service {
	list := []context.Service{databaseService()}

	if os.Getenv("REDIS_ADDR") != "" {
		list = append(list, &services.RedisService{})
	}
	if os.Getenv("MINIO_ENDPOINT") != "" {
		list = append(list, &services.MinIOService{})
	}

	list = append(list,
		&services.MonitoringService{},
		&services.JWTService{},
		&services.AuthService{},
		&services.CatalogService{},
		&services.ProgressService{},
		&services.GeneratorService{},
		&services.AnalyticsService{},
		&services.TutorService{},
		&services.RateLimitService{},

		&services.HttpService{},
	)
	return list
}

func databaseService() context.Service {
	if strings.EqualFold(os.Getenv("DB_DRIVER"), "postgres") || os.Getenv("DATABASE_URL") != "" {
		return &services.PostgresService{}
	}
	return &services.SqliteService{}
}

func configureLogging() {
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if path := os.Getenv("LOG_FILE"); path != "" {
		logrus.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}))
	}
}
