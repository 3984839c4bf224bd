package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/seed/seeders"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Parse command line flags
	var (
		seedType    = flag.String("type", "all", "Type of seeding: all, learner, progress, ratings")
		dbPath      = flag.String("db", "", "SQLite database path (overrides DB_DATABASE env var)")
		progressDir = flag.String("progress", "", "Write progress files to this directory instead of the database")
		ratingsPath = flag.String("ratings", "", "Append ratings to this JSON-lines file instead of the database")
		help        = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := openDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&model.Learner{}, &model.UserProgress{}, &model.RatingRecord{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db, seeders.Options{
		Username:    envOr("DEMO_USERNAME", "demo"),
		Password:    envOr("DEMO_PASSWORD", "DemoPass123!"),
		ProgressDir: *progressDir,
		RatingsPath: *ratingsPath,
	})

	// Run seeding based on type
	switch *seedType {
	case "all":
		log.Println("Running complete seeding...")
		err = mainSeeder.SeedAll()
	case "learner":
		log.Println("Seeding demo learner only...")
		err = mainSeeder.SeedLearnerOnly()
	case "progress":
		log.Println("Seeding progress only...")
		err = mainSeeder.SeedProgressOnly()
	case "ratings":
		log.Println("Seeding ratings only...")
		err = mainSeeder.SeedRatingsOnly()
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'learner', 'progress', or 'ratings'", *seedType)
	}
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Println("Seeding operation completed successfully!")
}

// openDatabase follows the server: DATABASE_URL selects Postgres, otherwise
// SQLite at the given path.
func openDatabase(path string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		log.Println("Connected to Postgres")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	if path == "" {
		path = envOr("DB_DATABASE", "ai_crew_tutor.db")
	}
	log.Printf("Connected to database: %s", path)
	return gorm.Open(sqlite.Open(path), cfg)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func showHelp() {
	log.Print(`
Seeding Tool for AI Crew Tutor

Usage: go run ./seed [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, learner, progress, ratings
  -db string
        SQLite database path (overrides DB_DATABASE environment variable)
  -progress string
        Directory for per-learner progress files (file store mode)
  -ratings string
        JSON-lines rating log path (file store mode)
  -help
        Show this help message

Examples:
  # Seed everything into the database
  go run ./seed

  # Seed a file-mode deployment
  go run ./seed -progress=./progress -ratings=./ratings.json

Environment Variables:
  DATABASE_URL  - Postgres DSN; when set, -db is ignored
  DB_DATABASE   - Default SQLite path (default: ai_crew_tutor.db)
  DEMO_USERNAME - Demo learner username (default: demo)
  DEMO_PASSWORD - Demo learner password (default: DemoPass123!)
`)
}
