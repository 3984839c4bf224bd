package seeders

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options chooses where seeded progress and ratings go. Empty paths mean
// the database.
type Options struct {
	Username    string
	Password    string
	ProgressDir string
	RatingsPath string
}

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db   *gorm.DB
	opts Options
}

// NewMainSeeder creates a new main seeder
func NewMainSeeder(db *gorm.DB, opts Options) *MainSeeder {
	return &MainSeeder{db: db, opts: opts}
}

// SeedAll runs all seeders in the correct order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	// 1. The demo learner owns the seeded progress
	learnerID, err := NewLearnerSeeder(s.db).SeedLearner(s.opts.Username, s.opts.Password)
	if err != nil {
		log.Printf("Learner seeding failed: %v", err)
		return err
	}

	// 2. Progress for the demo learner
	if err := NewProgressSeeder(s.db, s.opts.ProgressDir).SeedProgress(learnerID); err != nil {
		log.Printf("Progress seeding failed: %v", err)
		return err
	}

	// 3. Sample ratings
	if err := NewRatingSeeder(s.db, s.opts.RatingsPath).SeedRatings(learnerID); err != nil {
		log.Printf("Rating seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedLearnerOnly seeds only the demo learner
func (s *MainSeeder) SeedLearnerOnly() error {
	_, err := NewLearnerSeeder(s.db).SeedLearner(s.opts.Username, s.opts.Password)
	return err
}

// SeedProgressOnly seeds progress for an existing or new demo learner
func (s *MainSeeder) SeedProgressOnly() error {
	learnerID, err := NewLearnerSeeder(s.db).SeedLearner(s.opts.Username, s.opts.Password)
	if err != nil {
		return err
	}
	return NewProgressSeeder(s.db, s.opts.ProgressDir).SeedProgress(learnerID)
}

// SeedRatingsOnly seeds only sample ratings
func (s *MainSeeder) SeedRatingsOnly() error {
	learnerID, err := NewLearnerSeeder(s.db).SeedLearner(s.opts.Username, s.opts.Password)
	if err != nil {
		return err
	}
	return NewRatingSeeder(s.db, s.opts.RatingsPath).SeedRatings(learnerID)
}
