package seeders

import (
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/services/repositories"
	"github.com/anissawilliams/ai-crew-tutor/storage"
)

// RatingSeeder fills the rating log with a small sample for the analytics
// endpoints.
type RatingSeeder struct {
	repo *repositories.RatingRepository
	file *storage.JSONLRatingLog
}

// NewRatingSeeder appends to path when it is set and to the database
// otherwise.
func NewRatingSeeder(db *gorm.DB, path string) *RatingSeeder {
	if path != "" {
		return &RatingSeeder{file: storage.NewJSONLRatingLog(path)}
	}
	return &RatingSeeder{repo: repositories.NewRatingRepository(db)}
}

func sampleRatings(userID string, now time.Time) []model.RatingRecord {
	base := now.Add(-72 * time.Hour)
	return []model.RatingRecord{
		{UserID: userID, Timestamp: base, Persona: "Nova", Question: "What is a for loop?", UserLevel: 2, Clarity: 5, Accuracy: 4, Helpfulness: 5, Feedback: "Loved the space analogy"},
		{UserID: userID, Timestamp: base.Add(2 * time.Hour), Persona: "Yoda", Question: "Explain recursion", UserLevel: 3, Clarity: 3, Accuracy: 5, Helpfulness: 4},
		{UserID: userID, Timestamp: base.Add(26 * time.Hour), Persona: "Elsa", Question: "What does final mean?", UserLevel: 4, Clarity: 4, Accuracy: 4, Helpfulness: 3, Feedback: "A bit long"},
		{UserID: userID, Timestamp: base.Add(50 * time.Hour), Persona: "Nova", Question: "Arrays vs ArrayLists?", UserLevel: 6, Clarity: 4, Accuracy: 5, Helpfulness: 5},
	}
}

func (s *RatingSeeder) SeedRatings(userID string) error {
	records := sampleRatings(userID, time.Now())

	if s.file != nil {
		existing, err := s.file.LoadAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			log.Printf("Rating log %s is not empty, skipping rating seeding", s.file.Path())
			return nil
		}
		for _, r := range records {
			if err := s.file.Append(r); err != nil {
				return err
			}
		}
		log.Printf("Seeded %d ratings into %s", len(records), s.file.Path())
		return nil
	}

	count, err := s.repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Ratings already exist, skipping rating seeding")
		return nil
	}

	if err := s.repo.AppendBatch(records); err != nil {
		return err
	}
	log.Printf("Seeded %d ratings", len(records))
	return nil
}
