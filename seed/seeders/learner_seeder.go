package seeders

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/anissawilliams/ai-crew-tutor/services/repositories"
)

// LearnerSeeder creates the demo account
type LearnerSeeder struct {
	repo *repositories.LearnerRepository
}

func NewLearnerSeeder(db *gorm.DB) *LearnerSeeder {
	return &LearnerSeeder{repo: repositories.NewLearnerRepository(db)}
}

// SeedLearner returns the id of the learner with this username, creating
// it first when missing.
func (s *LearnerSeeder) SeedLearner(username, password string) (string, error) {
	existing, err := s.repo.GetByUsername(username)
	if err == nil {
		log.Printf("Learner %s already exists, skipping learner seeding", username)
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	learner, err := s.repo.Create(username, string(hash))
	if err != nil {
		log.Printf("Error creating learner: %v", err)
		return "", err
	}

	log.Printf("Created learner: %s (id: %s)", learner.Username, learner.ID)
	return learner.ID, nil
}
