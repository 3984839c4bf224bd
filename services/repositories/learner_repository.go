package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/anissawilliams/ai-crew-tutor/model"
)

// LearnerRepository handles learner account database operations
type LearnerRepository struct {
	BaseRepository
}

func NewLearnerRepository(db *gorm.DB) *LearnerRepository {
	return &LearnerRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *LearnerRepository) GetByUsername(username string) (*model.Learner, error) {
	var learner model.Learner
	if err := r.db.Where("username = ?", username).First(&learner).Error; err != nil {
		return nil, err
	}
	return &learner, nil
}

func (r *LearnerRepository) GetByID(id string) (*model.Learner, error) {
	var learner model.Learner
	if err := r.db.Where("id = ?", id).First(&learner).Error; err != nil {
		return nil, err
	}
	return &learner, nil
}

// Create stores a learner whose password is already hashed.
func (r *LearnerRepository) Create(username, passwordHash string) (*model.Learner, error) {
	learner := &model.Learner{
		ID:       newID(),
		Username: username,
		Password: passwordHash,
	}
	if err := r.db.Create(learner).Error; err != nil {
		return nil, err
	}
	return learner, nil
}

func (r *LearnerRepository) TouchLastLogin(id string, at time.Time) error {
	return r.db.Model(&model.Learner{}).Where("id = ?", id).Update("last_login", at).Error
}
