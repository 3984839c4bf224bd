package repositories

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anissawilliams/ai-crew-tutor/model"
)

// ProgressRepository keeps one progress row per learner.
type ProgressRepository struct {
	BaseRepository
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Load returns the learner's progress, or defaults when there is no row.
// Any other read error is returned so callers never mistake an outage for a
// new learner.
func (r *ProgressRepository) Load(userID string) (*model.UserProgress, error) {
	var row model.UserProgress
	err := r.db.Where("user_id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.NewUserProgress(), nil
		}
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to load progress")
		return nil, fmt.Errorf("load progress for %s: %w", userID, err)
	}
	row.Normalize()
	return &row, nil
}

// Save upserts the whole record keyed by learner.
func (r *ProgressRepository) Save(userID string, p *model.UserProgress) error {
	row := p.Clone()
	row.ID = newID()
	row.UserID = userID

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"level", "xp", "streak", "last_visit", "affinity", "updated_at"}),
	}).Create(row).Error
}

// Top returns the records with the most XP, highest first.
func (r *ProgressRepository) Top(limit int) ([]model.UserProgress, error) {
	var rows []model.UserProgress
	if err := r.db.Order("xp DESC").Order("user_id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProgressRepository) Exists(userID string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.UserProgress{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
