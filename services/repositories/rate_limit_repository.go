package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/anissawilliams/ai-crew-tutor/model"
)

// RateLimitRepository stores fixed-window request counters.
type RateLimitRepository struct {
	BaseRepository
}

func NewRateLimitRepository(db *gorm.DB) *RateLimitRepository {
	return &RateLimitRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Get returns nil, nil when the identifier has no window yet.
func (r *RateLimitRepository) Get(identifier, endpointType string) (*model.RateLimit, error) {
	var rateLimit model.RateLimit

	err := r.db.Where("identifier = ? AND endpoint_type = ?", identifier, endpointType).First(&rateLimit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &rateLimit, nil
}

func (r *RateLimitRepository) Save(rateLimit *model.RateLimit) error {
	if rateLimit.ID == "" {
		rateLimit.ID = newID()
	}

	now := time.Now()
	if rateLimit.CreatedAt.IsZero() {
		rateLimit.CreatedAt = now
	}
	rateLimit.UpdatedAt = now

	return r.db.Save(rateLimit).Error
}

func (r *RateLimitRepository) Delete(identifier, endpointType string) error {
	return r.db.Where("identifier = ? AND endpoint_type = ?", identifier, endpointType).
		Delete(&model.RateLimit{}).Error
}

// CleanupOldRecords removes windows older than maxAge that are not blocked.
func (r *RateLimitRepository) CleanupOldRecords(maxAge time.Duration) error {
	now := time.Now()
	cutoff := now.Add(-maxAge)

	return r.db.Where("window_start < ? AND (blocked_until IS NULL OR blocked_until < ?)", cutoff, now).
		Delete(&model.RateLimit{}).Error
}
