package repositories

import (
	"gorm.io/gorm"

	"github.com/anissawilliams/ai-crew-tutor/model"
)

// RatingRepository is the database rendition of the rating log. Rows are
// only ever inserted.
type RatingRepository struct {
	BaseRepository
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *RatingRepository) Append(record model.RatingRecord) error {
	record.ID = newID()
	return r.db.Create(&record).Error
}

func (r *RatingRepository) LoadAll() ([]model.RatingRecord, error) {
	records := []model.RatingRecord{}
	if err := r.db.Order("timestamp ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *RatingRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.RatingRecord{}).Count(&count).Error
	return count, err
}

// AppendBatch inserts imported records in one transaction.
func (r *RatingRepository) AppendBatch(records []model.RatingRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			rec := records[i]
			rec.ID = newID()
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
