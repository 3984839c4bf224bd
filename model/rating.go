package model

import "time"

const MaxRatingQuestionLength = 200

// RatingRecord is one explanation rating. Rows are never updated.
type RatingRecord struct {
	ID          string    `json:"-" gorm:"primaryKey"`
	UserID      string    `json:"user_id,omitempty" gorm:"index"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null;index"`
	Persona     string    `json:"persona" gorm:"not null;index;size:100"`
	Question    string    `json:"question" gorm:"type:text"`
	UserLevel   int       `json:"user_level" gorm:"not null"`
	Clarity     int       `json:"clarity" gorm:"not null"`
	Accuracy    int       `json:"accuracy" gorm:"not null"`
	Helpfulness int       `json:"helpfulness" gorm:"not null"`
	Feedback    string    `json:"feedback" gorm:"type:text"`
}

func (r RatingRecord) MeanScore() float64 {
	return float64(r.Clarity+r.Accuracy+r.Helpfulness) / 3
}

// TruncateQuestion cuts q to MaxRatingQuestionLength characters.
func TruncateQuestion(q string) string {
	runes := []rune(q)
	if len(runes) <= MaxRatingQuestionLength {
		return q
	}
	return string(runes[:MaxRatingQuestionLength])
}
