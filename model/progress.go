package model

import "time"

// UserProgress is the single progress record of a learner. The JSON form is
// the on-disk format; database bookkeeping columns are hidden from it.
type UserProgress struct {
	ID        string         `json:"-" gorm:"primaryKey"`
	UserID    string         `json:"-" gorm:"uniqueIndex;not null"`
	Level     int            `json:"level" gorm:"default:1;not null"`
	XP        int            `json:"xp" gorm:"default:0;not null;index"`
	Streak    int            `json:"streak" gorm:"default:0;not null"`
	LastVisit *Date          `json:"last_visit" gorm:"type:date"`
	Affinity  map[string]int `json:"affinity" gorm:"serializer:json;type:text"`
	CreatedAt time.Time      `json:"-"`
	UpdatedAt time.Time      `json:"-"`
}

func NewUserProgress() *UserProgress {
	return &UserProgress{
		Level:    1,
		XP:       0,
		Streak:   0,
		Affinity: map[string]int{},
	}
}

// Normalize repairs fields a hand-edited or legacy record may be missing.
func (p *UserProgress) Normalize() {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.XP < 0 {
		p.XP = 0
	}
	if p.Streak < 0 {
		p.Streak = 0
	}
	if p.Affinity == nil {
		p.Affinity = map[string]int{}
	}
}

func (p *UserProgress) AffinityFor(persona string) int {
	if p.Affinity == nil {
		return 0
	}
	return p.Affinity[persona]
}

// Clone returns a deep copy safe to hand outside a session lock.
func (p *UserProgress) Clone() *UserProgress {
	c := *p
	if p.LastVisit != nil {
		lv := *p.LastVisit
		c.LastVisit = &lv
	}
	c.Affinity = make(map[string]int, len(p.Affinity))
	for k, v := range p.Affinity {
		c.Affinity[k] = v
	}
	return &c
}
