package progression

import (
	"time"

	"github.com/anissawilliams/ai-crew-tutor/model"
)

// Observer is notified of progression outcomes. Used for metrics.
type Observer interface {
	XPAwarded(amount int)
	RewardQueued(ev RewardEvent)
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// Engine applies learner actions to a session's progress record. Every
// mutating operation persists the record before returning. A save error is
// returned to the caller but the in-memory change is kept.
type Engine struct {
	now      func() time.Time
	observer Observer
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Today is the current calendar date in local time.
func (e *Engine) Today() model.Date {
	return model.DateOf(e.now())
}

// AwardXP adds amount to the learner's XP and raises the level until it is
// consistent with the new total, so one large award can span several
// levels. A single LevelUp carrying the final level is queued. Amounts of
// zero or less are ignored.
func (e *Engine) AwardXP(s *Session, amount int) (bool, error) {
	if amount <= 0 {
		return false, nil
	}

	p := s.Progress
	p.XP += amount
	e.notifyXP(amount)

	leveled := false
	for p.XP >= Threshold(p.Level) {
		p.Level++
		leveled = true
	}
	if leveled {
		e.queue(s, LevelUp(p.Level))
	}

	return leveled, s.save()
}

// UpdateStreak records a visit on today. It returns false without touching
// the record when today was already recorded.
func (e *Engine) UpdateStreak(s *Session, today model.Date) (bool, error) {
	p := s.Progress
	if p.LastVisit != nil && *p.LastVisit == today {
		return false, nil
	}

	milestone := false
	if p.LastVisit != nil && p.LastVisit.AddDays(1) == today {
		p.Streak++
		milestone = p.Streak%StreakMilestoneEvery == 0
	} else {
		p.Streak = 1
	}

	visit := today
	p.LastVisit = &visit

	if milestone {
		e.queue(s, StreakMilestone(p.Streak))
		// AwardXP persists the streak change together with the bonus.
		_, err := e.AwardXP(s, StreakBonusXP)
		return true, err
	}

	return true, s.save()
}

// AddAffinity raises the learner's affinity with persona and queues an
// AffinityUpgrade when a named tier is reached. Personas are not checked
// against the catalog here.
func (e *Engine) AddAffinity(s *Session, persona string, amount int) (bool, error) {
	if amount <= 0 {
		return false, nil
	}

	p := s.Progress
	if p.Affinity == nil {
		p.Affinity = map[string]int{}
	}

	old := p.Affinity[persona]
	updated := old + amount
	p.Affinity[persona] = updated

	oldTier, newTier := AffinityTierOf(old), AffinityTierOf(updated)
	upgraded := oldTier != newTier && newTier != AffinityNone
	if upgraded {
		e.queue(s, AffinityUpgrade(persona, newTier))
	}

	return upgraded, s.save()
}

func (e *Engine) queue(s *Session, ev RewardEvent) {
	s.Rewards.Push(ev)
	if e.observer != nil {
		e.observer.RewardQueued(ev)
	}
}

func (e *Engine) notifyXP(amount int) {
	if e.observer != nil {
		e.observer.XPAwarded(amount)
	}
}
