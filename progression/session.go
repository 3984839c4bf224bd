package progression

import (
	"sync"

	"github.com/anissawilliams/ai-crew-tutor/model"
)

// Saver persists a progress record. Implementations overwrite the whole
// record.
type Saver interface {
	Save(p *model.UserProgress) error
}

type SaverFunc func(p *model.UserProgress) error

func (f SaverFunc) Save(p *model.UserProgress) error {
	return f(p)
}

// Page and mode values the presentation layer navigates between.
const (
	PageTutor     = "tutor"
	PageSnippets  = "snippets"
	PageAnalytics = "analytics"

	ModeQuestion   = "question"
	ModeCodeReview = "code_review"
)

// Session is the per-learner state of one interactive session. Callers
// hold the embedded lock while running engine operations on it.
type Session struct {
	sync.Mutex

	Progress *model.UserProgress
	Rewards  RewardQueue

	Page           string
	Mode           string
	CurrentPersona string
	ShowSnippets   bool

	store Saver
}

func NewSession(progress *model.UserProgress, store Saver) *Session {
	if progress == nil {
		progress = model.NewUserProgress()
	}
	progress.Normalize()
	return &Session{
		Progress: progress,
		Page:     PageTutor,
		Mode:     ModeQuestion,
		store:    store,
	}
}

func (s *Session) save() error {
	if s.store == nil {
		return nil
	}
	return s.store.Save(s.Progress)
}
