package services

import (
	stdctx "context"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/anissawilliams/ai-crew-tutor/catalog"
	"github.com/anissawilliams/ai-crew-tutor/dto"
	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/progression"
	"github.com/anissawilliams/ai-crew-tutor/shared"
)

const TUTOR_SVC = "tutor_svc"

// Generator produces an explanation in a persona's voice.
type Generator interface {
	Generate(ctx stdctx.Context, persona catalog.Persona, prompt string) (string, error)
}

type ratingRecorder interface {
	Record(r model.RatingRecord) error
}

// TutorService runs the learner actions that earn XP and affinity. Awards
// are granted only after the gating step (generation or rating append)
// succeeds.
type TutorService struct {
	context.DefaultService

	progress  *ProgressService
	generator Generator
	ratings   ratingRecorder
	now       func() time.Time
}

func NewTutorService(progress *ProgressService, generator Generator, ratings ratingRecorder) *TutorService {
	return &TutorService{
		progress:  progress,
		generator: generator,
		ratings:   ratings,
		now:       time.Now,
	}
}

func (svc TutorService) Id() string {
	return TUTOR_SVC
}

func (svc *TutorService) Configure(ctx *context.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *TutorService) Start() error {
	svc.progress = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.generator = svc.Service(GENERATOR_SVC).(*GeneratorService)
	svc.ratings = svc.Service(ANALYTICS_SVC).(*AnalyticsService)
	return nil
}

func (svc *TutorService) AskQuestion(ctx stdctx.Context, userID string, req dto.AskQuestionRequest) (*dto.ExplanationResponse, error) {
	return svc.explain(ctx, userID, req.Persona, req.Question, false,
		progression.ModeQuestion, progression.QuestionXP, progression.QuestionAffinity)
}

func (svc *TutorService) ReviewCode(ctx stdctx.Context, userID string, req dto.ReviewCodeRequest) (*dto.ExplanationResponse, error) {
	return svc.explain(ctx, userID, req.Persona, req.Code, true,
		progression.ModeCodeReview, progression.CodeReviewXP, progression.CodeReviewAffinity)
}

func (svc *TutorService) explain(ctx stdctx.Context, userID, name, text string, review bool, mode string, xp, affinity int) (*dto.ExplanationResponse, error) {
	registry := svc.progress.Registry()

	persona, ok := registry.Persona(name)
	if !ok {
		return nil, shared.NewNotFoundError(nil, "Persona not found")
	}

	snapshot, err := svc.progress.Snapshot(userID)
	if err != nil {
		return nil, err
	}
	if !registry.IsUnlocked(name, snapshot.Level) {
		return nil, lockedPersonaError(persona)
	}

	prompt, isCode := BuildPrompt(persona, text, review)

	raw, err := svc.generator.Generate(ctx, persona, prompt)
	if err != nil {
		if _, ok := shared.GetAppError(err); ok {
			return nil, err
		}
		return nil, shared.NewBadGatewayError(err, "Explanation generator failed")
	}

	result, err := svc.award(userID, name, mode, xp, affinity)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":       userID,
		"persona":       name,
		"mode":          mode,
		"xp":            result.XP,
		"learner_level": result.Level,
		"level_up":      result.LevelUp,
	}).Info("Explanation delivered")

	return &dto.ExplanationResponse{
		Persona:     name,
		Explanation: StripThinking(raw),
		CodeInput:   isCode,
		Result:      result,
	}, nil
}

// SubmitRating appends the rating and then awards XP, plus affinity when
// the mean score is high enough. Nothing is awarded if the append fails.
func (svc *TutorService) SubmitRating(userID string, req dto.RatingRequest) (*dto.RatingResponse, error) {
	snapshot, err := svc.progress.Snapshot(userID)
	if err != nil {
		return nil, err
	}

	record := model.RatingRecord{
		UserID:      userID,
		Timestamp:   svc.now(),
		Persona:     req.Persona,
		Question:    model.TruncateQuestion(req.Question),
		UserLevel:   snapshot.Level,
		Clarity:     req.Clarity,
		Accuracy:    req.Accuracy,
		Helpfulness: req.Helpfulness,
		Feedback:    req.Feedback,
	}

	if err := svc.ratings.Record(record); err != nil {
		return nil, shared.NewInternalError(err, "Rating could not be saved, no XP awarded")
	}

	affinity := 0
	if progression.RatingEarnsAffinity(record) {
		affinity = progression.RatingAffinity
	}

	result, err := svc.award(userID, req.Persona, "", progression.RatingXP, affinity)
	if err != nil {
		return nil, err
	}

	return &dto.RatingResponse{
		Recorded: true,
		Result:   result,
	}, nil
}

// award applies XP then affinity under the learner's lock. A failed save is
// reported in the result; the in-memory change stands. An error means the
// learner's progress could not be loaded and nothing was awarded.
func (svc *TutorService) award(userID, persona, mode string, xp, affinity int) (dto.ActionResult, error) {
	var result dto.ActionResult
	engine := svc.progress.Engine()

	err := svc.progress.Update(userID, func(s *progression.Session) error {
		before := s.Rewards.Len()

		s.CurrentPersona = persona
		s.Page = progression.PageTutor
		if mode != "" {
			s.Mode = mode
		}

		leveled, xpErr := engine.AwardXP(s, xp)
		upgraded, affErr := engine.AddAffinity(s, persona, affinity)

		result = dto.ActionResult{
			XPAwarded:        xp,
			AffinityAwarded:  affinity,
			LevelUp:          leveled,
			AffinityUpgraded: upgraded,
			Level:            s.Progress.Level,
			XP:               s.Progress.XP,
			Affinity:         s.Progress.AffinityFor(persona),
			Rewards:          s.Rewards.All()[before:],
			SaveFailed:       xpErr != nil || affErr != nil,
		}
		return nil
	})

	return result, err
}
