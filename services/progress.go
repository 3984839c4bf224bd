package services

import (
	stdctx "context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/anissawilliams/ai-crew-tutor/catalog"
	"github.com/anissawilliams/ai-crew-tutor/dto"
	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/progression"
	"github.com/anissawilliams/ai-crew-tutor/services/repositories"
	"github.com/anissawilliams/ai-crew-tutor/shared"
	"github.com/anissawilliams/ai-crew-tutor/storage"
)

const PROGRESS_SVC = "progress_svc"

// Progress store modes.
const (
	StoreFile     = "file"
	StoreDatabase = "db"
)

// progressStore is satisfied by storage.ProgressDirectory and
// repositories.ProgressRepository.
type progressStore interface {
	Load(userID string) (*model.UserProgress, error)
	Save(userID string, p *model.UserProgress) error
}

// DefaultSessionIdleTTL is how long an unused session stays in memory.
const DefaultSessionIdleTTL = 30 * time.Minute

// ProgressService holds one progression session per learner. Operations on
// a learner run under that session's lock, so they apply in call order.
// Sessions idle for longer than idleTTL are dropped and reloaded from the
// store on next use; their unacknowledged rewards go with them.
type ProgressService struct {
	context.DefaultService

	mode    string
	dir     string
	idleTTL time.Duration
	now     func() time.Time
	stop    chan struct{}

	registry   *catalog.Registry
	engine     *progression.Engine
	store      progressStore
	ranking    *repositories.ProgressRepository
	redisSvc   *RedisService
	monitoring *MonitoringService

	mu       sync.Mutex
	sessions map[string]*progression.Session
	lastSeen map[string]time.Time
}

// NewProgressService wires a service without the container, mainly for
// tests.
func NewProgressService(registry *catalog.Registry, store progressStore, opts ...progression.Option) *ProgressService {
	svc := &ProgressService{
		registry: registry,
		engine:   progression.NewEngine(opts...),
		store:    store,
		idleTTL:  DefaultSessionIdleTTL,
		now:      time.Now,
		sessions: map[string]*progression.Session{},
		lastSeen: map[string]time.Time{},
	}
	if repo, ok := store.(*repositories.ProgressRepository); ok {
		svc.ranking = repo
	}
	return svc
}

func (svc *ProgressService) Id() string {
	return PROGRESS_SVC
}

func (svc *ProgressService) Configure(ctx *context.Context) error {
	svc.mode = strings.ToLower(os.Getenv("PROGRESS_STORE"))
	if svc.mode == "" {
		svc.mode = StoreDatabase
	}
	if svc.mode != StoreFile && svc.mode != StoreDatabase {
		return fmt.Errorf("invalid PROGRESS_STORE %q: want %q or %q", svc.mode, StoreFile, StoreDatabase)
	}

	svc.dir = os.Getenv("PROGRESS_DIR")
	if svc.dir == "" {
		svc.dir = "progress"
	}

	svc.idleTTL = DefaultSessionIdleTTL
	if ttl := os.Getenv("SESSION_IDLE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid SESSION_IDLE_TTL %q", ttl)
		}
		svc.idleTTL = d
	}

	svc.now = time.Now
	svc.sessions = map[string]*progression.Session{}
	svc.lastSeen = map[string]time.Time{}
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressService) Start() error {
	svc.registry = svc.Service(CATALOG_SVC).(*CatalogService).Registry()

	var opts []progression.Option
	if m, ok := svc.Service(MONITORING_SVC).(*MonitoringService); ok {
		svc.monitoring = m
		opts = append(opts, progression.WithObserver(m))
	}
	svc.engine = progression.NewEngine(opts...)

	if r, ok := svc.Service(REDIS_SVC).(*RedisService); ok {
		svc.redisSvc = r
	}

	switch svc.mode {
	case StoreFile:
		svc.store = storage.NewProgressDirectory(svc.dir)
	default:
		db, ok := pickDatabase(svc.Service(POSTGRES_SVC), svc.Service(SQLITE_SVC))
		if !ok {
			return errors.New("progress service requires a database service")
		}
		repo := repositories.NewProgressRepository(db.Db())
		svc.store = repo
		svc.ranking = repo
	}

	log.WithFields(log.Fields{
		"mode":             svc.mode,
		"dir":              svc.dir,
		"session_idle_ttl": svc.idleTTL.String(),
	}).Info("Progress store ready")

	svc.stop = make(chan struct{})
	go svc.startEvictionJob()

	return nil
}

func (svc *ProgressService) Shutdown() {
	if svc.stop != nil {
		close(svc.stop)
	}
}

func (svc *ProgressService) Registry() *catalog.Registry {
	return svc.registry
}

func (svc *ProgressService) Engine() *progression.Engine {
	return svc.engine
}

// session returns the learner's session, creating it on first use. A new
// session records today's visit before anyone else can use it. When the
// stored record cannot be read nothing is cached or saved, so a later call
// retries the load instead of overwriting the learner's progress.
func (svc *ProgressService) session(userID string) (*progression.Session, error) {
	svc.mu.Lock()
	if s, ok := svc.sessions[userID]; ok {
		svc.lastSeen[userID] = svc.now()
		svc.mu.Unlock()
		return s, nil
	}

	progress, err := svc.store.Load(userID)
	if err != nil {
		svc.mu.Unlock()
		return nil, shared.NewServiceUnavailableError(err, "Progress is temporarily unavailable")
	}

	s := progression.NewSession(progress, svc.saverFor(userID))
	s.Lock()
	svc.sessions[userID] = s
	svc.lastSeen[userID] = svc.now()
	active := len(svc.sessions)
	svc.mu.Unlock()

	defer s.Unlock()

	if svc.monitoring != nil {
		svc.monitoring.SetActiveSessions(active)
	}

	if _, err := svc.engine.UpdateStreak(s, svc.engine.Today()); err != nil {
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("Failed to persist session start streak")
	}
	return s, nil
}

// EvictIdle drops sessions unused since before now minus the idle TTL.
// Sessions locked by a running operation are kept.
func (svc *ProgressService) EvictIdle(now time.Time) int {
	cutoff := now.Add(-svc.idleTTL)

	svc.mu.Lock()
	evicted := 0
	for userID, seen := range svc.lastSeen {
		if !seen.Before(cutoff) {
			continue
		}
		s := svc.sessions[userID]
		if s != nil && !s.TryLock() {
			continue
		}
		delete(svc.sessions, userID)
		delete(svc.lastSeen, userID)
		if s != nil {
			s.Unlock()
		}
		evicted++
	}
	active := len(svc.sessions)
	svc.mu.Unlock()

	if evicted > 0 {
		if svc.monitoring != nil {
			svc.monitoring.SetActiveSessions(active)
		}
		log.WithFields(log.Fields{
			"evicted": evicted,
			"active":  active,
		}).Debug("Evicted idle sessions")
	}
	return evicted
}

func (svc *ProgressService) startEvictionJob() {
	interval := svc.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			svc.EvictIdle(svc.now())
		case <-svc.stop:
			return
		}
	}
}

func (svc *ProgressService) saverFor(userID string) progression.Saver {
	return progression.SaverFunc(func(p *model.UserProgress) error {
		if err := svc.store.Save(userID, p); err != nil {
			log.WithFields(log.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Failed to save progress")
			return err
		}
		svc.publishScore(userID, p.XP)
		return nil
	})
}

func (svc *ProgressService) publishScore(userID string, xp int) {
	if svc.redisSvc == nil {
		return
	}
	if err := svc.redisSvc.UpdateLeaderboard(stdctx.Background(), userID, xp); err != nil {
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("Failed to update leaderboard")
	}
}

// Update runs fn with the learner's session locked.
func (svc *ProgressService) Update(userID string, fn func(s *progression.Session) error) error {
	s, err := svc.session(userID)
	if err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	return fn(s)
}

// Snapshot returns a copy of the learner's progress.
func (svc *ProgressService) Snapshot(userID string) (*model.UserProgress, error) {
	var out *model.UserProgress
	err := svc.Update(userID, func(s *progression.Session) error {
		out = s.Progress.Clone()
		return nil
	})
	return out, err
}

func (svc *ProgressService) GetProgress(userID string) (*dto.ProgressResponse, error) {
	var out *dto.ProgressResponse
	err := svc.Update(userID, func(s *progression.Session) error {
		out = svc.progressView(s)
		return nil
	})
	return out, err
}

// RecordVisit records today's visit for long-lived sessions that span
// midnight. It is a no-op when today is already recorded.
func (svc *ProgressService) RecordVisit(userID string) (*dto.VisitResponse, error) {
	var (
		out     *dto.VisitResponse
		saveErr error
	)
	err := svc.Update(userID, func(s *progression.Session) error {
		level := s.Progress.Level
		changed, err := svc.engine.UpdateStreak(s, svc.engine.Today())
		out = &dto.VisitResponse{
			Changed:  changed,
			LevelUp:  s.Progress.Level > level,
			Progress: *svc.progressView(s),
		}
		saveErr = err
		return nil
	})
	if err != nil {
		return nil, err
	}
	if saveErr != nil {
		return out, shared.NewInternalError(saveErr, "Visit recorded but progress could not be saved")
	}
	return out, nil
}

func (svc *ProgressService) PendingRewards(userID string) (dto.RewardsResponse, error) {
	var out dto.RewardsResponse
	err := svc.Update(userID, func(s *progression.Session) error {
		out.Pending = s.Rewards.All()
		return nil
	})
	return out, err
}

// AcknowledgeReward drains the oldest pending reward.
func (svc *ProgressService) AcknowledgeReward(userID string) (dto.AcknowledgeResponse, error) {
	var out dto.AcknowledgeResponse
	err := svc.Update(userID, func(s *progression.Session) error {
		if ev, ok := s.Rewards.Acknowledge(); ok {
			out.Acknowledged = &ev
		}
		if next, ok := s.Rewards.Peek(); ok {
			out.Next = &next
		}
		out.Remaining = s.Rewards.Len()
		return nil
	})
	return out, err
}

func (svc *ProgressService) ListPersonas(userID string) (dto.PersonaListResponse, error) {
	p, err := svc.Snapshot(userID)
	if err != nil {
		return dto.PersonaListResponse{}, err
	}

	out := dto.PersonaListResponse{
		Level:    p.Level,
		Personas: make([]dto.PersonaView, 0, svc.registry.Count()),
	}
	for _, persona := range svc.registry.Personas() {
		view := personaView(persona, p)
		if view.Unlocked {
			out.Available++
		}
		out.Personas = append(out.Personas, view)
	}
	return out, nil
}

// SelectPersona makes persona the session's current tutor.
func (svc *ProgressService) SelectPersona(userID, name string) (*dto.PersonaView, error) {
	persona, ok := svc.registry.Persona(name)
	if !ok {
		return nil, shared.NewNotFoundError(nil, "Persona not found")
	}

	var view dto.PersonaView
	err := svc.Update(userID, func(s *progression.Session) error {
		if !svc.registry.IsUnlocked(name, s.Progress.Level) {
			return lockedPersonaError(persona)
		}
		s.CurrentPersona = name
		s.Page = progression.PageTutor
		view = personaView(persona, s.Progress)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// GetSnippets lists a persona's collection with locked entries stripped of
// their code.
func (svc *ProgressService) GetSnippets(userID, name string) (*dto.SnippetCollectionResponse, error) {
	persona, ok := svc.registry.Persona(name)
	if !ok {
		return nil, shared.NewNotFoundError(nil, "Persona not found")
	}
	collection, ok := svc.registry.Collection(name)
	if !ok {
		return nil, shared.NewNotFoundError(nil, "Persona has no snippets")
	}

	var (
		level    int
		affinity int
	)
	err := svc.Update(userID, func(s *progression.Session) error {
		level = s.Progress.Level
		affinity = s.Progress.AffinityFor(name)
		s.Page = progression.PageSnippets
		s.ShowSnippets = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !svc.registry.IsUnlocked(name, level) {
		return nil, lockedPersonaError(persona)
	}

	out := &dto.SnippetCollectionResponse{
		Persona:       name,
		Name:          collection.Name,
		Icon:          collection.Icon,
		Affinity:      affinity,
		UnlockedCount: len(svc.registry.UnlockedSnippets(name, affinity)),
	}
	snippets := svc.registry.Snippets(name)
	out.Snippets = make([]dto.SnippetView, 0, len(snippets))
	for _, sn := range snippets {
		view := dto.SnippetView{
			Title:       sn.Title,
			Description: sn.Description,
			Tier:        sn.Tier,
			Unlocked:    sn.Tier <= affinity,
		}
		if view.Unlocked {
			view.Code = sn.Code
		}
		out.Snippets = append(out.Snippets, view)
	}
	return out, nil
}

// Leaderboard ranks learners by XP from Redis when configured, otherwise
// from the progress table.
func (svc *ProgressService) Leaderboard(ctx stdctx.Context, userID string, limit int) (*dto.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = shared.DefaultLeaderboardLimit
	}
	if limit > shared.MaxLeaderboardLimit {
		limit = shared.MaxLeaderboardLimit
	}

	out := &dto.LeaderboardResponse{Entries: []dto.LeaderboardEntry{}}

	switch {
	case svc.redisSvc != nil:
		scores, err := svc.redisSvc.TopLearners(ctx, limit)
		if err != nil {
			return nil, shared.NewServiceUnavailableError(err, "Leaderboard unavailable")
		}
		for i, sc := range scores {
			out.Entries = append(out.Entries, dto.LeaderboardEntry{
				Rank:   i + 1,
				UserID: sc.UserID,
				XP:     sc.XP,
				Level:  progression.LevelForXP(sc.XP),
				IsMe:   sc.UserID == userID,
			})
		}
		rank, err := svc.redisSvc.LearnerRank(ctx, userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Warn("Failed to read leaderboard rank")
		}
		out.MyRank = rank
		out.Source = "redis"

	case svc.ranking != nil:
		rows, err := svc.ranking.Top(limit)
		if err != nil {
			return nil, shared.NewServiceUnavailableError(err, "Leaderboard unavailable")
		}
		for i, row := range rows {
			entry := dto.LeaderboardEntry{
				Rank:   i + 1,
				UserID: row.UserID,
				XP:     row.XP,
				Level:  row.Level,
				IsMe:   row.UserID == userID,
			}
			if entry.IsMe {
				out.MyRank = entry.Rank
			}
			out.Entries = append(out.Entries, entry)
		}
		out.Source = "database"

	default:
		return nil, shared.NewServiceUnavailableError(nil, "Leaderboard requires Redis or database progress storage")
	}

	return out, nil
}

func (svc *ProgressService) progressView(s *progression.Session) *dto.ProgressResponse {
	p := s.Progress
	out := &dto.ProgressResponse{
		Level:           p.Level,
		XP:              p.XP,
		Streak:          p.Streak,
		Affinity:        p.Clone().Affinity,
		LevelTier:       progression.LevelTierOf(p.Level),
		ProgressPercent: progression.CalculateProgress(p.XP, p.Level),
		XPToNextLevel:   progression.XPToNextLevel(p.XP, p.Level),
		UnlockedCount:   len(svc.registry.Available(p.Level)),
		TotalPersonas:   svc.registry.Count(),
		PendingCount:    s.Rewards.Len(),
	}
	if p.LastVisit != nil {
		lv := *p.LastVisit
		out.LastVisit = &lv
	}
	if next, ok := svc.registry.NextUnlock(p.Level); ok {
		out.NextUnlock = &dto.NextUnlockInfo{
			Persona:     next.Name,
			UnlockLevel: next.UnlockLevel,
			LevelsToGo:  next.UnlockLevel - p.Level,
			Avatar:      next.Avatar,
		}
	}
	if ev, ok := s.Rewards.Peek(); ok {
		out.PendingReward = &ev
	}
	return out
}

func personaView(persona catalog.Persona, p *model.UserProgress) dto.PersonaView {
	affinity := p.AffinityFor(persona.Name)
	return dto.PersonaView{
		Name:              persona.Name,
		Label:             persona.Label(),
		Avatar:            persona.Avatar,
		DisplayBackground: persona.DisplayBackground,
		UnlockLevel:       persona.UnlockLevel,
		UnlockBand:        persona.UnlockBand,
		Unlocked:          p.Level >= persona.UnlockLevel,
		Affinity:          affinity,
		AffinityTier:      progression.AffinityTierOf(affinity).String(),
		AffinityStars:     progression.AffinityStars(affinity),
	}
}

func lockedPersonaError(persona catalog.Persona) error {
	return shared.NewForbiddenError(nil, fmt.Sprintf("%s unlocks at level %d", persona.Name, persona.UnlockLevel)).
		WithData(fiber.Map{"unlock_level": persona.UnlockLevel})
}
