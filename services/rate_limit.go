package services

import (
	stdctx "context"
	"fmt"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/anissawilliams/ai-crew-tutor/dto"
	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/services/repositories"
)

type RateLimitService struct {
	context.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	store rateLimitStore
	now   func() time.Time
	stop  chan struct{}
}

// RateLimitConfig represents rate limiting configuration
type RateLimitConfig struct {
	EndpointType string        `json:"endpoint_type"`
	MaxRequests  int           `json:"max_requests"`
	WindowSize   time.Duration `json:"window_size"`
	BlockTime    time.Duration `json:"block_time"`
	Description  string        `json:"description"`
	IsActive     bool          `json:"is_active"`
}

const RATE_LIMIT_SVC = "rate_limit_svc"

// Endpoint types guarded by the rate limiter.
const (
	RateLimitLogin      = "login"
	RateLimitRegister   = "register"
	RateLimitTutor      = "tutor"
	RateLimitRatings    = "ratings"
	RateLimitAPIGeneral = "api_general"
)

// rateLimitStore persists request windows. Windows are kept in Redis when
// it is configured and in the database otherwise.
type rateLimitStore interface {
	Get(identifier, endpointType string) (*model.RateLimit, error)
	Save(rateLimit *model.RateLimit) error
	Delete(identifier, endpointType string) error
	CleanupOldRecords(maxAge time.Duration) error
}

func NewRateLimitService(store rateLimitStore, now func() time.Time) *RateLimitService {
	if now == nil {
		now = time.Now
	}
	svc := &RateLimitService{store: store, now: now}
	svc.initDefaultConfigs()
	return svc
}

func (svc *RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	if redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService); ok {
		svc.store = &redisRateLimitStore{redis: redisSvc}
		log.Println("Rate limit windows stored in Redis")
	} else if db, ok := pickDatabase(svc.Service(POSTGRES_SVC), svc.Service(SQLITE_SVC)); ok {
		svc.store = repositories.NewRateLimitRepository(db.Db())
		log.Println("Rate limit windows stored in the database")
	} else {
		return fmt.Errorf("rate limit service requires redis or a database")
	}

	svc.initDefaultConfigs()

	svc.stop = make(chan struct{})
	go svc.startCleanupJob()

	return nil
}

func (svc *RateLimitService) Shutdown() {
	if svc.stop != nil {
		close(svc.stop)
	}
}

// ==================== CONFIGURATION MANAGEMENT ====================

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		RateLimitLogin: {
			EndpointType: RateLimitLogin,
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			BlockTime:    30 * time.Minute,
			Description:  "Login attempts rate limit",
			IsActive:     true,
		},
		RateLimitRegister: {
			EndpointType: RateLimitRegister,
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			BlockTime:    60 * time.Minute,
			Description:  "Registration rate limit",
			IsActive:     true,
		},
		RateLimitTutor: {
			EndpointType: RateLimitTutor,
			MaxRequests:  30,
			WindowSize:   time.Hour,
			BlockTime:    15 * time.Minute,
			Description:  "Explanation and code review requests per learner",
			IsActive:     true,
		},
		RateLimitRatings: {
			EndpointType: RateLimitRatings,
			MaxRequests:  20,
			WindowSize:   time.Hour,
			BlockTime:    15 * time.Minute,
			Description:  "Explanation ratings per learner",
			IsActive:     true,
		},
		RateLimitAPIGeneral: {
			EndpointType: RateLimitAPIGeneral,
			MaxRequests:  1000,
			WindowSize:   time.Hour,
			BlockTime:    time.Hour,
			Description:  "General API rate limit per IP",
			IsActive:     true,
		},
	}
}

// Configs returns a copy of the active configuration.
func (svc *RateLimitService) Configs() map[string]RateLimitConfig {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()

	out := make(map[string]RateLimitConfig, len(svc.configs))
	for k, v := range svc.configs {
		out[k] = *v
	}
	return out
}

// SetLimit overrides the request budget of an endpoint type.
func (svc *RateLimitService) SetLimit(endpointType string, maxRequests int, window time.Duration) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	if config, exists := svc.configs[endpointType]; exists {
		config.MaxRequests = maxRequests
		config.WindowSize = window
	}
}

// ==================== CORE RATE LIMITING LOGIC ====================

func (svc *RateLimitService) IsAllowed(identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	svc.mutex.RLock()
	config, exists := svc.configs[endpointType]
	var cfg RateLimitConfig
	if exists {
		cfg = *config
	}
	svc.mutex.RUnlock()

	if !exists || !cfg.IsActive {
		return true, &dto.RateLimitInfo{
			Allowed:   true,
			Remaining: -1,
		}, nil
	}

	now := svc.now()
	windowStart := now.Add(-cfg.WindowSize)

	rateLimit, err := svc.store.Get(identifier, endpointType)
	if err != nil {
		return false, nil, err
	}

	if rateLimit != nil && rateLimit.BlockedUntil != nil && now.Before(*rateLimit.BlockedUntil) {
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Remaining:    0,
			ResetTime:    rateLimit.BlockedUntil,
			BlockedUntil: rateLimit.BlockedUntil,
		}, nil
	}

	// No window yet, or the previous one has expired
	if rateLimit == nil || rateLimit.WindowStart.Before(windowStart) {
		fresh := &model.RateLimit{
			Identifier:   identifier,
			EndpointType: endpointType,
			RequestCount: 1,
			WindowStart:  now,
		}
		if rateLimit != nil {
			fresh.ID = rateLimit.ID
			fresh.CreatedAt = rateLimit.CreatedAt
		}

		if err := svc.store.Save(fresh); err != nil {
			return false, nil, err
		}

		resetTime := now.Add(cfg.WindowSize)
		return true, &dto.RateLimitInfo{
			Allowed:   true,
			Remaining: cfg.MaxRequests - 1,
			ResetTime: &resetTime,
		}, nil
	}

	if rateLimit.RequestCount >= cfg.MaxRequests {
		blockedUntil := now.Add(cfg.BlockTime)
		rateLimit.BlockedUntil = &blockedUntil

		if err := svc.store.Save(rateLimit); err != nil {
			return false, nil, err
		}

		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Remaining:    0,
			ResetTime:    &blockedUntil,
			BlockedUntil: &blockedUntil,
		}, nil
	}

	rateLimit.RequestCount++

	if err := svc.store.Save(rateLimit); err != nil {
		return false, nil, err
	}

	resetTime := rateLimit.WindowStart.Add(cfg.WindowSize)
	return true, &dto.RateLimitInfo{
		Allowed:   true,
		Remaining: cfg.MaxRequests - rateLimit.RequestCount,
		ResetTime: &resetTime,
	}, nil
}

func (svc *RateLimitService) ResetRateLimit(identifier, endpointType string) error {
	return svc.store.Delete(identifier, endpointType)
}

// Message is the client-facing explanation for a rejected request.
func (svc *RateLimitService) Message(endpointType string) string {
	messages := map[string]string{
		RateLimitLogin:      "Too many login attempts. Please try again later.",
		RateLimitRegister:   "Too many registration attempts. Please try again later.",
		RateLimitTutor:      "Too many questions in a short time. Take a breather and try again soon.",
		RateLimitRatings:    "Too many ratings in a short time. Please try again later.",
		RateLimitAPIGeneral: "Too many requests. Please slow down.",
	}

	if message, exists := messages[endpointType]; exists {
		return message
	}

	return "Too many requests. Please try again later."
}

// ==================== BACKGROUND JOBS ====================

func (svc *RateLimitService) startCleanupJob() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := svc.store.CleanupOldRecords(7 * 24 * time.Hour); err != nil {
				log.Printf("Rate limit cleanup error: %v", err)
			}
		case <-svc.stop:
			return
		}
	}
}

// ==================== REDIS STORE ====================

const rateLimitKeyPrefix = "tutor:ratelimit:"

// redisRateLimitStore keeps each window as a JSON value that expires on
// its own, so cleanup is a no-op.
type redisRateLimitStore struct {
	redis *RedisService
	ttl   time.Duration
}

func (s *redisRateLimitStore) key(identifier, endpointType string) string {
	return rateLimitKeyPrefix + endpointType + ":" + identifier
}

func (s *redisRateLimitStore) Get(identifier, endpointType string) (*model.RateLimit, error) {
	var rateLimit model.RateLimit
	found, err := s.redis.GetJSON(stdctx.Background(), s.key(identifier, endpointType), &rateLimit)
	if err != nil || !found {
		return nil, err
	}
	return &rateLimit, nil
}

func (s *redisRateLimitStore) Save(rateLimit *model.RateLimit) error {
	now := time.Now()
	if rateLimit.CreatedAt.IsZero() {
		rateLimit.CreatedAt = now
	}
	rateLimit.UpdatedAt = now

	ttl := s.ttl
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return s.redis.SetJSON(stdctx.Background(), s.key(rateLimit.Identifier, rateLimit.EndpointType), rateLimit, ttl)
}

func (s *redisRateLimitStore) Delete(identifier, endpointType string) error {
	return s.redis.Delete(stdctx.Background(), s.key(identifier, endpointType))
}

func (s *redisRateLimitStore) CleanupOldRecords(time.Duration) error {
	return nil
}
