package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"

	"github.com/anissawilliams/ai-crew-tutor/shared"
)

type RedisService struct {
	appContext.DefaultService
	redis *redis.Client

	leaderboardKey string
}

const REDIS_SVC = "redis_svc"

const defaultLeaderboardKey = "tutor:leaderboard:xp"

var errRedisNotInitialized = errors.New("redis client not initialized")

// NewRedisServiceWithClient wraps an existing client, bypassing Configure.
func NewRedisServiceWithClient(client *redis.Client) *RedisService {
	return &RedisService{redis: client, leaderboardKey: defaultLeaderboardKey}
}

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	svc.initRedisClient()

	svc.leaderboardKey = os.Getenv("REDIS_LEADERBOARD_KEY")
	if svc.leaderboardKey == "" {
		svc.leaderboardKey = defaultLeaderboardKey
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	if svc.redis != nil {
		ctx := context.Background()
		_, err := svc.redis.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
	}
	return nil
}

func (svc *RedisService) Shutdown() {
	if svc.redis != nil {
		_ = svc.redis.Close()
	}
}

func (svc *RedisService) initRedisClient() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	svc.redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
}

func (svc *RedisService) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if svc.redis == nil {
		return errRedisNotInitialized
	}

	data, err := shared.JSONMarshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return svc.redis.Set(ctx, key, data, expiration).Err()
}

// GetJSON reports false when the key does not exist.
func (svc *RedisService) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if svc.redis == nil {
		return false, errRedisNotInitialized
	}

	result, err := svc.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, shared.JSONUnmarshal(result, dest)
}

func (svc *RedisService) Delete(ctx context.Context, keys ...string) error {
	if svc.redis == nil {
		return errRedisNotInitialized
	}

	return svc.redis.Del(ctx, keys...).Err()
}

// ==================== LEADERBOARD ====================

// LeaderboardScore is one learner's standing in the XP sorted set.
type LeaderboardScore struct {
	UserID string
	XP     int
}

// UpdateLeaderboard records the learner's current XP total.
func (svc *RedisService) UpdateLeaderboard(ctx context.Context, userID string, xp int) error {
	if svc.redis == nil {
		return errRedisNotInitialized
	}

	return svc.redis.ZAdd(ctx, svc.leaderboardKey, redis.Z{
		Score:  float64(xp),
		Member: userID,
	}).Err()
}

func (svc *RedisService) TopLearners(ctx context.Context, limit int) ([]LeaderboardScore, error) {
	if svc.redis == nil {
		return nil, errRedisNotInitialized
	}

	entries, err := svc.redis.ZRevRangeWithScores(ctx, svc.leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	scores := make([]LeaderboardScore, 0, len(entries))
	for _, z := range entries {
		member, _ := z.Member.(string)
		scores = append(scores, LeaderboardScore{UserID: member, XP: int(z.Score)})
	}
	return scores, nil
}

// LearnerRank is 1-based; zero means the learner is not ranked.
func (svc *RedisService) LearnerRank(ctx context.Context, userID string) (int, error) {
	if svc.redis == nil {
		return 0, errRedisNotInitialized
	}

	rank, err := svc.redis.ZRevRank(ctx, svc.leaderboardKey, userID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(rank) + 1, nil
}
