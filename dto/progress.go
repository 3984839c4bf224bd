package dto

import (
	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/progression"
)

// ==================== PROGRESS DTOs ====================

// NextUnlockInfo is nil in responses once every persona is unlocked.
type NextUnlockInfo struct {
	Persona     string `json:"persona" example:"Iron Man"`
	UnlockLevel int    `json:"unlock_level" example:"11"`
	LevelsToGo  int    `json:"levels_to_go" example:"8"`
	Avatar      string `json:"avatar" example:"🦾"`
}

type ProgressResponse struct {
	Level           int                      `json:"level" example:"3"`
	XP              int                      `json:"xp" example:"240"`
	Streak          int                      `json:"streak" example:"5"`
	LastVisit       *model.Date              `json:"last_visit" swaggertype:"string" example:"2025-04-02"`
	Affinity        map[string]int           `json:"affinity"`
	LevelTier       progression.LevelTier    `json:"level_tier"`
	ProgressPercent float64                  `json:"progress_percent" example:"80"`
	XPToNextLevel   int                      `json:"xp_to_next_level" example:"60"`
	UnlockedCount   int                      `json:"unlocked_count" example:"4"`
	TotalPersonas   int                      `json:"total_personas" example:"9"`
	NextUnlock      *NextUnlockInfo          `json:"next_unlock,omitempty"`
	PendingReward   *progression.RewardEvent `json:"pending_reward,omitempty"`
	PendingCount    int                      `json:"pending_count" example:"1"`
}

type VisitResponse struct {
	Changed  bool             `json:"changed" example:"true"`
	LevelUp  bool             `json:"level_up" example:"false"`
	Progress ProgressResponse `json:"progress"`
}

// ==================== REWARD DTOs ====================

type RewardsResponse struct {
	Pending []progression.RewardEvent `json:"pending"`
}

type AcknowledgeResponse struct {
	Acknowledged *progression.RewardEvent `json:"acknowledged,omitempty"`
	Remaining    int                      `json:"remaining" example:"0"`
	Next         *progression.RewardEvent `json:"next,omitempty"`
}
