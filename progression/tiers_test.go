package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anissawilliams/ai-crew-tutor/model"
)

func TestAffinityTierOf(t *testing.T) {
	tests := []struct {
		affinity int
		want     AffinityTier
		name     string
	}{
		{0, AffinityNone, "None"},
		{24, AffinityNone, "None"},
		{25, AffinityBronze, "Bronze"},
		{49, AffinityBronze, "Bronze"},
		{50, AffinitySilver, "Silver"},
		{74, AffinitySilver, "Silver"},
		{75, AffinityGold, "Gold"},
		{99, AffinityGold, "Gold"},
		{100, AffinityPlatinum, "Platinum"},
		{1000, AffinityPlatinum, "Platinum"},
	}

	for _, tt := range tests {
		got := AffinityTierOf(tt.affinity)
		assert.Equal(t, tt.want, got, "affinity %d", tt.affinity)
		assert.Equal(t, tt.name, got.String())
	}
	assert.Equal(t, 4, int(AffinityPlatinum))
}

func TestLevelTierOf(t *testing.T) {
	assert.Equal(t, LevelBeginner, LevelTierOf(1))
	assert.Equal(t, LevelBeginner, LevelTierOf(10))
	assert.Equal(t, LevelIntermediate, LevelTierOf(11))
	assert.Equal(t, LevelIntermediate, LevelTierOf(20))
	assert.Equal(t, LevelAdvanced, LevelTierOf(21))
	assert.Equal(t, "🚀", LevelTierOf(50).Icon)
}

func TestCalculateProgress(t *testing.T) {
	tests := []struct {
		name  string
		xp    int
		level int
		want  float64
	}{
		{name: "fresh learner", xp: 0, level: 1, want: 0},
		{name: "halfway level one", xp: 50, level: 1, want: 50},
		{name: "start of level two", xp: 100, level: 2, want: 0},
		{name: "halfway level two", xp: 150, level: 2, want: 50},
		{name: "level three", xp: 250, level: 3, want: 50},
		{name: "overshoot clamps high", xp: 5000, level: 2, want: 100},
		{name: "xp behind level clamps low", xp: 10, level: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateProgress(tt.xp, tt.level)
			assert.InDelta(t, tt.want, got, 0.0001)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestXPToNextLevel(t *testing.T) {
	assert.Equal(t, 100, XPToNextLevel(0, 1))
	assert.Equal(t, 30, XPToNextLevel(170, 2))
	assert.Equal(t, 0, XPToNextLevel(900, 2))
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(-5))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 13, LevelForXP(1240))
}

func TestAffinityStars(t *testing.T) {
	assert.Equal(t, 0, AffinityStars(0))
	assert.Equal(t, 0, AffinityStars(19))
	assert.Equal(t, 1, AffinityStars(20))
	assert.Equal(t, 4, AffinityStars(99))
	assert.Equal(t, 5, AffinityStars(100))
	assert.Equal(t, 5, AffinityStars(400))
}

func TestRatingEarnsAffinity(t *testing.T) {
	assert.True(t, RatingEarnsAffinity(model.RatingRecord{Clarity: 4, Accuracy: 4, Helpfulness: 4}))
	assert.True(t, RatingEarnsAffinity(model.RatingRecord{Clarity: 5, Accuracy: 3, Helpfulness: 4}))
	assert.False(t, RatingEarnsAffinity(model.RatingRecord{Clarity: 5, Accuracy: 3, Helpfulness: 3}))
}

func TestRewardQueue_FIFO(t *testing.T) {
	var q RewardQueue

	_, ok := q.Peek()
	assert.False(t, ok)

	q.Push(StreakMilestone(7))
	q.Push(LevelUp(3))
	q.Push(AffinityUpgrade("Batman", AffinityGold))

	ev, ok := q.Peek()
	assert.True(t, ok)
	assert.Equal(t, RewardStreakMilestone, ev.Kind)
	assert.Equal(t, 3, q.Len())

	ev, _ = q.Acknowledge()
	assert.Equal(t, StreakMilestone(7), ev)
	ev, _ = q.Acknowledge()
	assert.Equal(t, LevelUp(3), ev)
	ev, _ = q.Acknowledge()
	assert.Equal(t, "Gold", ev.Tier)

	_, ok = q.Acknowledge()
	assert.False(t, ok)
	assert.Empty(t, q.All())
}
