package progression

import "github.com/anissawilliams/ai-crew-tutor/model"

// XP and affinity granted per learner action.
const (
	QuestionXP         = 10
	QuestionAffinity   = 10
	CodeReviewXP       = 15
	CodeReviewAffinity = 15
	RatingXP           = 5
	RatingAffinity     = 5
	StreakBonusXP      = 20

	// RatingAffinityMinMean is the mean rating that also earns affinity.
	RatingAffinityMinMean = 4.0
	StreakMilestoneEvery  = 7
)

// RatingEarnsAffinity reports whether a rating is high enough to also
// raise affinity with the rated persona.
func RatingEarnsAffinity(r model.RatingRecord) bool {
	return r.MeanScore() >= RatingAffinityMinMean
}

// Threshold is the total XP at which a learner leaves level.
func Threshold(level int) int {
	return level * 100
}

// CalculateProgress returns the percentage of the way through the current
// level, clamped to [0, 100].
func CalculateProgress(xp, level int) float64 {
	prev := 0
	if level > 1 {
		prev = Threshold(level - 1)
	}
	span := Threshold(level) - prev
	if span <= 0 {
		return 0
	}
	pct := float64(xp-prev) / float64(span) * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// LevelForXP is the level a fresh record holds after earning xp.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/100 + 1
}

func XPToNextLevel(xp, level int) int {
	if rem := Threshold(level) - xp; rem > 0 {
		return rem
	}
	return 0
}

type AffinityTier int

const (
	AffinityNone AffinityTier = iota
	AffinityBronze
	AffinitySilver
	AffinityGold
	AffinityPlatinum
)

var affinityTierNames = [...]string{"None", "Bronze", "Silver", "Gold", "Platinum"}

func (t AffinityTier) String() string {
	if t < AffinityNone || t > AffinityPlatinum {
		return "None"
	}
	return affinityTierNames[t]
}

func AffinityTierOf(affinity int) AffinityTier {
	switch {
	case affinity >= 100:
		return AffinityPlatinum
	case affinity >= 75:
		return AffinityGold
	case affinity >= 50:
		return AffinitySilver
	case affinity >= 25:
		return AffinityBronze
	default:
		return AffinityNone
	}
}

// AffinityStars maps affinity to a 0-5 star rating.
func AffinityStars(affinity int) int {
	if affinity <= 0 {
		return 0
	}
	if stars := affinity / 20; stars < 5 {
		return stars
	}
	return 5
}

type LevelTier struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var (
	LevelBeginner     = LevelTier{Name: "Beginner", Color: "#43e97b", Icon: "🌱"}
	LevelIntermediate = LevelTier{Name: "Intermediate", Color: "#38f9d7", Icon: "💪"}
	LevelAdvanced     = LevelTier{Name: "Advanced", Color: "#667eea", Icon: "🚀"}
)

func LevelTierOf(level int) LevelTier {
	switch {
	case level <= 10:
		return LevelBeginner
	case level <= 20:
		return LevelIntermediate
	default:
		return LevelAdvanced
	}
}
