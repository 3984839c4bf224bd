package progression

import "sync"

type RewardKind string

const (
	RewardLevelUp         RewardKind = "level_up"
	RewardStreakMilestone RewardKind = "streak_milestone"
	RewardAffinityUpgrade RewardKind = "affinity_upgrade"
)

// RewardEvent describes a milestone just crossed. Only the fields relevant
// to Kind are set.
type RewardEvent struct {
	Kind    RewardKind `json:"kind"`
	Level   int        `json:"level,omitempty"`
	Days    int        `json:"days,omitempty"`
	Persona string     `json:"persona,omitempty"`
	Tier    string     `json:"tier,omitempty"`
}

func LevelUp(level int) RewardEvent {
	return RewardEvent{Kind: RewardLevelUp, Level: level}
}

func StreakMilestone(days int) RewardEvent {
	return RewardEvent{Kind: RewardStreakMilestone, Days: days}
}

func AffinityUpgrade(persona string, tier AffinityTier) RewardEvent {
	return RewardEvent{Kind: RewardAffinityUpgrade, Persona: persona, Tier: tier.String()}
}

// RewardQueue holds unacknowledged reward events in the order they fired.
type RewardQueue struct {
	mu     sync.Mutex
	events []RewardEvent
}

func (q *RewardQueue) Push(ev RewardEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, ev)
}

// Peek returns the oldest pending event without removing it.
func (q *RewardQueue) Peek() (RewardEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return RewardEvent{}, false
	}
	return q.events[0], true
}

// Acknowledge removes and returns the oldest pending event.
func (q *RewardQueue) Acknowledge() (RewardEvent, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return RewardEvent{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

func (q *RewardQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

func (q *RewardQueue) All() []RewardEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]RewardEvent, len(q.events))
	copy(out, q.events)
	return out
}
