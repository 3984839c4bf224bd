package services

import (
	stdctx "context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anissawilliams/ai-crew-tutor/catalog"
	"github.com/anissawilliams/ai-crew-tutor/dto"
	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/progression"
	"github.com/anissawilliams/ai-crew-tutor/services/repositories"
	"github.com/anissawilliams/ai-crew-tutor/shared"
	"github.com/anissawilliams/ai-crew-tutor/storage"
)

var testNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)

func testRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	r, err := catalog.Default()
	require.NoError(t, err)
	return r
}

func newFileProgressService(t *testing.T) (*ProgressService, *storage.ProgressDirectory) {
	t.Helper()
	dir := storage.NewProgressDirectory(t.TempDir())
	svc := NewProgressService(testRegistry(t), dir, progression.WithClock(func() time.Time { return testNow }))
	return svc, dir
}

func seedProgress(t *testing.T, store progressStore, userID string, fn func(p *model.UserProgress)) {
	t.Helper()
	p := model.NewUserProgress()
	fn(p)
	require.NoError(t, store.Save(userID, p))
}

func progressOf(t *testing.T, svc *ProgressService, userID string) *dto.ProgressResponse {
	t.Helper()
	view, err := svc.GetProgress(userID)
	require.NoError(t, err)
	return view
}

func snapshotOf(t *testing.T, svc *ProgressService, userID string) *model.UserProgress {
	t.Helper()
	p, err := svc.Snapshot(userID)
	require.NoError(t, err)
	return p
}

func storedProgress(t *testing.T, store progressStore, userID string) *model.UserProgress {
	t.Helper()
	p, err := store.Load(userID)
	require.NoError(t, err)
	return p
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, status, appErr.StatusCode)
}

func TestProgressService_SessionStartRecordsVisit(t *testing.T) {
	svc, dir := newFileProgressService(t)

	view := progressOf(t, svc, "learner-1")
	assert.Equal(t, 1, view.Level)
	assert.Equal(t, 1, view.Streak)
	require.NotNil(t, view.LastVisit)
	assert.Equal(t, "2025-03-10", view.LastVisit.String())
	assert.Equal(t, 0, view.PendingCount)

	// Persisted immediately.
	stored := storedProgress(t, dir, "learner-1")
	assert.Equal(t, 1, stored.Streak)

	// A second visit the same day changes nothing.
	visit, err := svc.RecordVisit("learner-1")
	require.NoError(t, err)
	assert.False(t, visit.Changed)
	assert.Equal(t, 1, visit.Progress.Streak)
}

func TestProgressService_ProgressView(t *testing.T) {
	svc, dir := newFileProgressService(t)
	seedProgress(t, dir, "learner-1", func(p *model.UserProgress) {
		p.Level, p.XP = 3, 240
		p.Affinity["Yoda"] = 30
	})

	view := progressOf(t, svc, "learner-1")
	assert.Equal(t, 3, view.Level)
	assert.Equal(t, 240, view.XP)
	assert.Equal(t, progression.LevelBeginner, view.LevelTier)
	assert.InDelta(t, 40.0, view.ProgressPercent, 1e-9)
	assert.Equal(t, 60, view.XPToNextLevel)
	assert.Equal(t, 4, view.UnlockedCount)
	assert.Equal(t, 9, view.TotalPersonas)
	assert.Equal(t, 30, view.Affinity["Yoda"])

	require.NotNil(t, view.NextUnlock)
	assert.Equal(t, "Batman", view.NextUnlock.Persona)
	assert.Equal(t, 11, view.NextUnlock.UnlockLevel)
	assert.Equal(t, 8, view.NextUnlock.LevelsToGo)
}

func pendingOf(t *testing.T, svc *ProgressService, userID string) []progression.RewardEvent {
	t.Helper()
	out, err := svc.PendingRewards(userID)
	require.NoError(t, err)
	return out.Pending
}

func acknowledge(t *testing.T, svc *ProgressService, userID string) dto.AcknowledgeResponse {
	t.Helper()
	out, err := svc.AcknowledgeReward(userID)
	require.NoError(t, err)
	return out
}

func TestProgressService_StreakMilestoneRewardsQueueInOrder(t *testing.T) {
	svc, dir := newFileProgressService(t)
	yesterday := model.DateOf(testNow).AddDays(-1)
	seedProgress(t, dir, "learner-1", func(p *model.UserProgress) {
		p.XP, p.Streak, p.LastVisit = 90, 6, &yesterday
	})

	view := progressOf(t, svc, "learner-1")
	assert.Equal(t, 7, view.Streak)
	assert.Equal(t, 110, view.XP)
	assert.Equal(t, 2, view.Level)
	assert.Equal(t, 2, view.PendingCount)
	require.NotNil(t, view.PendingReward)
	assert.Equal(t, progression.StreakMilestone(7), *view.PendingReward)

	assert.Equal(t, []progression.RewardEvent{
		progression.StreakMilestone(7),
		progression.LevelUp(2),
	}, pendingOf(t, svc, "learner-1"))

	ack := acknowledge(t, svc, "learner-1")
	require.NotNil(t, ack.Acknowledged)
	assert.Equal(t, progression.StreakMilestone(7), *ack.Acknowledged)
	require.NotNil(t, ack.Next)
	assert.Equal(t, progression.LevelUp(2), *ack.Next)
	assert.Equal(t, 1, ack.Remaining)

	ack = acknowledge(t, svc, "learner-1")
	assert.Equal(t, progression.LevelUp(2), *ack.Acknowledged)
	assert.Nil(t, ack.Next)
	assert.Equal(t, 0, ack.Remaining)

	ack = acknowledge(t, svc, "learner-1")
	assert.Nil(t, ack.Acknowledged)
}

func TestProgressService_ListPersonas(t *testing.T) {
	svc, dir := newFileProgressService(t)
	seedProgress(t, dir, "learner-1", func(p *model.UserProgress) {
		p.Level, p.XP = 11, 1000
		p.Affinity["Batman"] = 55
	})

	list, err := svc.ListPersonas("learner-1")
	require.NoError(t, err)
	assert.Equal(t, 11, list.Level)
	assert.Equal(t, 6, list.Available)
	require.Len(t, list.Personas, 9)

	seen := map[string]bool{}
	for _, p := range list.Personas {
		seen[p.Name] = true
		switch p.Name {
		case "Batman":
			assert.True(t, p.Unlocked)
			assert.Equal(t, "Silver", p.AffinityTier)
			assert.Equal(t, 2, p.AffinityStars)
			assert.Equal(t, 3, p.UnlockBand)
		case "Shuri":
			assert.False(t, p.Unlocked)
			assert.Equal(t, 5, p.UnlockBand)
		}
	}
	assert.True(t, seen["Batman"])
	assert.Equal(t, "Nova", list.Personas[0].Name)
}

func TestProgressService_SelectPersona(t *testing.T) {
	svc, _ := newFileProgressService(t)

	view, err := svc.SelectPersona("learner-1", "Yoda")
	require.NoError(t, err)
	assert.Equal(t, "Yoda", view.Name)

	_, err = svc.SelectPersona("learner-1", "Batman")
	requireStatus(t, err, http.StatusForbidden)

	_, err = svc.SelectPersona("learner-1", "Gandalf")
	requireStatus(t, err, http.StatusNotFound)

	require.NoError(t, svc.Update("learner-1", func(s *progression.Session) error {
		assert.Equal(t, "Yoda", s.CurrentPersona)
		return nil
	}))
}

func TestProgressService_GetSnippets(t *testing.T) {
	svc, dir := newFileProgressService(t)
	seedProgress(t, dir, "learner-1", func(p *model.UserProgress) {
		p.Affinity["Nova"] = 30
	})

	col, err := svc.GetSnippets("learner-1", "Nova")
	require.NoError(t, err)
	assert.Equal(t, "Nova's Cosmic Collection", col.Name)
	assert.Equal(t, 30, col.Affinity)
	assert.Equal(t, 4, col.UnlockedCount)
	require.Len(t, col.Snippets, 6)

	tiers := make([]int, 0, len(col.Snippets))
	for _, sn := range col.Snippets {
		tiers = append(tiers, sn.Tier)
		if sn.Unlocked {
			assert.NotEmpty(t, sn.Code, sn.Title)
		} else {
			assert.Empty(t, sn.Code, sn.Title)
		}
	}
	assert.Equal(t, []int{0, 0, 25, 25, 50, 50}, tiers)

	_, err = svc.GetSnippets("learner-1", "Batman")
	requireStatus(t, err, http.StatusForbidden)

	_, err = svc.GetSnippets("learner-1", "Gandalf")
	requireStatus(t, err, http.StatusNotFound)
}

type failingStore struct {
	progressStore
}

func (failingStore) Save(string, *model.UserProgress) error {
	return errors.New("disk full")
}

func TestProgressService_SaveFailureKeepsMemoryState(t *testing.T) {
	dir := storage.NewProgressDirectory(t.TempDir())
	svc := NewProgressService(testRegistry(t), failingStore{dir},
		progression.WithClock(func() time.Time { return testNow }))

	// Session start fails to persist but the visit is kept in memory.
	view := progressOf(t, svc, "learner-1")
	assert.Equal(t, 1, view.Streak)

	err := svc.Update("learner-1", func(s *progression.Session) error {
		_, err := svc.Engine().AwardXP(s, 30)
		return err
	})
	assert.Error(t, err)
	assert.Equal(t, 30, snapshotOf(t, svc, "learner-1").XP)
	assert.Equal(t, 0, storedProgress(t, dir, "learner-1").XP)
}

func TestProgressService_LeaderboardFromDatabase(t *testing.T) {
	repo := repositories.NewProgressRepository(newTestSqlite(t).Db())
	svc := NewProgressService(testRegistry(t), repo, progression.WithClock(func() time.Time { return testNow }))

	seedProgress(t, repo, "ada", func(p *model.UserProgress) { p.Level, p.XP = 5, 450 })
	seedProgress(t, repo, "bob", func(p *model.UserProgress) { p.Level, p.XP = 2, 120 })
	seedProgress(t, repo, "cyd", func(p *model.UserProgress) { p.Level, p.XP = 9, 880 })

	board, err := svc.Leaderboard(stdctx.Background(), "ada", 0)
	require.NoError(t, err)
	assert.Equal(t, "database", board.Source)
	require.Len(t, board.Entries, 3)
	assert.Equal(t, "cyd", board.Entries[0].UserID)
	assert.Equal(t, 9, board.Entries[0].Level)
	assert.Equal(t, "ada", board.Entries[1].UserID)
	assert.True(t, board.Entries[1].IsMe)
	assert.Equal(t, 2, board.MyRank)

	board, err = svc.Leaderboard(stdctx.Background(), "bob", 1)
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 0, board.MyRank)
}

func TestProgressService_LeaderboardFromRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	svc, _ := newFileProgressService(t)
	svc.redisSvc = NewRedisServiceWithClient(client)

	// Every save publishes the learner's score.
	require.NoError(t, svc.Update("ada", func(s *progression.Session) error {
		_, err := svc.Engine().AwardXP(s, 250)
		return err
	}))
	require.NoError(t, svc.Update("bob", func(s *progression.Session) error {
		_, err := svc.Engine().AwardXP(s, 40)
		return err
	}))

	board, err := svc.Leaderboard(stdctx.Background(), "bob", 10)
	require.NoError(t, err)
	assert.Equal(t, "redis", board.Source)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "ada", board.Entries[0].UserID)
	assert.Equal(t, 250, board.Entries[0].XP)
	assert.Equal(t, 3, board.Entries[0].Level)
	assert.True(t, board.Entries[1].IsMe)
	assert.Equal(t, 2, board.MyRank)
}

func TestProgressService_LeaderboardUnavailable(t *testing.T) {
	svc, _ := newFileProgressService(t)

	_, err := svc.Leaderboard(stdctx.Background(), "ada", 10)
	requireStatus(t, err, http.StatusServiceUnavailable)
}

func TestProgressService_FileLayout(t *testing.T) {
	root := t.TempDir()
	svc := NewProgressService(testRegistry(t), storage.NewProgressDirectory(root),
		progression.WithClock(func() time.Time { return testNow }))

	progressOf(t, svc, "0190a3b2-learner")
	assert.FileExists(t, filepath.Join(root, "0190a3b2-learner.json"))
}

// flakyStore fails the first failures loads, like a dropped connection.
type flakyStore struct {
	progressStore
	failures int
}

func (f *flakyStore) Load(userID string) (*model.UserProgress, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.New("connection reset by peer")
	}
	return f.progressStore.Load(userID)
}

func TestProgressService_ReadErrorKeepsStoredProgress(t *testing.T) {
	repo := repositories.NewProgressRepository(newTestSqlite(t).Db())
	today := model.DateOf(testNow)
	seedProgress(t, repo, "learner-db", func(p *model.UserProgress) {
		p.Level, p.XP, p.Streak, p.LastVisit = 10, 950, 4, &today
	})

	store := &flakyStore{progressStore: repo, failures: 1}
	svc := NewProgressService(testRegistry(t), store, progression.WithClock(func() time.Time { return testNow }))

	_, err := svc.GetProgress("learner-db")
	requireStatus(t, err, http.StatusServiceUnavailable)

	// Nothing was cached or written over the stored row.
	assert.Empty(t, svc.sessions)
	stored := storedProgress(t, repo, "learner-db")
	assert.Equal(t, 950, stored.XP)
	assert.Equal(t, 10, stored.Level)

	// The next request loads the real record.
	view := progressOf(t, svc, "learner-db")
	assert.Equal(t, 950, view.XP)
	assert.Equal(t, 10, view.Level)
	assert.Equal(t, 4, view.Streak)
}

func TestProgressService_ReadErrorAbortsUpdate(t *testing.T) {
	dir := storage.NewProgressDirectory(t.TempDir())
	svc := NewProgressService(testRegistry(t), &flakyStore{progressStore: dir, failures: 1},
		progression.WithClock(func() time.Time { return testNow }))

	called := false
	err := svc.Update("learner-1", func(s *progression.Session) error {
		called = true
		return nil
	})
	requireStatus(t, err, http.StatusServiceUnavailable)
	assert.False(t, called)

	_, err = svc.Snapshot("learner-1")
	require.NoError(t, err)
}

func TestProgressService_EvictIdle(t *testing.T) {
	svc, _ := newFileProgressService(t)
	now := testNow
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.Update("ada", func(s *progression.Session) error {
		_, err := svc.Engine().AwardXP(s, 40)
		return err
	}))
	progressOf(t, svc, "bob")

	now = now.Add(DefaultSessionIdleTTL - time.Minute)
	progressOf(t, svc, "bob")
	assert.Equal(t, 0, svc.EvictIdle(now))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, svc.EvictIdle(now))
	assert.NotContains(t, svc.sessions, "ada")
	assert.Contains(t, svc.sessions, "bob")

	// An evicted learner is reloaded from the store.
	assert.Equal(t, 40, snapshotOf(t, svc, "ada").XP)
}

func TestProgressService_EvictIdleSkipsBusySessions(t *testing.T) {
	svc, _ := newFileProgressService(t)
	now := testNow
	svc.now = func() time.Time { return now }

	progressOf(t, svc, "ada")
	s := svc.sessions["ada"]
	s.Lock()

	now = now.Add(DefaultSessionIdleTTL + time.Minute)
	assert.Equal(t, 0, svc.EvictIdle(now))
	assert.Contains(t, svc.sessions, "ada")

	s.Unlock()
	assert.Equal(t, 1, svc.EvictIdle(now))
	assert.Empty(t, svc.sessions)
}
