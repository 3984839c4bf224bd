package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anissawilliams/ai-crew-tutor/model"
)

func TestFileProgressStore_LoadMissingReturnsDefaults(t *testing.T) {
	store := NewFileProgressStore(filepath.Join(t.TempDir(), "user_progress.json"))

	p := store.Load()
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.XP)
	assert.Equal(t, 0, p.Streak)
	assert.Nil(t, p.LastVisit)
	assert.NotNil(t, p.Affinity)
	assert.Empty(t, p.Affinity)
}

func TestFileProgressStore_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewFileProgressStore(filepath.Join(dir, "user_progress.json"))

	visit := model.Date{Year: 2025, Month: time.April, Day: 2}
	in := model.NewUserProgress()
	in.Level, in.XP, in.Streak, in.LastVisit = 3, 240, 5, &visit
	in.Affinity["Yoda"] = 35
	in.Affinity["Nova"] = 10

	require.NoError(t, store.Save(in))

	out := store.Load()
	assert.Equal(t, 3, out.Level)
	assert.Equal(t, 240, out.XP)
	assert.Equal(t, 5, out.Streak)
	require.NotNil(t, out.LastVisit)
	assert.Equal(t, visit, *out.LastVisit)
	assert.Equal(t, map[string]int{"Yoda": 35, "Nova": 10}, out.Affinity)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "user_progress.json", entries[0].Name())
}

func TestFileProgressStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_progress.json")
	store := NewFileProgressStore(path)

	p := model.NewUserProgress()
	p.ID, p.UserID = "row-id", "learner-id"
	require.NoError(t, store.Save(p))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":1,"xp":0,"streak":0,"last_visit":null,"affinity":{}}`, string(data))

	visit := model.Date{Year: 2025, Month: time.December, Day: 31}
	p.LastVisit = &visit
	require.NoError(t, store.Save(p))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"last_visit": "2025-12-31"`)
}

func TestFileProgressStore_CorruptFileFailsSoft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_progress.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"level": 4, "xp": `), 0o644))

	p := NewFileProgressStore(path).Load()
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0, p.XP)
}

func TestFileProgressStore_LegacyRecordIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_progress.json")
	legacy := `{"level": 0, "xp": 40, "streak": 2, "last_visit": "2024-11-05", "affinity": null}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	p := NewFileProgressStore(path).Load()
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 40, p.XP)
	assert.NotNil(t, p.Affinity)
	require.NotNil(t, p.LastVisit)
	assert.Equal(t, "2024-11-05", p.LastVisit.String())
}

func TestFileProgressStore_SaveOverwrites(t *testing.T) {
	store := NewFileProgressStore(filepath.Join(t.TempDir(), "p.json"))

	first := model.NewUserProgress()
	first.Affinity["Batman"] = 80
	require.NoError(t, store.Save(first))

	second := model.NewUserProgress()
	second.XP = 10
	require.NoError(t, store.Save(second))

	out := store.Load()
	assert.Equal(t, 10, out.XP)
	assert.Empty(t, out.Affinity)
}

func TestFileProgressStore_SaveErrorIsReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	store := NewFileProgressStore(filepath.Join(blocker, "progress.json"))
	assert.Error(t, store.Save(model.NewUserProgress()))
}

func TestProgressDirectory(t *testing.T) {
	dir := t.TempDir()
	d := NewProgressDirectory(dir)

	p := model.NewUserProgress()
	p.XP = 55
	require.NoError(t, d.Save("0190a3b2-learner", p))
	assert.FileExists(t, filepath.Join(dir, "0190a3b2-learner.json"))

	loaded, err := d.Load("0190a3b2-learner")
	require.NoError(t, err)
	assert.Equal(t, 55, loaded.XP)

	fresh, err := d.Load("someone-else")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.XP)

	for _, bad := range []string{"", "..", "../escape", `a\b`, "nested/id"} {
		assert.ErrorIs(t, d.Save(bad, p), ErrInvalidLearnerID, bad)
		out, err := d.Load(bad)
		require.NoError(t, err, bad)
		assert.Equal(t, 1, out.Level)
	}
}
