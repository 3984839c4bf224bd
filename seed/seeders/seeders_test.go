package seeders

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/services/repositories"
	"github.com/anissawilliams/ai-crew-tutor/storage"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Learner{}, &model.UserProgress{}, &model.RatingRecord{}))
	return db
}

func TestMainSeeder_SeedAllDatabaseIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seeder := NewMainSeeder(db, Options{Username: "demo", Password: "DemoPass123!"})

	require.NoError(t, seeder.SeedAll())
	require.NoError(t, seeder.SeedAll())

	learner, err := repositories.NewLearnerRepository(db).GetByUsername("demo")
	require.NoError(t, err)

	progress, err := repositories.NewProgressRepository(db).Load(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, progress.Level)
	assert.Equal(t, 60, progress.Affinity["Nova"])

	count, err := repositories.NewRatingRepository(db).Count()
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestMainSeeder_FileMode(t *testing.T) {
	db := newTestDB(t)
	dir := t.TempDir()
	ratings := filepath.Join(dir, "ratings.json")
	seeder := NewMainSeeder(db, Options{
		Username:    "demo",
		Password:    "DemoPass123!",
		ProgressDir: filepath.Join(dir, "progress"),
		RatingsPath: ratings,
	})

	require.NoError(t, seeder.SeedAll())
	require.NoError(t, seeder.SeedRatingsOnly())

	learner, err := repositories.NewLearnerRepository(db).GetByUsername("demo")
	require.NoError(t, err)
	progress, err := storage.NewProgressDirectory(filepath.Join(dir, "progress")).Load(learner.ID)
	require.NoError(t, err)
	assert.Equal(t, 540, progress.XP)

	records, err := storage.NewJSONLRatingLog(ratings).LoadAll()
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, "Nova", storage.Summarize(records).Personas[1].Persona)
}
