package services

import (
	stdctx "context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/services/repositories"
	"github.com/anissawilliams/ai-crew-tutor/storage"
)

type memoryObjects struct {
	objects     map[string][]byte
	contentType string
	uploadErr   error
}

func (m *memoryObjects) UploadFile(_ stdctx.Context, name string, r io.Reader, size int64, contentType string) (*minio.UploadInfo, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != size {
		return nil, errors.New("size mismatch")
	}
	if m.objects == nil {
		m.objects = map[string][]byte{}
	}
	m.objects[name] = data
	m.contentType = contentType
	return &minio.UploadInfo{Key: name, Size: size}, nil
}

func (m *memoryObjects) GetFileURL(_ stdctx.Context, name string, expiry time.Duration) (string, error) {
	return "https://objects.test/" + name + "?expires=" + expiry.String(), nil
}

func sampleRatings() []model.RatingRecord {
	ts := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	return []model.RatingRecord{
		{UserID: "u1", Timestamp: ts, Persona: "Yoda", Clarity: 5, Accuracy: 5, Helpfulness: 4},
		{UserID: "u2", Timestamp: ts.Add(time.Minute), Persona: "Nova", Clarity: 3, Accuracy: 4, Helpfulness: 2},
	}
}

func TestAnalyticsService_RecordAndStats(t *testing.T) {
	logs := map[string]ratingLog{
		"file": storage.NewJSONLRatingLog(filepath.Join(t.TempDir(), "ratings.json")),
		"db":   repositories.NewRatingRepository(newTestSqlite(t).Db()),
	}

	for name, ratings := range logs {
		t.Run(name, func(t *testing.T) {
			svc := NewAnalyticsService(ratings, nil)

			stats, err := svc.Stats()
			require.NoError(t, err)
			assert.Equal(t, 0, stats.Count)
			assert.Empty(t, stats.TopPersona)

			for _, r := range sampleRatings() {
				require.NoError(t, svc.Record(r))
			}

			stats, err = svc.Stats()
			require.NoError(t, err)
			assert.Equal(t, 2, stats.Count)
			assert.InDelta(t, 4.0, stats.AvgClarity, 1e-9)
			assert.Equal(t, "Yoda", stats.TopPersona)
			require.Len(t, stats.Personas, 2)
		})
	}
}

func TestAnalyticsService_Export(t *testing.T) {
	objects := &memoryObjects{}
	svc := NewAnalyticsService(storage.NewJSONLRatingLog(filepath.Join(t.TempDir(), "ratings.json")), objects)
	svc.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }

	for _, r := range sampleRatings() {
		require.NoError(t, svc.Record(r))
	}

	out, err := svc.Export(stdctx.Background())
	require.NoError(t, err)
	assert.Equal(t, "exports/ratings-20250304T050607Z.jsonl", out.Object)
	assert.Equal(t, 2, out.Records)
	assert.Contains(t, out.URL, out.Object)
	assert.Equal(t, time.Date(2025, 3, 4, 6, 6, 7, 0, time.UTC), out.ExpiresAt)
	assert.Equal(t, "application/x-ndjson", objects.contentType)

	exported, err := storage.ReadRatings(bytesReader(objects.objects[out.Object]), "export")
	require.NoError(t, err)
	require.Len(t, exported, 2)
	assert.Equal(t, "Yoda", exported[0].Persona)
}

func TestAnalyticsService_ExportErrors(t *testing.T) {
	ratings := storage.NewJSONLRatingLog(filepath.Join(t.TempDir(), "ratings.json"))

	_, err := NewAnalyticsService(ratings, nil).Export(stdctx.Background())
	requireStatus(t, err, http.StatusServiceUnavailable)

	_, err = NewAnalyticsService(ratings, &memoryObjects{uploadErr: errors.New("bucket gone")}).Export(stdctx.Background())
	requireStatus(t, err, http.StatusBadGateway)
}
