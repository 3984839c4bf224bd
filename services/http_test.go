package services

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/anissawilliams/ai-crew-tutor/dto"
	"github.com/anissawilliams/ai-crew-tutor/progression"
	"github.com/anissawilliams/ai-crew-tutor/services/repositories"
	"github.com/anissawilliams/ai-crew-tutor/shared"
	"github.com/anissawilliams/ai-crew-tutor/storage"
)

type apiEnvelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func newTestHttp(t *testing.T) *fiber.App {
	t.Helper()
	db := newTestSqlite(t)
	jwtSvc := NewJWTService("test-secret", time.Hour)

	progress := NewProgressService(testRegistry(t), storage.NewProgressDirectory(t.TempDir()),
		progression.WithClock(func() time.Time { return testNow }))
	analytics := NewAnalyticsService(storage.NewJSONLRatingLog(filepath.Join(t.TempDir(), "ratings.json")), nil)
	tutor := NewTutorService(progress, &fakeGenerator{reply: "Patience you must have."}, analytics)
	tutor.now = func() time.Time { return testNow }

	svc := &HttpService{
		jwtSvc:       jwtSvc,
		authSvc:      NewAuthService(db, jwtSvc, bcrypt.MinCost),
		progressSvc:  progress,
		tutorSvc:     tutor,
		analyticsSvc: analytics,
		rateLimitSvc: NewRateLimitService(repositories.NewRateLimitRepository(db.Db()), nil),
	}
	return svc.newApp()
}

func call(t *testing.T, app *fiber.App, method, target, token, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readEnvelope[T any](t *testing.T, resp *http.Response) apiEnvelope[T] {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env apiEnvelope[T]
	require.NoError(t, shared.JSONUnmarshal(raw, &env), string(raw))
	return env
}

func TestHttpService_LearnerJourney(t *testing.T) {
	app := newTestHttp(t)

	resp := call(t, app, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", readEnvelope[string](t, resp).Data)

	resp = call(t, app, http.MethodGet, "/api/v1/progress", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/v1/auth/register", "", `{"username":"ada","password":"SecurePass123!"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token := readEnvelope[dto.LoginResponse](t, resp).Data.AccessToken
	require.NotEmpty(t, token)

	resp = call(t, app, http.MethodGet, "/api/v1/progress", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	progress := readEnvelope[dto.ProgressResponse](t, resp).Data
	assert.Equal(t, 1, progress.Streak)
	assert.Equal(t, 0, progress.XP)

	resp = call(t, app, http.MethodPost, "/api/v1/tutor/questions", token, `{"persona":"Yoda","question":"What is recursion?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	answer := readEnvelope[dto.ExplanationResponse](t, resp).Data
	assert.Equal(t, "Patience you must have.", answer.Explanation)
	assert.Equal(t, 10, answer.Result.XP)

	resp = call(t, app, http.MethodPost, "/api/v1/ratings", token, `{"persona":"Yoda","clarity":5,"accuracy":5,"helpfulness":4}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 15, readEnvelope[dto.RatingResponse](t, resp).Data.Result.XP)

	resp = call(t, app, http.MethodGet, "/api/v1/analytics/ratings", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, readEnvelope[storage.RatingStats](t, resp).Data.Count)

	resp = call(t, app, http.MethodPost, "/api/v1/personas/select", token, `{"persona":"Batman"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// File mode without Redis has no ranking source.
	resp = call(t, app, http.MethodGet, "/api/v1/leaderboard", token, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/v1/analytics/ratings/export", token, "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHttpService_RegisterIsRateLimited(t *testing.T) {
	app := newTestHttp(t)
	body := `{"username":"ada","password":"SecurePass123!"}`

	resp := call(t, app, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	for i := 0; i < 4; i++ {
		resp = call(t, app, http.MethodPost, "/api/v1/auth/register", "", body)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	}

	resp = call(t, app, http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}
