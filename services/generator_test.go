package services

import (
	stdctx "context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anissawilliams/ai-crew-tutor/catalog"
	"github.com/anissawilliams/ai-crew-tutor/shared"
)

var testPersona = catalog.Persona{
	Name:      "Yoda",
	Role:      "Recursion Master",
	Goal:      "Teach recursion",
	Backstory: "Old and wise",
}

func TestGeneratorService_Generate(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, shared.JSONUnmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"Recursion, a function calling itself it is."}`))
	}))
	defer srv.Close()

	svc := NewGeneratorService(srv.URL, 5*time.Second, 100)
	text, err := svc.Generate(stdctx.Background(), testPersona, "What is recursion?")
	require.NoError(t, err)
	assert.Equal(t, "Recursion, a function calling itself it is.", text)

	assert.Equal(t, "Yoda", got.Persona)
	assert.Equal(t, "Recursion Master", got.Role)
	assert.Equal(t, "What is recursion?", got.Prompt)
}

func TestGeneratorService_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
		"empty": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"response":""}`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			svc := NewGeneratorService(srv.URL, 5*time.Second, 100)
			_, err := svc.Generate(stdctx.Background(), testPersona, "q")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrGeneration))
			requireStatus(t, err, http.StatusBadGateway)
		})
	}
}

func TestGeneratorService_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := NewGeneratorService(url, time.Second, 100)
	_, err := svc.Generate(stdctx.Background(), testPersona, "q")
	assert.ErrorIs(t, err, ErrGeneration)
}

func TestGeneratorService_CanceledWhileThrottled(t *testing.T) {
	svc := NewGeneratorService("http://127.0.0.1:1", time.Second, 0.001)
	// Spend the only token.
	require.True(t, svc.limiter.Allow())

	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Generate(ctx, testPersona, "q")
	assert.ErrorIs(t, err, ErrGeneration)
}
