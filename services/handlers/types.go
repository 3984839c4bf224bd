package handlers

import (
	"context"

	"github.com/anissawilliams/ai-crew-tutor/dto"
	"github.com/anissawilliams/ai-crew-tutor/storage"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.LoginResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
}

type ProgressServiceInterface interface {
	GetProgress(userID string) (*dto.ProgressResponse, error)
	RecordVisit(userID string) (*dto.VisitResponse, error)
	PendingRewards(userID string) (dto.RewardsResponse, error)
	AcknowledgeReward(userID string) (dto.AcknowledgeResponse, error)
	ListPersonas(userID string) (dto.PersonaListResponse, error)
	SelectPersona(userID, name string) (*dto.PersonaView, error)
	GetSnippets(userID, name string) (*dto.SnippetCollectionResponse, error)
	Leaderboard(ctx context.Context, userID string, limit int) (*dto.LeaderboardResponse, error)
}

type TutorServiceInterface interface {
	AskQuestion(ctx context.Context, userID string, req dto.AskQuestionRequest) (*dto.ExplanationResponse, error)
	ReviewCode(ctx context.Context, userID string, req dto.ReviewCodeRequest) (*dto.ExplanationResponse, error)
	SubmitRating(userID string, req dto.RatingRequest) (*dto.RatingResponse, error)
}

type AnalyticsServiceInterface interface {
	Stats() (*storage.RatingStats, error)
	Export(ctx context.Context) (*dto.RatingExportResponse, error)
}
