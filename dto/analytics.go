package dto

import "time"

type RatingExportResponse struct {
	Object    string    `json:"object" example:"exports/ratings-20250101T120000Z.jsonl"`
	Records   int       `json:"records" example:"42"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank" example:"1"`
	UserID string `json:"user_id"`
	XP     int    `json:"xp" example:"1240"`
	Level  int    `json:"level" example:"12"`
	IsMe   bool   `json:"is_me" example:"false"`
}

type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
	MyRank  int                `json:"my_rank,omitempty" example:"7"`
	Source  string             `json:"source" example:"redis"`
}
