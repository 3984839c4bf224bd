package shared

const (
	UserID = "user_id"

	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)
