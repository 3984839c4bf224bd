package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/anissawilliams/ai-crew-tutor/shared"
)

// TokenVerifier is implemented by services.JWTService.
type TokenVerifier interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(jwtToken string) (string, error)
}

// RequiredAuth rejects requests without a valid bearer token and stores
// the learner id under shared.UserID.
func RequiredAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := verifier.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		}

		userID, err := verifier.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if userID == "" {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid user ID in token")
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

// UserID returns the authenticated learner, or "" outside RequiredAuth.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(shared.UserID).(string); ok {
		return id
	}
	return ""
}
