package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/anissawilliams/ai-crew-tutor/dto"
	"github.com/anissawilliams/ai-crew-tutor/shared"
)

// RateLimiter is implemented by services.RateLimitService.
type RateLimiter interface {
	IsAllowed(identifier, endpointType string) (bool, *dto.RateLimitInfo, error)
	Message(endpointType string) string
}

// resetter clears a window. A successful login starts its identifier over.
type resetter interface {
	ResetRateLimit(identifier, endpointType string) error
}

// RateLimit guards a route group. Auth endpoints are keyed by client IP and
// submitted username, learner endpoints by learner id.
func RateLimit(limiter RateLimiter, endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := getIdentifier(c, endpointType)

		allowed, info, err := limiter.IsAllowed(identifier, endpointType)
		if err != nil {
			log.WithFields(log.Fields{
				"endpoint_type": endpointType,
				"identifier":    identifier,
				"error":         err.Error(),
			}).Warn("Rate limit check failed, letting request through")
			return c.Next()
		}

		addRateLimitHeaders(c, info)

		if !allowed {
			return handleRateLimitExceeded(c, limiter.Message(endpointType), info)
		}

		if err := c.Next(); err != nil {
			return err
		}

		if r, ok := limiter.(resetter); ok && endpointType == "login" && c.Response().StatusCode() < http.StatusBadRequest {
			if err := r.ResetRateLimit(identifier, endpointType); err != nil {
				log.WithError(err).WithField("identifier", identifier).Warn("Failed to reset login rate limit")
			}
		}
		return nil
	}
}

// IPRateLimit applies the general per-IP budget.
func IPRateLimit(limiter RateLimiter) fiber.Handler {
	return RateLimit(limiter, "api_general")
}

func getIdentifier(c *fiber.Ctx, endpointType string) string {
	switch endpointType {
	case "login", "register":
		if username := usernameFromBody(c); username != "" {
			return fmt.Sprintf("%s:%s", getClientIP(c), strings.ToLower(username))
		}
		return getClientIP(c)
	case "tutor", "ratings":
		if userID := UserID(c); userID != "" {
			return userID
		}
		return getClientIP(c)
	default:
		return getClientIP(c)
	}
}

func usernameFromBody(c *fiber.Ctx) string {
	if len(c.Body()) == 0 {
		return ""
	}
	var body struct {
		Username string `json:"username"`
	}
	if err := shared.JSONUnmarshal(c.Body(), &body); err != nil {
		return ""
	}
	return strings.TrimSpace(body.Username)
}

func addRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil {
		return
	}

	if info.Remaining >= 0 {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}

	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}

	if info.BlockedUntil != nil {
		if retryAfter := int(time.Until(*info.BlockedUntil).Seconds()); retryAfter > 0 {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		}
	}
}

func handleRateLimitExceeded(c *fiber.Ctx, message string, info *dto.RateLimitInfo) error {
	response := fiber.Map{
		"error":   "Rate limit exceeded",
		"message": message,
	}

	if info != nil && info.BlockedUntil != nil {
		response["blocked_until"] = info.BlockedUntil.Unix()
		response["retry_after"] = int(time.Until(*info.BlockedUntil).Seconds())
	}

	return shared.ResponseJSON(c, http.StatusTooManyRequests, message, response)
}

func getClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return ip
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if cfIP := c.Get("CF-Connecting-IP"); cfIP != "" {
		return cfIP
	}

	addr := c.Context().RemoteAddr().String()
	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return ip
}
