package services

import (
	"errors"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/anissawilliams/ai-crew-tutor/model"
	"github.com/anissawilliams/ai-crew-tutor/shared"
)

// Database is implemented by SqliteService and PostgresService.
type Database interface {
	Db() *gorm.DB
	HandleError(err error) error
}

func migrationModels() []interface{} {
	return []interface{}{
		&model.Learner{},
		&model.UserProgress{},
		&model.RatingRecord{},
		&model.RateLimit{},
	}
}

// pickDatabase returns the first registered database service. Pass the
// lookups in order of preference.
func pickDatabase(candidates ...interface{}) (Database, bool) {
	for _, c := range candidates {
		if db, ok := c.(Database); ok {
			return db, true
		}
	}
	return nil, false
}

// dbErrorRule matches driver messages that gorm does not translate.
type dbErrorRule struct {
	contains   string
	statusCode int
	errorType  string
}

func handleDBError(err error, rules []dbErrorRule) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		statusCode = http.StatusInternalServerError
		errorType = "INTERNAL_ERROR"
		for _, rule := range rules {
			if strings.Contains(err.Error(), rule.contains) {
				statusCode = rule.statusCode
				errorType = rule.errorType
				break
			}
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	// Error() renders as "<TYPE>: <cause>".
	return shared.NewAppError(statusCode, errorType, err)
}
