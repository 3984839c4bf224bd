package dto

import "time"

// ==================== AUTHENTICATION REQUEST DTOs ====================

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum" example:"ada"`
	Password string `json:"password" validate:"required,strong_password" example:"SecurePass123!"`
}

func (r RegisterRequest) Validate() error {
	return GetValidator().Struct(r)
}

type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"ada"`
	Password string `json:"password" validate:"required" example:"SecurePass123!"`
}

func (l LoginRequest) Validate() error {
	return GetValidator().Struct(l)
}

// ==================== AUTHENTICATION RESPONSE DTOs ====================

type LearnerInfo struct {
	ID          string     `json:"id" example:"0190a3b2-7c1e-7d4f-9a51-2f3c9e8b1a00"`
	Username    string     `json:"username" example:"ada"`
	CreatedAt   time.Time  `json:"created_at" example:"2025-01-01T00:00:00Z"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" example:"2025-01-15T10:30:00Z"`
}

type LoginResponse struct {
	TokenPair
	Learner LearnerInfo `json:"learner"`
}

// ==================== VALIDATION ERROR DTOs ====================

type ValidationError struct {
	Field   string `json:"field" example:"username"`
	Message string `json:"message" example:"username is required"`
}

type ValidationErrorResponse struct {
	Code    int               `json:"code" example:"400"`
	Message string            `json:"message" example:"Validation failed"`
	Errors  []ValidationError `json:"errors"`
}
