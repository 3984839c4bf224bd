package dto

import "github.com/anissawilliams/ai-crew-tutor/progression"

// ==================== TUTOR REQUEST DTOs ====================

type AskQuestionRequest struct {
	Persona  string `json:"persona" validate:"required,max=100" example:"Yoda"`
	Question string `json:"question" validate:"required,max=8000" example:"What is a Java interface?"`
}

func (r AskQuestionRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ReviewCodeRequest struct {
	Persona string `json:"persona" validate:"required,max=100" example:"Batman"`
	Code    string `json:"code" validate:"required,max=20000" example:"public int add(int a, int b) { return a + b; }"`
}

func (r ReviewCodeRequest) Validate() error {
	return GetValidator().Struct(r)
}

type RatingRequest struct {
	Persona     string `json:"persona" validate:"required,max=100" example:"Yoda"`
	Question    string `json:"question" example:"What is a Java interface?"`
	Clarity     int    `json:"clarity" validate:"gte=1,lte=5" example:"5"`
	Accuracy    int    `json:"accuracy" validate:"gte=1,lte=5" example:"4"`
	Helpfulness int    `json:"helpfulness" validate:"gte=1,lte=5" example:"5"`
	Feedback    string `json:"feedback" validate:"max=2000" example:"Clear and fun"`
}

func (r RatingRequest) Validate() error {
	return GetValidator().Struct(r)
}

// ==================== TUTOR RESPONSE DTOs ====================

// ActionResult reports what an awarded action changed.
type ActionResult struct {
	XPAwarded        int                       `json:"xp_awarded" example:"10"`
	AffinityAwarded  int                       `json:"affinity_awarded" example:"10"`
	LevelUp          bool                      `json:"level_up" example:"false"`
	AffinityUpgraded bool                      `json:"affinity_upgraded" example:"false"`
	Level            int                       `json:"level" example:"2"`
	XP               int                       `json:"xp" example:"110"`
	Affinity         int                       `json:"affinity" example:"20"`
	Rewards          []progression.RewardEvent `json:"rewards"`
	SaveFailed       bool                      `json:"save_failed,omitempty" example:"false"`
}

type ExplanationResponse struct {
	Persona     string       `json:"persona" example:"Yoda"`
	Explanation string       `json:"explanation"`
	CodeInput   bool         `json:"code_input" example:"false"`
	Result      ActionResult `json:"result"`
}

type RatingResponse struct {
	Recorded bool         `json:"recorded" example:"true"`
	Result   ActionResult `json:"result"`
}
