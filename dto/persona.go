package dto

// ==================== PERSONA DTOs ====================

type PersonaView struct {
	Name              string `json:"name" example:"Yoda"`
	Label             string `json:"label" example:"Jedi Master - Teach patience"`
	Avatar            string `json:"avatar" example:"🟢"`
	DisplayBackground string `json:"display_background"`
	UnlockLevel       int    `json:"unlock_level" example:"1"`
	UnlockBand        int    `json:"unlock_band" example:"1"`
	Unlocked          bool   `json:"unlocked" example:"true"`
	Affinity          int    `json:"affinity" example:"35"`
	AffinityTier      string `json:"affinity_tier" example:"Bronze"`
	AffinityStars     int    `json:"affinity_stars" example:"1"`
}

type PersonaListResponse struct {
	Level     int           `json:"level" example:"3"`
	Personas  []PersonaView `json:"personas"`
	Available int           `json:"available" example:"4"`
}

type SnippetView struct {
	Title       string `json:"title" example:"Null Check"`
	Description string `json:"description"`
	Code        string `json:"code,omitempty"`
	Tier        int    `json:"tier" example:"25"`
	Unlocked    bool   `json:"unlocked" example:"true"`
}

// SnippetCollectionResponse lists every snippet of a persona. Locked
// snippets carry no code.
type SnippetCollectionResponse struct {
	Persona       string        `json:"persona" example:"Batman"`
	Name          string        `json:"name" example:"Gotham Patterns"`
	Icon          string        `json:"icon" example:"🦇"`
	Affinity      int           `json:"affinity" example:"30"`
	UnlockedCount int           `json:"unlocked_count" example:"2"`
	Snippets      []SnippetView `json:"snippets"`
}

type SelectPersonaRequest struct {
	Persona string `json:"persona" validate:"required,max=100" example:"Yoda"`
}

func (r SelectPersonaRequest) Validate() error {
	return GetValidator().Struct(r)
}
