package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents a questionnaire taker. Users are created lazily on first
// submission and never deleted by this service.
type User struct {
	ID uuid.UUID `json:"id"`
	// ExternalUserID is the caller-supplied identity, unique when present.
	// Nil for anonymous users.
	ExternalUserID *string   `json:"external_user_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// QuestionnaireResponse is an immutable snapshot of one submission.
type QuestionnaireResponse struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	EntryType EntryType         `json:"entry_type"`
	Answers   map[string]string `json:"answers"`
	CreatedAt time.Time         `json:"created_at"`
}

// RecommendationRecord is the AI-derived result tied 1:1 to a
// QuestionnaireResponse. RawAIResponse retains the upstream payload for audit.
type RecommendationRecord struct {
	ID                      uuid.UUID       `json:"id"`
	UserID                  uuid.UUID       `json:"user_id"`
	QuestionnaireResponseID uuid.UUID       `json:"questionnaire_response_id"`
	RecommendedPathway      string          `json:"recommended_pathway"`
	Confidence              float64         `json:"confidence"`
	SpiritualStage          string          `json:"spiritual_stage"`
	PrimaryNeed             string          `json:"primary_need"`
	EmotionalState          string          `json:"emotional_state"`
	Reasoning               string          `json:"reasoning"`
	NextStepMessage         string          `json:"next_step_message"`
	RawAIResponse           json.RawMessage `json:"raw_ai_response,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
}

// RecommendationSummary is the history view of a RecommendationRecord.
// It deliberately omits the raw upstream payload.
type RecommendationSummary struct {
	ID                 uuid.UUID `json:"id"`
	RecommendedPathway string    `json:"recommended_pathway"`
	Confidence         float64   `json:"confidence"`
	SpiritualStage     string    `json:"spiritual_stage"`
	PrimaryNeed        string    `json:"primary_need"`
	EmotionalState     string    `json:"emotional_state"`
	Reasoning          string    `json:"reasoning"`
	CreatedAt          time.Time `json:"created_at"`
}

// Pathway is one entry of the static pathway registry.
type Pathway struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Duration string `json:"duration" yaml:"duration"`
	Theme    string `json:"theme" yaml:"theme"`
}
