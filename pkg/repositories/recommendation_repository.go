package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/logosreach/pathway-engine/pkg/database"
	"github.com/logosreach/pathway-engine/pkg/models"
)

// RecommendationRepository defines the interface for recommendation record
// persistence.
type RecommendationRepository interface {
	Create(ctx context.Context, record *models.RecommendationRecord) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.RecommendationSummary, error)
}

// recommendationRepository implements RecommendationRepository using
// PostgreSQL.
type recommendationRepository struct {
	db *database.DB
}

// NewRecommendationRepository creates a new recommendation repository.
func NewRecommendationRepository(db *database.DB) RecommendationRepository {
	return &recommendationRepository{db: db}
}

// Create stores a recommendation. The raw upstream payload is kept alongside
// the parsed fields for audit.
func (r *recommendationRepository) Create(ctx context.Context, record *models.RecommendationRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()

	query := `
		INSERT INTO pathway_recommendations (
			id, user_id, questionnaire_response_id,
			recommended_pathway, confidence,
			spiritual_stage, primary_need, emotional_state,
			reasoning, next_step_message, raw_ai_response, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.QuestionnaireResponseID,
		record.RecommendedPathway,
		record.Confidence,
		record.SpiritualStage,
		record.PrimaryNeed,
		record.EmotionalState,
		record.Reasoning,
		record.NextStepMessage,
		[]byte(record.RawAIResponse),
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recommendation: %w", err)
	}

	return nil
}

// ListByUser returns a user's recommendations, newest first. The raw AI
// payload is deliberately not included in history reads.
func (r *recommendationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.RecommendationSummary, error) {
	query := `
		SELECT id, recommended_pathway, confidence,
		       spiritual_stage, primary_need, emotional_state,
		       reasoning, created_at
		FROM pathway_recommendations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var summaries []models.RecommendationSummary
	for rows.Next() {
		var s models.RecommendationSummary
		if err := rows.Scan(
			&s.ID,
			&s.RecommendedPathway,
			&s.Confidence,
			&s.SpiritualStage,
			&s.PrimaryNeed,
			&s.EmotionalState,
			&s.Reasoning,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recommendations: %w", err)
	}

	return summaries, nil
}
