package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/logosreach/pathway-engine/pkg/database"
	"github.com/logosreach/pathway-engine/pkg/models"
)

// QuestionnaireRepository defines the interface for questionnaire response
// persistence.
type QuestionnaireRepository interface {
	Create(ctx context.Context, response *models.QuestionnaireResponse) error
}

// questionnaireRepository implements QuestionnaireRepository using PostgreSQL.
type questionnaireRepository struct {
	db *database.DB
}

// NewQuestionnaireRepository creates a new questionnaire repository.
func NewQuestionnaireRepository(db *database.DB) QuestionnaireRepository {
	return &questionnaireRepository{db: db}
}

// Create stores a validated submission. Answers are persisted as JSONB so the
// raw submission survives even if validation rules tighten later.
func (r *questionnaireRepository) Create(ctx context.Context, response *models.QuestionnaireResponse) error {
	if response.ID == uuid.Nil {
		response.ID = uuid.New()
	}
	response.CreatedAt = time.Now()

	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	query := `
		INSERT INTO questionnaire_responses (id, user_id, entry_type, answers, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.Pool.Exec(ctx, query,
		response.ID,
		response.UserID,
		string(response.EntryType),
		answers,
		response.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create questionnaire response: %w", err)
	}

	return nil
}
