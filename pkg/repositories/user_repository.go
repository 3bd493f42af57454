package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/logosreach/pathway-engine/pkg/apperrors"
	"github.com/logosreach/pathway-engine/pkg/database"
	"github.com/logosreach/pathway-engine/pkg/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByExternalID(ctx context.Context, externalUserID string) (*models.User, error)
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user. Anonymous submissions carry a nil
// ExternalUserID; identified users upsert on their external ID so concurrent
// first submissions don't race into duplicates.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.ExternalUserID == nil {
		query := `
			INSERT INTO users (id, external_user_id, created_at, updated_at)
			VALUES ($1, NULL, $2, $3)`
		if _, err := r.db.Pool.Exec(ctx, query, user.ID, user.CreatedAt, user.UpdatedAt); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO users (id, external_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_user_id) DO UPDATE
		SET updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID,
		*user.ExternalUserID,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByExternalID retrieves a user by external identifier, returning
// ErrNotFound when no such user exists.
func (r *userRepository) GetByExternalID(ctx context.Context, externalUserID string) (*models.User, error) {
	query := `
		SELECT id, external_user_id, created_at, updated_at
		FROM users
		WHERE external_user_id = $1`

	var user models.User
	err := r.db.Pool.QueryRow(ctx, query, externalUserID).Scan(
		&user.ID,
		&user.ExternalUserID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
