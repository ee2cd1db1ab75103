package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
)

func (r *tokenRepository) Store(ctx context.Context, token *model.VerificationToken) error {
	query := `
		INSERT INTO user_tokens (id, user_id, token, type, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	token.ID = uuid.New()
	token.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.Token, token.Type, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Consume marks a live token used in a single statement so a code cannot be
// redeemed twice.
func (r *tokenRepository) Consume(ctx context.Context, userID uuid.UUID, token, tokenType string) (bool, error) {
	query := `
		UPDATE user_tokens
		SET used_at = $1
		WHERE user_id = $2
		  AND token = $3
		  AND type = $4
		  AND used_at IS NULL
		  AND expires_at > $1
	`
	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), userID, token, tokenType)
	if err != nil {
		return false, fmt.Errorf("failed to consume token: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
