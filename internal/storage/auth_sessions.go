package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// InsertAuthSession stores a login token with its expiry.
func (db *DB) InsertAuthSession(ctx context.Context, token string, profileID uuid.UUID, expiresAt time.Time) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO auth_sessions (token, profile_id, expires_at)
		VALUES ($1, $2, $3)
	`, token, profileID, expiresAt)
	if err != nil {
		return fmt.Errorf("inserting auth session: %w", err)
	}
	return nil
}

// GetAuthSession resolves a token to its profile, rejecting expired tokens.
func (db *DB) GetAuthSession(ctx context.Context, token string) (models.Profile, error) {
	var p models.Profile
	err := db.Pool.QueryRow(ctx, `
		SELECT p.id, p.login, p.display_name, p.password_hash, p.created_at, p.last_seen
		FROM auth_sessions s
		JOIN profiles p ON p.id = s.profile_id
		WHERE s.token = $1 AND s.expires_at > NOW()
	`, token).Scan(&p.ID, &p.Login, &p.DisplayName, &p.PasswordHash, &p.CreatedAt, &p.LastSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Profile{}, ErrTokenNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("querying auth session: %w", err)
	}
	return p, nil
}

// DeleteAuthSession invalidates a token (logout). Unknown tokens are not an
// error.
func (db *DB) DeleteAuthSession(ctx context.Context, token string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM auth_sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("deleting auth session: %w", err)
	}
	return nil
}

// DeleteExpiredAuthSessions clears out tokens past their expiry. Returns the
// number removed.
func (db *DB) DeleteExpiredAuthSessions(ctx context.Context) (int64, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM auth_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("deleting expired auth sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
