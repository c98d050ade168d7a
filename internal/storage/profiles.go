package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heraheo/JuniFit-sub000/internal/models"
)

// CreateProfile registers a new user with a bcrypt password hash.
func (db *DB) CreateProfile(ctx context.Context, login, displayName, passwordHash string) (models.Profile, error) {
	var p models.Profile
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (id, login, display_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, login, display_name, password_hash, created_at, last_seen
	`, uuid.New(), login, displayName, passwordHash).Scan(
		&p.ID, &p.Login, &p.DisplayName, &p.PasswordHash, &p.CreatedAt, &p.LastSeen)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Profile{}, ErrLoginTaken
		}
		return models.Profile{}, fmt.Errorf("creating profile: %w", err)
	}
	return p, nil
}

// GetProfileByLogin looks up a profile for password verification.
func (db *DB) GetProfileByLogin(ctx context.Context, login string) (models.Profile, error) {
	var p models.Profile
	err := db.Pool.QueryRow(ctx, `
		SELECT id, login, display_name, password_hash, created_at, last_seen
		FROM profiles WHERE login = $1
	`, login).Scan(&p.ID, &p.Login, &p.DisplayName, &p.PasswordHash, &p.CreatedAt, &p.LastSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("querying profile: %w", err)
	}
	return p, nil
}

// GetOrCreateProfile finds or creates a profile by login. Used by the
// Tailscale identity path, where the tailnet vouches for the user and no
// password is involved. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateProfile(ctx context.Context, login, displayName string) (models.Profile, error) {
	var p models.Profile
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO profiles (id, login, display_name, password_hash)
		VALUES ($1, $2, $3, '')
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(),
			    display_name = COALESCE(NULLIF($3, ''), profiles.display_name)
		RETURNING id, login, display_name, password_hash, created_at, last_seen
	`, uuid.New(), login, displayName).Scan(
		&p.ID, &p.Login, &p.DisplayName, &p.PasswordHash, &p.CreatedAt, &p.LastSeen)
	if err != nil {
		return models.Profile{}, fmt.Errorf("get-or-create profile: %w", err)
	}
	return p, nil
}

// TouchProfile bumps last_seen.
func (db *DB) TouchProfile(ctx context.Context, profileID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `UPDATE profiles SET last_seen = NOW() WHERE id = $1`, profileID)
	if err != nil {
		return fmt.Errorf("touching profile: %w", err)
	}
	return nil
}
