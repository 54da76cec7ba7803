// repository/profile_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/fadhlanhapp/congno-backend/models"
)

const profileColumns = `id, COALESCE(display_name, ''), COALESCE(email, ''), COALESCE(bank_code, ''),
	COALESCE(bank_account, ''), COALESCE(bank_owner, ''), created_at, updated_at`

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	DB *sql.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	if err := row.Scan(&p.ID, &p.DisplayName, &p.Email, &p.BankCode, &p.BankAccount,
		&p.BankOwner, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProfile retrieves a profile by its ID
func (r *ProfileRepository) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetProfilesByIDs retrieves every profile whose ID is in ids. Unknown IDs are skipped.
func (r *ProfileRepository) GetProfilesByIDs(ctx context.Context, ids []string) ([]models.Profile, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}
	return profiles, rows.Err()
}

// UpsertBankInfo creates the profile or overwrites its identity and bank fields
func (r *ProfileRepository) UpsertBankInfo(ctx context.Context, profile *models.Profile) error {
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO profiles (id, display_name, email, bank_code, bank_account, bank_owner)
         VALUES ($1, $2, $3, $4, $5, $6)
         ON CONFLICT (id) DO UPDATE SET
             display_name = EXCLUDED.display_name,
             email = EXCLUDED.email,
             bank_code = EXCLUDED.bank_code,
             bank_account = EXCLUDED.bank_account,
             bank_owner = EXCLUDED.bank_owner,
             updated_at = now()
         RETURNING created_at, updated_at`,
		profile.ID, profile.DisplayName, profile.Email, profile.BankCode,
		profile.BankAccount, profile.BankOwner,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// ListMembers lists every other profile that has an email, ordered by name then email
func (r *ProfileRepository) ListMembers(ctx context.Context, excludeID string) ([]models.Member, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, COALESCE(display_name, ''), email
         FROM profiles
         WHERE id <> $1 AND email IS NOT NULL AND email <> ''
         ORDER BY display_name ASC NULLS LAST, email ASC`,
		excludeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
