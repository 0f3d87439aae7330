package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agentica/userkit/pkg/pg"
)

// PGAccountStorage is the Postgres-backed AccountStorage. Schema lives in
// the migrations directory.
type PGAccountStorage struct {
	pool *pgxpool.Pool
}

// NewPGAccountStorage creates account storage over the given pool.
func NewPGAccountStorage(pool *pgxpool.Pool) *PGAccountStorage {
	return &PGAccountStorage{pool: pool}
}

func (s *PGAccountStorage) GetByEmail(ctx context.Context, email string) (*Account, error) {
	const query = `
		SELECT id, email, password_hash, name, avatar_url, provider, provider_user_id,
		       email_verified, needs_real_email, created_at, updated_at
		FROM accounts WHERE email = $1`

	var a Account
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.AvatarURL, &a.Provider,
		&a.ProviderUserID, &a.EmailVerified, &a.NeedsRealEmail, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("query account: %w", err)
	}
	return &a, nil
}

func (s *PGAccountStorage) Create(ctx context.Context, account *Account) error {
	const query = `
		INSERT INTO accounts (id, email, password_hash, name, avatar_url, provider,
		                      provider_user_id, email_verified, needs_real_email,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.pool.Exec(ctx, query,
		account.ID, account.Email, account.PasswordHash, account.Name,
		account.AvatarURL, account.Provider, account.ProviderUserID,
		account.EmailVerified, account.NeedsRealEmail, account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *PGAccountStorage) Update(ctx context.Context, account *Account) error {
	const query = `
		UPDATE accounts
		SET password_hash = $2, name = $3, avatar_url = $4, provider = $5,
		    provider_user_id = $6, email_verified = $7, needs_real_email = $8,
		    updated_at = $9
		WHERE email = $1`

	tag, err := s.pool.Exec(ctx, query,
		account.Email, account.PasswordHash, account.Name, account.AvatarURL,
		account.Provider, account.ProviderUserID, account.EmailVerified,
		account.NeedsRealEmail, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *PGAccountStorage) Delete(ctx context.Context, email string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// PGRefreshTokenStore is the Postgres-backed RefreshTokenStore. The email
// column carries a unique constraint so Upsert degrades to a single
// INSERT ... ON CONFLICT statement.
type PGRefreshTokenStore struct {
	pool *pgxpool.Pool
}

// NewPGRefreshTokenStore creates refresh token storage over the given pool.
func NewPGRefreshTokenStore(pool *pgxpool.Pool) *PGRefreshTokenStore {
	return &PGRefreshTokenStore{pool: pool}
}

func (s *PGRefreshTokenStore) Upsert(ctx context.Context, rec RefreshRecord) error {
	const query = `
		INSERT INTO refresh_tokens (email, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET token = EXCLUDED.token,
		    expires_at = EXCLUDED.expires_at,
		    created_at = EXCLUDED.created_at`

	if _, err := s.pool.Exec(ctx, query, rec.Email, rec.Token, rec.ExpiresAt, rec.CreatedAt); err != nil {
		return fmt.Errorf("upsert refresh token: %w", err)
	}
	return nil
}

func (s *PGRefreshTokenStore) FindByEmail(ctx context.Context, email string) (RefreshRecord, error) {
	const query = `
		SELECT email, token, expires_at, created_at
		FROM refresh_tokens
		WHERE email = $1 AND expires_at > now()`

	var rec RefreshRecord
	err := s.pool.QueryRow(ctx, query, email).Scan(&rec.Email, &rec.Token, &rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return RefreshRecord{}, ErrInvalidToken
		}
		return RefreshRecord{}, fmt.Errorf("query refresh token: %w", err)
	}
	return rec, nil
}

func (s *PGRefreshTokenStore) FindByToken(ctx context.Context, token string) (RefreshRecord, error) {
	const query = `
		SELECT email, token, expires_at, created_at
		FROM refresh_tokens
		WHERE token = $1 AND expires_at > now()`

	var rec RefreshRecord
	err := s.pool.QueryRow(ctx, query, token).Scan(&rec.Email, &rec.Token, &rec.ExpiresAt, &rec.CreatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return RefreshRecord{}, ErrInvalidToken
		}
		return RefreshRecord{}, fmt.Errorf("query refresh token: %w", err)
	}
	return rec, nil
}

func (s *PGRefreshTokenStore) PurgeExpired(ctx context.Context, now time.Time) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, now); err != nil {
		return fmt.Errorf("purge expired refresh tokens: %w", err)
	}
	return nil
}

func (s *PGRefreshTokenStore) DeleteByEmail(ctx context.Context, email string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE email = $1`, email); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
