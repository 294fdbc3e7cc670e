package auth_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/domain/auth"
	"domus/internal/infrastructure/storage/postgres"
)

var _ auth.TokenRepository = (*TokenRepo)(nil)

// TokenRepo persists refresh tokens. Tokens are stored hashed; the raw
// value never reaches the database.
type TokenRepo struct {
	txm *postgres.TxManager
}

func NewTokenRepo(txm *postgres.TxManager) *TokenRepo {
	return &TokenRepo{txm: txm}
}

func (r *TokenRepo) SaveRefreshToken(ctx context.Context, token *auth.RefreshToken) error {
	q := r.txm.GetQuerier(ctx)

	_, err := q.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::inet)`,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt,
		token.CreatedAt, token.UserAgent, token.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken looks a token up by its hash, revoked or not; the
// caller decides what a revoked token means.
func (r *TokenRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	q := r.txm.GetQuerier(ctx)

	var token auth.RefreshToken
	err := q.QueryRow(ctx, `
		SELECT id, user_id, token_hash, expires_at, created_at, revoked_at, revoked_reason
		FROM refresh_tokens WHERE token_hash = $1`,
		tokenHash,
	).Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt,
		&token.CreatedAt, &token.RevokedAt, &token.RevokedReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NewNotFound("token", "")
	}
	if err != nil {
		return nil, fmt.Errorf("query token: %w", err)
	}
	return &token, nil
}

func (r *TokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	q := r.txm.GetQuerier(ctx)

	_, err := q.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = now(), revoked_reason = $2 WHERE id = $1`,
		tokenID, reason,
	)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeAllUserTokens ends every active session of the user, used on
// password change and on refresh-token reuse.
func (r *TokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	q := r.txm.GetQuerier(ctx)

	_, err := q.Exec(ctx,
		`UPDATE refresh_tokens SET revoked_at = now(), revoked_reason = $2 WHERE user_id = $1 AND revoked_at IS NULL`,
		userID, reason,
	)
	if err != nil {
		return fmt.Errorf("revoke all tokens: %w", err)
	}
	return nil
}

// CleanupExpiredTokens deletes tokens past expiry and tokens revoked
// more than a week ago. Recently revoked rows are kept so reuse of a
// rotated token can still be detected.
func (r *TokenRepo) CleanupExpiredTokens(ctx context.Context) (int, error) {
	q := r.txm.GetQuerier(ctx)

	result, err := q.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < now() OR revoked_at < now() - INTERVAL '7 days'`)
	if err != nil {
		return 0, fmt.Errorf("cleanup tokens: %w", err)
	}
	return int(result.RowsAffected()), nil
}
