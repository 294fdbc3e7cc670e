// Package auth_repo provides PostgreSQL implementations for auth repositories.
package auth_repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
	"domus/internal/domain/auth"
	"domus/internal/infrastructure/storage/postgres"
)

const userCols = `id, email, password_hash, name, surname, phone,
	   role_id, resident_id, status, building_access, is_using_mobile_app,
	   last_login_at, failed_login_attempts, locked_until,
	   created_at, updated_at, version`

// UserRepo implements auth.UserRepository.
type UserRepo struct {
	txm *postgres.TxManager
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{txm: txm}
}

func (r *UserRepo) scanUser(row pgx.Row) (*auth.User, error) {
	var user auth.User
	err := row.Scan(
		&user.ID, &user.Email, &user.PasswordHash,
		&user.Name, &user.Surname, &user.Phone,
		&user.RoleID, &user.ResidentID, &user.Status,
		&user.BuildingAccess, &user.IsUsingMobileApp,
		&user.LastLoginAt, &user.FailedLoginAttempts, &user.LockedUntil,
		&user.CreatedAt, &user.UpdatedAt, &user.Version,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user.
func (r *UserRepo) Create(ctx context.Context, user *auth.User) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		INSERT INTO users (
			id, email, password_hash, name, surname, phone,
			role_id, resident_id, status, building_access, is_using_mobile_app,
			created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash,
		user.Name, user.Surname, user.Phone,
		user.RoleID, user.ResidentID, user.Status,
		user.BuildingAccess, user.IsUsingMobileApp,
		user.CreatedAt, user.UpdatedAt, user.Version,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return apperror.NewDuplicate("user", "email", user.Email).WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	q := r.txm.GetQuerier(ctx)

	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userCols)

	user, err := r.scanUser(q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := r.txm.GetQuerier(ctx)

	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userCols)

	user, err := r.scanUser(q.QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return user, nil
}

// Update updates user data with optimistic locking.
func (r *UserRepo) Update(ctx context.Context, user *auth.User) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		UPDATE users SET
			email = $2,
			password_hash = $3,
			name = $4,
			surname = $5,
			phone = $6,
			role_id = $7,
			resident_id = $8,
			status = $9,
			building_access = $10,
			is_using_mobile_app = $11,
			last_login_at = $12,
			failed_login_attempts = $13,
			locked_until = $14,
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND version = $15
	`

	result, err := q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash,
		user.Name, user.Surname, user.Phone,
		user.RoleID, user.ResidentID, user.Status,
		user.BuildingAccess, user.IsUsingMobileApp,
		user.LastLoginAt, user.FailedLoginAttempts, user.LockedUntil,
		user.Version,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("user", user.ID)
	}

	user.Version++
	return nil
}

// Delete removes a user.
func (r *UserRepo) Delete(ctx context.Context, userID id.ID) error {
	q := r.txm.GetQuerier(ctx)

	result, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("user", userID.String())
	}

	return nil
}

// List retrieves users with filtering.
func (r *UserRepo) List(ctx context.Context, filter auth.UserFilter) ([]auth.User, int, error) {
	q := r.txm.GetQuerier(ctx)

	query := fmt.Sprintf(`SELECT %s FROM users WHERE TRUE`, userCols)
	countQuery := `SELECT COUNT(*) FROM users WHERE TRUE`

	var args []any
	argIdx := 1

	if filter.Search != "" {
		cond := fmt.Sprintf(" AND (email ILIKE $%d OR name ILIKE $%d OR surname ILIKE $%d)", argIdx, argIdx, argIdx)
		query += cond
		countQuery += cond
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	if filter.Status != nil {
		cond := fmt.Sprintf(" AND status = $%d", argIdx)
		query += cond
		countQuery += cond
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.RoleCode != "" {
		cond := fmt.Sprintf(" AND role_id = (SELECT id FROM roles WHERE code = $%d)", argIdx)
		query += cond
		countQuery += cond
		args = append(args, filter.RoleCode)
		argIdx++
	}

	// Get total count
	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	// Add pagination
	query += " ORDER BY surname ASC, name ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}

	return users, total, nil
}

// Exists checks if an email is taken.
func (r *UserRepo) Exists(ctx context.Context, email string) (bool, error) {
	q := r.txm.GetQuerier(ctx)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}

	return exists, nil
}

// CountByRole counts users referencing a role.
func (r *UserRepo) CountByRole(ctx context.Context, roleID id.ID) (int, error) {
	q := r.txm.GetQuerier(ctx)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, roleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}

	return count, nil
}

// Ensure interface compliance
var _ auth.UserRepository = (*UserRepo)(nil)
