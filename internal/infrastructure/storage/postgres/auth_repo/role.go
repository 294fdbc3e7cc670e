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

const roleCols = `id, code, name, description, permissions, is_system, created_at, updated_at`

// RoleRepo implements auth.RoleRepository.
// Permissions are stored as a text[] column.
type RoleRepo struct {
	txm *postgres.TxManager
}

// NewRoleRepo creates a new role repository.
func NewRoleRepo(txm *postgres.TxManager) *RoleRepo {
	return &RoleRepo{txm: txm}
}

func (r *RoleRepo) scanRole(row pgx.Row) (*auth.Role, error) {
	var role auth.Role
	err := row.Scan(
		&role.ID, &role.Code, &role.Name, &role.Description,
		&role.Permissions, &role.IsSystem,
		&role.CreatedAt, &role.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Create creates a new role.
func (r *RoleRepo) Create(ctx context.Context, role *auth.Role) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		INSERT INTO roles (id, code, name, description, permissions, is_system, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := q.Exec(ctx, query,
		role.ID, role.Code, role.Name, role.Description,
		role.Permissions, role.IsSystem, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return apperror.NewDuplicate("role", "code", role.Code).WithCause(err)
		}
		return fmt.Errorf("insert role: %w", err)
	}

	return nil
}

// GetByID retrieves a role by ID.
func (r *RoleRepo) GetByID(ctx context.Context, roleID id.ID) (*auth.Role, error) {
	q := r.txm.GetQuerier(ctx)

	query := fmt.Sprintf(`SELECT %s FROM roles WHERE id = $1`, roleCols)

	role, err := r.scanRole(q.QueryRow(ctx, query, roleID))
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("role", roleID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("query role: %w", err)
	}

	return role, nil
}

// GetByCode retrieves a role by code.
func (r *RoleRepo) GetByCode(ctx context.Context, code string) (*auth.Role, error) {
	q := r.txm.GetQuerier(ctx)

	query := fmt.Sprintf(`SELECT %s FROM roles WHERE code = $1`, roleCols)

	role, err := r.scanRole(q.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, apperror.NewNotFound("role", code)
	}
	if err != nil {
		return nil, fmt.Errorf("query role: %w", err)
	}

	return role, nil
}

// Update updates role data.
func (r *RoleRepo) Update(ctx context.Context, role *auth.Role) error {
	q := r.txm.GetQuerier(ctx)

	query := `
		UPDATE roles SET
			name = $2,
			description = $3,
			permissions = $4,
			updated_at = now()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query, role.ID, role.Name, role.Description, role.Permissions)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("role", role.ID.String())
	}

	return nil
}

// Delete deletes a role.
func (r *RoleRepo) Delete(ctx context.Context, roleID id.ID) error {
	q := r.txm.GetQuerier(ctx)

	result, err := q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, roleID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return apperror.NewRestrictDelete("role", roleID.String(), "users").WithCause(err)
		}
		return fmt.Errorf("delete role: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("role", roleID.String())
	}

	return nil
}

// List retrieves all roles.
func (r *RoleRepo) List(ctx context.Context) ([]auth.Role, error) {
	q := r.txm.GetQuerier(ctx)

	query := fmt.Sprintf(`SELECT %s FROM roles ORDER BY code ASC`, roleCols)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	var roles []auth.Role
	for rows.Next() {
		role, err := r.scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, *role)
	}

	return roles, nil
}

// Ensure interface compliance
var _ auth.RoleRepository = (*RoleRepo)(nil)
