// Package repository provides data access for the field personnel directory.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a personnel member does not exist.
var ErrNotFound = errors.New("personnel member not found")

// Member is a field personnel record (capture staff or supervisor).
type Member struct {
	ID           uuid.UUID
	Name         string
	Email        *string
	Phone        *string
	Role         string
	SupervisorID *uuid.UUID
	UserID       *uuid.UUID
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const memberColumns = `id, name, email, phone, role, supervisor_id, user_id, is_active, created_at, updated_at`

// Repository provides personnel data access backed by Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a personnel repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Role,
		&m.SupervisorID, &m.UserID, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, ErrNotFound
	}
	return m, err
}

type CreateMemberParams struct {
	Name         string
	Email        *string
	Phone        *string
	Role         string
	SupervisorID *uuid.UUID
	UserID       *uuid.UUID
}

func (r *Repository) Create(ctx context.Context, params CreateMemberParams) (Member, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO personnel (name, email, phone, role, supervisor_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, memberColumns),
		params.Name, params.Email, params.Phone, params.Role, params.SupervisorID, params.UserID,
	)
	return scanMember(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Member, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM personnel WHERE id = $1
	`, memberColumns), id)
	return scanMember(row)
}

type UpdateMemberParams struct {
	Name         string
	Email        *string
	Phone        *string
	Role         string
	SupervisorID *uuid.UUID
	UserID       *uuid.UUID
	IsActive     bool
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateMemberParams) (Member, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE personnel
		SET name = $2, email = $3, phone = $4, role = $5,
		    supervisor_id = $6, user_id = $7, is_active = $8, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, memberColumns),
		id, params.Name, params.Email, params.Phone, params.Role,
		params.SupervisorID, params.UserID, params.IsActive,
	)
	return scanMember(row)
}

// Deactivate flags a member as inactive without removing history.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE personnel SET is_active = false, updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListParams filter the personnel listing.
type ListParams struct {
	Search       string
	Role         string
	SupervisorID *uuid.UUID
	ActiveOnly   bool
	Limit        int
	Offset       int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Member, int, error) {
	where, args := buildMemberWhere(params)

	var total int
	countQuery := "SELECT COUNT(*) FROM personnel" + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM personnel%s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d
	`, memberColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	members := make([]Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, m)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return members, total, nil
}

func buildMemberWhere(params ListParams) (string, []interface{}) {
	clauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)

	if params.Search != "" {
		args = append(args, "%"+params.Search+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if params.Role != "" {
		args = append(args, params.Role)
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if params.SupervisorID != nil {
		args = append(args, *params.SupervisorID)
		clauses = append(clauses, fmt.Sprintf("supervisor_id = $%d", len(args)))
	}
	if params.ActiveOnly {
		clauses = append(clauses, "is_active = true")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// SupervisorOf returns the supervisor assigned to the given member, or nil
// when the member has none.
func (r *Repository) SupervisorOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	var supervisorID *uuid.UUID
	err := r.pool.QueryRow(ctx, `
		SELECT supervisor_id FROM personnel WHERE id = $1
	`, id).Scan(&supervisorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return supervisorID, nil
}

// UserExists reports whether an active user account with the given id exists.
// Advisor assignment on leads is checked against this.
func (r *Repository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND is_active)
	`, id).Scan(&exists)
	return exists, err
}
