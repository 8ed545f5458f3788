package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrDuplicateNotFound = errors.New("duplicate record not found")

// Duplicate is a detected duplicate pair: an incoming lead against the
// canonical lead that already holds the phone number.
type Duplicate struct {
	ID              uuid.UUID
	LeadID          uuid.UUID
	CanonicalLeadID uuid.UUID
	Status          string
	ResolvedByID    *uuid.UUID
	ResolvedAt      *time.Time
	CreatedAt       time.Time
}

const duplicateColumns = `id, lead_id, canonical_lead_id, status, resolved_by_id, resolved_at, created_at`

func scanDuplicate(row pgx.Row) (Duplicate, error) {
	var dup Duplicate
	err := row.Scan(
		&dup.ID, &dup.LeadID, &dup.CanonicalLeadID, &dup.Status,
		&dup.ResolvedByID, &dup.ResolvedAt, &dup.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Duplicate{}, ErrDuplicateNotFound
	}
	return dup, err
}

func (r *Repository) CreateDuplicate(ctx context.Context, leadID, canonicalLeadID uuid.UUID) (Duplicate, error) {
	return scanDuplicate(r.pool.QueryRow(ctx, `
		INSERT INTO lead_duplicates (lead_id, canonical_lead_id, status)
		VALUES ($1, $2, $3)
		RETURNING `+duplicateColumns,
		leadID, canonicalLeadID, domain.DuplicateStatusPending,
	))
}

func (r *Repository) GetDuplicateByID(ctx context.Context, id uuid.UUID) (Duplicate, error) {
	return scanDuplicate(r.pool.QueryRow(ctx,
		`SELECT `+duplicateColumns+` FROM lead_duplicates WHERE id = $1`, id))
}

type ListDuplicatesParams struct {
	Status string
	Search string
	Limit  int
	Offset int
}

func (r *Repository) ListDuplicates(ctx context.Context, params ListDuplicatesParams) ([]Duplicate, int, error) {
	where := "TRUE"
	args := make([]interface{}, 0)
	argIdx := 1

	if params.Status != "" {
		where += " AND d.status = $1"
		args = append(args, params.Status)
		argIdx++
	}
	if params.Search != "" {
		where += fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM leads l WHERE l.id = d.lead_id AND (l.name ILIKE $%d OR l.phone ILIKE $%d))",
			argIdx, argIdx,
		)
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM lead_duplicates d WHERE "+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT d.id, d.lead_id, d.canonical_lead_id, d.status, d.resolved_by_id, d.resolved_at, d.created_at
		FROM lead_duplicates d
		WHERE %s
		ORDER BY d.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	dups := make([]Duplicate, 0)
	for rows.Next() {
		dup, err := scanDuplicate(rows)
		if err != nil {
			return nil, 0, err
		}
		dups = append(dups, dup)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return dups, total, nil
}

// MarkMerged resolves a pending duplicate by folding the duplicate lead's
// data into the canonical lead. The canonical lead only absorbs values for
// fields it has not filled itself, the duplicate lead is reclassified, and
// the resolution row flips to its terminal state, all in one transaction.
// The status guard in the final UPDATE makes concurrent resolutions lose.
func (r *Repository) MarkMerged(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID) (Duplicate, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Duplicate{}, err
	}
	defer tx.Rollback(ctx)

	dup, err := scanDuplicate(tx.QueryRow(ctx,
		`SELECT `+duplicateColumns+` FROM lead_duplicates WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return Duplicate{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE leads c SET
			email = COALESCE(c.email, d.email),
			medium = COALESCE(c.medium, d.medium),
			district = COALESCE(c.district, d.district),
			location = COALESCE(c.location, d.location),
			observation = COALESCE(c.observation, d.observation),
			field_observation = COALESCE(c.field_observation, d.field_observation),
			project = COALESCE(c.project, d.project),
			captured_by_id = COALESCE(c.captured_by_id, d.captured_by_id),
			capture_supervisor_id = COALESCE(c.capture_supervisor_id, d.capture_supervisor_id),
			capture_date = COALESCE(c.capture_date, d.capture_date),
			capture_spot = COALESCE(c.capture_spot, d.capture_spot),
			is_field_lead = c.is_field_lead OR d.is_field_lead,
			is_direct_contact = c.is_direct_contact OR d.is_direct_contact,
			updated_at = NOW()
		FROM leads d
		WHERE c.id = $1 AND d.id = $2
	`, dup.CanonicalLeadID, dup.LeadID); err != nil {
		return Duplicate{}, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE leads SET classification = $2, updated_at = NOW() WHERE id = $1
	`, dup.LeadID, domain.ClassificationDuplicate); err != nil {
		return Duplicate{}, err
	}

	resolved, err := scanDuplicate(tx.QueryRow(ctx, `
		UPDATE lead_duplicates
		SET status = $2, resolved_by_id = $3, resolved_at = NOW()
		WHERE id = $1 AND status = $4
		RETURNING `+duplicateColumns,
		id, domain.DuplicateStatusMerged, resolvedBy, domain.DuplicateStatusPending,
	))
	if err != nil {
		return Duplicate{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Duplicate{}, err
	}
	return resolved, nil
}

// MarkIgnored resolves a pending duplicate without touching either lead.
func (r *Repository) MarkIgnored(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID) (Duplicate, error) {
	return scanDuplicate(r.pool.QueryRow(ctx, `
		UPDATE lead_duplicates
		SET status = $2, resolved_by_id = $3, resolved_at = NOW()
		WHERE id = $1 AND status = $4
		RETURNING `+duplicateColumns,
		id, domain.DuplicateStatusIgnored, resolvedBy, domain.DuplicateStatusPending,
	))
}
