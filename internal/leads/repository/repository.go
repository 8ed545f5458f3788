package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID                  uuid.UUID
	Name                string
	Phone               string
	Email               *string
	Medium              *string
	District            *string
	Location            *string
	Classification      string
	Observation         *string
	FieldObservation    *string
	Project             *string
	AdvisorID           *uuid.UUID
	CapturedByID        *uuid.UUID
	CaptureSupervisorID *uuid.UUID
	CaptureDate         *time.Time
	CaptureSpot         *string
	IsFieldLead         bool
	IsDirectContact     bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

const leadColumns = `id, name, phone, email, medium, district, location, classification,
		observation, field_observation, project, advisor_id, captured_by_id,
		capture_supervisor_id, capture_date, capture_spot, is_field_lead, is_direct_contact,
		created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.Name, &lead.Phone, &lead.Email, &lead.Medium, &lead.District,
		&lead.Location, &lead.Classification, &lead.Observation, &lead.FieldObservation,
		&lead.Project, &lead.AdvisorID, &lead.CapturedByID, &lead.CaptureSupervisorID,
		&lead.CaptureDate, &lead.CaptureSpot, &lead.IsFieldLead, &lead.IsDirectContact,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type CreateLeadParams struct {
	Name                string
	Phone               string
	Email               *string
	Medium              *string
	District            *string
	Location            *string
	Classification      string
	Observation         *string
	FieldObservation    *string
	Project             *string
	AdvisorID           *uuid.UUID
	CapturedByID        *uuid.UUID
	CaptureSupervisorID *uuid.UUID
	CaptureDate         *time.Time
	CaptureSpot         *string
	IsFieldLead         bool
	IsDirectContact     bool
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			name, phone, email, medium, district, location, classification,
			observation, field_observation, project, advisor_id, captured_by_id,
			capture_supervisor_id, capture_date, capture_spot, is_field_lead, is_direct_contact
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING `+leadColumns,
		params.Name, params.Phone, params.Email, params.Medium, params.District,
		params.Location, params.Classification, params.Observation, params.FieldObservation,
		params.Project, params.AdvisorID, params.CapturedByID, params.CaptureSupervisorID,
		params.CaptureDate, params.CaptureSpot, params.IsFieldLead, params.IsDirectContact,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id))
}

func (r *Repository) GetByPhone(ctx context.Context, phone string) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, phone))
}

type UpdateLeadParams struct {
	Name                string
	Phone               string
	Email               *string
	Medium              *string
	District            *string
	Location            *string
	Classification      string
	Observation         *string
	FieldObservation    *string
	Project             *string
	AdvisorID           *uuid.UUID
	CapturedByID        *uuid.UUID
	CaptureSupervisorID *uuid.UUID
	CaptureDate         *time.Time
	CaptureSpot         *string
	IsFieldLead         bool
	IsDirectContact     bool
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET
			name = $2, phone = $3, email = $4, medium = $5, district = $6, location = $7,
			classification = $8, observation = $9, field_observation = $10, project = $11,
			advisor_id = $12, captured_by_id = $13, capture_supervisor_id = $14,
			capture_date = $15, capture_spot = $16, is_field_lead = $17, is_direct_contact = $18,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, params.Name, params.Phone, params.Email, params.Medium, params.District,
		params.Location, params.Classification, params.Observation, params.FieldObservation,
		params.Project, params.AdvisorID, params.CapturedByID, params.CaptureSupervisorID,
		params.CaptureDate, params.CaptureSpot, params.IsFieldLead, params.IsDirectContact,
	))
}

func (r *Repository) UpdateClassification(ctx context.Context, id uuid.UUID, classification string) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, `
		UPDATE leads SET classification = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+leadColumns,
		id, classification,
	))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type ListParams struct {
	Search           string
	Classification   *string
	AdvisorID        *uuid.UUID
	CapturedByID     *uuid.UUID
	SupervisorID     *uuid.UUID
	IsFieldLead      *bool
	CaptureDateAfter *time.Time
	CaptureDateUntil *time.Time
	SortBy           string
	SortOrder        string
	Limit            int
	Offset           int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, int, error) {
	whereClause, args, argIdx := buildLeadListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leads l WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := mapLeadSortColumn(params.SortBy)
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT l.id, l.name, l.phone, l.email, l.medium, l.district, l.location, l.classification,
			l.observation, l.field_observation, l.project, l.advisor_id, l.captured_by_id,
			l.capture_supervisor_id, l.capture_date, l.capture_spot, l.is_field_lead, l.is_direct_contact,
			l.created_at, l.updated_at
		FROM leads l
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return leads, total, nil
}

func buildLeadListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"TRUE"}
	args := make([]interface{}, 0)
	argIdx := 1

	addEquals := func(column string, value interface{}) {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Search != "" {
		searchPattern := "%" + params.Search + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(l.name ILIKE $%d OR l.phone ILIKE $%d OR l.location ILIKE $%d OR l.project ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, searchPattern)
		argIdx++
	}
	if params.Classification != nil {
		addEquals("l.classification", *params.Classification)
	}
	if params.AdvisorID != nil {
		addEquals("l.advisor_id", *params.AdvisorID)
	}
	if params.CapturedByID != nil {
		addEquals("l.captured_by_id", *params.CapturedByID)
	}
	if params.SupervisorID != nil {
		addEquals("l.capture_supervisor_id", *params.SupervisorID)
	}
	if params.IsFieldLead != nil {
		addEquals("l.is_field_lead", *params.IsFieldLead)
	}
	if params.CaptureDateAfter != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.capture_date >= $%d", argIdx))
		args = append(args, *params.CaptureDateAfter)
		argIdx++
	}
	if params.CaptureDateUntil != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("l.capture_date <= $%d", argIdx))
		args = append(args, *params.CaptureDateUntil)
		argIdx++
	}

	where := whereClauses[0]
	for _, clause := range whereClauses[1:] {
		where += " AND " + clause
	}
	return where, args, argIdx
}

func mapLeadSortColumn(sortBy string) string {
	switch sortBy {
	case "name":
		return "l.name"
	case "capture_date":
		return "l.capture_date"
	case "updated_at":
		return "l.updated_at"
	default:
		return "l.created_at"
	}
}

// ReassignOutcome reports the per-lead result of a bulk reassignment.
type ReassignOutcome struct {
	Updated []uuid.UUID
	Missing []uuid.UUID
}

// Reassign moves the given leads to a new advisor inside one transaction.
// Leads that do not exist are reported in Missing while the rest commit;
// only infrastructure failures abort the transaction.
func (r *Repository) Reassign(ctx context.Context, leadIDs []uuid.UUID, advisorID uuid.UUID) (ReassignOutcome, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return ReassignOutcome{}, err
	}
	defer tx.Rollback(ctx)

	outcome := ReassignOutcome{
		Updated: make([]uuid.UUID, 0, len(leadIDs)),
		Missing: make([]uuid.UUID, 0),
	}

	for _, id := range leadIDs {
		tag, err := tx.Exec(ctx, `
			UPDATE leads SET advisor_id = $2, updated_at = NOW()
			WHERE id = $1
		`, id, advisorID)
		if err != nil {
			return ReassignOutcome{}, err
		}
		if tag.RowsAffected() == 0 {
			outcome.Missing = append(outcome.Missing, id)
			continue
		}
		outcome.Updated = append(outcome.Updated, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return ReassignOutcome{}, err
	}
	return outcome, nil
}
