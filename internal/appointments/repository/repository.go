// Package repository provides data access for appointments.
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

// ErrNotFound is returned when an appointment does not exist.
var ErrNotFound = errors.New("appointment not found")

// Appointment is a scheduled meeting with a lead. HasEverBeenConfirmed is a
// latch: once an appointment has been confirmed it stays true through later
// status changes.
type Appointment struct {
	ID                   uuid.UUID
	LeadID               uuid.UUID
	CommercialAdvisorID  *uuid.UUID
	PresentialAdvisorID  *uuid.UUID
	FieldPersonnelID     *uuid.UUID
	ScheduledAt          time.Time
	Location             string
	Status               string
	Observations         *string
	HasEverBeenConfirmed bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

const appointmentColumns = `id, lead_id, commercial_advisor_id, presential_advisor_id, field_personnel_id,
	scheduled_at, location, status, observations, has_ever_been_confirmed, created_at, updated_at`

// Repository provides appointment data access backed by Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates an appointments repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanAppointment(row pgx.Row) (Appointment, error) {
	var a Appointment
	err := row.Scan(
		&a.ID, &a.LeadID, &a.CommercialAdvisorID, &a.PresentialAdvisorID, &a.FieldPersonnelID,
		&a.ScheduledAt, &a.Location, &a.Status, &a.Observations, &a.HasEverBeenConfirmed,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Appointment{}, ErrNotFound
	}
	return a, err
}

type CreateAppointmentParams struct {
	LeadID              uuid.UUID
	CommercialAdvisorID *uuid.UUID
	PresentialAdvisorID *uuid.UUID
	FieldPersonnelID    *uuid.UUID
	ScheduledAt         time.Time
	Location            string
	Observations        *string
	Status              string
}

func (r *Repository) Create(ctx context.Context, params CreateAppointmentParams) (Appointment, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO appointments (lead_id, commercial_advisor_id, presential_advisor_id,
			field_personnel_id, scheduled_at, location, status, observations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s
	`, appointmentColumns),
		params.LeadID, params.CommercialAdvisorID, params.PresentialAdvisorID,
		params.FieldPersonnelID, params.ScheduledAt, params.Location, params.Status, params.Observations,
	)
	return scanAppointment(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Appointment, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM appointments WHERE id = $1
	`, appointmentColumns), id)
	return scanAppointment(row)
}

type UpdateAppointmentParams struct {
	CommercialAdvisorID *uuid.UUID
	PresentialAdvisorID *uuid.UUID
	FieldPersonnelID    *uuid.UUID
	ScheduledAt         time.Time
	Location            string
	Observations        *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateAppointmentParams) (Appointment, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE appointments
		SET commercial_advisor_id = $2, presential_advisor_id = $3, field_personnel_id = $4,
		    scheduled_at = $5, location = $6, observations = $7, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, appointmentColumns),
		id, params.CommercialAdvisorID, params.PresentialAdvisorID, params.FieldPersonnelID,
		params.ScheduledAt, params.Location, params.Observations,
	)
	return scanAppointment(row)
}

// UpdateStatus changes the status and latches has_ever_been_confirmed when
// the new status is a confirmation.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, confirming bool) (Appointment, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE appointments
		SET status = $2, has_ever_been_confirmed = has_ever_been_confirmed OR $3, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, appointmentColumns), id, status, confirming)
	return scanAppointment(row)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountForLead returns how many appointments a lead still has.
func (r *Repository) CountForLead(ctx context.Context, leadID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM appointments WHERE lead_id = $1
	`, leadID).Scan(&count)
	return count, err
}

// ListByLead returns a lead's appointments, soonest first.
func (r *Repository) ListByLead(ctx context.Context, leadID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s FROM appointments
		WHERE lead_id = $1
		ORDER BY scheduled_at ASC
	`, appointmentColumns), leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// ListParams filter the appointment listing.
type ListParams struct {
	Status        string
	Location      string
	AdvisorID     *uuid.UUID
	ScheduledFrom *time.Time
	ScheduledTo   *time.Time
	Limit         int
	Offset        int
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Appointment, int, error) {
	where, args := buildAppointmentWhere(params)

	var total int
	countQuery := "SELECT COUNT(*) FROM appointments" + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM appointments%s
		ORDER BY scheduled_at ASC
		LIMIT $%d OFFSET $%d
	`, appointmentColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	appointments, err := collectAppointments(rows)
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

func buildAppointmentWhere(params ListParams) (string, []interface{}) {
	clauses := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	if params.Status != "" {
		args = append(args, params.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if params.Location != "" {
		args = append(args, params.Location)
		clauses = append(clauses, fmt.Sprintf("location = $%d", len(args)))
	}
	if params.AdvisorID != nil {
		args = append(args, *params.AdvisorID)
		clauses = append(clauses, fmt.Sprintf("(commercial_advisor_id = $%d OR presential_advisor_id = $%d)", len(args), len(args)))
	}
	if params.ScheduledFrom != nil {
		args = append(args, *params.ScheduledFrom)
		clauses = append(clauses, fmt.Sprintf("scheduled_at >= $%d", len(args)))
	}
	if params.ScheduledTo != nil {
		args = append(args, *params.ScheduledTo)
		clauses = append(clauses, fmt.Sprintf("scheduled_at <= $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	appointments := make([]Appointment, 0)
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, a)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return appointments, nil
}
