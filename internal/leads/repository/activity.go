package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action is an audit trail entry on a lead.
type Action struct {
	ID            uuid.UUID
	LeadID        uuid.UUID
	AppointmentID *uuid.UUID
	UserID        *uuid.UUID
	Kind          string
	Detail        string
	CreatedAt     time.Time
}

type CreateActionParams struct {
	LeadID        uuid.UUID
	AppointmentID *uuid.UUID
	UserID        *uuid.UUID
	Kind          string
	Detail        string
}

func (r *Repository) CreateAction(ctx context.Context, params CreateActionParams) (Action, error) {
	var action Action
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_actions (lead_id, appointment_id, user_id, kind, detail)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, lead_id, appointment_id, user_id, kind, detail, created_at
	`, params.LeadID, params.AppointmentID, params.UserID, params.Kind, params.Detail).Scan(
		&action.ID, &action.LeadID, &action.AppointmentID, &action.UserID,
		&action.Kind, &action.Detail, &action.CreatedAt,
	)
	return action, err
}

func (r *Repository) ListActions(ctx context.Context, leadID uuid.UUID) ([]Action, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, appointment_id, user_id, kind, detail, created_at
		FROM lead_actions
		WHERE lead_id = $1
		ORDER BY created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := make([]Action, 0)
	for rows.Next() {
		var action Action
		if err := rows.Scan(
			&action.ID, &action.LeadID, &action.AppointmentID, &action.UserID,
			&action.Kind, &action.Detail, &action.CreatedAt,
		); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return actions, nil
}
