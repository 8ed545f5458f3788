// Package transport defines the request and response payloads for the
// appointments HTTP API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateAppointmentRequest is the payload for scheduling an appointment.
// When no responsible party is given the acting user becomes the commercial
// advisor.
type CreateAppointmentRequest struct {
	LeadID              uuid.UUID  `json:"lead_id" validate:"required"`
	CommercialAdvisorID *uuid.UUID `json:"asesor_comercial_id"`
	PresentialAdvisorID *uuid.UUID `json:"asesor_presencial_id"`
	FieldPersonnelID    *uuid.UUID `json:"personal_opc_id"`
	ScheduledAt         time.Time  `json:"fecha_cita" validate:"required"`
	Location            string     `json:"lugar" validate:"required"`
	Observations        *string    `json:"observaciones"`
}

// UpdateAppointmentRequest is the payload for a full appointment update.
// Status changes go through the status endpoint instead.
type UpdateAppointmentRequest struct {
	CommercialAdvisorID *uuid.UUID `json:"asesor_comercial_id"`
	PresentialAdvisorID *uuid.UUID `json:"asesor_presencial_id"`
	FieldPersonnelID    *uuid.UUID `json:"personal_opc_id"`
	ScheduledAt         time.Time  `json:"fecha_cita" validate:"required"`
	Location            string     `json:"lugar" validate:"required"`
	Observations        *string    `json:"observaciones"`
}

// ChangeStatusRequest moves an appointment to a new status.
type ChangeStatusRequest struct {
	Status string `json:"estado" validate:"required"`
}

// ListAppointmentsQuery carries the list filters.
type ListAppointmentsQuery struct {
	Status        string     `form:"estado"`
	Location      string     `form:"lugar"`
	AdvisorID     *uuid.UUID `form:"asesor_id"`
	ScheduledFrom *time.Time `form:"fecha_cita_after" time_format:"2006-01-02"`
	ScheduledTo   *time.Time `form:"fecha_cita_before" time_format:"2006-01-02"`
	Limit         int        `form:"limit"`
	Offset        int        `form:"offset"`
}

// AppointmentResponse is the appointment representation returned by the API.
type AppointmentResponse struct {
	ID                   uuid.UUID  `json:"id"`
	LeadID               uuid.UUID  `json:"lead_id"`
	CommercialAdvisorID  *uuid.UUID `json:"asesor_comercial_id,omitempty"`
	PresentialAdvisorID  *uuid.UUID `json:"asesor_presencial_id,omitempty"`
	FieldPersonnelID     *uuid.UUID `json:"personal_opc_id,omitempty"`
	ScheduledAt          time.Time  `json:"fecha_cita"`
	Location             string     `json:"lugar"`
	Status               string     `json:"estado"`
	Observations         *string    `json:"observaciones,omitempty"`
	HasEverBeenConfirmed bool       `json:"confirmada_alguna_vez"`
	CreatedAt            time.Time  `json:"fecha_creacion"`
	UpdatedAt            time.Time  `json:"ultima_actualizacion"`
}

// AppointmentListResponse is a paginated list of appointments.
type AppointmentListResponse struct {
	Items  []AppointmentResponse `json:"items"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}
