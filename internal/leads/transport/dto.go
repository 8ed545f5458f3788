// Package transport defines the request and response payloads for the leads
// HTTP API. Field names follow the capture forms, so they stay in Spanish.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateLeadRequest is the payload for creating a lead. Field-level rules
// (required fields, digits-only phone, capture-context requirements) are
// enforced by the domain validator, which reports per-field messages.
type CreateLeadRequest struct {
	Name             string     `json:"nombre"`
	Phone            string     `json:"celular"`
	Email            *string    `json:"email" validate:"omitempty,email"`
	Medium           *string    `json:"medio"`
	District         *string    `json:"distrito"`
	Location         *string    `json:"ubicacion"`
	Classification   string     `json:"tipificacion"`
	Observation      *string    `json:"observacion"`
	FieldObservation *string    `json:"observacion_opc"`
	Project          *string    `json:"proyecto_interes"`
	AdvisorID        *uuid.UUID `json:"asesor_id"`
	CapturedByID     *uuid.UUID `json:"personal_opc_captador_id"`
	CaptureDate      *time.Time `json:"fecha_captacion"`
	CaptureSpot      *string    `json:"calle_o_modulo"`
	IsFieldLead      bool       `json:"es_lead_opc"`
	IsDirectContact  bool       `json:"es_directeo"`
}

// UpdateLeadRequest is the payload for a full lead update.
type UpdateLeadRequest struct {
	Name             string     `json:"nombre"`
	Phone            string     `json:"celular"`
	Email            *string    `json:"email" validate:"omitempty,email"`
	Medium           *string    `json:"medio"`
	District         *string    `json:"distrito"`
	Location         *string    `json:"ubicacion"`
	Classification   string     `json:"tipificacion"`
	Observation      *string    `json:"observacion"`
	FieldObservation *string    `json:"observacion_opc"`
	Project          *string    `json:"proyecto_interes"`
	AdvisorID        *uuid.UUID `json:"asesor_id"`
	CapturedByID     *uuid.UUID `json:"personal_opc_captador_id"`
	CaptureDate      *time.Time `json:"fecha_captacion"`
	CaptureSpot      *string    `json:"calle_o_modulo"`
	IsFieldLead      bool       `json:"es_lead_opc"`
	IsDirectContact  bool       `json:"es_directeo"`
}

// ListLeadsQuery carries the list filters.
type ListLeadsQuery struct {
	Search           string     `form:"search"`
	Classification   *string    `form:"tipificacion"`
	AdvisorID        *uuid.UUID `form:"asesor_id"`
	CapturedByID     *uuid.UUID `form:"personal_opc_captador_id"`
	SupervisorID     *uuid.UUID `form:"supervisor_opc_captador_id"`
	IsFieldLead      *bool      `form:"es_lead_opc"`
	CaptureDateAfter *time.Time `form:"fecha_captacion_after" time_format:"2006-01-02"`
	CaptureDateUntil *time.Time `form:"fecha_captacion_before" time_format:"2006-01-02"`
	SortBy           string     `form:"sort_by"`
	SortOrder        string     `form:"sort_order"`
	Limit            int        `form:"limit"`
	Offset           int        `form:"offset"`
}

// LeadResponse is the lead representation returned by the API.
type LeadResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"nombre"`
	Phone            string     `json:"celular"`
	Email            *string    `json:"email,omitempty"`
	Medium           *string    `json:"medio,omitempty"`
	District         *string    `json:"distrito,omitempty"`
	Location         *string    `json:"ubicacion,omitempty"`
	Classification   string     `json:"tipificacion"`
	Observation      *string    `json:"observacion,omitempty"`
	FieldObservation *string    `json:"observacion_opc,omitempty"`
	Project          *string    `json:"proyecto_interes,omitempty"`
	AdvisorID        *uuid.UUID `json:"asesor_id,omitempty"`
	CapturedByID     *uuid.UUID `json:"personal_opc_captador_id,omitempty"`
	SupervisorID     *uuid.UUID `json:"supervisor_opc_captador_id,omitempty"`
	CaptureDate      *time.Time `json:"fecha_captacion,omitempty"`
	CaptureSpot      *string    `json:"calle_o_modulo,omitempty"`
	IsFieldLead      bool       `json:"es_lead_opc"`
	IsDirectContact  bool       `json:"es_directeo"`
	CreatedAt        time.Time  `json:"fecha_creacion"`
	UpdatedAt        time.Time  `json:"ultima_actualizacion"`
}

// LeadListResponse is a paginated list of leads.
type LeadListResponse struct {
	Items  []LeadResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ReassignRequest moves a set of leads to one advisor.
type ReassignRequest struct {
	LeadIDs   []uuid.UUID `json:"lead_ids" validate:"required,min=1"`
	AdvisorID uuid.UUID   `json:"asesor_id" validate:"required"`
}

// ReassignFailure reports one lead that could not be reassigned.
type ReassignFailure struct {
	LeadID uuid.UUID `json:"lead_id"`
	Reason string    `json:"reason"`
}

// ReassignResponse reports the outcome of a bulk reassignment. Updated and
// Failed together cover every requested lead.
type ReassignResponse struct {
	Updated []uuid.UUID       `json:"reasignados"`
	Failed  []ReassignFailure `json:"fallidos"`
}

// DuplicateResponse is a duplicate resolution record with both leads embedded.
type DuplicateResponse struct {
	ID            uuid.UUID    `json:"id"`
	Status        string       `json:"estado"`
	Lead          LeadResponse `json:"lead"`
	CanonicalLead LeadResponse `json:"lead_original"`
	ResolvedByID  *uuid.UUID   `json:"resuelto_por,omitempty"`
	ResolvedAt    *time.Time   `json:"fecha_resolucion,omitempty"`
	CreatedAt     time.Time    `json:"fecha_creacion"`
}

// DuplicateListResponse is a paginated list of duplicate records.
type DuplicateListResponse struct {
	Items  []DuplicateResponse `json:"items"`
	Total  int                 `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// ActionResponse is an audit trail entry.
type ActionResponse struct {
	ID            uuid.UUID  `json:"id"`
	LeadID        uuid.UUID  `json:"lead_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	Kind          string     `json:"tipo_accion"`
	Detail        string     `json:"detalle_accion"`
	CreatedAt     time.Time  `json:"fecha_accion"`
}

// EligibilityResponse reports whether an appointment can be scheduled for a
// lead and which responsible party the form should pre-select.
type EligibilityResponse struct {
	Eligible    bool   `json:"puede_agendar"`
	ActingParty string `json:"parte_actuante"`
}
