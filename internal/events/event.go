// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created.
type LeadCreated struct {
	BaseEvent
	LeadID       uuid.UUID  `json:"leadId"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	AdvisorID    *uuid.UUID `json:"advisorId,omitempty"`
	CapturedByID *uuid.UUID `json:"capturedById,omitempty"`
	IsFieldLead  bool       `json:"isFieldLead"`
	ActorID      *uuid.UUID `json:"actorId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadUpdated is published when lead data changes.
type LeadUpdated struct {
	BaseEvent
	LeadID            uuid.UUID  `json:"leadId"`
	OldClassification string     `json:"oldClassification"`
	NewClassification string     `json:"newClassification"`
	ActorID           *uuid.UUID `json:"actorId,omitempty"`
}

func (e LeadUpdated) EventName() string { return "leads.lead.updated" }

// LeadDeleted is published when a lead is removed.
type LeadDeleted struct {
	BaseEvent
	LeadID  uuid.UUID  `json:"leadId"`
	Name    string     `json:"name"`
	Phone   string     `json:"phone"`
	ActorID *uuid.UUID `json:"actorId,omitempty"`
}

func (e LeadDeleted) EventName() string { return "leads.lead.deleted" }

// LeadsReassigned is published after a bulk reassignment commits. Only the
// leads that were actually moved appear in LeadIDs.
type LeadsReassigned struct {
	BaseEvent
	LeadIDs   []uuid.UUID `json:"leadIds"`
	AdvisorID uuid.UUID   `json:"advisorId"`
	ActorID   *uuid.UUID  `json:"actorId,omitempty"`
}

func (e LeadsReassigned) EventName() string { return "leads.reassigned" }

// DuplicateDetected is published when a new lead collides with an existing
// phone number and a pending resolution record is created.
type DuplicateDetected struct {
	BaseEvent
	DuplicateID     uuid.UUID `json:"duplicateId"`
	LeadID          uuid.UUID `json:"leadId"`
	CanonicalLeadID uuid.UUID `json:"canonicalLeadId"`
}

func (e DuplicateDetected) EventName() string { return "leads.duplicate.detected" }

// DuplicateResolved is published when a pending duplicate reaches a terminal
// state. Resolution is "fusionado" or "ignorado".
type DuplicateResolved struct {
	BaseEvent
	DuplicateID     uuid.UUID  `json:"duplicateId"`
	LeadID          uuid.UUID  `json:"leadId"`
	CanonicalLeadID uuid.UUID  `json:"canonicalLeadId"`
	Resolution      string     `json:"resolution"`
	ActorID         *uuid.UUID `json:"actorId,omitempty"`
}

func (e DuplicateResolved) EventName() string { return "leads.duplicate.resolved" }

// =============================================================================
// Appointments Domain Events
// =============================================================================

// AppointmentCreated is published when an appointment is scheduled.
type AppointmentCreated struct {
	BaseEvent
	AppointmentID uuid.UUID  `json:"appointmentId"`
	LeadID        uuid.UUID  `json:"leadId"`
	ScheduledAt   time.Time  `json:"scheduledAt"`
	Location      string     `json:"location"`
	ActorID       *uuid.UUID `json:"actorId,omitempty"`
}

func (e AppointmentCreated) EventName() string { return "appointments.created" }

// AppointmentStatusChanged is published when an appointment's status changes.
type AppointmentStatusChanged struct {
	BaseEvent
	AppointmentID uuid.UUID  `json:"appointmentId"`
	LeadID        uuid.UUID  `json:"leadId"`
	OldStatus     string     `json:"oldStatus"`
	NewStatus     string     `json:"newStatus"`
	ActorID       *uuid.UUID `json:"actorId,omitempty"`
}

func (e AppointmentStatusChanged) EventName() string { return "appointments.status.changed" }

// AppointmentDeleted is published when an appointment is removed.
type AppointmentDeleted struct {
	BaseEvent
	AppointmentID uuid.UUID  `json:"appointmentId"`
	LeadID        uuid.UUID  `json:"leadId"`
	ActorID       *uuid.UUID `json:"actorId,omitempty"`
}

func (e AppointmentDeleted) EventName() string { return "appointments.deleted" }
