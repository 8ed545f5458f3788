package leads

import (
	"context"
	"fmt"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

// Audit trail entry kinds stored in lead_actions.
const (
	actionKindCreation     = "creacion"
	actionKindModification = "modificacion"
	actionKindReassignment = "reasignacion"
	actionKindDuplicate    = "duplicado"
	actionKindAppointment  = "cita"
)

// registerAuditHandlers subscribes to domain events and persists one audit
// trail entry per lead affected. Deletions are not recorded because the
// trail rows are removed together with the lead.
func registerAuditHandlers(bus events.Bus, repo repository.ActivityLogger, log *logger.Logger) {
	record := func(ctx context.Context, params repository.CreateActionParams) error {
		if _, err := repo.CreateAction(ctx, params); err != nil {
			return fmt.Errorf("record lead action: %w", err)
		}
		return nil
	}

	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadCreated)
		if !ok {
			return nil
		}
		detail := "Lead registrado"
		if e.IsFieldLead {
			detail = "Lead registrado por captación en campo"
		}
		return record(ctx, repository.CreateActionParams{
			LeadID: e.LeadID,
			UserID: e.ActorID,
			Kind:   actionKindCreation,
			Detail: detail,
		})
	}))

	bus.Subscribe(events.LeadUpdated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadUpdated)
		if !ok {
			return nil
		}
		detail := "Datos del lead actualizados"
		if e.OldClassification != e.NewClassification {
			detail = fmt.Sprintf("Tipificación cambiada de %q a %q", e.OldClassification, e.NewClassification)
		}
		return record(ctx, repository.CreateActionParams{
			LeadID: e.LeadID,
			UserID: e.ActorID,
			Kind:   actionKindModification,
			Detail: detail,
		})
	}))

	bus.Subscribe(events.LeadsReassigned{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.LeadsReassigned)
		if !ok {
			return nil
		}
		for _, leadID := range e.LeadIDs {
			if err := record(ctx, repository.CreateActionParams{
				LeadID: leadID,
				UserID: e.ActorID,
				Kind:   actionKindReassignment,
				Detail: fmt.Sprintf("Lead reasignado al asesor %s", e.AdvisorID),
			}); err != nil {
				log.Error("failed to record reassignment action", "error", err, "leadId", leadID)
			}
		}
		return nil
	}))

	bus.Subscribe(events.DuplicateResolved{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.DuplicateResolved)
		if !ok {
			return nil
		}
		return record(ctx, repository.CreateActionParams{
			LeadID: e.CanonicalLeadID,
			UserID: e.ActorID,
			Kind:   actionKindDuplicate,
			Detail: fmt.Sprintf("Duplicado resuelto como %s", e.Resolution),
		})
	}))

	bus.Subscribe(events.AppointmentCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.AppointmentCreated)
		if !ok {
			return nil
		}
		return record(ctx, repository.CreateActionParams{
			LeadID:        e.LeadID,
			AppointmentID: appointmentRef(e.AppointmentID),
			UserID:        e.ActorID,
			Kind:          actionKindAppointment,
			Detail:        fmt.Sprintf("Cita agendada en %s", e.Location),
		})
	}))

	bus.Subscribe(events.AppointmentStatusChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.AppointmentStatusChanged)
		if !ok {
			return nil
		}
		return record(ctx, repository.CreateActionParams{
			LeadID:        e.LeadID,
			AppointmentID: appointmentRef(e.AppointmentID),
			UserID:        e.ActorID,
			Kind:          actionKindAppointment,
			Detail:        fmt.Sprintf("Cita cambió de %s a %s", e.OldStatus, e.NewStatus),
		})
	}))

	bus.Subscribe(events.AppointmentDeleted{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.AppointmentDeleted)
		if !ok {
			return nil
		}
		return record(ctx, repository.CreateActionParams{
			LeadID: e.LeadID,
			UserID: e.ActorID,
			Kind:   actionKindAppointment,
			Detail: "Cita eliminada",
		})
	}))
}

func appointmentRef(id uuid.UUID) *uuid.UUID {
	return &id
}
