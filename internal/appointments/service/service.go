// Package service implements appointment scheduling and the classification
// sync it drives on leads.
package service

import (
	"context"
	"errors"
	"time"

	"crm_backend/internal/appointments/domain"
	"crm_backend/internal/appointments/repository"
	"crm_backend/internal/appointments/transport"
	"crm_backend/internal/events"
	leadsdomain "crm_backend/internal/leads/domain"
	"crm_backend/internal/scheduler"
	"crm_backend/platform/apperr"
	"crm_backend/platform/config"
	"crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgAppointmentNotFound = "cita no encontrada"
	msgLeadNotExists       = "El lead no existe"
	msgInvalidLocation     = "Lugar de cita inválido"
	msgInvalidStatus       = "Estado de cita inválido"
	msgNoResponsibleParty  = "La cita requiere al menos un responsable"
)

// LeadDirectory is the appointments context's view of leads: read the
// current classification and push sync updates back.
type LeadDirectory interface {
	Classification(ctx context.Context, leadID uuid.UUID) (string, error)
	SetClassification(ctx context.Context, leadID uuid.UUID, label string) error
}

// ErrLeadNotFound is returned by LeadDirectory implementations for unknown leads.
var ErrLeadNotFound = errors.New("lead not found")

// Repository defines the data access interface needed by the service.
type Repository interface {
	Create(ctx context.Context, params repository.CreateAppointmentParams) (repository.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateAppointmentParams) (repository.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, confirming bool) (repository.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountForLead(ctx context.Context, leadID uuid.UUID) (int, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]repository.Appointment, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Appointment, int, error)
}

// Service provides business logic for appointments.
type Service struct {
	repo              Repository
	leads             LeadDirectory
	bus               events.Bus
	reminderScheduler scheduler.ReminderScheduler
	reminderLeadTime  time.Duration
}

// New creates the appointments service. The reminder scheduler may be nil
// when the job queue is not configured.
func New(repo Repository, leads LeadDirectory, bus events.Bus, reminderScheduler scheduler.ReminderScheduler, cfg config.ReminderConfig) *Service {
	return &Service{
		repo:              repo,
		leads:             leads,
		bus:               bus,
		reminderScheduler: reminderScheduler,
		reminderLeadTime:  cfg.GetReminderLeadTime(),
	}
}

// Create schedules an appointment and moves the lead's classification to the
// pending-appointment label unless the lead already attended or was
// disqualified. The acting user becomes the commercial advisor when no
// responsible party is named.
func (s *Service) Create(ctx context.Context, req transport.CreateAppointmentRequest, actorID *uuid.UUID) (transport.AppointmentResponse, error) {
	if !domain.IsValidLocation(req.Location) {
		return transport.AppointmentResponse{}, apperr.Validation("datos inválidos").
			WithDetails(map[string]string{"lugar": msgInvalidLocation})
	}

	commercial := req.CommercialAdvisorID
	if commercial == nil && req.PresentialAdvisorID == nil && req.FieldPersonnelID == nil {
		if actorID == nil {
			return transport.AppointmentResponse{}, apperr.Validation(msgNoResponsibleParty)
		}
		commercial = actorID
	}

	classification, err := s.leads.Classification(ctx, req.LeadID)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			return transport.AppointmentResponse{}, apperr.Validation("datos inválidos").
				WithDetails(map[string]string{"lead_id": msgLeadNotExists})
		}
		return transport.AppointmentResponse{}, err
	}

	appt, err := s.repo.Create(ctx, repository.CreateAppointmentParams{
		LeadID:              req.LeadID,
		CommercialAdvisorID: commercial,
		PresentialAdvisorID: req.PresentialAdvisorID,
		FieldPersonnelID:    req.FieldPersonnelID,
		ScheduledAt:         req.ScheduledAt,
		Location:            req.Location,
		Observations:        sanitize.TextPtr(req.Observations),
		Status:              domain.StatusPending,
	})
	if err != nil {
		return transport.AppointmentResponse{}, err
	}

	if next, changed := leadsdomain.ClassificationOnAppointmentCreated(classification); changed {
		if err := s.leads.SetClassification(ctx, appt.LeadID, next); err != nil {
			return transport.AppointmentResponse{}, err
		}
	}

	s.bus.Publish(ctx, events.AppointmentCreated{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
		ScheduledAt:   appt.ScheduledAt,
		Location:      appt.Location,
		ActorID:       actorID,
	})

	s.scheduleReminder(ctx, appt)

	return toResponse(appt), nil
}

// GetByID retrieves an appointment by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.AppointmentResponse, error) {
	appt, err := s.getAppointment(ctx, id)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	return toResponse(appt), nil
}

// Update stores a full appointment update. A changed schedule re-enqueues
// the reminder; status stays as it was.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateAppointmentRequest, actorID *uuid.UUID) (transport.AppointmentResponse, error) {
	if !domain.IsValidLocation(req.Location) {
		return transport.AppointmentResponse{}, apperr.Validation("datos inválidos").
			WithDetails(map[string]string{"lugar": msgInvalidLocation})
	}

	current, err := s.getAppointment(ctx, id)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}

	if req.CommercialAdvisorID == nil && req.PresentialAdvisorID == nil && req.FieldPersonnelID == nil {
		return transport.AppointmentResponse{}, apperr.Validation(msgNoResponsibleParty)
	}

	appt, err := s.repo.Update(ctx, id, repository.UpdateAppointmentParams{
		CommercialAdvisorID: req.CommercialAdvisorID,
		PresentialAdvisorID: req.PresentialAdvisorID,
		FieldPersonnelID:    req.FieldPersonnelID,
		ScheduledAt:         req.ScheduledAt,
		Location:            req.Location,
		Observations:        sanitize.TextPtr(req.Observations),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.AppointmentResponse{}, apperr.NotFound(msgAppointmentNotFound)
		}
		return transport.AppointmentResponse{}, err
	}

	if !appt.ScheduledAt.Equal(current.ScheduledAt) {
		s.scheduleReminder(ctx, appt)
	}

	return toResponse(appt), nil
}

// ChangeStatus moves an appointment to a new status and syncs the lead's
// classification: confirmation maps the location onto a CITA label,
// completion marks the lead attended, and cancel/reschedule drops the lead
// back to follow-up.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, req transport.ChangeStatusRequest, actorID *uuid.UUID) (transport.AppointmentResponse, error) {
	if !domain.IsValidStatus(req.Status) {
		return transport.AppointmentResponse{}, apperr.Validation("datos inválidos").
			WithDetails(map[string]string{"estado": msgInvalidStatus})
	}

	current, err := s.getAppointment(ctx, id)
	if err != nil {
		return transport.AppointmentResponse{}, err
	}
	if current.Status == req.Status {
		return toResponse(current), nil
	}

	confirming := req.Status == domain.StatusConfirmed
	appt, err := s.repo.UpdateStatus(ctx, id, req.Status, confirming)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.AppointmentResponse{}, apperr.NotFound(msgAppointmentNotFound)
		}
		return transport.AppointmentResponse{}, err
	}

	if err := s.syncLeadOnStatus(ctx, appt); err != nil {
		return transport.AppointmentResponse{}, err
	}

	s.bus.Publish(ctx, events.AppointmentStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
		OldStatus:     current.Status,
		NewStatus:     appt.Status,
		ActorID:       actorID,
	})

	return toResponse(appt), nil
}

// Delete removes an appointment. When it was the lead's last one, an
// appointment-derived classification falls back to follow-up.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	appt, err := s.getAppointment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgAppointmentNotFound)
		}
		return err
	}

	remaining, err := s.repo.CountForLead(ctx, appt.LeadID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		classification, err := s.leads.Classification(ctx, appt.LeadID)
		if err == nil {
			if next, changed := leadsdomain.ClassificationOnLastAppointmentRemoved(classification); changed {
				if err := s.leads.SetClassification(ctx, appt.LeadID, next); err != nil {
					return err
				}
			}
		} else if !errors.Is(err, ErrLeadNotFound) {
			return err
		}
	}

	s.bus.Publish(ctx, events.AppointmentDeleted{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
		ActorID:       actorID,
	})
	return nil
}

// List retrieves a paginated list of appointments.
func (s *Service) List(ctx context.Context, query transport.ListAppointmentsQuery) (transport.AppointmentListResponse, error) {
	if query.Limit < 1 {
		query.Limit = 20
	}
	if query.Limit > 100 {
		query.Limit = 100
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	appointments, total, err := s.repo.List(ctx, repository.ListParams{
		Status:        query.Status,
		Location:      query.Location,
		AdvisorID:     query.AdvisorID,
		ScheduledFrom: query.ScheduledFrom,
		ScheduledTo:   query.ScheduledTo,
		Limit:         query.Limit,
		Offset:        query.Offset,
	})
	if err != nil {
		return transport.AppointmentListResponse{}, err
	}

	items := make([]transport.AppointmentResponse, len(appointments))
	for i, appt := range appointments {
		items[i] = toResponse(appt)
	}

	return transport.AppointmentListResponse{
		Items:  items,
		Total:  total,
		Limit:  query.Limit,
		Offset: query.Offset,
	}, nil
}

// ListByLead returns a lead's appointments, soonest first.
func (s *Service) ListByLead(ctx context.Context, leadID uuid.UUID) ([]transport.AppointmentResponse, error) {
	appointments, err := s.repo.ListByLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	items := make([]transport.AppointmentResponse, len(appointments))
	for i, appt := range appointments {
		items[i] = toResponse(appt)
	}
	return items, nil
}

func (s *Service) syncLeadOnStatus(ctx context.Context, appt repository.Appointment) error {
	classification, err := s.leads.Classification(ctx, appt.LeadID)
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			return nil
		}
		return err
	}

	var next string
	var changed bool
	switch appt.Status {
	case domain.StatusConfirmed:
		next, changed = leadsdomain.ClassificationOnAppointmentConfirmed(classification, appt.Location)
	case domain.StatusDone:
		next, changed = leadsdomain.ClassificationOnAppointmentCompleted(classification)
	case domain.StatusCancelled, domain.StatusRescheduled:
		next, changed = leadsdomain.ClassificationOnAppointmentClosed(classification)
	default:
		return nil
	}

	if !changed {
		return nil
	}
	return s.leads.SetClassification(ctx, appt.LeadID, next)
}

func (s *Service) scheduleReminder(ctx context.Context, appt repository.Appointment) {
	if s.reminderScheduler == nil || s.reminderLeadTime <= 0 {
		return
	}
	reminderAt := appt.ScheduledAt.Add(-s.reminderLeadTime)
	if !reminderAt.After(time.Now()) {
		return
	}
	_ = s.reminderScheduler.ScheduleAppointmentReminder(ctx, scheduler.AppointmentReminderPayload{
		AppointmentID: appt.ID.String(),
	}, reminderAt)
}

func (s *Service) getAppointment(ctx context.Context, id uuid.UUID) (repository.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Appointment{}, apperr.NotFound(msgAppointmentNotFound)
		}
		return repository.Appointment{}, err
	}
	return appt, nil
}

func toResponse(appt repository.Appointment) transport.AppointmentResponse {
	return transport.AppointmentResponse{
		ID:                   appt.ID,
		LeadID:               appt.LeadID,
		CommercialAdvisorID:  appt.CommercialAdvisorID,
		PresentialAdvisorID:  appt.PresentialAdvisorID,
		FieldPersonnelID:     appt.FieldPersonnelID,
		ScheduledAt:          appt.ScheduledAt,
		Location:             appt.Location,
		Status:               appt.Status,
		Observations:         appt.Observations,
		HasEverBeenConfirmed: appt.HasEverBeenConfirmed,
		CreatedAt:            appt.CreatedAt,
		UpdatedAt:            appt.UpdatedAt,
	}
}
