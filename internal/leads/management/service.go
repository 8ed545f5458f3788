// Package management handles lead CRUD operations.
// This is a vertically sliced feature package containing service logic
// for creating, reading, updating, reassigning, and deleting leads.
package management

import (
	"context"
	"errors"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/internal/leads/validation"
	"crm_backend/platform/apperr"
	"crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

const msgLeadNotFound = "lead no encontrado"

// Repository defines the data access interface needed by the management service.
// This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.Reassigner
	repository.DuplicateStore
	repository.ActivityLogger
}

// PersonnelDirectory resolves field-capture personnel. The personnel context
// implements it; management only needs supervisor derivation and existence.
type PersonnelDirectory interface {
	// SupervisorOf returns the supervisor of the given personnel member, or
	// nil when the member has none. Unknown ids return an error.
	SupervisorOf(ctx context.Context, personnelID uuid.UUID) (*uuid.UUID, error)
}

// AdvisorDirectory answers whether an advisor account exists.
type AdvisorDirectory interface {
	AdvisorExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service handles lead management operations (CRUD).
type Service struct {
	repo      Repository
	personnel PersonnelDirectory
	advisors  AdvisorDirectory
	bus       events.Bus
}

// New creates a new lead management service.
func New(repo Repository, personnel PersonnelDirectory, advisors AdvisorDirectory, bus events.Bus) *Service {
	return &Service{repo: repo, personnel: personnel, advisors: advisors, bus: bus}
}

// Create validates and stores a new lead. When the phone number collides
// with an existing lead, the lead is still created and a pending duplicate
// resolution record is opened against the canonical lead.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, actorID *uuid.UUID) (transport.LeadResponse, error) {
	fieldCapture := domain.IsCaptureContextActive(req.IsFieldLead, deref(req.Medium))

	problems := validation.Validate(draftFromCreate(req), validation.Context{
		FieldCapture: fieldCapture,
		Creating:     true,
	})
	if len(problems) > 0 {
		return transport.LeadResponse{}, apperr.Validation("datos inválidos").WithDetails(problems)
	}

	supervisorID, err := s.resolveSupervisor(ctx, req.CapturedByID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	params := repository.CreateLeadParams{
		Name:                req.Name,
		Phone:               req.Phone,
		Email:               req.Email,
		Medium:              req.Medium,
		District:            req.District,
		Location:            req.Location,
		Classification:      req.Classification,
		Observation:         sanitize.TextPtr(req.Observation),
		FieldObservation:    sanitize.TextPtr(req.FieldObservation),
		Project:             req.Project,
		AdvisorID:           req.AdvisorID,
		CapturedByID:        req.CapturedByID,
		CaptureSupervisorID: supervisorID,
		CaptureDate:         req.CaptureDate,
		CaptureSpot:         req.CaptureSpot,
		IsFieldLead:         fieldCapture,
		IsDirectContact:     req.IsDirectContact,
	}

	canonical, err := s.repo.GetByPhone(ctx, req.Phone)
	phoneTaken := err == nil
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if phoneTaken {
		dup, err := s.repo.CreateDuplicate(ctx, lead.ID, canonical.ID)
		if err != nil {
			return transport.LeadResponse{}, err
		}
		s.bus.Publish(ctx, events.DuplicateDetected{
			BaseEvent:       events.NewBaseEvent(),
			DuplicateID:     dup.ID,
			LeadID:          lead.ID,
			CanonicalLeadID: canonical.ID,
		})
	}

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		Name:         lead.Name,
		Phone:        lead.Phone,
		AdvisorID:    lead.AdvisorID,
		CapturedByID: lead.CapturedByID,
		IsFieldLead:  lead.IsFieldLead,
		ActorID:      actorID,
	})

	return ToLeadResponse(lead), nil
}

// GetByID retrieves a lead by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}

// Update validates and stores a full lead update. Capture fields that the
// payload omits are carried over from the stored lead: moving the medium
// away from field capture never clears who captured the lead. Once a
// captured-by reference exists, the capture location, date, sub-location
// and the reference itself are frozen; payload values for them are
// discarded in favor of the stored attribution.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateLeadRequest, actorID *uuid.UUID) (transport.LeadResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.LeadResponse{}, err
	}

	fieldCapture := domain.IsCaptureContextActive(req.IsFieldLead, deref(req.Medium))

	capturedBy := req.CapturedByID
	captureDate := req.CaptureDate
	captureSpot := req.CaptureSpot
	location := req.Location
	if current.CapturedByID != nil {
		capturedBy = current.CapturedByID
		captureDate = current.CaptureDate
		captureSpot = current.CaptureSpot
		location = current.Location
	} else {
		if captureDate == nil {
			captureDate = current.CaptureDate
		}
		if captureSpot == nil {
			captureSpot = current.CaptureSpot
		}
	}

	problems := validation.Validate(validation.Draft{
		Name:           req.Name,
		Phone:          req.Phone,
		Location:       deref(location),
		Medium:         deref(req.Medium),
		Classification: req.Classification,
		CaptureDate:    captureDate,
		CaptureSpot:    deref(captureSpot),
		Project:        deref(req.Project),
		IsFieldLead:    req.IsFieldLead,
	}, validation.Context{FieldCapture: fieldCapture})
	if len(problems) > 0 {
		return transport.LeadResponse{}, apperr.Validation("datos inválidos").WithDetails(problems)
	}

	supervisorID, err := s.resolveSupervisor(ctx, capturedBy)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.Update(ctx, id, repository.UpdateLeadParams{
		Name:                req.Name,
		Phone:               req.Phone,
		Email:               req.Email,
		Medium:              req.Medium,
		District:            req.District,
		Location:            location,
		Classification:      req.Classification,
		Observation:         sanitize.TextPtr(req.Observation),
		FieldObservation:    sanitize.TextPtr(req.FieldObservation),
		Project:             req.Project,
		AdvisorID:           req.AdvisorID,
		CapturedByID:        capturedBy,
		CaptureSupervisorID: supervisorID,
		CaptureDate:         captureDate,
		CaptureSpot:         captureSpot,
		IsFieldLead:         fieldCapture || current.IsFieldLead,
		IsDirectContact:     req.IsDirectContact,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound(msgLeadNotFound)
		}
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadUpdated{
		BaseEvent:         events.NewBaseEvent(),
		LeadID:            lead.ID,
		OldClassification: current.Classification,
		NewClassification: lead.Classification,
		ActorID:           actorID,
	})

	return ToLeadResponse(lead), nil
}

// Delete removes a lead.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgLeadNotFound)
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgLeadNotFound)
		}
		return err
	}

	s.bus.Publish(ctx, events.LeadDeleted{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		Name:      lead.Name,
		Phone:     lead.Phone,
		ActorID:   actorID,
	})
	return nil
}

// List retrieves a paginated list of leads.
func (s *Service) List(ctx context.Context, query transport.ListLeadsQuery) (transport.LeadListResponse, error) {
	if query.Limit < 1 {
		query.Limit = 20
	}
	if query.Limit > 100 {
		query.Limit = 100
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	leads, total, err := s.repo.List(ctx, repository.ListParams{
		Search:           query.Search,
		Classification:   query.Classification,
		AdvisorID:        query.AdvisorID,
		CapturedByID:     query.CapturedByID,
		SupervisorID:     query.SupervisorID,
		IsFieldLead:      query.IsFieldLead,
		CaptureDateAfter: query.CaptureDateAfter,
		CaptureDateUntil: query.CaptureDateUntil,
		SortBy:           query.SortBy,
		SortOrder:        query.SortOrder,
		Limit:            query.Limit,
		Offset:           query.Offset,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = ToLeadResponse(lead)
	}

	return transport.LeadListResponse{
		Items:  items,
		Total:  total,
		Limit:  query.Limit,
		Offset: query.Offset,
	}, nil
}

// Reassign moves the requested leads to a new advisor. Leads that do not
// exist are reported per-id in the response while the rest commit; the
// operation never silently drops part of the batch.
func (s *Service) Reassign(ctx context.Context, req transport.ReassignRequest, actorID *uuid.UUID) (transport.ReassignResponse, error) {
	if len(req.LeadIDs) == 0 {
		return transport.ReassignResponse{}, apperr.Validation("debe seleccionar al menos un lead")
	}

	exists, err := s.advisors.AdvisorExists(ctx, req.AdvisorID)
	if err != nil {
		return transport.ReassignResponse{}, err
	}
	if !exists {
		return transport.ReassignResponse{}, apperr.Validation("datos inválidos").
			WithDetails(map[string]string{"asesor_id": "El asesor no existe"})
	}

	outcome, err := s.repo.Reassign(ctx, req.LeadIDs, req.AdvisorID)
	if err != nil {
		return transport.ReassignResponse{}, err
	}

	failed := make([]transport.ReassignFailure, len(outcome.Missing))
	for i, id := range outcome.Missing {
		failed[i] = transport.ReassignFailure{LeadID: id, Reason: msgLeadNotFound}
	}

	if len(outcome.Updated) > 0 {
		s.bus.Publish(ctx, events.LeadsReassigned{
			BaseEvent: events.NewBaseEvent(),
			LeadIDs:   outcome.Updated,
			AdvisorID: req.AdvisorID,
			ActorID:   actorID,
		})
	}

	return transport.ReassignResponse{Updated: outcome.Updated, Failed: failed}, nil
}

// Actions returns the audit trail for a lead, newest first.
func (s *Service) Actions(ctx context.Context, leadID uuid.UUID) ([]transport.ActionResponse, error) {
	if _, err := s.repo.GetByID(ctx, leadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgLeadNotFound)
		}
		return nil, err
	}

	actions, err := s.repo.ListActions(ctx, leadID)
	if err != nil {
		return nil, err
	}

	items := make([]transport.ActionResponse, len(actions))
	for i, action := range actions {
		items[i] = ToActionResponse(action)
	}
	return items, nil
}

func (s *Service) resolveSupervisor(ctx context.Context, capturedBy *uuid.UUID) (*uuid.UUID, error) {
	if capturedBy == nil {
		return nil, nil
	}
	supervisorID, err := s.personnel.SupervisorOf(ctx, *capturedBy)
	if err != nil {
		return nil, apperr.Validation("datos inválidos").WithDetails(map[string]string{
			"personal_opc_captador_id": "Personal OPC no encontrado",
		})
	}
	return supervisorID, nil
}

func draftFromCreate(req transport.CreateLeadRequest) validation.Draft {
	return validation.Draft{
		Name:           req.Name,
		Phone:          req.Phone,
		Location:       deref(req.Location),
		Medium:         deref(req.Medium),
		Classification: req.Classification,
		CaptureDate:    req.CaptureDate,
		CaptureSpot:    deref(req.CaptureSpot),
		Project:        deref(req.Project),
		IsFieldLead:    req.IsFieldLead,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
