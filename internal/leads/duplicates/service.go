// Package duplicates implements the duplicate resolution workflow: pending
// records are merged into the canonical lead or ignored, and both outcomes
// are terminal.
package duplicates

import (
	"context"
	"errors"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	msgDuplicateNotFound = "duplicado no encontrado"
	msgAlreadyIgnored    = "el duplicado ya fue ignorado"
	msgAlreadyMerged     = "el duplicado ya fue fusionado"
)

// Repository is the data access needed by the duplicate workflow.
type Repository interface {
	repository.LeadReader
	repository.DuplicateStore
}

// Service drives duplicate resolution.
type Service struct {
	repo Repository
	bus  events.Bus
}

// New creates the duplicate resolution service.
func New(repo Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// List returns duplicate records, optionally filtered by status and a
// search term over the duplicate lead's name and phone.
func (s *Service) List(ctx context.Context, status, search string, limit, offset int) (transport.DuplicateListResponse, error) {
	if status != "" && !domain.IsValidDuplicateStatus(status) {
		return transport.DuplicateListResponse{}, apperr.Validation("estado de duplicado inválido")
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	dups, total, err := s.repo.ListDuplicates(ctx, repository.ListDuplicatesParams{
		Status: status,
		Search: search,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return transport.DuplicateListResponse{}, err
	}

	items := make([]transport.DuplicateResponse, 0, len(dups))
	for _, dup := range dups {
		item, err := s.toResponse(ctx, dup)
		if err != nil {
			return transport.DuplicateListResponse{}, err
		}
		items = append(items, item)
	}

	return transport.DuplicateListResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// Merge resolves a pending duplicate by folding it into the canonical lead.
// Merging an already-merged record is a no-op that returns the stored
// resolution; merging an ignored record is rejected.
func (s *Service) Merge(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (transport.DuplicateResponse, error) {
	dup, err := s.getDuplicate(ctx, id)
	if err != nil {
		return transport.DuplicateResponse{}, err
	}

	switch dup.Status {
	case domain.DuplicateStatusMerged:
		return s.toResponse(ctx, dup)
	case domain.DuplicateStatusIgnored:
		return transport.DuplicateResponse{}, apperr.New(apperr.KindInvalidState, msgAlreadyIgnored)
	}

	resolved, err := s.repo.MarkMerged(ctx, id, actorUUID(actorID))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateNotFound) {
			// Lost a race against another resolution; report against the
			// state that actually won.
			return s.Merge(ctx, id, actorID)
		}
		return transport.DuplicateResponse{}, err
	}

	s.publishResolved(ctx, resolved, actorID)
	return s.toResponse(ctx, resolved)
}

// Ignore resolves a pending duplicate without touching either lead.
// Ignoring twice is a no-op; ignoring a merged record is rejected.
func (s *Service) Ignore(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (transport.DuplicateResponse, error) {
	dup, err := s.getDuplicate(ctx, id)
	if err != nil {
		return transport.DuplicateResponse{}, err
	}

	switch dup.Status {
	case domain.DuplicateStatusIgnored:
		return s.toResponse(ctx, dup)
	case domain.DuplicateStatusMerged:
		return transport.DuplicateResponse{}, apperr.New(apperr.KindInvalidState, msgAlreadyMerged)
	}

	resolved, err := s.repo.MarkIgnored(ctx, id, actorUUID(actorID))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateNotFound) {
			return s.Ignore(ctx, id, actorID)
		}
		return transport.DuplicateResponse{}, err
	}

	s.publishResolved(ctx, resolved, actorID)
	return s.toResponse(ctx, resolved)
}

func (s *Service) getDuplicate(ctx context.Context, id uuid.UUID) (repository.Duplicate, error) {
	dup, err := s.repo.GetDuplicateByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateNotFound) {
			return repository.Duplicate{}, apperr.NotFound(msgDuplicateNotFound)
		}
		return repository.Duplicate{}, err
	}
	return dup, nil
}

func (s *Service) publishResolved(ctx context.Context, dup repository.Duplicate, actorID *uuid.UUID) {
	s.bus.Publish(ctx, events.DuplicateResolved{
		BaseEvent:       events.NewBaseEvent(),
		DuplicateID:     dup.ID,
		LeadID:          dup.LeadID,
		CanonicalLeadID: dup.CanonicalLeadID,
		Resolution:      dup.Status,
		ActorID:         actorID,
	})
}

func (s *Service) toResponse(ctx context.Context, dup repository.Duplicate) (transport.DuplicateResponse, error) {
	lead, err := s.repo.GetByID(ctx, dup.LeadID)
	if err != nil {
		return transport.DuplicateResponse{}, err
	}
	canonical, err := s.repo.GetByID(ctx, dup.CanonicalLeadID)
	if err != nil {
		return transport.DuplicateResponse{}, err
	}

	return transport.DuplicateResponse{
		ID:            dup.ID,
		Status:        dup.Status,
		Lead:          management.ToLeadResponse(lead),
		CanonicalLead: management.ToLeadResponse(canonical),
		ResolvedByID:  dup.ResolvedByID,
		ResolvedAt:    dup.ResolvedAt,
		CreatedAt:     dup.CreatedAt,
	}, nil
}

func actorUUID(actorID *uuid.UUID) uuid.UUID {
	if actorID == nil {
		return uuid.Nil
	}
	return *actorID
}
