// Package service implements the personnel directory: the field capture team
// with its OPC members and supervisors.
package service

import (
	"context"
	"errors"

	"crm_backend/internal/personnel/repository"
	"crm_backend/internal/personnel/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/phone"

	"github.com/google/uuid"
)

// Personnel roles.
const (
	RoleField      = "OPC"
	RoleSupervisor = "SUPERVISOR"
)

const msgMemberNotFound = "personal no encontrado"

// Repository defines the data access interface needed by the personnel service.
type Repository interface {
	Create(ctx context.Context, params repository.CreateMemberParams) (repository.Member, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Member, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateMemberParams) (repository.Member, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params repository.ListParams) ([]repository.Member, int, error)
	SupervisorOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service manages the personnel directory.
type Service struct {
	repo Repository
}

// New creates the personnel service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a personnel member. Supervisors cannot themselves report
// to a supervisor, and assigned supervisors must hold the supervisor role.
func (s *Service) Create(ctx context.Context, req transport.CreateMemberRequest) (transport.MemberResponse, error) {
	if err := s.validateRole(ctx, req.Role, req.SupervisorID); err != nil {
		return transport.MemberResponse{}, err
	}

	member, err := s.repo.Create(ctx, repository.CreateMemberParams{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        normalizePhone(req.Phone),
		Role:         req.Role,
		SupervisorID: req.SupervisorID,
		UserID:       req.UserID,
	})
	if err != nil {
		return transport.MemberResponse{}, err
	}
	return toResponse(member), nil
}

// GetByID retrieves a member by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.MemberResponse, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MemberResponse{}, apperr.NotFound(msgMemberNotFound)
		}
		return transport.MemberResponse{}, err
	}
	return toResponse(member), nil
}

// Update stores a full member update.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateMemberRequest) (transport.MemberResponse, error) {
	if err := s.validateRole(ctx, req.Role, req.SupervisorID); err != nil {
		return transport.MemberResponse{}, err
	}
	if req.SupervisorID != nil && *req.SupervisorID == id {
		return transport.MemberResponse{}, apperr.Validation("datos inválidos").
			WithDetails(map[string]string{"supervisor_id": "Un miembro no puede supervisarse a sí mismo"})
	}

	member, err := s.repo.Update(ctx, id, repository.UpdateMemberParams{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        normalizePhone(req.Phone),
		Role:         req.Role,
		SupervisorID: req.SupervisorID,
		UserID:       req.UserID,
		IsActive:     req.IsActive,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.MemberResponse{}, apperr.NotFound(msgMemberNotFound)
		}
		return transport.MemberResponse{}, err
	}
	return toResponse(member), nil
}

// Deactivate flags a member as inactive. Leads captured by the member keep
// their capture attribution.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgMemberNotFound)
		}
		return err
	}
	return nil
}

// List retrieves a paginated personnel listing.
func (s *Service) List(ctx context.Context, query transport.ListMembersQuery) (transport.MemberListResponse, error) {
	if query.Limit < 1 {
		query.Limit = 50
	}
	if query.Limit > 200 {
		query.Limit = 200
	}
	if query.Offset < 0 {
		query.Offset = 0
	}
	if query.Role != "" && query.Role != RoleField && query.Role != RoleSupervisor {
		return transport.MemberListResponse{}, apperr.Validation("rol inválido")
	}

	members, total, err := s.repo.List(ctx, repository.ListParams{
		Search:       query.Search,
		Role:         query.Role,
		SupervisorID: query.SupervisorID,
		ActiveOnly:   query.ActiveOnly,
		Limit:        query.Limit,
		Offset:       query.Offset,
	})
	if err != nil {
		return transport.MemberListResponse{}, err
	}

	items := make([]transport.MemberResponse, len(members))
	for i, member := range members {
		items[i] = toResponse(member)
	}

	return transport.MemberListResponse{
		Items:  items,
		Total:  total,
		Limit:  query.Limit,
		Offset: query.Offset,
	}, nil
}

// SupervisorOf returns the supervisor of the given member, or nil when the
// member has none. The leads context derives capture supervisors through this.
func (s *Service) SupervisorOf(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	supervisorID, err := s.repo.SupervisorOf(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgMemberNotFound)
		}
		return nil, err
	}
	return supervisorID, nil
}

// AdvisorExists reports whether an active advisor account exists.
func (s *Service) AdvisorExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.UserExists(ctx, id)
}

func (s *Service) validateRole(ctx context.Context, role string, supervisorID *uuid.UUID) error {
	if role != RoleField && role != RoleSupervisor {
		return apperr.Validation("datos inválidos").
			WithDetails(map[string]string{"rol": "Rol inválido: use OPC o SUPERVISOR"})
	}
	if supervisorID == nil {
		return nil
	}
	if role == RoleSupervisor {
		return apperr.Validation("datos inválidos").
			WithDetails(map[string]string{"supervisor_id": "Un supervisor no puede tener supervisor"})
	}

	supervisor, err := s.repo.GetByID(ctx, *supervisorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Validation("datos inválidos").
				WithDetails(map[string]string{"supervisor_id": "El supervisor no existe"})
		}
		return err
	}
	if supervisor.Role != RoleSupervisor {
		return apperr.Validation("datos inválidos").
			WithDetails(map[string]string{"supervisor_id": "El miembro asignado no es supervisor"})
	}
	return nil
}

// normalizePhone stores staff contact numbers in E.164 where parseable.
// Lead phones follow a different rule (digits as submitted) and never pass
// through here.
func normalizePhone(value *string) *string {
	if value == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*value)
	return &normalized
}

func toResponse(member repository.Member) transport.MemberResponse {
	return transport.MemberResponse{
		ID:           member.ID,
		Name:         member.Name,
		Email:        member.Email,
		Phone:        member.Phone,
		Role:         member.Role,
		SupervisorID: member.SupervisorID,
		UserID:       member.UserID,
		IsActive:     member.IsActive,
		CreatedAt:    member.CreatedAt,
		UpdatedAt:    member.UpdatedAt,
	}
}
