// Package transport defines the request and response payloads for the
// personnel HTTP API.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateMemberRequest is the payload for registering a personnel member.
type CreateMemberRequest struct {
	Name         string     `json:"nombre" validate:"required"`
	Email        *string    `json:"email" validate:"omitempty,email"`
	Phone        *string    `json:"celular"`
	Role         string     `json:"rol" validate:"required"`
	SupervisorID *uuid.UUID `json:"supervisor_id"`
	UserID       *uuid.UUID `json:"user_id"`
}

// UpdateMemberRequest is the payload for a full member update.
type UpdateMemberRequest struct {
	Name         string     `json:"nombre" validate:"required"`
	Email        *string    `json:"email" validate:"omitempty,email"`
	Phone        *string    `json:"celular"`
	Role         string     `json:"rol" validate:"required"`
	SupervisorID *uuid.UUID `json:"supervisor_id"`
	UserID       *uuid.UUID `json:"user_id"`
	IsActive     bool       `json:"activo"`
}

// ListMembersQuery carries the list filters.
type ListMembersQuery struct {
	Search       string     `form:"search"`
	Role         string     `form:"rol"`
	SupervisorID *uuid.UUID `form:"supervisor_id"`
	ActiveOnly   bool       `form:"activos"`
	Limit        int        `form:"limit"`
	Offset       int        `form:"offset"`
}

// MemberResponse is the personnel representation returned by the API.
type MemberResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"nombre"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"celular,omitempty"`
	Role         string     `json:"rol"`
	SupervisorID *uuid.UUID `json:"supervisor_id,omitempty"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	IsActive     bool       `json:"activo"`
	CreatedAt    time.Time  `json:"fecha_creacion"`
	UpdatedAt    time.Time  `json:"ultima_actualizacion"`
}

// MemberListResponse is a paginated list of personnel members.
type MemberListResponse struct {
	Items  []MemberResponse `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}
