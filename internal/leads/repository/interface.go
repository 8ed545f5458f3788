package repository

import (
	"context"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	GetByPhone(ctx context.Context, phone string) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
}

// LeadWriter provides write operations for lead management.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error)
	UpdateClassification(ctx context.Context, id uuid.UUID, classification string) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Reassigner moves leads between advisors in bulk.
type Reassigner interface {
	Reassign(ctx context.Context, leadIDs []uuid.UUID, advisorID uuid.UUID) (ReassignOutcome, error)
}

// DuplicateStore manages duplicate detection records and their resolution.
type DuplicateStore interface {
	CreateDuplicate(ctx context.Context, leadID, canonicalLeadID uuid.UUID) (Duplicate, error)
	GetDuplicateByID(ctx context.Context, id uuid.UUID) (Duplicate, error)
	ListDuplicates(ctx context.Context, params ListDuplicatesParams) ([]Duplicate, int, error)
	MarkMerged(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID) (Duplicate, error)
	MarkIgnored(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID) (Duplicate, error)
}

// ActivityLogger records audit trail entries on leads.
type ActivityLogger interface {
	CreateAction(ctx context.Context, params CreateActionParams) (Action, error)
	ListActions(ctx context.Context, leadID uuid.UUID) ([]Action, error)
}

// =====================================
// Composite Interface
// =====================================

// LeadsRepository defines the complete interface for leads data operations.
// Composed of smaller, focused interfaces for better testability and flexibility.
type LeadsRepository interface {
	LeadReader
	LeadWriter
	Reassigner
	DuplicateStore
	ActivityLogger
}

// Ensure Repository implements LeadsRepository
var _ LeadsRepository = (*Repository)(nil)
