// Package adapters wires bounded contexts together through the narrow
// interfaces each context consumes.
package adapters

import (
	"context"
	"errors"

	apptservice "crm_backend/internal/appointments/service"
	leadrepo "crm_backend/internal/leads/repository"

	"github.com/google/uuid"
)

// LeadDirectory exposes lead classification state to the appointments context.
type LeadDirectory struct {
	repo *leadrepo.Repository
}

func NewLeadDirectory(repo *leadrepo.Repository) *LeadDirectory {
	return &LeadDirectory{repo: repo}
}

func (d *LeadDirectory) Classification(ctx context.Context, leadID uuid.UUID) (string, error) {
	lead, err := d.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, leadrepo.ErrNotFound) {
			return "", apptservice.ErrLeadNotFound
		}
		return "", err
	}
	return lead.Classification, nil
}

func (d *LeadDirectory) SetClassification(ctx context.Context, leadID uuid.UUID, label string) error {
	if _, err := d.repo.UpdateClassification(ctx, leadID, label); err != nil {
		if errors.Is(err, leadrepo.ErrNotFound) {
			return apptservice.ErrLeadNotFound
		}
		return err
	}
	return nil
}

// Compile-time check
var _ apptservice.LeadDirectory = (*LeadDirectory)(nil)
