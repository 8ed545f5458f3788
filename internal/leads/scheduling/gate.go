// Package scheduling answers whether an appointment may be scheduled for a
// lead and which responsible party the appointment form should pre-select.
package scheduling

import (
	"context"
	"errors"

	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"

	"github.com/google/uuid"
)

// Acting party values for appointment pre-fill.
const (
	ActingPartyFieldPersonnel = "personal_opc"
	ActingPartyAdvisor        = "asesor"
	ActingPartyNone           = ""
)

// Repository is the data access the gate needs.
type Repository interface {
	repository.LeadReader
}

// Gate decides appointment eligibility for leads.
type Gate struct {
	repo Repository
}

// NewGate creates the eligibility gate.
func NewGate(repo Repository) *Gate {
	return &Gate{repo: repo}
}

// CanSchedule reports whether the lead's classification allows scheduling an
// appointment, and which party acts on it. The acting party is the capture
// personnel only when the acting user is linked to the member who captured
// the lead; otherwise the advisor acts whenever the lead is eligible. The
// result only drives pre-fill of the appointment's responsible party.
func (g *Gate) CanSchedule(ctx context.Context, leadID uuid.UUID, actorPersonnelID *uuid.UUID) (transport.EligibilityResponse, error) {
	lead, err := g.repo.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.EligibilityResponse{}, apperr.NotFound("lead no encontrado")
		}
		return transport.EligibilityResponse{}, err
	}

	return Evaluate(lead, actorPersonnelID), nil
}

// Evaluate applies the eligibility rules to an already-loaded lead.
func Evaluate(lead repository.Lead, actorPersonnelID *uuid.UUID) transport.EligibilityResponse {
	eligible := domain.IsAppointmentEligible(lead.Classification)

	actingParty := ActingPartyNone
	switch {
	case lead.CapturedByID != nil && actorPersonnelID != nil && *lead.CapturedByID == *actorPersonnelID:
		actingParty = ActingPartyFieldPersonnel
	case eligible:
		actingParty = ActingPartyAdvisor
	}

	return transport.EligibilityResponse{
		Eligible:    eligible,
		ActingParty: actingParty,
	}
}
