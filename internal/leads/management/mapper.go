package management

import (
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
)

// ToLeadResponse maps a repository lead to its API representation.
func ToLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:               lead.ID,
		Name:             lead.Name,
		Phone:            lead.Phone,
		Email:            lead.Email,
		Medium:           lead.Medium,
		District:         lead.District,
		Location:         lead.Location,
		Classification:   lead.Classification,
		Observation:      lead.Observation,
		FieldObservation: lead.FieldObservation,
		Project:          lead.Project,
		AdvisorID:        lead.AdvisorID,
		CapturedByID:     lead.CapturedByID,
		SupervisorID:     lead.CaptureSupervisorID,
		CaptureDate:      lead.CaptureDate,
		CaptureSpot:      lead.CaptureSpot,
		IsFieldLead:      lead.IsFieldLead,
		IsDirectContact:  lead.IsDirectContact,
		CreatedAt:        lead.CreatedAt,
		UpdatedAt:        lead.UpdatedAt,
	}
}

// ToActionResponse maps an audit trail entry to its API representation.
func ToActionResponse(action repository.Action) transport.ActionResponse {
	return transport.ActionResponse{
		ID:            action.ID,
		LeadID:        action.LeadID,
		AppointmentID: action.AppointmentID,
		UserID:        action.UserID,
		Kind:          action.Kind,
		Detail:        action.Detail,
		CreatedAt:     action.CreatedAt,
	}
}
