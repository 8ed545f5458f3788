package scheduling

import (
	"testing"

	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"

	"github.com/google/uuid"
)

func TestEvaluateEligibility(t *testing.T) {
	personnelID := uuid.New()
	otherID := uuid.New()

	cases := []struct {
		name            string
		classification  string
		capturedBy      *uuid.UUID
		actorPersonnel  *uuid.UUID
		wantEligible    bool
		wantActingParty string
	}{
		{
			name:            "eligible room appointment acts as advisor",
			classification:  domain.ClassificationAppointmentRoom,
			wantEligible:    true,
			wantActingParty: ActingPartyAdvisor,
		},
		{
			name:            "no answer is not eligible",
			classification:  domain.ClassificationNoAnswer,
			wantEligible:    false,
			wantActingParty: ActingPartyNone,
		},
		{
			name:            "capture personnel acts on own lead",
			classification:  domain.ClassificationAppointmentPending,
			capturedBy:      &personnelID,
			actorPersonnel:  &personnelID,
			wantEligible:    true,
			wantActingParty: ActingPartyFieldPersonnel,
		},
		{
			name:            "different personnel falls back to advisor",
			classification:  domain.ClassificationAppointmentPending,
			capturedBy:      &personnelID,
			actorPersonnel:  &otherID,
			wantEligible:    true,
			wantActingParty: ActingPartyAdvisor,
		},
		{
			name:            "capture match wins even when not eligible",
			classification:  domain.ClassificationFollowUp,
			capturedBy:      &personnelID,
			actorPersonnel:  &personnelID,
			wantEligible:    false,
			wantActingParty: ActingPartyFieldPersonnel,
		},
		{
			name:            "unclassified lead yields none",
			classification:  "",
			wantEligible:    false,
			wantActingParty: ActingPartyNone,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lead := repository.Lead{
				Classification: tc.classification,
				CapturedByID:   tc.capturedBy,
			}
			got := Evaluate(lead, tc.actorPersonnel)
			if got.Eligible != tc.wantEligible {
				t.Errorf("Eligible = %v, want %v", got.Eligible, tc.wantEligible)
			}
			if got.ActingParty != tc.wantActingParty {
				t.Errorf("ActingParty = %q, want %q", got.ActingParty, tc.wantActingParty)
			}
		})
	}
}
