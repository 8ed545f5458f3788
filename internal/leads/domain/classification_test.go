package domain

import "testing"

const fmtEligibleMismatch = "IsAppointmentEligible(%q) = %v, want %v"

func TestIsAppointmentEligible(t *testing.T) {
	cases := []struct {
		label string
		want  bool
	}{
		{ClassificationAppointmentRoom, true},
		{ClassificationAppointmentZoom, true},
		{ClassificationAppointmentProject, true},
		{ClassificationAppointmentPending, true},
		{ClassificationAppointmentHxH, true},
		{ClassificationNoAnswer, false},
		{ClassificationFollowUp, false},
		{ClassificationAttended, false},
		{ClassificationDisqualified, false},
		{"", false},
		{"cita - sala", false},
		{"CITA - SALA ", false},
		{"CITA-SALA", false},
	}

	for _, tc := range cases {
		if got := IsAppointmentEligible(tc.label); got != tc.want {
			t.Errorf(fmtEligibleMismatch, tc.label, got, tc.want)
		}
	}
}

func TestIsValidClassificationAcceptsEmptyAsUnset(t *testing.T) {
	if !IsValidClassification("") {
		t.Fatal("empty classification should be accepted as unset")
	}
}

func TestIsValidClassificationRejectsUnknownLabels(t *testing.T) {
	for _, label := range []string{"NUEVO", "Seguimiento", "CITA - SALA "} {
		if IsValidClassification(label) {
			t.Errorf("IsValidClassification(%q) = true, want false", label)
		}
	}
}

func TestClassificationsMatchesCatalog(t *testing.T) {
	all := Classifications()
	if len(all) != len(classificationCatalog) {
		t.Fatalf("Classifications() has %d entries, catalog has %d", len(all), len(classificationCatalog))
	}
	seen := make(map[string]bool, len(all))
	for _, label := range all {
		if !classificationCatalog[label] {
			t.Errorf("Classifications() contains %q which is not in the catalog", label)
		}
		if seen[label] {
			t.Errorf("Classifications() contains %q twice", label)
		}
		seen[label] = true
	}
}

func TestEveryEligibleLabelIsInCatalog(t *testing.T) {
	for label := range appointmentEligible {
		if !classificationCatalog[label] {
			t.Errorf("eligible label %q missing from catalog", label)
		}
	}
}
