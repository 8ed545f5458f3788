package domain

import "testing"

const fmtSyncMismatch = "got (%q, %v), want (%q, %v)"

func TestClassificationOnAppointmentCreated(t *testing.T) {
	cases := []struct {
		name       string
		current    string
		want       string
		wantChange bool
	}{
		{"fresh lead moves to pending", ClassificationNoAnswer, ClassificationAppointmentPending, true},
		{"unclassified lead moves to pending", "", ClassificationAppointmentPending, true},
		{"already pending is untouched", ClassificationAppointmentPending, ClassificationAppointmentPending, false},
		{"attended lead keeps label", ClassificationAttended, ClassificationAttended, false},
		{"disqualified lead keeps label", ClassificationDisqualified, ClassificationDisqualified, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := ClassificationOnAppointmentCreated(tc.current)
			if got != tc.want || changed != tc.wantChange {
				t.Errorf(fmtSyncMismatch, got, changed, tc.want, tc.wantChange)
			}
		})
	}
}

func TestClassificationOnAppointmentConfirmed(t *testing.T) {
	cases := []struct {
		name       string
		current    string
		location   string
		want       string
		wantChange bool
	}{
		{"room location", ClassificationAppointmentPending, "Sala Lince", ClassificationAppointmentRoom, true},
		{"project location", ClassificationAppointmentPending, AppointmentLocationProject, ClassificationAppointmentProject, true},
		{"zoom location", ClassificationAppointmentPending, AppointmentLocationZoom, ClassificationAppointmentZoom, true},
		{"event location maps to room", ClassificationAppointmentPending, "Evento Rikoton", ClassificationAppointmentRoom, true},
		{"attended keeps label", ClassificationAttended, "Sala Lince", ClassificationAttended, false},
		{"already matching label", ClassificationAppointmentRoom, "Sala Los Olivos", ClassificationAppointmentRoom, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := ClassificationOnAppointmentConfirmed(tc.current, tc.location)
			if got != tc.want || changed != tc.wantChange {
				t.Errorf(fmtSyncMismatch, got, changed, tc.want, tc.wantChange)
			}
		})
	}
}

func TestClassificationOnAppointmentCompleted(t *testing.T) {
	got, changed := ClassificationOnAppointmentCompleted(ClassificationAppointmentRoom)
	if got != ClassificationAttended || !changed {
		t.Errorf(fmtSyncMismatch, got, changed, ClassificationAttended, true)
	}

	got, changed = ClassificationOnAppointmentCompleted(ClassificationAttended)
	if got != ClassificationAttended || changed {
		t.Errorf(fmtSyncMismatch, got, changed, ClassificationAttended, false)
	}
}

func TestClassificationOnAppointmentClosed(t *testing.T) {
	cases := []struct {
		name       string
		current    string
		want       string
		wantChange bool
	}{
		{"pending drops to follow-up", ClassificationAppointmentPending, ClassificationFollowUp, true},
		{"room drops to follow-up", ClassificationAppointmentRoom, ClassificationFollowUp, true},
		{"attended keeps label", ClassificationAttended, ClassificationAttended, false},
		{"disqualified keeps label", ClassificationDisqualified, ClassificationDisqualified, false},
		{"already follow-up", ClassificationFollowUp, ClassificationFollowUp, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := ClassificationOnAppointmentClosed(tc.current)
			if got != tc.want || changed != tc.wantChange {
				t.Errorf(fmtSyncMismatch, got, changed, tc.want, tc.wantChange)
			}
		})
	}
}

func TestClassificationOnLastAppointmentRemoved(t *testing.T) {
	cases := []struct {
		name       string
		current    string
		want       string
		wantChange bool
	}{
		{"pending falls back", ClassificationAppointmentPending, ClassificationFollowUp, true},
		{"attended falls back", ClassificationAttended, ClassificationFollowUp, true},
		{"no-answer untouched", ClassificationNoAnswer, ClassificationNoAnswer, false},
		{"disqualified untouched", ClassificationDisqualified, ClassificationDisqualified, false},
		{"already follow-up", ClassificationFollowUp, ClassificationFollowUp, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := ClassificationOnLastAppointmentRemoved(tc.current)
			if got != tc.want || changed != tc.wantChange {
				t.Errorf(fmtSyncMismatch, got, changed, tc.want, tc.wantChange)
			}
		})
	}
}
