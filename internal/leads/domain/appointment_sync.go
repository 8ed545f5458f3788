package domain

// Appointment location values that drive confirmed-classification mapping.
// The appointments context owns the closed location set; only the two
// labels below change which classification a confirmation produces.
const (
	AppointmentLocationProject = "Proyecto"
	AppointmentLocationZoom    = "Zoom"
)

// classificationsClearedWithoutAppointments are the labels that fall back to
// follow-up when a lead's last appointment is removed.
var classificationsClearedWithoutAppointments = map[string]bool{
	ClassificationAppointmentZoom:    true,
	ClassificationAppointmentRoom:    true,
	ClassificationAppointmentProject: true,
	ClassificationAppointmentPending: true,
	ClassificationAppointmentHxH:     true,
	ClassificationAttended:           true,
	ClassificationFollowUp:           true,
}

// ClassificationOnAppointmentCreated returns the classification a lead takes
// when an appointment is scheduled for it, and whether a change applies.
// Leads that already attended or were disqualified keep their label.
func ClassificationOnAppointmentCreated(current string) (string, bool) {
	if current == ClassificationAttended || current == ClassificationDisqualified {
		return current, false
	}
	if current == ClassificationAppointmentPending {
		return current, false
	}
	return ClassificationAppointmentPending, true
}

// ClassificationOnAppointmentConfirmed maps a confirmation to the
// classification implied by the appointment location.
func ClassificationOnAppointmentConfirmed(current, location string) (string, bool) {
	if current == ClassificationAttended {
		return current, false
	}

	var next string
	switch location {
	case AppointmentLocationProject:
		next = ClassificationAppointmentProject
	case AppointmentLocationZoom:
		next = ClassificationAppointmentZoom
	default:
		next = ClassificationAppointmentRoom
	}

	if current == next {
		return current, false
	}
	return next, true
}

// ClassificationOnAppointmentCompleted marks the lead as attended.
func ClassificationOnAppointmentCompleted(current string) (string, bool) {
	if current == ClassificationAttended {
		return current, false
	}
	return ClassificationAttended, true
}

// ClassificationOnAppointmentClosed applies when an appointment is cancelled
// or rescheduled: the lead returns to follow-up unless it already attended
// or was disqualified.
func ClassificationOnAppointmentClosed(current string) (string, bool) {
	if current == ClassificationAttended || current == ClassificationDisqualified {
		return current, false
	}
	if current == ClassificationFollowUp {
		return current, false
	}
	return ClassificationFollowUp, true
}

// ClassificationOnLastAppointmentRemoved applies when a lead's only
// appointment is deleted. Appointment-derived labels fall back to follow-up;
// anything else is left untouched.
func ClassificationOnLastAppointmentRemoved(current string) (string, bool) {
	if !classificationsClearedWithoutAppointments[current] {
		return current, false
	}
	if current == ClassificationFollowUp {
		return current, false
	}
	return ClassificationFollowUp, true
}
