// Package domain holds the closed value sets and status rules for
// appointments.
package domain

// Appointment statuses.
const (
	StatusPending     = "Pendiente"
	StatusConfirmed   = "Confirmada"
	StatusDone        = "Realizada"
	StatusCancelled   = "Cancelada"
	StatusRescheduled = "Reprogramada"
)

var statuses = map[string]bool{
	StatusPending:     true,
	StatusConfirmed:   true,
	StatusDone:        true,
	StatusCancelled:   true,
	StatusRescheduled: true,
}

// Appointment locations. The sales rooms and event venues are fixed; only
// Proyecto and Zoom alter which classification a confirmation produces.
const (
	LocationRoomLince     = "Sala Lince"
	LocationRoomLosOlivos = "Sala Los Olivos"
	LocationEventRikoton  = "Evento Rikoton"
	LocationEventBeguis   = "Evento Beguis"
	LocationProject       = "Proyecto"
	LocationZoom          = "Zoom"
)

var locations = map[string]bool{
	LocationRoomLince:     true,
	LocationRoomLosOlivos: true,
	LocationEventRikoton:  true,
	LocationEventBeguis:   true,
	LocationProject:       true,
	LocationZoom:          true,
}

// IsValidStatus reports whether the status belongs to the closed set.
func IsValidStatus(status string) bool {
	return statuses[status]
}

// IsValidLocation reports whether the location belongs to the closed set.
func IsValidLocation(location string) bool {
	return locations[location]
}

// IsClosedStatus reports whether the status means the appointment no longer
// holds a slot (it was cancelled or superseded by a reschedule).
func IsClosedStatus(status string) bool {
	return status == StatusCancelled || status == StatusRescheduled
}

// Locations returns the closed location set in display order.
func Locations() []string {
	return []string{
		LocationRoomLince,
		LocationRoomLosOlivos,
		LocationEventRikoton,
		LocationEventBeguis,
		LocationProject,
		LocationZoom,
	}
}
