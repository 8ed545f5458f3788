// Package domain provides core business rules for the leads bounded context.
package domain

// Classification labels referenced by workflow rules. The remaining catalog
// entries only exist as values in the closed set below.
const (
	ClassificationNoAnswer           = "NO CONTESTA"
	ClassificationFollowUp           = "SEGUIMIENTO"
	ClassificationAttended           = "YA ASISTIO"
	ClassificationDuplicate          = "DUPLICADO"
	ClassificationDisqualified       = "NO CALIFICA"
	ClassificationAppointmentZoom    = "CITA - ZOOM"
	ClassificationAppointmentRoom    = "CITA - SALA"
	ClassificationAppointmentProject = "CITA - PROYECTO"
	ClassificationAppointmentPending = "CITA - POR CONFIRMAR"
	ClassificationAppointmentHxH     = "CITA - HxH"
)

// classificationCatalog is the closed set of lead classification labels.
// Membership is exact: no trimming, no case folding.
var classificationCatalog = map[string]bool{
	ClassificationNoAnswer:                    true,
	"DATO FALSO":                              true,
	"NO INTERESADO - POR PROYECTO":            true,
	"FUERA DE SERVICIO":                       true,
	"NO REGISTRADO":                           true,
	"VOLVER A LLAMAR":                         true,
	"APAGADO":                                 true,
	ClassificationFollowUp:                    true,
	"NO INTERESADO - MEDIOS ECONOMICOS":       true,
	ClassificationAppointmentZoom:             true,
	"NO INTERESADO - UBICACION":               true,
	"NO INTERESADO - YA COMPRO EN OTRO LUGAR": true,
	"INFORMACION WSP/CORREO":                  true,
	"TERCERO":                                 true,
	"NO INTERESADO - LEGALES":                 true,
	ClassificationAppointmentRoom:             true,
	ClassificationAppointmentProject:          true,
	ClassificationAppointmentPending:          true,
	ClassificationAppointmentHxH:              true,
	ClassificationAttended:                    true,
	ClassificationDuplicate:                   true,
	"YA ES PROPIETARIO":                       true,
	"AGENTE INMOBILIARIO":                     true,
	"GESTON WSP":                              true,
	ClassificationDisqualified:                true,
}

// appointmentEligible is the subset of classifications that allow scheduling
// an appointment for the lead.
var appointmentEligible = map[string]bool{
	ClassificationAppointmentZoom:    true,
	ClassificationAppointmentRoom:    true,
	ClassificationAppointmentProject: true,
	ClassificationAppointmentPending: true,
	ClassificationAppointmentHxH:     true,
}

// IsValidClassification reports whether the label belongs to the catalog.
// The empty string is accepted and means "not yet classified".
func IsValidClassification(label string) bool {
	if label == "" {
		return true
	}
	return classificationCatalog[label]
}

// IsAppointmentEligible reports whether a lead with this classification may
// have an appointment scheduled. Unknown and empty labels are not eligible.
func IsAppointmentEligible(label string) bool {
	return appointmentEligible[label]
}

// Classifications returns the catalog labels in their canonical order,
// for enum-style listing endpoints.
func Classifications() []string {
	return []string{
		ClassificationNoAnswer,
		"DATO FALSO",
		"NO INTERESADO - POR PROYECTO",
		"FUERA DE SERVICIO",
		"NO REGISTRADO",
		"VOLVER A LLAMAR",
		"APAGADO",
		ClassificationFollowUp,
		"NO INTERESADO - MEDIOS ECONOMICOS",
		ClassificationAppointmentZoom,
		"NO INTERESADO - UBICACION",
		"NO INTERESADO - YA COMPRO EN OTRO LUGAR",
		"INFORMACION WSP/CORREO",
		"TERCERO",
		"NO INTERESADO - LEGALES",
		ClassificationAppointmentRoom,
		ClassificationAppointmentProject,
		ClassificationAppointmentPending,
		ClassificationAppointmentHxH,
		ClassificationAttended,
		ClassificationDuplicate,
		"YA ES PROPIETARIO",
		"AGENTE INMOBILIARIO",
		"GESTON WSP",
		ClassificationDisqualified,
	}
}
