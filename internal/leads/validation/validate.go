// Package validation implements the lead record field rules shared by the
// create and update flows. Failures are reported as a field-to-message map
// in the request payload's field names; an empty map means the draft is
// acceptable.
package validation

import (
	"time"

	"crm_backend/internal/leads/domain"
	"crm_backend/platform/phone"
)

// User-facing messages, matching the capture forms.
const (
	MsgNameRequired           = "El nombre es requerido"
	MsgPhoneRequired          = "El celular es requerido"
	MsgPhoneDigitsOnly        = "Solo números"
	MsgLocationRequired       = "La ubicación es requerida"
	MsgCaptureDateRequired    = "La fecha de captación es requerida"
	MsgCaptureSpotRequired    = "La calle o módulo es requerido"
	MsgCaptureSpotInvalid     = "Valor inválido: use CALLE o MODULO"
	MsgProjectRequired        = "El proyecto de interés es requerido"
	MsgClassificationRequired = "La tipificación es requerida"
	MsgClassificationInvalid  = "Tipificación inválida"
)

// Draft carries the candidate field values for a lead create or update.
type Draft struct {
	Name           string
	Phone          string
	Location       string
	Medium         string
	Classification string
	CaptureDate    *time.Time
	CaptureSpot    string
	Project        string
	IsFieldLead    bool
}

// Context selects which rule set applies to the draft.
type Context struct {
	// FieldCapture is true when field-capture rules apply (explicit flag
	// or field-capture medium).
	FieldCapture bool
	// Creating distinguishes the initial capture, where classification has
	// not happened yet, from later edits.
	Creating bool
}

// Validate checks the draft against the rules for its context and returns
// a map of field name to message for every violated rule. Expected failures
// never surface as Go errors.
func Validate(draft Draft, vctx Context) map[string]string {
	problems := make(map[string]string)

	if draft.Name == "" {
		problems["nombre"] = MsgNameRequired
	}

	switch {
	case draft.Phone == "":
		problems["celular"] = MsgPhoneRequired
	case !phone.IsDigitsOnly(draft.Phone):
		problems["celular"] = MsgPhoneDigitsOnly
	}

	if draft.Location == "" {
		problems["ubicacion"] = MsgLocationRequired
	}

	if vctx.FieldCapture {
		if draft.CaptureDate == nil {
			problems["fecha_captacion"] = MsgCaptureDateRequired
		}
		switch {
		case draft.CaptureSpot == "":
			problems["calle_o_modulo"] = MsgCaptureSpotRequired
		case !domain.IsValidCaptureSpot(draft.CaptureSpot):
			problems["calle_o_modulo"] = MsgCaptureSpotInvalid
		}
		if draft.Project == "" {
			problems["proyecto_interes"] = MsgProjectRequired
		}
	} else if !domain.IsValidCaptureSpot(draft.CaptureSpot) {
		problems["calle_o_modulo"] = MsgCaptureSpotInvalid
	}

	// Field capture happens before any phone contact, so the initial
	// capture carries no classification yet.
	classificationRequired := !(vctx.FieldCapture && vctx.Creating)
	switch {
	case draft.Classification == "" && classificationRequired:
		problems["tipificacion"] = MsgClassificationRequired
	case !domain.IsValidClassification(draft.Classification):
		problems["tipificacion"] = MsgClassificationInvalid
	}

	return problems
}
