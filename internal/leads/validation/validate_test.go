package validation

import (
	"testing"
	"time"
)

func validDraft() Draft {
	captured := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	return Draft{
		Name:           "Maria Quispe",
		Phone:          "987654321",
		Location:       "Lince",
		Medium:         "OPC",
		Classification: "SEGUIMIENTO",
		CaptureDate:    &captured,
		CaptureSpot:    "CALLE",
		Project:        "OASIS 2 (AUCALLAMA)",
		IsFieldLead:    true,
	}
}

func TestValidateAcceptsCompleteDraft(t *testing.T) {
	problems := Validate(validDraft(), Context{FieldCapture: true})
	if len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}
}

func TestValidateAlwaysRequiredFields(t *testing.T) {
	draft := Draft{}
	problems := Validate(draft, Context{})

	cases := []struct {
		field string
		want  string
	}{
		{"nombre", MsgNameRequired},
		{"celular", MsgPhoneRequired},
		{"ubicacion", MsgLocationRequired},
		{"tipificacion", MsgClassificationRequired},
	}
	for _, tc := range cases {
		if got := problems[tc.field]; got != tc.want {
			t.Errorf("problems[%q] = %q, want %q", tc.field, got, tc.want)
		}
	}
	if _, ok := problems["fecha_captacion"]; ok {
		t.Error("capture date should not be required outside the capture context")
	}
}

func TestValidatePhoneDigitsOnly(t *testing.T) {
	for _, bad := range []string{"+51987654321", "987 654 321", "98765432a", "987-654"} {
		draft := validDraft()
		draft.Phone = bad
		problems := Validate(draft, Context{FieldCapture: true})
		if problems["celular"] != MsgPhoneDigitsOnly {
			t.Errorf("phone %q: problems[celular] = %q, want %q", bad, problems["celular"], MsgPhoneDigitsOnly)
		}
	}
}

func TestValidateCaptureContextRequirements(t *testing.T) {
	draft := validDraft()
	draft.CaptureDate = nil
	draft.CaptureSpot = ""
	draft.Project = ""

	problems := Validate(draft, Context{FieldCapture: true})

	if problems["fecha_captacion"] != MsgCaptureDateRequired {
		t.Errorf("fecha_captacion = %q, want %q", problems["fecha_captacion"], MsgCaptureDateRequired)
	}
	if problems["calle_o_modulo"] != MsgCaptureSpotRequired {
		t.Errorf("calle_o_modulo = %q, want %q", problems["calle_o_modulo"], MsgCaptureSpotRequired)
	}
	if problems["proyecto_interes"] != MsgProjectRequired {
		t.Errorf("proyecto_interes = %q, want %q", problems["proyecto_interes"], MsgProjectRequired)
	}

	// The same omissions are fine outside the capture context.
	problems = Validate(draft, Context{})
	for _, field := range []string{"fecha_captacion", "calle_o_modulo", "proyecto_interes"} {
		if msg, ok := problems[field]; ok {
			t.Errorf("unexpected problem for %s outside capture context: %q", field, msg)
		}
	}
}

func TestValidateCaptureSpotValue(t *testing.T) {
	draft := validDraft()
	draft.CaptureSpot = "PLAZA"
	problems := Validate(draft, Context{FieldCapture: true})
	if problems["calle_o_modulo"] != MsgCaptureSpotInvalid {
		t.Errorf("calle_o_modulo = %q, want %q", problems["calle_o_modulo"], MsgCaptureSpotInvalid)
	}
}

func TestValidateClassificationOptionalOnFieldCaptureCreation(t *testing.T) {
	draft := validDraft()
	draft.Classification = ""

	problems := Validate(draft, Context{FieldCapture: true, Creating: true})
	if msg, ok := problems["tipificacion"]; ok {
		t.Fatalf("classification should be optional on field-capture creation, got %q", msg)
	}

	problems = Validate(draft, Context{FieldCapture: true, Creating: false})
	if problems["tipificacion"] != MsgClassificationRequired {
		t.Errorf("tipificacion = %q, want %q", problems["tipificacion"], MsgClassificationRequired)
	}
}

func TestValidateClassificationMustBeInCatalog(t *testing.T) {
	draft := validDraft()
	draft.Classification = "NUEVO"
	problems := Validate(draft, Context{})
	if problems["tipificacion"] != MsgClassificationInvalid {
		t.Errorf("tipificacion = %q, want %q", problems["tipificacion"], MsgClassificationInvalid)
	}
}
