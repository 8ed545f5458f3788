package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm_backend/internal/appointments/domain"
	apptrepo "crm_backend/internal/appointments/repository"
	"crm_backend/internal/events"
	leadrepo "crm_backend/internal/leads/repository"
	personneltransport "crm_backend/internal/personnel/transport"
	platformevents "crm_backend/platform/events"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

type webhookCfg struct {
	url   string
	token string
}

func (c webhookCfg) GetWebhookURL() string   { return c.url }
func (c webhookCfg) GetWebhookToken() string { return c.token }

type fakeAppointments struct {
	appointments map[uuid.UUID]apptrepo.Appointment
}

func (f *fakeAppointments) GetByID(_ context.Context, id uuid.UUID) (apptrepo.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return apptrepo.Appointment{}, apptrepo.ErrNotFound
	}
	return appt, nil
}

type fakeLeads struct {
	leads map[uuid.UUID]leadrepo.Lead
}

func (f *fakeLeads) GetByID(_ context.Context, id uuid.UUID) (leadrepo.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return leadrepo.Lead{}, leadrepo.ErrNotFound
	}
	return lead, nil
}

type fakePersonnel struct {
	names map[uuid.UUID]string
}

func (f *fakePersonnel) GetByID(_ context.Context, id uuid.UUID) (personneltransport.MemberResponse, error) {
	return personneltransport.MemberResponse{ID: id, Name: f.names[id]}, nil
}

func strPtr(s string) *string { return &s }

func fixture() (*fakeAppointments, *fakeLeads, *fakePersonnel, apptrepo.Appointment) {
	personnelID := uuid.New()
	lead := leadrepo.Lead{
		ID:             uuid.New(),
		Name:           "Maria Quispe",
		Phone:          "987654321",
		District:       strPtr("Lince"),
		Medium:         strPtr("OPC"),
		Classification: "CITA - SALA",
		Project:        strPtr("OASIS 2 (AUCALLAMA)"),
		CapturedByID:   &personnelID,
		CaptureSpot:    strPtr("CALLE"),
	}
	appt := apptrepo.Appointment{
		ID:          uuid.New(),
		LeadID:      lead.ID,
		ScheduledAt: time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC),
		Location:    "Sala Lince",
		Status:      domain.StatusDone,
	}
	appointments := &fakeAppointments{appointments: map[uuid.UUID]apptrepo.Appointment{appt.ID: appt}}
	leads := &fakeLeads{leads: map[uuid.UUID]leadrepo.Lead{lead.ID: lead}}
	personnel := &fakePersonnel{names: map[uuid.UUID]string{personnelID: "Rosa Quispe"}}
	return appointments, leads, personnel, appt
}

func TestSendPresenceNotification(t *testing.T) {
	var got presencePayload
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-CRM-Webhook-Token")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	appointments, leads, personnel, appt := fixture()
	notifier := NewNotifier(webhookCfg{url: server.URL, token: "secreto"}, appointments, leads, personnel, logger.New("development"))

	if err := notifier.SendPresenceNotification(context.Background(), appt.ID); err != nil {
		t.Fatalf("SendPresenceNotification: %v", err)
	}

	if gotToken != "secreto" {
		t.Errorf("token header = %q, want secreto", gotToken)
	}
	if got.PresenceID != "CRM-"+appt.ID.String() {
		t.Errorf("id_presencia_crm = %q, want CRM-%s", got.PresenceID, appt.ID)
	}
	if got.Client.DocumentID != "TEMP-4321" {
		t.Errorf("numero_documento = %q, want TEMP-4321", got.Client.DocumentID)
	}
	if got.CaptureMedium != "campo_opc" {
		t.Errorf("medio_captacion = %q, want campo_opc", got.CaptureMedium)
	}
	if got.Modality != "presencial" {
		t.Errorf("modalidad = %q, want presencial", got.Modality)
	}
	if got.CaptureMember != "Rosa Quispe" {
		t.Errorf("asesor_captacion_opc = %q, want Rosa Quispe", got.CaptureMember)
	}
	if got.Status != "realizada" {
		t.Errorf("status_presencia = %q, want realizada", got.Status)
	}
}

func TestSendPresenceNotificationZoomIsVirtual(t *testing.T) {
	var got presencePayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	appointments, leads, personnel, appt := fixture()
	appt.Location = "Zoom"
	appointments.appointments[appt.ID] = appt
	notifier := NewNotifier(webhookCfg{url: server.URL, token: "secreto"}, appointments, leads, personnel, logger.New("development"))

	if err := notifier.SendPresenceNotification(context.Background(), appt.ID); err != nil {
		t.Fatalf("SendPresenceNotification: %v", err)
	}
	if got.Modality != "virtual" {
		t.Errorf("modalidad = %q, want virtual", got.Modality)
	}
}

func TestUnconfiguredNotifierSendsNothing(t *testing.T) {
	appointments, leads, personnel, appt := fixture()
	notifier := NewNotifier(webhookCfg{}, appointments, leads, personnel, logger.New("development"))

	if err := notifier.SendPresenceNotification(context.Background(), appt.ID); err != nil {
		t.Fatalf("unconfigured notifier must be a no-op, got %v", err)
	}
}

func TestRegisterNotifiesOnlyOnDoneTransition(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	appointments, leads, personnel, appt := fixture()
	notifier := NewNotifier(webhookCfg{url: server.URL, token: "secreto"}, appointments, leads, personnel, logger.New("development"))

	bus := platformevents.NewInMemoryBus(nil)
	notifier.Register(bus)

	confirm := events.AppointmentStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
		OldStatus:     domain.StatusPending,
		NewStatus:     domain.StatusConfirmed,
	}
	if err := bus.PublishSync(context.Background(), confirm); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if calls != 0 {
		t.Fatalf("confirmation transition triggered %d notifications, want 0", calls)
	}

	done := events.AppointmentStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
		OldStatus:     domain.StatusConfirmed,
		NewStatus:     domain.StatusDone,
	}
	if err := bus.PublishSync(context.Background(), done); err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if calls != 1 {
		t.Fatalf("done transition triggered %d notifications, want 1", calls)
	}
}

func TestServerErrorIsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	appointments, leads, personnel, appt := fixture()
	notifier := NewNotifier(webhookCfg{url: server.URL, token: "secreto"}, appointments, leads, personnel, logger.New("development"))

	if err := notifier.SendPresenceNotification(context.Background(), appt.ID); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
