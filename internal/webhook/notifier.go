// Package webhook notifies the commercial app when an appointment is
// completed, pushing the lead as a "presencia" record.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"crm_backend/internal/appointments/domain"
	apptrepo "crm_backend/internal/appointments/repository"
	"crm_backend/internal/events"
	leadrepo "crm_backend/internal/leads/repository"
	personneltransport "crm_backend/internal/personnel/transport"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	tokenHeader    = "X-CRM-Webhook-Token"
	requestTimeout = 30 * time.Second
)

// AppointmentSource loads the appointment behind a presence notification.
type AppointmentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (apptrepo.Appointment, error)
}

// LeadSource loads the lead attached to the appointment.
type LeadSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (leadrepo.Lead, error)
}

// PersonnelSource resolves the capture member named in the notification.
// Satisfied by the personnel service.
type PersonnelSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (personneltransport.MemberResponse, error)
}

// Notifier posts presence notifications to the commercial app. When the
// webhook URL or token is not configured it stays registered but sends
// nothing.
type Notifier struct {
	url          string
	token        string
	client       *http.Client
	appointments AppointmentSource
	leads        LeadSource
	personnel    PersonnelSource
	log          *logger.Logger
}

// NewNotifier creates the commercial app notifier.
func NewNotifier(cfg config.WebhookConfig, appointments AppointmentSource, leads LeadSource, personnel PersonnelSource, log *logger.Logger) *Notifier {
	n := &Notifier{
		url:          cfg.GetWebhookURL(),
		token:        cfg.GetWebhookToken(),
		client:       &http.Client{Timeout: requestTimeout},
		appointments: appointments,
		leads:        leads,
		personnel:    personnel,
		log:          log,
	}
	if !n.enabled() {
		log.Warn("commercial app webhook disabled: URL or token not configured")
	}
	return n
}

func (n *Notifier) enabled() bool {
	return n.url != "" && n.token != ""
}

// Register subscribes the notifier to appointment status changes. Only the
// transition into Realizada produces a notification.
func (n *Notifier) Register(bus events.Bus) {
	bus.Subscribe(events.AppointmentStatusChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.AppointmentStatusChanged)
		if !ok {
			return nil
		}
		if e.NewStatus != domain.StatusDone || e.OldStatus == domain.StatusDone {
			return nil
		}
		return n.SendPresenceNotification(ctx, e.AppointmentID)
	}))
}

type clientPayload struct {
	FullName     string  `json:"nombres_completos_razon_social"`
	DocumentType string  `json:"tipo_documento"`
	DocumentID   string  `json:"numero_documento"`
	Phone        string  `json:"telefono_principal"`
	Email        *string `json:"email_principal"`
	Address      string  `json:"direccion"`
	District     string  `json:"distrito"`
}

type presencePayload struct {
	PresenceID    string        `json:"id_presencia_crm"`
	Client        clientPayload `json:"cliente"`
	PresenceTime  string        `json:"fecha_hora_presencia"`
	Project       string        `json:"proyecto_interes"`
	InitialSpot   string        `json:"lote_interes_inicial"`
	CaptureMember string        `json:"asesor_captacion_opc"`
	CaptureMedium string        `json:"medio_captacion"`
	Modality      string        `json:"modalidad"`
	Status        string        `json:"status_presencia"`
	Outcome       string        `json:"resultado_interaccion"`
	Notes         string        `json:"observaciones"`
}

// SendPresenceNotification pushes the lead behind the given appointment to
// the commercial app. A no-op when the webhook is unconfigured.
func (n *Notifier) SendPresenceNotification(ctx context.Context, appointmentID uuid.UUID) error {
	if !n.enabled() {
		return nil
	}

	appt, err := n.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("webhook: load appointment: %w", err)
	}
	lead, err := n.leads.GetByID(ctx, appt.LeadID)
	if err != nil {
		return fmt.Errorf("webhook: load lead: %w", err)
	}

	body, err := json.Marshal(n.buildPresencePayload(ctx, appt, lead))
	if err != nil {
		return fmt.Errorf("webhook: encode presence payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build presence request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, n.token)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: send presence notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook: presence notification rejected with status %d", resp.StatusCode)
	}

	n.log.Info("presence notification sent", "appointmentId", appt.ID, "leadId", lead.ID)
	return nil
}

func (n *Notifier) buildPresencePayload(ctx context.Context, appt apptrepo.Appointment, lead leadrepo.Lead) presencePayload {
	captureMember := ""
	if lead.CapturedByID != nil {
		member, err := n.personnel.GetByID(ctx, *lead.CapturedByID)
		if err != nil {
			n.log.Error("failed to resolve capture member for presence notification",
				"error", err, "personnelId", *lead.CapturedByID)
		} else {
			captureMember = member.Name
		}
	}

	return presencePayload{
		PresenceID: "CRM-" + appt.ID.String(),
		Client: clientPayload{
			FullName:     lead.Name,
			DocumentType: "DNI",
			DocumentID:   temporaryDocument(lead.Phone),
			Phone:        lead.Phone,
			Email:        lead.Email,
			Address:      deref(lead.District),
			District:     deref(lead.District),
		},
		PresenceTime:  appt.ScheduledAt.Format(time.RFC3339),
		Project:       projectOrDefault(lead.Project),
		InitialSpot:   deref(lead.CaptureSpot),
		CaptureMember: captureMember,
		CaptureMedium: captureMedium(lead.Medium),
		Modality:      modality(appt.Location),
		Status:        "realizada",
		Outcome:       "interesado_seguimiento",
		Notes: fmt.Sprintf("Lead del CRM: %s - Tipificación: %s - NOTA: DNI temporal, editar manualmente",
			lead.Name, lead.Classification),
	}
}

var captureMediumMap = map[string]string{
	"OPC":                         "campo_opc",
	"Campo (Centros Comerciales)": "campo_opc",
	"Redes Sociales (Facebook)":   "redes_facebook",
	"Redes Sociales (Instagram)":  "redes_instagram",
	"Redes Sociales (WhatsApp)":   "redes_facebook",
	"Referidos":                   "referido",
	"Web":                         "web",
}

func captureMedium(medium *string) string {
	if medium == nil {
		return "otro"
	}
	if mapped, ok := captureMediumMap[*medium]; ok {
		return mapped
	}
	return "otro"
}

func modality(location string) string {
	if strings.Contains(strings.ToUpper(location), "ZOOM") {
		return "virtual"
	}
	return "presencial"
}

// projectOrDefault falls back to the commercial app's default project when
// the lead has none recorded.
func projectOrDefault(project *string) string {
	if project != nil && *project != "" {
		return *project
	}
	return "OASIS 2 (AUCALLAMA)"
}

// temporaryDocument builds the placeholder document number the commercial
// app requires until a real one is entered manually.
func temporaryDocument(phone string) string {
	if len(phone) > 4 {
		phone = phone[len(phone)-4:]
	}
	return "TEMP-" + phone
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
