package scheduler

import (
	"context"

	apptdomain "crm_backend/internal/appointments/domain"
	apptrepo "crm_backend/internal/appointments/repository"
	"crm_backend/internal/email"
	leadrepo "crm_backend/internal/leads/repository"
	"crm_backend/platform/config"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Worker consumes scheduler tasks and delivers appointment reminders.
type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	appointments *apptrepo.Repository
	leads        *leadrepo.Repository
	sender       email.Sender
	log          *logger.Logger
}

// NewWorker creates the asynq worker with its task handlers registered.
func NewWorker(cfg config.RedisConfig, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) *Worker {
	server := asynq.NewServer(redisClientOpt(cfg), asynq.Config{
		Concurrency: 10,
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:       server,
		mux:          mux,
		appointments: apptrepo.New(pool),
		leads:        leadrepo.New(pool),
		sender:       sender,
		log:          log,
	}

	mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)

	return w
}

// Run blocks processing tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleAppointmentReminder mails the lead before an upcoming appointment.
// Appointments that were cancelled, rescheduled, moved past the reminder
// window, or whose lead has no email are skipped without error.
func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return err
	}

	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return err
	}

	appt, err := w.appointments.GetByID(ctx, apptID)
	if err != nil {
		if err == apptrepo.ErrNotFound {
			return nil
		}
		return err
	}

	if apptdomain.IsClosedStatus(appt.Status) || appt.Status == apptdomain.StatusDone {
		return nil
	}

	lead, err := w.leads.GetByID(ctx, appt.LeadID)
	if err != nil {
		if err == leadrepo.ErrNotFound {
			return nil
		}
		return err
	}
	if lead.Email == nil || *lead.Email == "" {
		return nil
	}

	if err := w.sender.SendAppointmentReminder(ctx, *lead.Email, lead.Name, appt.ScheduledAt, appt.Location); err != nil {
		return err
	}

	w.log.Info("appointment reminder sent", "appointmentId", appt.ID, "leadId", lead.ID)
	return nil
}
