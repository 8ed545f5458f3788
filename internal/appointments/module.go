// Package appointments provides the appointments bounded context module.
package appointments

import (
	"crm_backend/internal/appointments/handler"
	"crm_backend/internal/appointments/repository"
	"crm_backend/internal/appointments/service"
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/scheduler"
	"crm_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the appointments bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates the appointments module. The lead directory is the leads
// context seen through a narrow adapter; the reminder scheduler may be nil.
func NewModule(pool *pgxpool.Pool, leads service.LeadDirectory, eventBus events.Bus, reminderScheduler scheduler.ReminderScheduler, cfg config.ReminderConfig) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, eventBus, reminderScheduler, cfg)
	h := handler.New(svc)

	return &Module{handler: h, service: svc, repository: repo}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "appointments"
}

// Service returns the appointments service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the appointments repository for cross-context readers.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes mounts appointment routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/citas")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
