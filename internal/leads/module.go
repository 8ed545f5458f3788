// Package leads provides the lead lifecycle bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"crm_backend/internal/events"
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/leads/duplicates"
	"crm_backend/internal/leads/handler"
	"crm_backend/internal/leads/management"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/scheduling"
	"crm_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
	duplicates *duplicates.Service
	gate       *scheduling.Gate
	repo       *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
// Personnel and advisor lookups live in other contexts and are injected as
// consumer-driven interfaces.
func NewModule(pool *pgxpool.Pool, personnel management.PersonnelDirectory, advisors management.AdvisorDirectory, eventBus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)

	mgmtSvc := management.New(repo, personnel, advisors, eventBus)
	dupSvc := duplicates.New(repo, eventBus)
	gate := scheduling.NewGate(repo)

	registerAuditHandlers(eventBus, repo, log)

	h := handler.New(mgmtSvc, dupSvc, gate)

	return &Module{
		handler:    h,
		management: mgmtSvc,
		duplicates: dupSvc,
		gate:       gate,
		repo:       repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// Gate returns the appointment eligibility gate for external use.
func (m *Module) Gate() *scheduling.Gate {
	return m.gate
}

// Repository returns the leads repository for cross-context adapters.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
