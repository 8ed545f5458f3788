// Package personnel provides the field personnel bounded context module.
package personnel

import (
	apphttp "crm_backend/internal/http"
	"crm_backend/internal/personnel/handler"
	"crm_backend/internal/personnel/repository"
	"crm_backend/internal/personnel/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the personnel bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the personnel module.
func NewModule(pool *pgxpool.Pool) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "personnel"
}

// Service returns the personnel service for cross-context use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts personnel routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/personal")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
