package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/civictechdc/electrify-dmv/api/internal/admin/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger            *log.Logger
	contractorService adminapp.ContractorService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger            *log.Logger
	ContractorService adminapp.ContractorService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		logger:            logger,
		contractorService: cfg.ContractorService,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/contractors", h.contractorSearchHandler())
	r.Get("/contractors/{id}", h.contractorDetailHandler())
	r.Post("/contractors/{id}/publish", h.contractorPublishHandler())
}
