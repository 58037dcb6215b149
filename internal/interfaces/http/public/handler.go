package public

import (
	"context"
	"log"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/civictechdc/electrify-dmv/api/internal/events"
	"github.com/civictechdc/electrify-dmv/api/internal/notification"
	publicapp "github.com/civictechdc/electrify-dmv/api/internal/public/application"
	"github.com/civictechdc/electrify-dmv/api/internal/taxonomy"
)

// ApplicationNotifier alerts administrators about a new application.
type ApplicationNotifier interface {
	NotifyApplication(ctx context.Context, app notification.Application)
}

// ApplicationObserver counts application outcomes.
type ApplicationObserver interface {
	ObserveApplication(outcome string)
}

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger             *log.Logger
	contractors        publicapp.ContractorQueryService
	applications       publicapp.ApplicationService
	vocabulary         *taxonomy.Vocabulary
	notifier           ApplicationNotifier
	events             events.Publisher
	metrics            ApplicationObserver
	pageSize           int
	appliedRedirectURL string
	dispatch           func(func())
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger             *log.Logger
	Contractors        publicapp.ContractorQueryService
	Applications       publicapp.ApplicationService
	Vocabulary         *taxonomy.Vocabulary
	Notifier           ApplicationNotifier
	Events             events.Publisher
	Metrics            ApplicationObserver
	PageSize           int
	AppliedRedirectURL string
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	vocab := cfg.Vocabulary
	if vocab == nil {
		vocab = taxonomy.Default()
	}
	publisher := cfg.Events
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = publicapp.DefaultPageSize
	}
	redirect := strings.TrimSpace(cfg.AppliedRedirectURL)
	if redirect == "" {
		redirect = "/applied"
	}
	return &Handler{
		logger:             logger,
		contractors:        cfg.Contractors,
		applications:       cfg.Applications,
		vocabulary:         vocab,
		notifier:           cfg.Notifier,
		events:             publisher,
		metrics:            cfg.Metrics,
		pageSize:           pageSize,
		appliedRedirectURL: redirect,
		dispatch:           func(fn func()) { go fn() },
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/contractors", h.contractorListHandler())
	r.Get("/contractors/{id}", h.contractorDetailHandler())
	r.Get("/taxonomy", h.taxonomyHandler())
	r.Post("/applications", h.applicationCreateHandler())
}

func (h *Handler) observe(outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveApplication(outcome)
	}
}
