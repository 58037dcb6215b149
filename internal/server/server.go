package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	adminapp "github.com/civictechdc/electrify-dmv/api/internal/admin/application"
	"github.com/civictechdc/electrify-dmv/api/internal/config"
	"github.com/civictechdc/electrify-dmv/api/internal/events"
	mongodoc "github.com/civictechdc/electrify-dmv/api/internal/infrastructure/mongo"
	"github.com/civictechdc/electrify-dmv/api/internal/infrastructure/messenger"
	adminhttp "github.com/civictechdc/electrify-dmv/api/internal/interfaces/http/admin"
	commonhttp "github.com/civictechdc/electrify-dmv/api/internal/interfaces/http/common"
	publichttp "github.com/civictechdc/electrify-dmv/api/internal/interfaces/http/public"
	"github.com/civictechdc/electrify-dmv/api/internal/notification"
	"github.com/civictechdc/electrify-dmv/api/internal/observability"
	publicapp "github.com/civictechdc/electrify-dmv/api/internal/public/application"
	"github.com/civictechdc/electrify-dmv/api/internal/scheduler"
	"github.com/civictechdc/electrify-dmv/api/internal/taxonomy"
)

// Server owns the HTTP lifecycle and is the composition root that hands
// repositories and services to the public and admin handlers.
type Server struct {
	logger         *log.Logger
	client         *mongo.Client
	redis          *redis.Client
	addr           string
	allowedOrigins []string
	adminJWT       config.JWTConfig
	metrics        *observability.Collector
	publicHandler  *publichttp.Handler
	adminHandler   *adminhttp.Handler
	retryScheduler *scheduler.Scheduler
	ping           func(ctx context.Context) error
	ensureIndexes  func(ctx context.Context) error
	seedVocabulary func(ctx context.Context) (int, error)
	now            func() time.Time
}

type authenticatedUser = commonhttp.AuthenticatedUser

// Run ensures indexes, starts the retry job and serves HTTP until a
// shutdown signal arrives.
func (s *Server) Run() error {
	s.prepareDatabase(context.Background())

	if s.retryScheduler != nil {
		if err := s.retryScheduler.Start(); err != nil {
			return err
		}
	}

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP server listening on %s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// prepareDatabase creates indexes and upserts the vocabulary into the tag
// collections, so every tag the apply form accepts can be stored. Failures
// are logged and the server still starts.
func (s *Server) prepareDatabase(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if s.ensureIndexes != nil {
		if err := s.ensureIndexes(ctx); err != nil {
			s.logger.Printf("failed to ensure indexes: %v", err)
		}
	}
	if s.seedVocabulary != nil {
		count, err := s.seedVocabulary(ctx)
		if err != nil {
			s.logger.Printf("failed to seed vocabulary: %v", err)
			return
		}
		s.logger.Printf("vocabulary synced: %d entries", count)
	}
}

// routes assembles middleware and mounts every handler.
func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))
	router.Use(s.metrics.Middleware)

	router.Get("/healthz", s.healthHandler())
	router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	router.Route("/api", s.publicHandler.Register)

	if s.adminJWT.Enabled() {
		router.Route("/admin", func(r chi.Router) {
			r.Use(s.authMiddleware)
			s.adminHandler.Register(r)
		})
	} else {
		s.logger.Println("ADMIN_JWT_SECRET is not set; admin routes are disabled")
	}

	return router
}

// withCORS returns middleware adding CORS headers for the allowed origins.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports infrastructure state only, by pinging MongoDB.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.ping(ctx); err != nil {
			commonhttp.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		commonhttp.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   s.now().Format(time.RFC3339),
		})
	}
}

// authMiddleware verifies the bearer JWT and stores the admin in the context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "missing Authorization header")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "expected a Bearer token")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, "empty access token")
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			commonhttp.WriteError(s.logger, w, http.StatusUnauthorized, err.Error())
			return
		}

		user := authenticatedUser{
			ID:   claims.Subject,
			Name: claims.Name,
		}
		next.ServeHTTP(w, r.WithContext(commonhttp.ContextWithUser(r.Context(), user)))
	})
}

// parseAuthToken checks the HS256 signature, issuer, audience and subject.
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if !s.adminJWT.Enabled() {
		return nil, errors.New("admin authentication is not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithLeeway(30 * time.Second),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.adminJWT.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.adminJWT.Issuer))
	}
	if s.adminJWT.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.adminJWT.Audience))
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.adminJWT.Secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, errors.New("invalid access token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("access token has no subject")
	}
	return claims, nil
}

type authClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
}

// shutdown stops background work and releases the Mongo and Redis clients.
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.retryScheduler != nil {
		s.retryScheduler.Stop(shutdownCtx)
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Printf("error closing redis: %v", err)
		}
	}
	if s.client != nil {
		if err := s.client.Disconnect(shutdownCtx); err != nil {
			s.logger.Printf("error disconnecting MongoDB: %v", err)
		}
	}
}

// waitForShutdown blocks on ListenAndServe and OS signals for a graceful stop.
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.shutdown(context.Background())
			srv.logger.Fatalf("server stopped unexpectedly: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("error during server shutdown: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New wires repositories, services and handlers. redisClient may be nil, in
// which case application events are dropped.
func New(cfg config.Config, client *mongo.Client, redisClient *redis.Client) (*Server, error) {
	logger := cfg.ServerLog
	if logger == nil {
		logger = log.Default()
	}

	vocab, err := taxonomy.Load(cfg.TaxonomyFile)
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	metrics, err := observability.NewCollector(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	database := client.Database(cfg.MongoDatabase)
	cols := collectionsFrom(cfg)

	contractorRepo := mongodoc.NewContractorRepository(database, cols)
	zipRepo := mongodoc.NewZipCodeRepository(database, cols.ZipCodes)
	adminRepo := mongodoc.NewAdminContractorRepository(database, cols)
	failures := mongodoc.NewFailedNotificationRepository(database, cols.FailedNotifications)

	var publisher events.Publisher = events.NopPublisher{}
	if redisClient != nil {
		publisher = events.NewRedisPublisher(redisClient, cfg.EventChannel)
	}

	notifier := newNotifier(cfg, logger, failures)

	srv := &Server{
		logger:         logger,
		client:         client,
		redis:          redisClient,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		adminJWT:       cfg.AdminJWT,
		metrics:        metrics,
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		ensureIndexes: func(ctx context.Context) error {
			return mongodoc.EnsureIndexes(ctx, database, cols)
		},
		seedVocabulary: func(ctx context.Context) (int, error) {
			return mongodoc.NewTagRepository(database, cols).SeedVocabulary(ctx, vocab)
		},
		now: time.Now,
	}

	publicConfig := publichttp.Config{
		Logger:             logger,
		Contractors:        publicapp.NewContractorQueryService(contractorRepo, zipRepo),
		Applications:       publicapp.NewApplicationService(contractorRepo, vocab),
		Vocabulary:         vocab,
		Events:             publisher,
		Metrics:            metrics,
		PageSize:           cfg.PageSize,
		AppliedRedirectURL: cfg.AppliedRedirectURL,
	}
	if notifier != nil {
		publicConfig.Notifier = notifier
		srv.retryScheduler = scheduler.New(scheduler.Config{
			Logger:      logger,
			Retrier:     notifier,
			Observer:    metrics,
			Spec:        cfg.NotificationRetrySpec,
			MaxAttempts: cfg.NotificationMaxAttempts,
		})
	} else {
		logger.Println("no messenger destination configured; admin notifications are disabled")
	}
	srv.publicHandler = publichttp.NewHandler(publicConfig)
	srv.adminHandler = adminhttp.NewHandler(adminhttp.Config{
		Logger:            logger,
		ContractorService: adminapp.NewContractorService(adminRepo),
	})

	return srv, nil
}

func newNotifier(cfg config.Config, logger *log.Logger, failures notification.FailureStore) *notification.Notifier {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.MessengerEndpoint), "/")
	if endpoint == "" {
		return nil
	}
	return notification.New(notification.Config{
		Logger:             logger,
		Sender:             messenger.NewClient(endpoint, &http.Client{Timeout: cfg.MessengerTimeout}),
		Failures:           failures,
		DiscordDestination: cfg.DiscordDestination,
		SlackDestination:   cfg.SlackDestination,
		AdminReviewBaseURL: cfg.AdminReviewBaseURL,
	})
}

func collectionsFrom(cfg config.Config) mongodoc.Collections {
	return mongodoc.Collections{
		Contractors:         cfg.ContractorCollection,
		States:              cfg.StateCollection,
		Services:            cfg.ServiceCollection,
		Certifications:      cfg.CertificationCollection,
		ZipCodes:            cfg.ZipCollection,
		FailedNotifications: cfg.FailedNotificationCollection,
	}
}
