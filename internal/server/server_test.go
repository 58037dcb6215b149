package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminapp "github.com/civictechdc/electrify-dmv/api/internal/admin/application"
	admindomain "github.com/civictechdc/electrify-dmv/api/internal/admin/domain"
	"github.com/civictechdc/electrify-dmv/api/internal/config"
	adminhttp "github.com/civictechdc/electrify-dmv/api/internal/interfaces/http/admin"
	publichttp "github.com/civictechdc/electrify-dmv/api/internal/interfaces/http/public"
	"github.com/civictechdc/electrify-dmv/api/internal/observability"
)

var (
	testSecret = []byte("test-secret")
	fixedNow   = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
)

type emptyAdminService struct{}

func (emptyAdminService) List(context.Context, adminapp.ContractorFilter) ([]admindomain.Contractor, error) {
	return nil, nil
}

func (emptyAdminService) Detail(context.Context, string) (*admindomain.Contractor, error) {
	return nil, nil
}

func (emptyAdminService) Publish(context.Context, string) (*admindomain.Contractor, error) {
	return nil, adminapp.ErrNotFound
}

func newTestServer(t *testing.T, jwtCfg config.JWTConfig, pingErr error) *Server {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	return &Server{
		logger:         logger,
		allowedOrigins: []string{"https://electrifydmv.org"},
		adminJWT:       jwtCfg,
		metrics:        metrics,
		publicHandler:  publichttp.NewHandler(publichttp.Config{Logger: logger}),
		adminHandler:   adminhttp.NewHandler(adminhttp.Config{Logger: logger, ContractorService: emptyAdminService{}}),
		ping:           func(context.Context) error { return pingErr },
		now:            func() time.Time { return fixedNow },
	}
}

func adminConfig() config.JWTConfig {
	return config.JWTConfig{Issuer: "electrify-dmv-admin", Audience: "directory-admin", Secret: testSecret}
}

func signToken(t *testing.T, method jwt.SigningMethod, claims authClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(testSecret)
	require.NoError(t, err)
	return token
}

func validClaims() authClaims {
	return authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			Issuer:    "electrify-dmv-admin",
			Audience:  jwt.ClaimStrings{"directory-admin"},
			ExpiresAt: jwt.NewNumericDate(fixedNow.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(fixedNow.Add(-time.Minute)),
		},
		Name: "Reviewer",
	}
}

func serve(t *testing.T, handler http.Handler, method, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := serve(t, newTestServer(t, config.JWTConfig{}, nil).routes(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = serve(t, newTestServer(t, config.JWTConfig{}, errors.New("no primary")).routes(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "no primary")
}

func TestPublicRoutesMountedUnderAPI(t *testing.T) {
	handler := newTestServer(t, config.JWTConfig{}, nil).routes()

	rec := serve(t, handler, http.MethodGet, "/api/taxonomy", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "states")

	rec = serve(t, handler, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `directory_http_requests_total{method="GET",route="/api/taxonomy",status="200"} 1`)
}

func TestAdminRoutesDisabledWithoutSecret(t *testing.T) {
	rec := serve(t, newTestServer(t, config.JWTConfig{}, nil).routes(), http.MethodGet, "/admin/contractors", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminAuth(t *testing.T) {
	handler := newTestServer(t, adminConfig(), nil).routes()

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"public-site"}
	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(fixedNow.Add(-time.Hour))
	noSubject := validClaims()
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "valid", token: signToken(t, jwt.SigningMethodHS256, validClaims()), want: http.StatusOK},
		{name: "missing", token: "", want: http.StatusUnauthorized},
		{name: "garbage", token: "not-a-jwt", want: http.StatusUnauthorized},
		{name: "wrong issuer", token: signToken(t, jwt.SigningMethodHS256, wrongIssuer), want: http.StatusUnauthorized},
		{name: "wrong audience", token: signToken(t, jwt.SigningMethodHS256, wrongAudience), want: http.StatusUnauthorized},
		{name: "expired", token: signToken(t, jwt.SigningMethodHS256, expired), want: http.StatusUnauthorized},
		{name: "no subject", token: signToken(t, jwt.SigningMethodHS256, noSubject), want: http.StatusUnauthorized},
		{name: "other algorithm", token: signToken(t, jwt.SigningMethodHS512, validClaims()), want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, handler, http.MethodGet, "/admin/contractors", tt.token)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestAdminAuthRejectsNonBearerScheme(t *testing.T) {
	handler := newTestServer(t, adminConfig(), nil).routes()
	req := httptest.NewRequest(http.MethodGet, "/admin/contractors", nil)
	req.Header.Set("Authorization", "Basic YWRtaW46YWRtaW4=")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bearer")
}

func TestWithCORS(t *testing.T) {
	handler := newTestServer(t, config.JWTConfig{}, nil).routes()

	req := httptest.NewRequest(http.MethodOptions, "/api/contractors", nil)
	req.Header.Set("Origin", "https://electrifydmv.org")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://electrifydmv.org", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/taxonomy", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCollectionsFrom(t *testing.T) {
	cols := collectionsFrom(config.Config{
		ContractorCollection:         "contractors",
		StateCollection:              "states",
		ServiceCollection:            "services",
		CertificationCollection:      "certifications",
		ZipCollection:                "zip_codes",
		FailedNotificationCollection: "failed_notifications",
	})
	assert.Equal(t, "zip_codes", cols.ZipCodes)
	assert.Equal(t, "failed_notifications", cols.FailedNotifications)
	assert.Equal(t, "certifications", cols.Certifications)
}

func TestNewNotifierRequiresEndpoint(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	assert.Nil(t, newNotifier(config.Config{DiscordDestination: "discord"}, logger, nil))
	assert.NotNil(t, newNotifier(config.Config{MessengerEndpoint: "http://gateway:3000/", DiscordDestination: "discord"}, logger, nil))
}

func TestPrepareDatabaseSeedsVocabulary(t *testing.T) {
	var out bytes.Buffer
	srv := newTestServer(t, config.JWTConfig{}, nil)
	srv.logger = log.New(&out, "", 0)

	var calls []string
	srv.ensureIndexes = func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		calls = append(calls, "indexes")
		return errors.New("index build failed")
	}
	srv.seedVocabulary = func(context.Context) (int, error) {
		calls = append(calls, "vocabulary")
		return 14, nil
	}

	srv.prepareDatabase(context.Background())
	assert.Equal(t, []string{"indexes", "vocabulary"}, calls)
	assert.Contains(t, out.String(), "failed to ensure indexes: index build failed")
	assert.Contains(t, out.String(), "vocabulary synced: 14 entries")
}
