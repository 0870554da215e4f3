package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/crow-lk/dream-builders-hub/internal/config"
	"github.com/crow-lk/dream-builders-hub/internal/crypto"
	"github.com/crow-lk/dream-builders-hub/internal/domain"
	"github.com/crow-lk/dream-builders-hub/internal/repository"
	"github.com/crow-lk/dream-builders-hub/internal/service/auth"
	"github.com/crow-lk/dream-builders-hub/internal/service/estimate"
	"github.com/crow-lk/dream-builders-hub/internal/service/listing"
)

type listingRepoStub struct {
	consultants []domain.Consultant
	hardware    []domain.HardwareItem
	listErr     error
	listCalls   int
	updates     []string
}

func (s *listingRepoStub) ListConsultants(ctx context.Context) ([]domain.Consultant, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.Consultant(nil), s.consultants...), nil
}

func (s *listingRepoStub) ListHardwareItems(ctx context.Context) ([]domain.HardwareItem, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.HardwareItem(nil), s.hardware...), nil
}

func (s *listingRepoStub) UpdateConsultantField(ctx context.Context, id, field string, value any) error {
	s.updates = append(s.updates, "consultant:"+id+":"+field)
	return nil
}

func (s *listingRepoStub) UpdateHardwareField(ctx context.Context, id, field string, value any) error {
	s.updates = append(s.updates, "hardware:"+id+":"+field)
	return nil
}

type userRepoStub struct {
	user  *domain.User
	admin bool
}

func (s *userRepoStub) CreateUser(ctx context.Context, user *domain.User) error { return nil }

func (s *userRepoStub) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, repository.ErrNotFound
}

func (s *userRepoStub) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, repository.ErrNotFound
}

func (s *userRepoStub) HasRole(ctx context.Context, userID, role string) (bool, error) {
	return s.admin && role == domain.RoleAdmin, nil
}

func (s *userRepoStub) GrantRole(ctx context.Context, userID, role string) error { return nil }

type sessionRepoStub struct {
	revoked map[string]time.Time
}

func (s *sessionRepoStub) RevokeToken(ctx context.Context, jti string, until time.Time) error {
	if s.revoked == nil {
		s.revoked = make(map[string]time.Time)
	}
	s.revoked[jti] = until
	return nil
}

func (s *sessionRepoStub) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	_, ok := s.revoked[jti]
	return ok, nil
}

func setupRouter(t *testing.T, listings *listingRepoStub, users *userRepoStub) (*Router, string) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.APIConfig{JWTSecret: "test-secret", SessionTokenTTL: time.Hour, MinBuildArea: 100}

	authSvc := auth.New(users, &sessionRepoStub{}, log, cfg)
	listingSvc := listing.New(listings, log)
	estimateSvc := estimate.New(log, cfg)

	router := NewRouter(log, authSvc, listingSvc, estimateSvc, NewMemoryRateLimiter(), nil)
	t.Cleanup(router.Close)

	var bearer string
	if users.user != nil && users.admin {
		_, session, err := authSvc.Login(context.Background(), users.user.Email, "hunter22")
		if err != nil {
			t.Fatalf("login for test token: %v", err)
		}
		bearer = session.Token
	}
	return router, bearer
}

func adminAccount(t *testing.T) *domain.User {
	t.Helper()
	hash, err := crypto.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return &domain.User{ID: "user-1", Email: "admin@example.com", PasswordHash: hash, CreatedAt: time.Now()}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestAdminRouteWithoutTokenNoFetch(t *testing.T) {
	listings := &listingRepoStub{}
	router, _ := setupRouter(t, listings, &userRepoStub{})

	payload := bytes.NewBufferString(`{"field":"rating","value":4.5}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/hardware/h1", payload)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if listings.listCalls != 0 || len(listings.updates) != 0 {
		t.Fatal("store was touched before authorization")
	}
}

func TestAdminRouteRoleDenied(t *testing.T) {
	user := adminAccount(t)
	users := &userRepoStub{user: user, admin: true}
	listings := &listingRepoStub{}
	router, bearer := setupRouter(t, listings, users)

	// Revoke the role after the token was issued; the per-request check decides.
	users.admin = false

	payload := bytes.NewBufferString(`{"field":"rating","value":4.5}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/hardware/h1", payload)
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if len(listings.updates) != 0 {
		t.Fatal("update reached the store without the admin role")
	}
}

func TestAdminUpdateSuccess(t *testing.T) {
	users := &userRepoStub{user: adminAccount(t), admin: true}
	listings := &listingRepoStub{}
	router, bearer := setupRouter(t, listings, users)

	payload := bytes.NewBufferString(`{"field":"rating","value":4.8}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/hardware/h1", payload)
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(listings.updates) != 1 || listings.updates[0] != "hardware:h1:rating" {
		t.Fatalf("unexpected store writes: %v", listings.updates)
	}
}

func TestAdminUpdateRatingOutOfRange(t *testing.T) {
	users := &userRepoStub{user: adminAccount(t), admin: true}
	listings := &listingRepoStub{}
	router, bearer := setupRouter(t, listings, users)

	payload := bytes.NewBufferString(`{"field":"rating","value":9}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/consultants/c1", payload)
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(listings.updates) != 0 {
		t.Fatal("invalid rating reached the store")
	}
}

func TestLoginWithoutAdminRoleForbidden(t *testing.T) {
	users := &userRepoStub{user: adminAccount(t), admin: false}
	router, _ := setupRouter(t, &listingRepoStub{}, users)

	payload := bytes.NewBufferString(`{"email":"admin@example.com","password":"hunter22"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", payload)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestConsultantsDegradedResponse(t *testing.T) {
	listings := &listingRepoStub{listErr: errors.New("connection refused")}
	router, _ := setupRouter(t, listings, &userRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/consultants", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected degraded 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if degraded, _ := body["degraded"].(bool); !degraded {
		t.Fatalf("expected degraded flag, got %v", body)
	}
	if items, ok := body["consultants"].([]any); !ok || len(items) != 0 {
		t.Fatalf("expected empty consultant list, got %v", body["consultants"])
	}
}

func TestHardwareFilterAndSort(t *testing.T) {
	listings := &listingRepoStub{hardware: []domain.HardwareItem{
		{ID: "h1", Name: "B", Category: "Cement", Rating: 4.0},
		{ID: "h2", Name: "A", Category: "Cement", Rating: 4.5},
		{ID: "h3", Name: "C", Category: "Steel", Rating: 5.0},
	}}
	router, _ := setupRouter(t, listings, &userRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/hardware?category=Cement&sort=name", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	items, ok := body["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected 2 cement items, got %v", body["items"])
	}
	first := items[0].(map[string]any)
	if first["name"] != "A" {
		t.Fatalf("expected name-ascending order, got %v", items)
	}
	categories, _ := body["categories"].([]any)
	if len(categories) != 2 {
		t.Fatalf("expected both categories listed, got %v", categories)
	}
}

func TestPackageDetailRedirectHint(t *testing.T) {
	router, _ := setupRouter(t, &listingRepoStub{}, &userRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/packages/nonexistent", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["redirect"] != packageListPath {
		t.Fatalf("expected redirect hint to %s, got %v", packageListPath, body)
	}
}

func TestEstimateEndpointClampsArea(t *testing.T) {
	router, _ := setupRouter(t, &listingRepoStub{}, &userRepoStub{})

	payload := bytes.NewBufferString(`{"package_id":"budget-home-2","area":-50}`)
	req := httptest.NewRequest(http.MethodPost, "/api/estimate", payload)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if area, _ := body["area_sqft"].(float64); area != 100 {
		t.Fatalf("expected clamped area 100, got %v", body["area_sqft"])
	}
	if body["formatted_total"] != "LKR 1,200,000" {
		t.Fatalf("unexpected formatted total: %v", body["formatted_total"])
	}
}

func TestPackagesListed(t *testing.T) {
	router, _ := setupRouter(t, &listingRepoStub{}, &userRepoStub{})

	req := httptest.NewRequest(http.MethodGet, "/api/packages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	pkgs, ok := body["packages"].([]any)
	if !ok || len(pkgs) != 4 {
		t.Fatalf("expected 4 packages, got %v", body["packages"])
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	users := &userRepoStub{user: adminAccount(t), admin: true}
	router, bearer := setupRouter(t, &listingRepoStub{}, users)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+bearer)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}
