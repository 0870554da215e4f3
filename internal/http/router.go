package httpx

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crow-lk/dream-builders-hub/internal/catalog"
	"github.com/crow-lk/dream-builders-hub/internal/domain"
	"github.com/crow-lk/dream-builders-hub/internal/service/auth"
	"github.com/crow-lk/dream-builders-hub/internal/service/estimate"
	"github.com/crow-lk/dream-builders-hub/internal/service/listing"
	"github.com/crow-lk/dream-builders-hub/internal/ws"
)

// packageListPath is where clients should land when a package id misses.
const packageListPath = "/packages"

// Router wires HTTP endpoints to services.
type Router struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	auth      auth.Service
	listings  listing.Service
	estimates estimate.Service
	upgrader  websocket.Upgrader
	limiter   RateLimiter
	dbHealth  func(context.Context) error

	metricsOnce        sync.Once
	metricsInitialized bool
	requestTotal       *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	rateLimitHits      *prometheus.CounterVec
}

const (
	rateWindowDefault  = time.Minute
	rateLimitLogin     = 10
	rateLimitPublic    = 240
	rateLimitAdmin     = 120
	healthCheckTimeout = 2 * time.Second
)

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, listingSvc listing.Service, estimateSvc estimate.Service, limiter RateLimiter, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:       http.NewServeMux(),
		logger:    logger,
		auth:      authSvc,
		listings:  listingSvc,
		estimates: estimateSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		limiter:  limiter,
		dbHealth: dbHealth,
	}
	if r.limiter == nil {
		r.limiter = NewMemoryRateLimiter()
	}
	r.initMetrics()
	r.register()
	return r
}

// ServeHTTP delegates to underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close releases background resources.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Close()
	}
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.audit("healthz", r.handleHealthz))
	r.mux.Handle("/metrics", promhttp.Handler())
	r.mux.HandleFunc("/auth/login", r.audit("auth_login", r.withRateLimit("auth_login", rateLimitLogin, rateWindowDefault, rateLimitKeyIP, r.handleLogin)))
	r.mux.HandleFunc("/auth/logout", r.audit("auth_logout", r.requireAuth(r.handleLogout)))
	r.mux.HandleFunc("/auth/session", r.audit("auth_session", r.requireAuth(r.handleSession)))
	r.mux.HandleFunc("/api/packages", r.audit("packages", r.withRateLimit("packages", rateLimitPublic, rateWindowDefault, rateLimitKeyIP, r.handlePackages)))
	r.mux.HandleFunc("/api/packages/", r.audit("package_detail", r.withRateLimit("package_detail", rateLimitPublic, rateWindowDefault, rateLimitKeyIP, r.handlePackageDetail)))
	r.mux.HandleFunc("/api/estimate", r.audit("estimate", r.withRateLimit("estimate", rateLimitPublic, rateWindowDefault, rateLimitKeyIP, r.handleEstimate)))
	r.mux.HandleFunc("/ws/estimate", r.audit("estimate_ws", r.handleEstimateWS))
	r.mux.HandleFunc("/api/consultants", r.audit("consultants", r.withRateLimit("consultants", rateLimitPublic, rateWindowDefault, rateLimitKeyIP, r.handleConsultants)))
	r.mux.HandleFunc("/api/hardware", r.audit("hardware", r.withRateLimit("hardware", rateLimitPublic, rateWindowDefault, rateLimitKeyIP, r.handleHardware)))
	r.mux.HandleFunc("/api/admin/consultants/", r.audit("admin_consultants", r.handlerAdminRate("admin_consultants", rateLimitAdmin, rateWindowDefault, r.handleAdminConsultant)))
	r.mux.HandleFunc("/api/admin/hardware/", r.audit("admin_hardware", r.handlerAdminRate("admin_hardware", rateLimitAdmin, rateWindowDefault, r.handleAdminHardware)))
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, session, err := r.auth.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, auth.ErrRoleDenied):
			writeError(w, http.StatusForbidden, "you do not have admin privileges")
		default:
			writeError(w, http.StatusInternalServerError, "login unavailable")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":    user.ID,
			"email": user.Email,
		},
		"token":      session.Token,
		"expires_in": int64(session.ExpiresIn.Seconds()),
	})
}

func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	bearer, err := bearerToken(req.Header.Get("Authorization"))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	if err := r.auth.SignOut(req.Context(), bearer); err != nil {
		writeError(w, http.StatusInternalServerError, "sign out failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (r *Router) handleSession(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for session route", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":    info.UserID,
			"email": info.Email,
		},
	})
}

func (r *Router) handlePackages(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"packages": catalog.List()})
}

func (r *Router) handlePackageDetail(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(req.URL.Path, "/api/packages/")
	if id == "" || strings.Contains(id, "/") {
		r.redirectNotFound(w)
		return
	}
	pkg, err := catalog.Find(id)
	if err != nil {
		r.redirectNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

type estimateRequest struct {
	PackageID string `json:"package_id"`
	Area      int64  `json:"area"`
}

func (r *Router) handleEstimate(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload estimateRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	quote, err := r.estimates.EstimateByID(payload.PackageID, payload.Area)
	if err != nil {
		r.redirectNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// handleEstimateWS keeps a live quote channel open: every inbound
// {package_id, area} frame is answered with a freshly computed quote.
func (r *Router) handleEstimateWS(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	client := ws.NewClient(conn, r.logger)
	defer client.Close()
	for {
		var payload estimateRequest
		if err := client.ReadJSON(&payload); err != nil {
			return
		}
		quote, err := r.estimates.EstimateByID(payload.PackageID, payload.Area)
		if err != nil {
			if sendErr := client.SendJSON(map[string]string{
				"error":    "package not found",
				"redirect": packageListPath,
			}); sendErr != nil {
				return
			}
			continue
		}
		if err := client.SendJSON(quote); err != nil {
			return
		}
	}
}

func (r *Router) handleConsultants(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	consultants, err := r.listings.Consultants(req.Context())
	if err != nil {
		// Degrade to an empty listing rather than surfacing the failure.
		writeJSON(w, http.StatusOK, map[string]any{
			"consultants": []any{},
			"degraded":    true,
		})
		return
	}
	if consultants == nil {
		consultants = []domain.Consultant{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"consultants": consultants,
		"degraded":    false,
	})
}

func (r *Router) handleHardware(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	items, err := r.listings.HardwareItems(req.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"items":      []any{},
			"categories": []any{},
			"degraded":   true,
		})
		return
	}
	var category *string
	if c := req.URL.Query().Get("category"); c != "" {
		category = &c
	}
	sortKey := req.URL.Query().Get("sort")
	if sortKey == "" {
		sortKey = listing.SortByRating
	}
	filtered := listing.SortHardware(listing.FilterByCategory(items, category), sortKey)
	if filtered == nil {
		filtered = []domain.HardwareItem{}
	}
	categories := listing.Categories(items)
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":      filtered,
		"categories": categories,
		"degraded":   false,
	})
}

type fieldUpdateRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

func (r *Router) handleAdminConsultant(w http.ResponseWriter, req *http.Request) {
	id, payload, ok := r.decodeFieldUpdate(w, req, "/api/admin/consultants/")
	if !ok {
		return
	}
	if err := r.listings.UpdateConsultantField(req.Context(), id, payload.Field, payload.Value); err != nil {
		writeError(w, http.StatusBadRequest, updateMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (r *Router) handleAdminHardware(w http.ResponseWriter, req *http.Request) {
	id, payload, ok := r.decodeFieldUpdate(w, req, "/api/admin/hardware/")
	if !ok {
		return
	}
	if err := r.listings.UpdateHardwareField(req.Context(), id, payload.Field, payload.Value); err != nil {
		writeError(w, http.StatusBadRequest, updateMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (r *Router) decodeFieldUpdate(w http.ResponseWriter, req *http.Request, prefix string) (string, fieldUpdateRequest, bool) {
	if req.Method != http.MethodPatch {
		r.methodNotAllowed(w)
		return "", fieldUpdateRequest{}, false
	}
	id := strings.TrimPrefix(req.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		r.notFound(w)
		return "", fieldUpdateRequest{}, false
	}
	var payload fieldUpdateRequest
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return "", fieldUpdateRequest{}, false
	}
	if strings.TrimSpace(payload.Field) == "" {
		writeError(w, http.StatusBadRequest, "field is required")
		return "", fieldUpdateRequest{}, false
	}
	return id, payload, true
}

// updateMessage strips the sentinel prefix so the operator sees a short
// human-readable reason.
func updateMessage(err error) string {
	msg := err.Error()
	if cut, ok := strings.CutPrefix(msg, listing.ErrUpdateFailed.Error()+": "); ok {
		return cut
	}
	return msg
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

func (r *Router) audit(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w}
		start := time.Now()
		next(recorder, req)

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}
		ctx := recorder.ctx
		if ctx == nil {
			ctx = req.Context()
		}
		duration := time.Since(start)
		r.recordRequestMetrics(req.Method, route, status, duration)
		actor := "anonymous"
		fields := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"status", status,
			"bytes", recorder.bytes,
			"duration_ms", duration.Milliseconds(),
		}
		if ip := clientIP(req); ip != "" {
			fields = append(fields, "ip", ip)
		}
		if reqID := strings.TrimSpace(req.Header.Get("X-Request-ID")); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if info, ok := authInfoFromContext(ctx); ok {
			actor = "admin"
			fields = append(fields, "user_id", info.UserID)
		}
		fields = append(fields, "actor", actor)

		switch {
		case status >= http.StatusInternalServerError:
			r.logger.Error("http_request", fields...)
		case status >= http.StatusBadRequest:
			r.logger.Warn("http_request", fields...)
		default:
			r.logger.Info("http_request", fields...)
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	ctx    context.Context
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) SetContext(ctx context.Context) {
	sr.ctx = ctx
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := sr.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, errors.New("hijacker not supported")
}

func clientIP(req *http.Request) string {
	if forwarded := strings.TrimSpace(req.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			ip := strings.TrimSpace(parts[0])
			if ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(req.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(req.RemoteAddr)
	}
	return host
}

func (r *Router) applyRateHeaders(w http.ResponseWriter, limit int, decision rateDecision) {
	if limit <= 0 {
		return
	}
	remaining := limit - decision.count
	if remaining < 0 {
		remaining = 0
	}
	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	if !decision.windowEnd.IsZero() {
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.windowEnd.Unix(), 10))
	}
}

func (r *Router) redirectNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error":    "package not found",
		"redirect": packageListPath,
	})
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}
