package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/challenge-tracker/internal/domain"
	"github.com/challenge-tracker/internal/service"
)

// Handler provides HTTP handlers for the challenge API
type Handler struct {
	challenge *service.ChallengeService
	auth      *service.AuthService
	logger    *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(challenge *service.ChallengeService, auth *service.AuthService, logger *slog.Logger) *Handler {
	return &Handler{
		challenge: challenge,
		auth:      auth,
		logger:    logger,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type contextKey string

const userIDKey contextKey = "user_id"

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	// Health check
	r.Get("/health", h.HealthCheck)
	r.Get("/ready", h.ReadyCheck)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Put("/register-user", h.RegisterUser)
		r.Post("/login", h.Login)

		// Session-key protected routes
		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware)

			r.Post("/logout", h.Logout)
			r.Put("/log-activity", h.LogActivity)
			r.Get("/calendar", h.GetCalendar)
			r.Get("/achievements", h.GetAchievements)
			r.Get("/leaderboard", h.GetLeaderboard)
			r.Get("/current-day", h.GetCurrentDay)
		})
	})

	return r
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware resolves the Authorization session key to a user id and
// stores it on the request context.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionKey := r.Header.Get("Authorization")
		if sessionKey == "" {
			h.writeError(w, http.StatusUnauthorized, domain.ErrSessionNotFound)
			return
		}

		userID, err := h.auth.Authenticate(r.Context(), sessionKey)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				h.writeError(w, http.StatusUnauthorized, err)
				return
			}
			h.logger.Error("failed to authenticate session", "error", err)
			h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeSuccess writes a successful JSON response
func (h *Handler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeError writes an error JSON response
func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   err.Error(),
	})
}

// writeDomainError maps a domain error to an HTTP status
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrDuplicateEntry), errors.Is(err, domain.ErrUserExists):
		h.writeError(w, http.StatusConflict, err)
	case domain.IsRejection(err):
		h.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrSessionNotFound):
		h.writeError(w, http.StatusUnauthorized, err)
	case domain.IsNotFoundError(err):
		h.writeError(w, http.StatusNotFound, err)
	default:
		h.logger.Error("request failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, domain.ErrInternalError)
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "healthy"})
}

// ReadyCheck returns service readiness status
func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]string{"status": "ready"})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	SessionKey string `json:"session_key"`
}

// RegisterUser creates a user account and returns a session key
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	sessionKey, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    sessionResponse{SessionKey: sessionKey},
	})
}

// Login verifies credentials and returns a session key
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	sessionKey, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, sessionResponse{SessionKey: sessionKey})
}

// Logout invalidates the caller's session key
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), r.Header.Get("Authorization")); err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, map[string]string{"status": "logged out"})
}

type logActivityRequest struct {
	Day      int             `json:"day"`
	Activity domain.Activity `json:"activity"`
	Distance float64         `json:"distance"`
}

type logActivityResponse struct {
	Record       *domain.ActivityRecord     `json:"record"`
	Achievements *domain.AchievementSummary `json:"achievements"`
}

// LogActivity records one activity for the authenticated user and returns
// the scored record together with the refreshed achievement summary.
func (h *Handler) LogActivity(w http.ResponseWriter, r *http.Request) {
	var req logActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, domain.ErrInvalidRequest)
		return
	}

	record, err := h.challenge.LogActivity(r.Context(), userID(r), req.Day, req.Activity, req.Distance)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	summary, err := h.challenge.EvaluateAchievements(r.Context(), userID(r))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, logActivityResponse{
		Record:       record,
		Achievements: summary,
	})
}

type calendarResponse struct {
	CurrentDay          int                       `json:"current_day"`
	AvailableActivities [][]domain.ActivityTarget `json:"available_activities,omitempty"`
	LoggedActivities    []domain.ActivityRecord   `json:"logged_activities,omitempty"`
}

// GetCalendar returns the challenge calendar. Query flags select what is
// included: get_available_activities adds the per-day scaled targets,
// get_logged_activities adds the user's own records.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	resp := calendarResponse{CurrentDay: h.challenge.CurrentDay()}

	if r.URL.Query().Has("get_available_activities") {
		available := make([][]domain.ActivityTarget, 0, h.challenge.LastDay()+1)
		for day := 0; day <= h.challenge.LastDay(); day++ {
			targets, err := h.challenge.AvailableActivitiesForDay(r.Context(), day)
			if err != nil {
				h.writeDomainError(w, err)
				return
			}
			available = append(available, targets)
		}
		resp.AvailableActivities = available
	}

	if r.URL.Query().Has("get_logged_activities") {
		records, err := h.challenge.LoggedActivities(r.Context(), userID(r))
		if err != nil {
			h.writeDomainError(w, err)
			return
		}
		resp.LoggedActivities = records
	}

	h.writeSuccess(w, resp)
}

// GetAchievements evaluates the full catalog for the authenticated user
func (h *Handler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	summary, err := h.challenge.EvaluateAchievements(r.Context(), userID(r))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	h.writeSuccess(w, summary)
}

// GetLeaderboard returns the full board, optionally sliced from a start offset
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	info, err := h.challenge.BuildLeaderboard(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	start := 0
	if startStr := r.URL.Query().Get("start"); startStr != "" {
		if s, err := strconv.Atoi(startStr); err == nil && s >= 0 {
			start = s
		}
	}
	if start > len(info.Details) {
		start = len(info.Details)
	}
	info.StartOfRange = start
	info.Details = info.Details[start:]

	h.writeSuccess(w, info)
}

// GetCurrentDay returns today's clamped day index
func (h *Handler) GetCurrentDay(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, map[string]int{"current_day": h.challenge.CurrentDay()})
}
