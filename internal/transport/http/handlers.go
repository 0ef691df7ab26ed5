// Copyright 2026 The PostBoy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/postboy/postboy/internal/admin"
	"github.com/postboy/postboy/internal/audit"
	"github.com/postboy/postboy/internal/authz"
	"github.com/postboy/postboy/internal/collection"
	"github.com/postboy/postboy/internal/identity"
	"github.com/postboy/postboy/internal/session"
	"github.com/postboy/postboy/internal/workspace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	identityService   *identity.Service
	sessionService    *session.Service
	workspaceService  *workspace.Service
	collectionService *collection.Service
	adminService      *admin.Service
	auditLogger       audit.Logger
	sessionConfig     SessionConfig
}

// SessionConfig holds session cookie configuration
type SessionConfig struct {
	CookieName     string
	CookieDomain   string
	CookiePath     string
	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite http.SameSite
	CookieMaxAge   int
}

// NewHandler creates a new HTTP handler
func NewHandler(
	identityService *identity.Service,
	sessionService *session.Service,
	workspaceService *workspace.Service,
	collectionService *collection.Service,
	adminService *admin.Service,
	auditLogger audit.Logger,
	sessionConfig SessionConfig,
) *Handler {
	return &Handler{
		identityService:   identityService,
		sessionService:    sessionService,
		workspaceService:  workspaceService,
		collectionService: collectionService,
		adminService:      adminService,
		auditLogger:       auditLogger,
		sessionConfig:     sessionConfig,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)

			r.Get("/auth/me", h.GetCurrentUser)
			r.Post("/auth/change-password", h.ChangePassword)

			r.Route("/workspaces", func(r chi.Router) {
				r.Post("/", h.CreateWorkspace)
				r.Get("/", h.ListWorkspaces)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Get("/", h.GetWorkspace)
					r.Put("/", h.UpdateWorkspace)
					r.Delete("/", h.DeleteWorkspace)

					r.Get("/members", h.ListMembers)
					r.Put("/members/{userID}/role", h.UpdateMemberRole)
					r.Delete("/members/{userID}", h.RemoveMember)
					r.Post("/leave", h.LeaveWorkspace)
					r.Post("/invites", h.InviteMember)
					r.Get("/permissions", h.GetPermissions)

					r.Post("/collections", h.CreateCollection)
					r.Get("/collections", h.ListCollections)
				})
			})

			r.Post("/invites/accept", h.AcceptInvite)

			r.Route("/collections/{collectionID}", func(r chi.Router) {
				r.Put("/", h.UpdateCollection)
				r.Delete("/", h.DeleteCollection)
				r.Post("/requests", h.CreateRequest)
				r.Get("/requests", h.ListRequests)
			})

			r.Route("/requests/{requestID}", func(r chi.Router) {
				r.Put("/", h.UpdateRequest)
				r.Delete("/", h.DeleteRequest)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Get("/stats", h.AdminStats)
				r.Get("/users", h.AdminListUsers)
				r.Post("/users/{userID}/promote", h.AdminPromoteUser)
			})
		})
	})

	return r
}

// HealthCheck returns the health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "postboy",
	})
}

// Cookie helpers

func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.sessionConfig.CookieName,
		Value:    sessionID,
		Path:     h.sessionConfig.CookiePath,
		Domain:   h.sessionConfig.CookieDomain,
		Secure:   h.sessionConfig.CookieSecure,
		HttpOnly: h.sessionConfig.CookieHTTPOnly,
		SameSite: h.sessionConfig.CookieSameSite,
		MaxAge:   h.sessionConfig.CookieMaxAge,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   h.sessionConfig.CookieName,
		Value:  "",
		Path:   h.sessionConfig.CookiePath,
		Domain: h.sessionConfig.CookieDomain,
		MaxAge: -1,
	})
}

func (h *Handler) getSessionFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(h.sessionConfig.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Response helpers. Every response carries a success flag; failures
// additionally carry a human-readable message.

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondData(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, map[string]any{
		"success": true,
		"data":    data,
	})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"success": true,
		"message": message,
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// respondServiceError maps domain errors to HTTP statuses. Unknown
// errors become opaque 500s so internals never leak to clients.
func respondServiceError(w http.ResponseWriter, err error) {
	var permDenied *authz.PermissionDeniedError
	var roleTooLow *authz.RoleTooLowError
	var invariant *workspace.InvariantError

	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, authz.ErrNotAMember),
		errors.Is(err, authz.ErrNotOwner),
		errors.Is(err, admin.ErrNotPlatformAdmin),
		errors.As(err, &permDenied),
		errors.As(err, &roleTooLow):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, workspace.ErrWorkspaceNotFound),
		errors.Is(err, workspace.ErrMemberNotFound),
		errors.Is(err, collection.ErrCollectionNotFound),
		errors.Is(err, collection.ErrRequestNotFound),
		errors.Is(err, identity.ErrUserNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, workspace.ErrAlreadyMember):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &invariant):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, workspace.ErrInvalidRole),
		errors.Is(err, workspace.ErrInvalidInvite):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func getIPAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
