// Package api exposes shopper carts over JSON/HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	"storefront/pkg/cart"
	"storefront/pkg/cart/session"
	"storefront/pkg/logger"
	"storefront/pkg/otel"
)

// SessionCookie names the cookie carrying the cart session id.
const SessionCookie = "cart_session"

const sessionTTL = 30 * 24 * time.Hour

type storeKey struct{}

// Handler serves the cart endpoints.
type Handler struct {
	sessions *session.Registry
	policy   cart.ShippingPolicy
	log      *logger.Logger
	tracer   trace.Tracer
}

// New creates a Handler.
func New(sessions *session.Registry, policy cart.ShippingPolicy, log *logger.Logger, tracer trace.Tracer) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{sessions: sessions, policy: policy, log: log, tracer: tracer}
}

// Router builds the route table.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.traceMiddleware)
	r.HandleFunc("/session", h.createSession).Methods(http.MethodPost)

	api := r.PathPrefix("/cart").Subrouter()
	api.Use(h.sessionMiddleware)
	api.HandleFunc("", h.getCart).Methods(http.MethodGet)
	api.HandleFunc("", h.clearCart).Methods(http.MethodDelete)
	api.HandleFunc("/events", h.streamCart).Methods(http.MethodGet)
	api.HandleFunc("/items", h.addItem).Methods(http.MethodPost)
	api.HandleFunc("/items/{id}", h.updateQuantity).Methods(http.MethodPut)
	api.HandleFunc("/items/{id}", h.removeItem).Methods(http.MethodDelete)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)
	return r
}

func (h *Handler) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), h.tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionMiddleware resolves the shopper's cart from the session cookie.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(SessionCookie)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "no_session", "missing cart session")
			return
		}
		store, err := h.sessions.Get(r.Context(), c.Value)
		if errors.Is(err, session.ErrInvalidID) {
			respondError(w, http.StatusUnauthorized, "invalid_session", err.Error())
			return
		}
		if err != nil {
			h.log.Error(r.Context(), "open cart session", "error", err)
			respondError(w, http.StatusInternalServerError, "session_error", "could not open cart")
			return
		}
		ctx := context.WithValue(r.Context(), storeKey{}, store)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func storeFrom(ctx context.Context) *cart.Store {
	return ctx.Value(storeKey{}).(*cart.Store)
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{Error: code, Details: details})
}
