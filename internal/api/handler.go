package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"pharmacart/m/internal/store"
)

type ctxKey string

const (
	ctxUserID ctxKey = "userID"
	ctxRole   ctxKey = "role"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	users     *store.UserStore
	medicines *store.MedicineStore
	carts     *store.CartStore
	orders    *store.OrderStore
	suppliers *store.SupplierStore
	reports   *store.ReportStore
	secret    string
}

// New constructs a Handler with its stores.
func New(db *sqlx.DB, secret string) *Handler {
	return &Handler{
		users:     store.NewUserStore(db),
		medicines: store.NewMedicineStore(db),
		carts:     store.NewCartStore(db),
		orders:    store.NewOrderStore(db),
		suppliers: store.NewSupplierStore(db),
		reports:   store.NewReportStore(db),
		secret:    secret,
	}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // Change "*" to a list of allowed domains (e.g., ["http://localhost:3000"])
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(h.authMiddleware)
			protected.Get("/me", h.me)
			protected.Post("/reset-password", h.resetPassword)
		})
	})

	// Storefront browsing is open; everything else needs a session.
	r.Get("/medicines", h.listMedicines)
	r.Get("/medicines/{id}", h.getMedicine)

	r.Group(func(pr chi.Router) {
		pr.Use(h.authMiddleware)

		pr.Route("/cart", func(r chi.Router) {
			r.Get("/", h.listCart)
			r.Post("/", h.addToCart)
			r.Delete("/", h.clearCart)
			r.Post("/checkout", h.checkout)
			r.Put("/{id}", h.updateCartItem)
			r.Delete("/{id}", h.removeCartItem)
		})

		pr.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Get("/{id}", h.getOrder)
		})

		pr.Route("/profile", func(r chi.Router) {
			r.Get("/", h.getProfile)
			r.Put("/", h.updateProfile)
		})

		pr.Get("/dashboard", h.dashboard)

		pr.Route("/inventory", func(r chi.Router) {
			r.Get("/", h.listInventory)
			r.Post("/{id}/adjust", h.adjustStock)
			r.Get("/expiring", h.expiryAlerts)
			r.Get("/logs", h.inventoryLogs)
		})

		pr.Post("/medicines", h.createMedicine)
		pr.Put("/medicines/{id}", h.updateMedicine)

		pr.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.listSuppliers)
			r.Post("/", h.createSupplier)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) requireRole(w http.ResponseWriter, r *http.Request, allowed ...string) bool {
	role := r.Context().Value(ctxRole)
	if role == nil {
		respondError(w, http.StatusUnauthorized, "missing role")
		return false
	}
	current := role.(string)
	for _, allowedRole := range allowed {
		if current == allowedRole {
			return true
		}
	}
	respondError(w, http.StatusForbidden, "insufficient permissions")
	return false
}

func userIDFromContext(r *http.Request) string {
	if val := r.Context().Value(ctxUserID); val != nil {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

func roleFromContext(r *http.Request) string {
	if val := r.Context().Value(ctxRole); val != nil {
		if role, ok := val.(string); ok {
			return role
		}
	}
	return ""
}

// respondStoreError maps store sentinel errors to HTTP statuses.
func respondStoreError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, "email already exists")
	case errors.Is(err, store.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, store.ErrInsufficientStock):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrPrescriptionRequired):
		respondError(w, http.StatusForbidden, "this medicine requires a prescription")
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
