package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pharmacart/m/domain"
	"pharmacart/m/internal/store"
)

// Dashboard

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RolePharmacist, domain.RoleAdmin, domain.RoleSystemAdmin) {
		return
	}
	stats, err := h.reports.Dashboard(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load dashboard")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Inventory

func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RolePharmacist, domain.RoleAdmin) {
		return
	}
	medicines, err := h.medicines.List(r.Context(), store.ListFilter{Query: r.URL.Query().Get("query")})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list inventory")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RolePharmacist, domain.RoleAdmin) {
		return
	}
	var req struct {
		Change int64 `json:"change"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Change == 0 {
		respondError(w, http.StatusBadRequest, "change must be non-zero")
		return
	}
	newStock, err := h.medicines.AdjustStock(r.Context(), chi.URLParam(r, "id"), req.Change, userIDFromContext(r))
	if err != nil {
		respondStoreError(w, err, "unable to update stock")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "stock updated", "stock_level": newStock})
}

func (h *Handler) expiryAlerts(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RolePharmacist, domain.RoleAdmin) {
		return
	}
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = store.ExpiryWindowDays
	}
	medicines, err := h.medicines.Expiring(r.Context(), days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch alerts")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) inventoryLogs(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RolePharmacist, domain.RoleAdmin) {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	logs, err := h.medicines.Logs(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load inventory logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

// Catalog maintenance

type medicineRequest struct {
	Name                 string  `json:"name"`
	Category             string  `json:"category"`
	Price                float64 `json:"price"`
	StockLevel           int64   `json:"stock_level"`
	RequiresPrescription bool    `json:"requires_prescription"`
	ExpiryDate           *string `json:"expiry_date"`
	Description          string  `json:"description"`
	Manufacturer         string  `json:"manufacturer"`
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleSystemAdmin) {
		return
	}
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.Price < 0 || req.StockLevel < 0 {
		respondError(w, http.StatusBadRequest, "name is required and price and stock_level must be non-negative")
		return
	}
	medicine := domain.Medicine{
		Name:                 req.Name,
		Category:             req.Category,
		Price:                req.Price,
		StockLevel:           req.StockLevel,
		RequiresPrescription: req.RequiresPrescription,
		ExpiryDate:           req.ExpiryDate,
		Description:          req.Description,
		Manufacturer:         req.Manufacturer,
	}
	if err := h.medicines.Create(r.Context(), &medicine); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create medicine")
		return
	}
	respondJSON(w, http.StatusCreated, medicine)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleSystemAdmin) {
		return
	}
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.Price < 0 {
		respondError(w, http.StatusBadRequest, "name is required and price must be non-negative")
		return
	}
	medicine := domain.Medicine{
		ID:                   chi.URLParam(r, "id"),
		Name:                 req.Name,
		Category:             req.Category,
		Price:                req.Price,
		RequiresPrescription: req.RequiresPrescription,
		ExpiryDate:           req.ExpiryDate,
		Description:          req.Description,
		Manufacturer:         req.Manufacturer,
	}
	if err := h.medicines.Update(r.Context(), &medicine); err != nil {
		respondStoreError(w, err, "unable to update medicine")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// Suppliers

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleSystemAdmin) {
		return
	}
	suppliers, err := h.suppliers.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list suppliers")
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin, domain.RoleSystemAdmin) {
		return
	}
	var req struct {
		Name        string  `json:"name"`
		ContactInfo *string `json:"contact_info"`
		Email       *string `json:"email"`
		Address     *string `json:"address"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	supplier := domain.Supplier{Name: req.Name, ContactInfo: req.ContactInfo, Email: req.Email, Address: req.Address}
	if err := h.suppliers.Create(r.Context(), &supplier); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create supplier")
		return
	}
	respondJSON(w, http.StatusCreated, supplier)
}
