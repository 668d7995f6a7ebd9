package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pharmacart/m/domain"
	"pharmacart/m/internal/store"
)

// Catalog

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{
		Category:    r.URL.Query().Get("category"),
		Query:       r.URL.Query().Get("query"),
		InStockOnly: true,
	}
	medicines, err := h.medicines.List(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	medicine, err := h.medicines.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "unable to load medicine")
		return
	}
	respondJSON(w, http.StatusOK, medicine)
}

// Cart

func (h *Handler) listCart(w http.ResponseWriter, r *http.Request) {
	items, err := h.carts.List(r.Context(), userIDFromContext(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load cart")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MedicineID string `json:"medicine_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.MedicineID == "" {
		respondError(w, http.StatusBadRequest, "medicine_id is required")
		return
	}
	item, err := h.carts.Add(r.Context(), userIDFromContext(r), req.MedicineID)
	if err != nil {
		respondStoreError(w, err, "unable to add to cart")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int64 `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}
	err := h.carts.UpdateQuantity(r.Context(), userIDFromContext(r), chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		respondStoreError(w, err, "unable to update quantity")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	err := h.carts.Remove(r.Context(), userIDFromContext(r), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "unable to remove item")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), userIDFromContext(r)); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to clear cart")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Checkout

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Checkout(r.Context(), userIDFromContext(r))
	if err != nil {
		respondStoreError(w, err, "unable to process order")
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// Orders

func isStaff(role string) bool {
	return role == domain.RolePharmacist || role == domain.RoleAdmin || role == domain.RoleSystemAdmin
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	customerID := userIDFromContext(r)
	if isStaff(roleFromContext(r)) {
		customerID = ""
	}
	orders, err := h.orders.List(r.Context(), customerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondStoreError(w, err, "unable to load order")
		return
	}
	if !isStaff(roleFromContext(r)) && order.CustomerID != userIDFromContext(r) {
		respondError(w, http.StatusForbidden, "order does not belong to you")
		return
	}
	respondJSON(w, http.StatusOK, order)
}
