package handler

import (
	"net/http"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.ListTenants())
}

func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var t models.Tenant
	if !h.decode(w, r, &t) {
		return
	}
	t.ID = ""
	created, err := h.svc.SaveTenant(t)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetTenant(pathID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	var t models.Tenant
	if !h.decode(w, r, &t) {
		return
	}
	t.ID = pathID(r)
	updated, err := h.svc.SaveTenant(t)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTenant(pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ArchiveTenant ends a lease without deleting the tenant's history
func (h *Handler) ArchiveTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.ArchiveTenant(pathID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

func (h *Handler) RecalculateTenant(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.RecalculateBalance(pathID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

// TenantStatement returns the tenant's ledger as an XML document
func (h *Handler) TenantStatement(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Statement(pathID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write(b)
}
