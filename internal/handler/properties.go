package handler

import (
	"net/http"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.ListProperties())
}

func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var p models.Property
	if !h.decode(w, r, &p) {
		return
	}
	created, err := h.svc.AddProperty(p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProperty(pathID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	var p models.Property
	if !h.decode(w, r, &p) {
		return
	}
	p.ID = pathID(r)
	updated, err := h.svc.UpdateProperty(p)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteProperty removes the property and everything scoped to it
func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProperty(pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
