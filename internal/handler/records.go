package handler

import (
	"net/http"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

func (h *Handler) ListMaintenance(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.ListMaintenanceRequests())
}

func (h *Handler) CreateMaintenance(w http.ResponseWriter, r *http.Request) {
	var m models.MaintenanceRequest
	if !h.decode(w, r, &m) {
		return
	}
	created, err := h.svc.AddMaintenanceRequest(m)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateMaintenance(w http.ResponseWriter, r *http.Request) {
	var m models.MaintenanceRequest
	if !h.decode(w, r, &m) {
		return
	}
	m.ID = pathID(r)
	updated, err := h.svc.UpdateMaintenanceRequest(m)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteMaintenanceRequest(pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.ListAppointments())
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var a models.Appointment
	if !h.decode(w, r, &a) {
		return
	}
	created, err := h.svc.AddAppointment(a)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var a models.Appointment
	if !h.decode(w, r, &a) {
		return
	}
	a.ID = pathID(r)
	updated, err := h.svc.UpdateAppointment(a)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAppointment(pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
