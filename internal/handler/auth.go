package handler

import (
	"net/http"

	"github.com/arafatrahman/Property-Rental-Management/internal/middleware"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type stateResponse struct {
	State  string `json:"state"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
}

// SignUp creates an account and moves the guest data into it
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !h.decode(w, r, &c) {
		return
	}
	id, err := h.coord.SignUp(r.Context(), c.Email, c.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, id)
}

// SignIn opens a session and loads the account's data
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if !h.decode(w, r, &c) {
		return
	}
	id, err := h.coord.SignIn(r.Context(), c.Email, c.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, id)
}

// AuthState reports whether the service runs on guest or account data
func (h *Handler) AuthState(w http.ResponseWriter, r *http.Request) {
	resp := stateResponse{State: string(h.coord.State())}
	if id, ok := h.coord.Identity(); ok {
		resp.UserID = id.UserID
		resp.Email = id.Email
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// SignOut ends the session and returns to guest data
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if !h.ownsSession(w, r) {
		return
	}
	if err := h.coord.SignOut(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAccount removes the account and its data
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if !h.ownsSession(w, r) {
		return
	}
	if err := h.coord.DeleteAccount(r.Context()); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ownsSession checks the bearer token belongs to the signed-in account
func (h *Handler) ownsSession(w http.ResponseWriter, r *http.Request) bool {
	caller, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	current, signedIn := h.coord.Identity()
	if !signedIn {
		http.Error(w, "Not signed in", http.StatusUnauthorized)
		return false
	}
	if current.UserID != caller.UserID {
		http.Error(w, "Token does not match the active session", http.StatusForbidden)
		return false
	}
	return true
}
