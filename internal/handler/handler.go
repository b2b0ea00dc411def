package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/arafatrahman/Property-Rental-Management/internal/auth"
	"github.com/arafatrahman/Property-Rental-Management/internal/middleware"
	"github.com/arafatrahman/Property-Rental-Management/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const maxImportSize = 32 << 20

type Handler struct {
	svc   *service.Service
	coord *service.Coordinator
	log   *logrus.Logger
}

func NewHandler(svc *service.Service, coord *service.Coordinator, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, coord: coord, log: log}
}

// Register wires every route onto r. Routes that end a session need a bearer token.
func (h *Handler) Register(r *mux.Router, verifier middleware.TokenVerifier) {
	r.HandleFunc("/health", h.Health).Methods("GET")

	r.HandleFunc("/auth/signup", h.SignUp).Methods("POST")
	r.HandleFunc("/auth/signin", h.SignIn).Methods("POST")
	r.HandleFunc("/auth/state", h.AuthState).Methods("GET")
	session := r.PathPrefix("/auth").Subrouter()
	session.Use(middleware.AuthMiddleware(verifier, h.log))
	session.HandleFunc("/signout", h.SignOut).Methods("POST")
	session.HandleFunc("/account", h.DeleteAccount).Methods("DELETE")

	r.HandleFunc("/properties", h.ListProperties).Methods("GET")
	r.HandleFunc("/properties", h.CreateProperty).Methods("POST")
	r.HandleFunc("/properties/{id}", h.GetProperty).Methods("GET")
	r.HandleFunc("/properties/{id}", h.UpdateProperty).Methods("PUT")
	r.HandleFunc("/properties/{id}", h.DeleteProperty).Methods("DELETE")

	r.HandleFunc("/tenants", h.ListTenants).Methods("GET")
	r.HandleFunc("/tenants", h.CreateTenant).Methods("POST")
	r.HandleFunc("/tenants/{id}", h.GetTenant).Methods("GET")
	r.HandleFunc("/tenants/{id}", h.UpdateTenant).Methods("PUT")
	r.HandleFunc("/tenants/{id}", h.DeleteTenant).Methods("DELETE")
	r.HandleFunc("/tenants/{id}/archive", h.ArchiveTenant).Methods("POST")
	r.HandleFunc("/tenants/{id}/recalculate", h.RecalculateTenant).Methods("POST")
	r.HandleFunc("/tenants/{id}/statement", h.TenantStatement).Methods("GET")

	r.HandleFunc("/incomes", h.ListIncomes).Methods("GET")
	r.HandleFunc("/incomes", h.LogIncome).Methods("POST")
	r.HandleFunc("/incomes/{id}", h.UpdateIncome).Methods("PUT")
	r.HandleFunc("/incomes/{id}", h.DeleteIncome).Methods("DELETE")

	r.HandleFunc("/expenses", h.ListExpenses).Methods("GET")
	r.HandleFunc("/expenses", h.LogExpense).Methods("POST")
	r.HandleFunc("/expenses/{id}", h.UpdateExpense).Methods("PUT")
	r.HandleFunc("/expenses/{id}", h.DeleteExpense).Methods("DELETE")

	r.HandleFunc("/categories", h.ListCategories).Methods("GET")
	r.HandleFunc("/categories", h.CreateCategory).Methods("POST")
	r.HandleFunc("/categories/{id}", h.UpdateCategory).Methods("PUT")
	r.HandleFunc("/categories/{id}", h.DeleteCategory).Methods("DELETE")

	r.HandleFunc("/maintenance", h.ListMaintenance).Methods("GET")
	r.HandleFunc("/maintenance", h.CreateMaintenance).Methods("POST")
	r.HandleFunc("/maintenance/{id}", h.UpdateMaintenance).Methods("PUT")
	r.HandleFunc("/maintenance/{id}", h.DeleteMaintenance).Methods("DELETE")

	r.HandleFunc("/appointments", h.ListAppointments).Methods("GET")
	r.HandleFunc("/appointments", h.CreateAppointment).Methods("POST")
	r.HandleFunc("/appointments/{id}", h.UpdateAppointment).Methods("PUT")
	r.HandleFunc("/appointments/{id}", h.DeleteAppointment).Methods("DELETE")

	r.HandleFunc("/refresh", h.Refresh).Methods("POST")
	r.HandleFunc("/export", h.Export).Methods("GET")
	r.HandleFunc("/import", h.Import).Methods("POST")
}

// Health reports liveness and the session state
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "state": string(h.coord.State())})
}

// Refresh re-derives every tenant's balance, as on each app activation
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.svc.RecalculateAll()
	h.writeJSON(w, http.StatusOK, h.svc.ListTenants())
}

// Export downloads the dataset snapshot
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	blob, err := h.svc.Export()
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="rental-data.json"`)
	_, _ = w.Write(blob)
}

// Import replaces the dataset with an uploaded snapshot
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	blob, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}
	if err := h.svc.Import(blob); err != nil {
		http.Error(w, "Invalid snapshot: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var merr *service.MigrationError
	switch {
	case errors.As(err, &merr) && merr.AccountCreated:
		h.writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":          err.Error(),
			"accountCreated": true,
			"userId":         merr.UserID,
		})
		return
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalid), errors.Is(err, auth.ErrWeakCredentials):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, service.ErrNotSignedIn):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrPropertyOccupied), errors.Is(err, service.ErrProtectedCategory),
		errors.Is(err, service.ErrAlreadySignedIn), errors.Is(err, service.ErrMigrating),
		errors.Is(err, auth.ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.log.Errorf("Request failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request) string {
	return mux.Vars(r)["id"]
}
