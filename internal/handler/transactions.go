package handler

import (
	"net/http"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

func (h *Handler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.ListIncomes())
}

func (h *Handler) LogIncome(w http.ResponseWriter, r *http.Request) {
	var in models.Income
	if !h.decode(w, r, &in) {
		return
	}
	created, err := h.svc.LogIncome(in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	var in models.Income
	if !h.decode(w, r, &in) {
		return
	}
	in.ID = pathID(r)
	updated, err := h.svc.UpdateIncome(in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteIncome(pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.ListExpenses())
}

func (h *Handler) LogExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if !h.decode(w, r, &e) {
		return
	}
	created, err := h.svc.LogExpense(e)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	var e models.Expense
	if !h.decode(w, r, &e) {
		return
	}
	e.ID = pathID(r)
	updated, err := h.svc.UpdateExpense(e)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteExpense(pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.ListCategories())
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var c models.TransactionCategory
	if !h.decode(w, r, &c) {
		return
	}
	created, err := h.svc.AddCategory(c)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var c models.TransactionCategory
	if !h.decode(w, r, &c) {
		return
	}
	c.ID = pathID(r)
	updated, err := h.svc.UpdateCategory(c)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCategory(pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
