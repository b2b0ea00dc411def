package service

import (
	"strings"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

// LogIncome records a payment and re-derives the paying tenant's balance and deposit flag
func (s *Service) LogIncome(in models.Income) (models.Income, error) {
	if err := validateIncome(&in); err != nil {
		return models.Income{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIncomeRefs(&in); err != nil {
		return models.Income{}, err
	}
	in.ID = models.NewID()
	s.data.Incomes = append(s.data.Incomes, in)
	s.recalculateTenants(in.TenantID)
	s.commit()

	s.log.Infof("Income %s of %s logged", in.ID, in.Amount)
	return in, nil
}

// UpdateIncome edits a payment. Both the previous and the new tenant are re-derived.
func (s *Service) UpdateIncome(in models.Income) (models.Income, error) {
	if err := validateIncome(&in); err != nil {
		return models.Income{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.data.Incomes, func(i models.Income) bool { return i.ID == in.ID })
	if idx < 0 {
		return models.Income{}, notFound("income", in.ID)
	}
	if err := s.checkIncomeRefs(&in); err != nil {
		return models.Income{}, err
	}
	previous := s.data.Incomes[idx].TenantID
	s.data.Incomes[idx] = in
	s.recalculateTenants(previous, in.TenantID)
	s.commit()
	return in, nil
}

// DeleteIncome removes a payment and re-derives its tenant
func (s *Service) DeleteIncome(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.data.Incomes, func(i models.Income) bool { return i.ID == id })
	if idx < 0 {
		return notFound("income", id)
	}
	tenantID := s.data.Incomes[idx].TenantID
	s.data.Incomes = append(s.data.Incomes[:idx], s.data.Incomes[idx+1:]...)
	s.recalculateTenants(tenantID)
	s.commit()
	return nil
}

// ListIncomes returns every income
func (s *Service) ListIncomes() []models.Income {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone().Incomes
}

// LogExpense records an expense and re-derives the property's tenants when it is billable
func (s *Service) LogExpense(e models.Expense) (models.Expense, error) {
	if err := validateExpense(&e); err != nil {
		return models.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProperty(e.PropertyID); err != nil {
		return models.Expense{}, err
	}
	if err := s.requireCategory(e.CategoryID, models.CategoryExpense); err != nil {
		return models.Expense{}, err
	}
	e.ID = models.NewID()
	s.data.Expenses = append(s.data.Expenses, e)
	s.recalculateProperty(e.PropertyID)
	s.commit()

	s.log.Infof("Expense %s of %s logged for property %s", e.ID, e.Amount, e.PropertyID)
	return e, nil
}

// UpdateExpense edits an expense. Tenants of both the previous and the new property are re-derived.
func (s *Service) UpdateExpense(e models.Expense) (models.Expense, error) {
	if err := validateExpense(&e); err != nil {
		return models.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.data.Expenses, func(x models.Expense) bool { return x.ID == e.ID })
	if idx < 0 {
		return models.Expense{}, notFound("expense", e.ID)
	}
	if err := s.requireProperty(e.PropertyID); err != nil {
		return models.Expense{}, err
	}
	if err := s.requireCategory(e.CategoryID, models.CategoryExpense); err != nil {
		return models.Expense{}, err
	}
	previous := s.data.Expenses[idx].PropertyID
	s.data.Expenses[idx] = e
	s.recalculateProperty(previous, e.PropertyID)
	s.commit()
	return e, nil
}

// DeleteExpense removes an expense and re-derives its property's tenants
func (s *Service) DeleteExpense(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.data.Expenses, func(e models.Expense) bool { return e.ID == id })
	if idx < 0 {
		return notFound("expense", id)
	}
	propertyID := s.data.Expenses[idx].PropertyID
	s.data.Expenses = append(s.data.Expenses[:idx], s.data.Expenses[idx+1:]...)
	s.recalculateProperty(propertyID)
	s.commit()
	return nil
}

// ListExpenses returns every expense
func (s *Service) ListExpenses() []models.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone().Expenses
}

// checkIncomeRefs validates the references of an income and fills in the
// property from the tenant when only the tenant is given
func (s *Service) checkIncomeRefs(in *models.Income) error {
	if err := s.requireTenant(in.TenantID); err != nil {
		return err
	}
	if in.PropertyID == "" && in.TenantID != "" {
		t, _ := s.data.Tenant(in.TenantID)
		in.PropertyID = t.PropertyID
	}
	if in.PropertyID == "" {
		return invalid("income needs a property or a tenant with a property")
	}
	if err := s.requireProperty(in.PropertyID); err != nil {
		return err
	}
	return s.requireCategory(in.CategoryID, models.CategoryIncome)
}

func validateIncome(in *models.Income) error {
	in.Description = strings.TrimSpace(in.Description)
	if !in.Amount.IsPositive() {
		return invalid("income amount must be positive")
	}
	if in.Date.IsZero() {
		return invalid("income date is required")
	}
	return nil
}

func validateExpense(e *models.Expense) error {
	e.Description = strings.TrimSpace(e.Description)
	if !e.Amount.IsPositive() {
		return invalid("expense amount must be positive")
	}
	if e.Date.IsZero() {
		return invalid("expense date is required")
	}
	if e.PropertyID == "" {
		return invalid("expense property is required")
	}
	return nil
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}
