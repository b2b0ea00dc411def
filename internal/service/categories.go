package service

import (
	"fmt"
	"strings"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

// AddCategory creates a user-defined category. Tags are reserved for seeded categories.
func (s *Service) AddCategory(c models.TransactionCategory) (models.TransactionCategory, error) {
	if err := validateCategory(&c); err != nil {
		return models.TransactionCategory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = models.NewID()
	c.Tag = ""
	if c.IsSecurityDeposit() {
		return models.TransactionCategory{}, invalid("%q is reserved", c.Name)
	}
	s.data.TransactionCategories = append(s.data.TransactionCategories, c)
	s.commit()
	return c, nil
}

// UpdateCategory renames a category or changes its icon. Type and tag are fixed once created.
func (s *Service) UpdateCategory(c models.TransactionCategory) (models.TransactionCategory, error) {
	if err := validateCategory(&c); err != nil {
		return models.TransactionCategory{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.data.Category(c.ID)
	if !ok {
		return models.TransactionCategory{}, notFound("category", c.ID)
	}
	if existing.Type != c.Type {
		return models.TransactionCategory{}, invalid("category type cannot change")
	}
	renamed := *existing
	renamed.Name = c.Name
	renamed.Icon = c.Icon
	if renamed.IsSecurityDeposit() != existing.IsSecurityDeposit() {
		return models.TransactionCategory{}, invalid("%q is reserved", c.Name)
	}
	*existing = renamed
	s.commit()
	return *existing, nil
}

// DeleteCategory removes a category and clears it from incomes and expenses.
// The security deposit category cannot be deleted.
func (s *Service) DeleteCategory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.data.Category(id)
	if !ok {
		return notFound("category", id)
	}
	if c.IsSecurityDeposit() {
		return fmt.Errorf("%s: %w", c.Name, ErrProtectedCategory)
	}

	s.data.TransactionCategories = filter(s.data.TransactionCategories, func(x models.TransactionCategory) bool { return x.ID != id })
	for i := range s.data.Incomes {
		if s.data.Incomes[i].CategoryID == id {
			s.data.Incomes[i].CategoryID = ""
		}
	}
	for i := range s.data.Expenses {
		if s.data.Expenses[i].CategoryID == id {
			s.data.Expenses[i].CategoryID = ""
		}
	}
	s.commit()
	return nil
}

// ListCategories returns every category
func (s *Service) ListCategories() []models.TransactionCategory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone().TransactionCategories
}

func validateCategory(c *models.TransactionCategory) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return invalid("category name is required")
	}
	if c.Type != models.CategoryIncome && c.Type != models.CategoryExpense {
		return invalid("unknown category type %q", c.Type)
	}
	return nil
}
