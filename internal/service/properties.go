package service

import (
	"strings"

	"github.com/arafatrahman/Property-Rental-Management/internal/clock"
	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

// AddProperty creates a property. Occupancy fields are ignored; they follow the tenants.
func (s *Service) AddProperty(p models.Property) (models.Property, error) {
	if err := validateProperty(&p); err != nil {
		return models.Property{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = models.NewID()
	p.IsOccupied = false
	p.TenantID = ""
	assignDeadlineIDs(p.Deadlines)
	s.data.Properties = append(s.data.Properties, p)
	s.commit()

	s.log.Infof("Property %s created", p.ID)
	stored, _ := s.data.Property(p.ID)
	return *stored, nil
}

// UpdateProperty replaces a property's editable fields and re-derives its tenants' balances
func (s *Service) UpdateProperty(p models.Property) (models.Property, error) {
	if err := validateProperty(&p); err != nil {
		return models.Property{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.data.Property(p.ID)
	if !ok {
		return models.Property{}, notFound("property", p.ID)
	}
	assignDeadlineIDs(p.Deadlines)
	existing.Name = p.Name
	existing.Address = p.Address
	existing.Rent = p.Rent
	existing.BillingCycle = p.BillingCycle
	existing.Deadlines = p.Deadlines

	s.recalculateProperty(p.ID)
	s.commit()
	return *existing, nil
}

// DeleteProperty removes a property together with its incomes, expenses and
// maintenance requests. Tenants and appointments are unlinked, not removed.
func (s *Service) DeleteProperty(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Property(id); !ok {
		return notFound("property", id)
	}

	var affected []string
	for i := range s.data.Tenants {
		if s.data.Tenants[i].PropertyID == id {
			s.data.Tenants[i].PropertyID = ""
			affected = append(affected, s.data.Tenants[i].ID)
		}
	}
	for i := range s.data.Appointments {
		if s.data.Appointments[i].PropertyID == id {
			s.data.Appointments[i].PropertyID = ""
		}
	}
	s.data.Properties = filter(s.data.Properties, func(p models.Property) bool { return p.ID != id })
	s.data.Incomes = filter(s.data.Incomes, func(i models.Income) bool {
		if i.PropertyID == id {
			affected = append(affected, i.TenantID)
			return false
		}
		return true
	})
	s.data.Expenses = filter(s.data.Expenses, func(e models.Expense) bool { return e.PropertyID != id })
	s.data.MaintenanceRequests = filter(s.data.MaintenanceRequests, func(m models.MaintenanceRequest) bool { return m.PropertyID != id })

	s.recalculateTenants(affected...)
	s.commit()
	s.log.Infof("Property %s deleted, %d tenants unlinked", id, len(affected))
	return nil
}

// GetProperty returns a property by ID
func (s *Service) GetProperty(id string) (models.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.Property(id)
	if !ok {
		return models.Property{}, notFound("property", id)
	}
	return *p, nil
}

// ListProperties returns every property
func (s *Service) ListProperties() []models.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone().Properties
}

func validateProperty(p *models.Property) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return invalid("property name is required")
	}
	if p.Rent.IsNegative() {
		return invalid("rent cannot be negative")
	}
	cycle, err := clock.ParseCycle(string(p.BillingCycle))
	if err != nil {
		return invalid("%v", err)
	}
	p.BillingCycle = cycle
	for _, d := range p.Deadlines {
		if strings.TrimSpace(d.Title) == "" {
			return invalid("deadline title is required")
		}
	}
	if p.Deadlines == nil {
		p.Deadlines = []models.Deadline{}
	}
	return nil
}

func assignDeadlineIDs(ds []models.Deadline) {
	for i := range ds {
		if ds[i].ID == "" {
			ds[i].ID = models.NewID()
		}
	}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
