package service

import (
	"fmt"
	"strings"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/shopspring/decimal"
)

// SaveTenant creates the tenant when it has no ID, otherwise updates it.
// The balance, next due date and deposit flag are always re-derived.
func (s *Service) SaveTenant(t models.Tenant) (models.Tenant, error) {
	if err := validateTenant(&t); err != nil {
		return models.Tenant{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireProperty(t.PropertyID); err != nil {
		return models.Tenant{}, err
	}
	if t.IsActive() && t.PropertyID != "" {
		if other, taken := s.occupant(t.PropertyID, t.ID); taken {
			return models.Tenant{}, fmt.Errorf("property %s is leased by tenant %s: %w", t.PropertyID, other.ID, ErrPropertyOccupied)
		}
	}

	var stored *models.Tenant
	if t.ID == "" {
		t.ID = models.NewID()
		s.data.Tenants = append(s.data.Tenants, t)
		stored = &s.data.Tenants[len(s.data.Tenants)-1]
		s.log.Infof("Tenant %s created", t.ID)
	} else {
		existing, ok := s.data.Tenant(t.ID)
		if !ok {
			return models.Tenant{}, notFound("tenant", t.ID)
		}
		*existing = t
		stored = existing
	}

	s.recalculate(stored)
	s.commit()
	return *stored, nil
}

// ArchiveTenant marks the tenant archived, which frees its property.
// The property link is kept so its history stays attached.
func (s *Service) ArchiveTenant(id string) (models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data.Tenant(id)
	if !ok {
		return models.Tenant{}, notFound("tenant", id)
	}
	t.Status = models.TenantArchived
	s.recalculate(t)
	s.commit()
	s.log.Infof("Tenant %s archived", id)
	return *t, nil
}

// DeleteTenant removes the tenant and its incomes. Maintenance requests and
// appointments referencing it are unlinked.
func (s *Service) DeleteTenant(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Tenant(id); !ok {
		return notFound("tenant", id)
	}

	s.data.Tenants = filter(s.data.Tenants, func(t models.Tenant) bool { return t.ID != id })
	s.data.Incomes = filter(s.data.Incomes, func(i models.Income) bool { return i.TenantID != id })
	for i := range s.data.MaintenanceRequests {
		if s.data.MaintenanceRequests[i].TenantID == id {
			s.data.MaintenanceRequests[i].TenantID = ""
		}
	}
	for i := range s.data.Appointments {
		if s.data.Appointments[i].TenantID == id {
			s.data.Appointments[i].TenantID = ""
		}
	}

	s.commit()
	s.log.Infof("Tenant %s deleted", id)
	return nil
}

// GetTenant returns a tenant by ID
func (s *Service) GetTenant(id string) (models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.data.Tenant(id)
	if !ok {
		return models.Tenant{}, notFound("tenant", id)
	}
	return *t, nil
}

// ListTenants returns every tenant, archived ones included
func (s *Service) ListTenants() []models.Tenant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone().Tenants
}

func validateTenant(t *models.Tenant) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return invalid("tenant name is required")
	}
	if !t.LeaseEndDate.IsZero() && t.LeaseEndDate.Before(t.LeaseStartDate) {
		return invalid("lease end %s is before lease start %s",
			t.LeaseEndDate.Format("2006-01-02"), t.LeaseStartDate.Format("2006-01-02"))
	}
	if t.DepositAmount.LessThan(decimal.Zero) {
		return invalid("deposit amount cannot be negative")
	}
	switch t.Status {
	case "":
		t.Status = models.TenantActive
	case models.TenantActive, models.TenantArchived:
	default:
		return invalid("unknown tenant status %q", t.Status)
	}
	return nil
}
