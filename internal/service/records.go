package service

import (
	"strings"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

// AddMaintenanceRequest records a repair request for a property
func (s *Service) AddMaintenanceRequest(m models.MaintenanceRequest) (models.MaintenanceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateMaintenance(&m); err != nil {
		return models.MaintenanceRequest{}, err
	}
	m.ID = models.NewID()
	if m.ReportedDate.IsZero() {
		m.ReportedDate = s.clock.Now()
	}
	s.data.MaintenanceRequests = append(s.data.MaintenanceRequests, m)
	s.commit()
	return m, nil
}

// UpdateMaintenanceRequest replaces a maintenance request
func (s *Service) UpdateMaintenanceRequest(m models.MaintenanceRequest) (models.MaintenanceRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.data.MaintenanceRequests, func(x models.MaintenanceRequest) bool { return x.ID == m.ID })
	if idx < 0 {
		return models.MaintenanceRequest{}, notFound("maintenance request", m.ID)
	}
	if err := s.validateMaintenance(&m); err != nil {
		return models.MaintenanceRequest{}, err
	}
	if m.ReportedDate.IsZero() {
		m.ReportedDate = s.data.MaintenanceRequests[idx].ReportedDate
	}
	s.data.MaintenanceRequests[idx] = m
	s.commit()
	return m, nil
}

// DeleteMaintenanceRequest removes a maintenance request
func (s *Service) DeleteMaintenanceRequest(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.data.MaintenanceRequests, func(x models.MaintenanceRequest) bool { return x.ID == id })
	if idx < 0 {
		return notFound("maintenance request", id)
	}
	s.data.MaintenanceRequests = append(s.data.MaintenanceRequests[:idx], s.data.MaintenanceRequests[idx+1:]...)
	s.commit()
	return nil
}

// ListMaintenanceRequests returns every maintenance request
func (s *Service) ListMaintenanceRequests() []models.MaintenanceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone().MaintenanceRequests
}

// AddAppointment records an appointment
func (s *Service) AddAppointment(a models.Appointment) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateAppointment(&a); err != nil {
		return models.Appointment{}, err
	}
	a.ID = models.NewID()
	s.data.Appointments = append(s.data.Appointments, a)
	s.commit()
	return a, nil
}

// UpdateAppointment replaces an appointment
func (s *Service) UpdateAppointment(a models.Appointment) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.data.Appointments, func(x models.Appointment) bool { return x.ID == a.ID })
	if idx < 0 {
		return models.Appointment{}, notFound("appointment", a.ID)
	}
	if err := s.validateAppointment(&a); err != nil {
		return models.Appointment{}, err
	}
	s.data.Appointments[idx] = a
	s.commit()
	return a, nil
}

// DeleteAppointment removes an appointment
func (s *Service) DeleteAppointment(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOf(s.data.Appointments, func(x models.Appointment) bool { return x.ID == id })
	if idx < 0 {
		return notFound("appointment", id)
	}
	s.data.Appointments = append(s.data.Appointments[:idx], s.data.Appointments[idx+1:]...)
	s.commit()
	return nil
}

// ListAppointments returns every appointment
func (s *Service) ListAppointments() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone().Appointments
}

func (s *Service) validateMaintenance(m *models.MaintenanceRequest) error {
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return invalid("maintenance title is required")
	}
	if m.PropertyID == "" {
		return invalid("maintenance property is required")
	}
	if err := s.requireProperty(m.PropertyID); err != nil {
		return err
	}
	return s.requireTenant(m.TenantID)
}

func (s *Service) validateAppointment(a *models.Appointment) error {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" {
		return invalid("appointment title is required")
	}
	if a.Date.IsZero() {
		return invalid("appointment date is required")
	}
	switch a.Status {
	case "":
		a.Status = models.AppointmentScheduled
	case models.AppointmentScheduled, models.AppointmentCompleted, models.AppointmentCancelled:
	default:
		return invalid("unknown appointment status %q", a.Status)
	}
	if err := s.requireProperty(a.PropertyID); err != nil {
		return err
	}
	return s.requireTenant(a.TenantID)
}
