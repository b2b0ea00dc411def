package models

import "time"

// AppointmentStatus tracks whether an appointment still needs attention
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a dated meeting (viewing, inspection, repair visit)
type Appointment struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Date       time.Time         `json:"date"`
	PropertyID string            `json:"propertyId,omitempty"`
	TenantID   string            `json:"tenantId,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Status     AppointmentStatus `json:"status"`
}
