package models

import "time"

// MaintenanceRequest represents a repair reported for a property
type MaintenanceRequest struct {
	ID           string    `json:"id"`
	PropertyID   string    `json:"propertyId"`
	TenantID     string    `json:"tenantId,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Priority     string    `json:"priority,omitempty"`
	ReportedDate time.Time `json:"reportedDate"`
	IsResolved   bool      `json:"isResolved"`
}
