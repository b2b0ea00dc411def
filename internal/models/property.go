package models

import (
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/clock"
	"github.com/shopspring/decimal"
)

// Property represents a rental unit
type Property struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Rent         decimal.Decimal `json:"rent"`
	IsOccupied   bool            `json:"isOccupied"`
	TenantID     string          `json:"tenantId,omitempty"` // derived from the active tenant's PropertyID
	BillingCycle clock.Cycle     `json:"billingCycle"`
	Deadlines    []Deadline      `json:"deadlines"`
}

// Deadline is a dated obligation attached to a property (insurance renewal, inspection, ...)
type Deadline struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ExpiryDate time.Time `json:"expiryDate"`
}
