package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TenantStatus is the lifecycle state of a tenant
type TenantStatus string

const (
	TenantActive   TenantStatus = "active"
	TenantArchived TenantStatus = "archived"
)

// Tenant represents a person leasing a property.
// NextDueDate, AmountOwed and IsDepositPaid are cached ledger results.
type Tenant struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	LeaseStartDate time.Time       `json:"leaseStartDate"`
	LeaseEndDate   time.Time       `json:"leaseEndDate"`
	PropertyID     string          `json:"propertyId,omitempty"`
	NextDueDate    time.Time       `json:"nextDueDate"`
	AmountOwed     decimal.Decimal `json:"amountOwed"`
	DepositAmount  decimal.Decimal `json:"depositAmount"`
	IsDepositPaid  bool            `json:"isDepositPaid"`
	Status         TenantStatus    `json:"status"`
}

// IsActive reports whether the tenant currently occupies its property
func (t *Tenant) IsActive() bool {
	return t.Status != TenantArchived
}
