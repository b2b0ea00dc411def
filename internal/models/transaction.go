package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income represents a payment received
type Income struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	TenantID    string          `json:"tenantId,omitempty"`
	PropertyID  string          `json:"propertyId"`
	CategoryID  string          `json:"categoryId,omitempty"`
}

// Expense represents money spent on a property
type Expense struct {
	ID                 string          `json:"id"`
	Description        string          `json:"description"`
	Amount             decimal.Decimal `json:"amount"`
	Date               time.Time       `json:"date"`
	PropertyID         string          `json:"propertyId"`
	CategoryID         string          `json:"categoryId,omitempty"`
	IsBillableToTenant bool            `json:"isBillableToTenant"`
}
