// Package ledger derives what a tenant owes from the recurring rent of the
// leased property, billable property expenses and the payments received.
//
// Every call recomputes from the full record set; no partial sums are cached
// between calls, so repeated calls over unchanged data give the same result.
package ledger

import (
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/clock"
	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/shopspring/decimal"
)

// Result is the breakdown of one balance computation
type Result struct {
	HasProperty      bool
	Charges          []time.Time // rent charge dates, oldest first
	Rent             decimal.Decimal
	BillableExpenses decimal.Decimal
	Payments         decimal.Decimal
	AmountOwed       decimal.Decimal
	NextDueDate      time.Time
}

// Compute derives the tenant's balance as of now.
// A tenant without a resolvable property owes nothing and keeps its previous due date.
func Compute(tenant *models.Tenant, data *models.AppData, now time.Time) Result {
	property, ok := data.Property(tenant.PropertyID)
	if !ok {
		return Result{
			Rent:             decimal.Zero,
			BillableExpenses: decimal.Zero,
			Payments:         decimal.Zero,
			AmountOwed:       decimal.Zero,
			NextDueDate:      tenant.NextDueDate,
		}
	}

	charges, next := accrue(tenant.LeaseStartDate, property.BillingCycle, now)
	rent := property.Rent.Mul(decimal.NewFromInt(int64(len(charges))))
	expenses := sumBillable(property.ID, data)
	payments := Payments(tenant.ID, data)

	return Result{
		HasProperty:      true,
		Charges:          charges,
		Rent:             rent,
		BillableExpenses: expenses,
		Payments:         payments,
		AmountOwed:       rent.Add(expenses).Sub(payments),
		NextDueDate:      next,
	}
}

// Apply stores the computed balance on the tenant
func Apply(tenant *models.Tenant, r Result) {
	tenant.AmountOwed = r.AmountOwed
	tenant.NextDueDate = r.NextDueDate
}

// accrue walks charge boundaries from the lease start until one reaches now.
// The returned boundary is the first one not yet elapsed.
func accrue(start time.Time, cycle clock.Cycle, now time.Time) ([]time.Time, time.Time) {
	if start.IsZero() {
		return nil, start
	}
	var charges []time.Time
	cursor := start
	for n := 1; cursor.Before(now); n++ {
		charges = append(charges, cursor)
		next, ok := clock.Advance(start, cycle, n)
		if !ok || !next.After(cursor) {
			// calendar overflow: stop rather than loop forever
			break
		}
		cursor = next
	}
	return charges, cursor
}

func sumBillable(propertyID string, data *models.AppData) decimal.Decimal {
	total := decimal.Zero
	for _, e := range BillableExpenses(propertyID, data) {
		total = total.Add(e.Amount)
	}
	return total
}

// BillableExpenses lists the property's expenses passed on to its tenant
func BillableExpenses(propertyID string, data *models.AppData) []models.Expense {
	var out []models.Expense
	for _, e := range data.Expenses {
		if e.PropertyID == propertyID && e.IsBillableToTenant {
			out = append(out, e)
		}
	}
	return out
}

// Payments sums the tenant's incomes, leaving out security deposits
func Payments(tenantID string, data *models.AppData) decimal.Decimal {
	total := decimal.Zero
	for _, in := range PaymentRecords(tenantID, data) {
		total = total.Add(in.Amount)
	}
	return total
}

// PaymentRecords lists the tenant's incomes that count against rent
func PaymentRecords(tenantID string, data *models.AppData) []models.Income {
	var out []models.Income
	for _, in := range data.Incomes {
		if in.TenantID == tenantID && !isDeposit(&in, data) {
			out = append(out, in)
		}
	}
	return out
}

// DepositPaid reports whether at least one deposit payment exists for the tenant
func DepositPaid(tenantID string, data *models.AppData) bool {
	for _, in := range data.Incomes {
		if in.TenantID == tenantID && isDeposit(&in, data) {
			return true
		}
	}
	return false
}

func isDeposit(in *models.Income, data *models.AppData) bool {
	c, ok := data.Category(in.CategoryID)
	return ok && c.IsSecurityDeposit()
}
