// Package statement renders a tenant's ledger as an XML document that can be
// handed to the tenant or an accountant.
package statement

import (
	"fmt"
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/ledger"
	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/beevik/etree"
)

const dateLayout = "2006-01-02"

// Render builds the statement for tenant from the ledger result r
func Render(tenant *models.Tenant, data *models.AppData, r ledger.Result, asOf time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Statement")
	root.CreateAttr("asOf", asOf.Format(dateLayout))

	t := root.CreateElement("Tenant")
	t.CreateAttr("id", tenant.ID)
	t.CreateAttr("name", tenant.Name)
	t.CreateAttr("status", string(tenant.Status))
	if !tenant.LeaseStartDate.IsZero() {
		t.CreateAttr("leaseStart", tenant.LeaseStartDate.Format(dateLayout))
	}
	if !tenant.LeaseEndDate.IsZero() {
		t.CreateAttr("leaseEnd", tenant.LeaseEndDate.Format(dateLayout))
	}

	if p, ok := data.Property(tenant.PropertyID); ok && r.HasProperty {
		pe := root.CreateElement("Property")
		pe.CreateAttr("id", p.ID)
		pe.CreateAttr("name", p.Name)
		pe.CreateAttr("address", p.Address)
		pe.CreateAttr("cycle", string(p.BillingCycle.OrDefault()))
		pe.CreateAttr("rent", p.Rent.StringFixed(2))

		charges := root.CreateElement("Charges")
		charges.CreateAttr("total", r.Rent.StringFixed(2))
		for _, d := range r.Charges {
			c := charges.CreateElement("Charge")
			c.CreateAttr("date", d.Format(dateLayout))
			c.CreateAttr("amount", p.Rent.StringFixed(2))
		}

		expenses := root.CreateElement("BillableExpenses")
		expenses.CreateAttr("total", r.BillableExpenses.StringFixed(2))
		for _, e := range ledger.BillableExpenses(p.ID, data) {
			x := expenses.CreateElement("Expense")
			x.CreateAttr("date", e.Date.Format(dateLayout))
			x.CreateAttr("amount", e.Amount.StringFixed(2))
			x.SetText(e.Description)
		}
	}

	payments := root.CreateElement("Payments")
	payments.CreateAttr("total", ledger.Payments(tenant.ID, data).StringFixed(2))
	for _, in := range ledger.PaymentRecords(tenant.ID, data) {
		x := payments.CreateElement("Payment")
		x.CreateAttr("date", in.Date.Format(dateLayout))
		x.CreateAttr("amount", in.Amount.StringFixed(2))
		x.SetText(in.Description)
	}

	dep := root.CreateElement("Deposit")
	dep.CreateAttr("amount", tenant.DepositAmount.StringFixed(2))
	dep.CreateAttr("paid", fmt.Sprintf("%t", ledger.DepositPaid(tenant.ID, data)))

	bal := root.CreateElement("Balance")
	bal.CreateAttr("amountOwed", r.AmountOwed.StringFixed(2))
	if r.HasProperty {
		bal.CreateAttr("nextDueDate", r.NextDueDate.Format(dateLayout))
	}

	doc.Indent(2)
	b, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to write statement: %w", err)
	}
	return b, nil
}
