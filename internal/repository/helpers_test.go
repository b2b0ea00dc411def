package repository

import (
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/clock"
	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/shopspring/decimal"
)

func sampleData() *models.AppData {
	d := models.NewSeededAppData()
	day := func(m time.Month, dd int) time.Time { return time.Date(2024, m, dd, 0, 0, 0, 0, time.UTC) }

	d.Properties = append(d.Properties, models.Property{
		ID: "p1", Name: "Flat 1", Address: "1 Main St", Rent: decimal.RequireFromString("1000.50"),
		IsOccupied: true, TenantID: "t1", BillingCycle: clock.Monthly,
		Deadlines: []models.Deadline{{ID: "d1", Title: "Gas safety", ExpiryDate: day(time.September, 1)}},
	})
	d.Tenants = append(d.Tenants, models.Tenant{
		ID: "t1", Name: "Ada", Email: "ada@example.com", LeaseStartDate: day(time.January, 1),
		LeaseEndDate: day(time.December, 31), PropertyID: "p1", NextDueDate: day(time.July, 1),
		AmountOwed: decimal.NewFromInt(250), DepositAmount: decimal.NewFromInt(2000), Status: models.TenantActive,
	})
	d.Incomes = append(d.Incomes, models.Income{ID: "i1", Description: "June rent", Amount: decimal.NewFromInt(900),
		Date: day(time.June, 2), TenantID: "t1", PropertyID: "p1"})
	d.Expenses = append(d.Expenses, models.Expense{ID: "e1", Description: "Boiler", Amount: decimal.NewFromInt(150),
		Date: day(time.May, 3), PropertyID: "p1", IsBillableToTenant: true})
	d.MaintenanceRequests = append(d.MaintenanceRequests, models.MaintenanceRequest{ID: "m1", PropertyID: "p1",
		Title: "Leaky tap", ReportedDate: day(time.June, 10)})
	d.Appointments = append(d.Appointments, models.Appointment{ID: "a1", Title: "Inspection",
		Date: day(time.June, 20), PropertyID: "p1", Status: models.AppointmentScheduled})
	return d
}
