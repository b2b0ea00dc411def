package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/clock"
	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/arafatrahman/Property-Rental-Management/internal/notify"
	"github.com/arafatrahman/Property-Rental-Management/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newTestService(t *testing.T) (*Service, *repository.LocalStore) {
	t.Helper()
	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	dir := t.TempDir()
	svc := NewService(clock.NewFixed(now), log)
	t.Cleanup(svc.Close)

	local := repository.NewLocalStore(dir+"/snapshot.json", log)
	data, err := local.Load(context.Background())
	require.NoError(t, err)
	svc.Replace(local, data)
	return svc, local
}

func categoryByTag(t *testing.T, svc *Service, tag models.CategoryTag) models.TransactionCategory {
	t.Helper()
	for _, c := range svc.ListCategories() {
		if c.Tag == tag {
			return c
		}
	}
	t.Fatalf("no category tagged %s", tag)
	return models.TransactionCategory{}
}

func addLeasedTenant(t *testing.T, svc *Service, rent int64, monthsAgo int) (models.Property, models.Tenant) {
	t.Helper()
	p, err := svc.AddProperty(models.Property{Name: "Flat 1", Rent: dec(rent)})
	require.NoError(t, err)
	tn, err := svc.SaveTenant(models.Tenant{Name: "Ada", PropertyID: p.ID, LeaseStartDate: now.AddDate(0, -monthsAgo, 0)})
	require.NoError(t, err)
	return p, tn
}

func TestAddPropertyDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.AddProperty(models.Property{Name: "  Flat 1 ", Rent: dec(900), IsOccupied: true, TenantID: "x",
		Deadlines: []models.Deadline{{Title: "Gas safety", ExpiryDate: now.AddDate(0, 2, 0)}}})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Flat 1", p.Name)
	assert.Equal(t, clock.Monthly, p.BillingCycle)
	assert.False(t, p.IsOccupied)
	assert.Empty(t, p.TenantID)
	require.Len(t, p.Deadlines, 1)
	assert.NotEmpty(t, p.Deadlines[0].ID)
}

func TestAddPropertyValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddProperty(models.Property{Name: ""})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = svc.AddProperty(models.Property{Name: "A", Rent: dec(-1)})
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = svc.AddProperty(models.Property{Name: "A", BillingCycle: "fortnightly"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSaveTenantComputesBalance(t *testing.T) {
	svc, _ := newTestService(t)
	p, tn := addLeasedTenant(t, svc, 1000, 3)

	assert.True(t, dec(3000).Equal(tn.AmountOwed), "got %s", tn.AmountOwed)
	assert.True(t, tn.NextDueDate.Equal(now), "got %v", tn.NextDueDate)
	assert.Equal(t, models.TenantActive, tn.Status)

	got, err := svc.GetProperty(p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOccupied)
	assert.Equal(t, tn.ID, got.TenantID)
}

func TestLedgerScenario(t *testing.T) {
	svc, _ := newTestService(t)
	p, tn := addLeasedTenant(t, svc, 1000, 3)
	rent := categoryByTag(t, svc, models.TagRentPayment)

	_, err := svc.LogExpense(models.Expense{Description: "Boiler", Amount: dec(150), Date: now, PropertyID: p.ID, IsBillableToTenant: true})
	require.NoError(t, err)
	_, err = svc.LogExpense(models.Expense{Description: "Roof", Amount: dec(5000), Date: now, PropertyID: p.ID})
	require.NoError(t, err)
	in, err := svc.LogIncome(models.Income{Amount: dec(900), Date: now, TenantID: tn.ID, CategoryID: rent.ID})
	require.NoError(t, err)
	assert.Equal(t, p.ID, in.PropertyID)

	got, err := svc.GetTenant(tn.ID)
	require.NoError(t, err)
	assert.True(t, dec(2250).Equal(got.AmountOwed), "got %s", got.AmountOwed)
}

func TestDepositFlagFollowsIncomes(t *testing.T) {
	svc, _ := newTestService(t)
	_, tn := addLeasedTenant(t, svc, 1000, 1)
	deposit := categoryByTag(t, svc, models.TagSecurityDeposit)

	in, err := svc.LogIncome(models.Income{Amount: dec(2000), Date: now, TenantID: tn.ID, CategoryID: deposit.ID})
	require.NoError(t, err)

	got, _ := svc.GetTenant(tn.ID)
	assert.True(t, got.IsDepositPaid)
	assert.True(t, dec(1000).Equal(got.AmountOwed), "deposit must not count as rent, got %s", got.AmountOwed)

	require.NoError(t, svc.DeleteIncome(in.ID))
	got, _ = svc.GetTenant(tn.ID)
	assert.False(t, got.IsDepositPaid)
}

func TestUpdateIncomeRecomputesBothTenants(t *testing.T) {
	svc, _ := newTestService(t)
	_, a := addLeasedTenant(t, svc, 1000, 1)
	p2, err := svc.AddProperty(models.Property{Name: "Flat 2", Rent: dec(500)})
	require.NoError(t, err)
	b, err := svc.SaveTenant(models.Tenant{Name: "Bob", PropertyID: p2.ID, LeaseStartDate: now.AddDate(0, -1, 0)})
	require.NoError(t, err)

	in, err := svc.LogIncome(models.Income{Amount: dec(300), Date: now, TenantID: a.ID})
	require.NoError(t, err)
	got, _ := svc.GetTenant(a.ID)
	assert.True(t, dec(700).Equal(got.AmountOwed))

	in.TenantID = b.ID
	in.PropertyID = p2.ID
	_, err = svc.UpdateIncome(in)
	require.NoError(t, err)

	got, _ = svc.GetTenant(a.ID)
	assert.True(t, dec(1000).Equal(got.AmountOwed), "old tenant got %s", got.AmountOwed)
	got, _ = svc.GetTenant(b.ID)
	assert.True(t, dec(200).Equal(got.AmountOwed), "new tenant got %s", got.AmountOwed)
}

func TestUpdateExpenseRecomputesBothProperties(t *testing.T) {
	svc, _ := newTestService(t)
	p1, a := addLeasedTenant(t, svc, 1000, 1)
	p2, err := svc.AddProperty(models.Property{Name: "Flat 2", Rent: dec(500)})
	require.NoError(t, err)
	b, err := svc.SaveTenant(models.Tenant{Name: "Bob", PropertyID: p2.ID, LeaseStartDate: now.AddDate(0, -1, 0)})
	require.NoError(t, err)

	e, err := svc.LogExpense(models.Expense{Amount: dec(80), Date: now, PropertyID: p1.ID, IsBillableToTenant: true})
	require.NoError(t, err)
	e.PropertyID = p2.ID
	_, err = svc.UpdateExpense(e)
	require.NoError(t, err)

	got, _ := svc.GetTenant(a.ID)
	assert.True(t, dec(1000).Equal(got.AmountOwed))
	got, _ = svc.GetTenant(b.ID)
	assert.True(t, dec(580).Equal(got.AmountOwed))

	require.NoError(t, svc.DeleteExpense(e.ID))
	got, _ = svc.GetTenant(b.ID)
	assert.True(t, dec(500).Equal(got.AmountOwed))
}

func TestSecondActiveTenantRejected(t *testing.T) {
	svc, _ := newTestService(t)
	p, first := addLeasedTenant(t, svc, 1000, 1)

	_, err := svc.SaveTenant(models.Tenant{Name: "Bob", PropertyID: p.ID})
	assert.ErrorIs(t, err, ErrPropertyOccupied)

	_, err = svc.ArchiveTenant(first.ID)
	require.NoError(t, err)
	got, _ := svc.GetProperty(p.ID)
	assert.False(t, got.IsOccupied)

	second, err := svc.SaveTenant(models.Tenant{Name: "Bob", PropertyID: p.ID})
	require.NoError(t, err)
	got, _ = svc.GetProperty(p.ID)
	assert.Equal(t, second.ID, got.TenantID)
}

func TestMovingTenantFreesOldProperty(t *testing.T) {
	svc, _ := newTestService(t)
	p1, tn := addLeasedTenant(t, svc, 1000, 1)
	p2, err := svc.AddProperty(models.Property{Name: "Flat 2", Rent: dec(500)})
	require.NoError(t, err)

	tn.PropertyID = p2.ID
	_, err = svc.SaveTenant(tn)
	require.NoError(t, err)

	old, _ := svc.GetProperty(p1.ID)
	assert.False(t, old.IsOccupied)
	assert.Empty(t, old.TenantID)
	moved, _ := svc.GetProperty(p2.ID)
	assert.Equal(t, tn.ID, moved.TenantID)
}

func TestDeletePropertyCascade(t *testing.T) {
	svc, _ := newTestService(t)
	p, tn := addLeasedTenant(t, svc, 1000, 2)
	other, err := svc.AddProperty(models.Property{Name: "Other", Rent: dec(10)})
	require.NoError(t, err)

	_, err = svc.LogIncome(models.Income{Amount: dec(100), Date: now, TenantID: tn.ID})
	require.NoError(t, err)
	_, err = svc.LogExpense(models.Expense{Amount: dec(50), Date: now, PropertyID: p.ID, IsBillableToTenant: true})
	require.NoError(t, err)
	keep, err := svc.LogExpense(models.Expense{Amount: dec(20), Date: now, PropertyID: other.ID})
	require.NoError(t, err)
	_, err = svc.AddMaintenanceRequest(models.MaintenanceRequest{Title: "Leak", PropertyID: p.ID, TenantID: tn.ID})
	require.NoError(t, err)
	appt, err := svc.AddAppointment(models.Appointment{Title: "Viewing", Date: now.Add(48 * time.Hour), PropertyID: p.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProperty(p.ID))

	_, err = svc.GetProperty(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := svc.GetTenant(tn.ID)
	require.NoError(t, err)
	assert.Empty(t, got.PropertyID)
	assert.True(t, got.AmountOwed.IsZero())
	assert.Empty(t, svc.ListIncomes())
	expenses := svc.ListExpenses()
	require.Len(t, expenses, 1)
	assert.Equal(t, keep.ID, expenses[0].ID)
	assert.Empty(t, svc.ListMaintenanceRequests())
	appts := svc.ListAppointments()
	require.Len(t, appts, 1)
	assert.Equal(t, appt.ID, appts[0].ID)
	assert.Empty(t, appts[0].PropertyID)
}

func TestDeleteTenantCascade(t *testing.T) {
	svc, _ := newTestService(t)
	p, tn := addLeasedTenant(t, svc, 1000, 1)
	_, err := svc.LogIncome(models.Income{Amount: dec(100), Date: now, TenantID: tn.ID})
	require.NoError(t, err)
	_, err = svc.AddMaintenanceRequest(models.MaintenanceRequest{Title: "Leak", PropertyID: p.ID, TenantID: tn.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTenant(tn.ID))

	got, _ := svc.GetProperty(p.ID)
	assert.False(t, got.IsOccupied)
	assert.Empty(t, got.TenantID)
	assert.Empty(t, svc.ListIncomes())
	reqs := svc.ListMaintenanceRequests()
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].TenantID)

	assert.ErrorIs(t, svc.DeleteTenant(tn.ID), ErrNotFound)
}

func TestDepositCategoryProtected(t *testing.T) {
	svc, _ := newTestService(t)
	deposit := categoryByTag(t, svc, models.TagSecurityDeposit)

	err := svc.DeleteCategory(deposit.ID)
	assert.ErrorIs(t, err, ErrProtectedCategory)

	deposit.Name = "Bond"
	renamed, err := svc.UpdateCategory(deposit)
	require.NoError(t, err)
	assert.Equal(t, models.TagSecurityDeposit, renamed.Tag)
	assert.True(t, renamed.IsSecurityDeposit())

	_, err = svc.AddCategory(models.TransactionCategory{Name: "security deposit", Type: models.CategoryIncome})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDeleteCategoryClearsReferences(t *testing.T) {
	svc, _ := newTestService(t)
	_, tn := addLeasedTenant(t, svc, 1000, 1)
	c, err := svc.AddCategory(models.TransactionCategory{Name: "Tips", Type: models.CategoryIncome, Icon: "coin"})
	require.NoError(t, err)
	_, err = svc.LogIncome(models.Income{Amount: dec(5), Date: now, TenantID: tn.ID, CategoryID: c.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCategory(c.ID))
	assert.Empty(t, svc.ListIncomes()[0].CategoryID)
}

func TestIncomeCategoryTypeChecked(t *testing.T) {
	svc, _ := newTestService(t)
	_, tn := addLeasedTenant(t, svc, 1000, 1)
	repairs := categoryByTag(t, svc, models.TagRepairs)

	_, err := svc.LogIncome(models.Income{Amount: dec(5), Date: now, TenantID: tn.ID, CategoryID: repairs.ID})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRecalculateAllAdvancesWithClock(t *testing.T) {
	log, _ := test.NewNullLogger()
	clk := clock.NewFixed(now)
	svc := NewService(clk, log)
	t.Cleanup(svc.Close)
	svc.Replace(nil, models.NewSeededAppData())

	_, tn := addLeasedTenant(t, svc, 1000, 1)
	assert.True(t, dec(1000).Equal(tn.AmountOwed))

	clk.Set(now.AddDate(0, 2, 0))
	svc.RecalculateAll()
	got, _ := svc.GetTenant(tn.ID)
	assert.True(t, dec(3000).Equal(got.AmountOwed), "got %s", got.AmountOwed)
}

func TestMutationsReachLocalSnapshot(t *testing.T) {
	svc, local := newTestService(t)
	p, _ := addLeasedTenant(t, svc, 1000, 1)

	svc.Flush()
	data, err := local.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Properties, 1)
	assert.Equal(t, p.ID, data.Properties[0].ID)
	assert.True(t, data.Properties[0].IsOccupied)
	require.Len(t, data.Tenants, 1)
}

func TestExportImport(t *testing.T) {
	svc, _ := newTestService(t)
	addLeasedTenant(t, svc, 1000, 2)

	blob, err := svc.Export()
	require.NoError(t, err)

	other, local := newTestService(t)
	require.NoError(t, other.Import(blob))
	assert.Len(t, other.ListTenants(), 1)
	assert.Len(t, other.ListProperties(), 1)

	other.Flush()
	saved, err := local.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, saved.Tenants, 1)

	err = other.Import([]byte("{not json"))
	assert.Error(t, err)
	assert.Len(t, other.ListTenants(), 1)
}

func TestStatement(t *testing.T) {
	svc, _ := newTestService(t)
	_, tn := addLeasedTenant(t, svc, 1000, 1)

	b, err := svc.Statement(tn.ID)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<Statement")

	_, err = svc.Statement("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

type recordingNotifier struct {
	scheduled map[string]notify.Reminder
}

func (r *recordingNotifier) Schedule(rem notify.Reminder) error {
	r.scheduled[rem.Key()] = rem
	return nil
}

func (r *recordingNotifier) Cancel(kind notify.Kind, subjectID string) {
	delete(r.scheduled, notify.Reminder{Kind: kind, SubjectID: subjectID}.Key())
}

func TestRemindersFollowMutations(t *testing.T) {
	svc, _ := newTestService(t)
	log, _ := test.NewNullLogger()
	n := &recordingNotifier{scheduled: map[string]notify.Reminder{}}
	svc.SetPlanner(notify.NewPlanner(n, log))

	p, err := svc.AddProperty(models.Property{Name: "Flat 1", Rent: dec(1000)})
	require.NoError(t, err)
	// next due date is 20 days out, so the rent reminder lies in the future
	tn, err := svc.SaveTenant(models.Tenant{Name: "Ada", PropertyID: p.ID, LeaseStartDate: now.AddDate(0, -1, -10)})
	require.NoError(t, err)
	require.True(t, tn.NextDueDate.Equal(now.AddDate(0, 0, 20)), "got %v", tn.NextDueDate)
	key := notify.Reminder{Kind: notify.KindRentDue, SubjectID: tn.ID}.Key()
	assert.Contains(t, n.scheduled, key)

	require.NoError(t, svc.DeleteTenant(tn.ID))
	assert.NotContains(t, n.scheduled, key)
}

func TestNotFoundErrors(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateProperty(models.Property{ID: "nope", Name: "x"})
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = svc.UpdateIncome(models.Income{ID: "nope", Amount: dec(1), Date: now})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteAppointment("nope"), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteMaintenanceRequest("nope"), ErrNotFound)
	_, err = svc.RecalculateBalance("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
