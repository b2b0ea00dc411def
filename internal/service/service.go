// Package service owns the in-memory dataset. Every mutation, cascade and
// balance recalculation runs under one lock, and each committed change is
// queued for saving to whichever repository is currently active.
package service

import (
	"fmt"
	"sync"

	"github.com/arafatrahman/Property-Rental-Management/internal/clock"
	"github.com/arafatrahman/Property-Rental-Management/internal/ledger"
	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/arafatrahman/Property-Rental-Management/internal/notify"
	"github.com/arafatrahman/Property-Rental-Management/internal/repository"
	"github.com/arafatrahman/Property-Rental-Management/internal/statement"
	"github.com/sirupsen/logrus"
)

// Service handles dataset mutations and ledger upkeep
type Service struct {
	mu      sync.Mutex
	data    *models.AppData
	rev     uint64
	repo    repository.Repository
	writer  *writer
	planner *notify.Planner
	clock   clock.Clock
	log     *logrus.Logger
}

// NewService initializes a service holding an empty dataset and no repository
func NewService(clk clock.Clock, log *logrus.Logger) *Service {
	return &Service{
		data:   models.NewSeededAppData(),
		writer: newWriter(log),
		clock:  clk,
		log:    log,
	}
}

// SetPlanner attaches the reminder planner re-run after every change
func (s *Service) SetPlanner(p *notify.Planner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planner = p
	s.syncReminders()
}

// Flush waits for queued saves to finish
func (s *Service) Flush() {
	s.writer.flush()
}

// Close drains the save queue; the service must not be mutated afterwards
func (s *Service) Close() {
	s.writer.close()
}

// Snapshot returns a deep copy of the dataset and its revision
func (s *Service) Snapshot() (*models.AppData, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone(), s.rev
}

// Replace installs data as the dataset and repo as the save target.
// Balances are re-derived; nothing is saved unless default categories had to be seeded.
func (s *Service) Replace(repo repository.Repository, data *models.AppData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data.Normalize()
	seeded := data.SeedCategories()
	s.data = data
	s.repo = repo
	s.rev++
	s.reconcileOccupancy()
	s.recalculateAll()
	s.syncReminders()
	if seeded {
		s.persist()
	}
}

// Clear empties the dataset and detaches the repository without saving
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo = nil
	s.data = models.NewAppData()
	s.rev++
	s.syncReminders()
}

// Detach stops saving changes; the dataset is kept
func (s *Service) Detach() {
	s.mu.Lock()
	s.repo = nil
	s.mu.Unlock()
}

// Attach makes repo the save target. The dataset is saved to it when it
// changed after revision since.
func (s *Service) Attach(repo repository.Repository, since uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo = repo
	if s.rev != since {
		s.persist()
	}
}

// RecalculateBalance re-derives one tenant's balance, due date and deposit flag
func (s *Service) RecalculateBalance(tenantID string) (models.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data.Tenant(tenantID)
	if !ok {
		return models.Tenant{}, notFound("tenant", tenantID)
	}
	s.recalculate(t)
	s.commit()
	return *t, nil
}

// RecalculateAll re-derives every tenant's balance. Run on each foreground/activation event.
func (s *Service) RecalculateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recalculateAll()
	s.commit()
}

// Export encodes the current dataset in the snapshot format
func (s *Service) Export() ([]byte, error) {
	s.Flush()
	s.mu.Lock()
	defer s.mu.Unlock()
	return repository.Encode(s.data)
}

// Import replaces the whole dataset with the decoded blob and saves it.
// The previous dataset is discarded.
func (s *Service) Import(blob []byte) error {
	data, err := repository.Decode(blob)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data.SeedCategories()
	s.data = data
	s.recalculateAll()
	s.commit()
	s.log.Infof("Imported dataset: %d properties, %d tenants", len(data.Properties), len(data.Tenants))
	return nil
}

// Statement renders the tenant's ledger as XML
func (s *Service) Statement(tenantID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.data.Tenant(tenantID)
	if !ok {
		return nil, notFound("tenant", tenantID)
	}
	now := s.clock.Now()
	cp := *t
	r := ledger.Compute(&cp, s.data, now)
	return statement.Render(&cp, s.data, r, clock.StartOfDay(now))
}

// commit finishes a mutation: back-references are rebuilt, reminders
// re-planned and the dataset queued for saving
func (s *Service) commit() {
	s.rev++
	s.reconcileOccupancy()
	s.syncReminders()
	s.persist()
}

func (s *Service) persist() {
	if s.repo == nil {
		return
	}
	s.writer.enqueue(s.repo, s.data.Clone())
}

func (s *Service) syncReminders() {
	if s.planner != nil {
		s.planner.Sync(s.data, s.clock.Now())
	}
}

func (s *Service) recalculate(t *models.Tenant) {
	r := ledger.Compute(t, s.data, s.clock.Now())
	ledger.Apply(t, r)
	t.IsDepositPaid = ledger.DepositPaid(t.ID, s.data)
	s.log.WithField("tenant", t.ID).Debugf("Balance %s, next due %s", t.AmountOwed, t.NextDueDate.Format("2006-01-02"))
}

func (s *Service) recalculateAll() {
	for i := range s.data.Tenants {
		s.recalculate(&s.data.Tenants[i])
	}
}

// recalculateTenants re-derives the listed tenants, skipping blanks and unknown IDs
func (s *Service) recalculateTenants(ids ...string) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		if t, ok := s.data.Tenant(id); ok {
			s.recalculate(t)
		}
	}
}

// recalculateProperty re-derives every tenant linked to the listed properties
func (s *Service) recalculateProperty(ids ...string) {
	for i := range s.data.Tenants {
		t := &s.data.Tenants[i]
		for _, id := range ids {
			if id != "" && t.PropertyID == id {
				s.recalculate(t)
				break
			}
		}
	}
}

// reconcileOccupancy rebuilds Property.IsOccupied and Property.TenantID from
// the active tenants' PropertyID, which is the authoritative side of the link
func (s *Service) reconcileOccupancy() {
	for i := range s.data.Properties {
		s.data.Properties[i].IsOccupied = false
		s.data.Properties[i].TenantID = ""
	}
	for _, t := range s.data.Tenants {
		if !t.IsActive() {
			continue
		}
		p, ok := s.data.Property(t.PropertyID)
		if !ok || p.IsOccupied {
			continue
		}
		p.IsOccupied = true
		p.TenantID = t.ID
	}
}

// occupant returns the active tenant other than exclude leasing the property
func (s *Service) occupant(propertyID, exclude string) (*models.Tenant, bool) {
	for i := range s.data.Tenants {
		t := &s.data.Tenants[i]
		if t.ID != exclude && t.IsActive() && t.PropertyID == propertyID {
			return t, true
		}
	}
	return nil, false
}

func (s *Service) requireProperty(id string) error {
	if id == "" {
		return nil
	}
	if _, ok := s.data.Property(id); !ok {
		return notFound("property", id)
	}
	return nil
}

func (s *Service) requireTenant(id string) error {
	if id == "" {
		return nil
	}
	if _, ok := s.data.Tenant(id); !ok {
		return notFound("tenant", id)
	}
	return nil
}

func (s *Service) requireCategory(id string, typ models.CategoryType) error {
	if id == "" {
		return nil
	}
	c, ok := s.data.Category(id)
	if !ok {
		return notFound("category", id)
	}
	if c.Type != typ {
		return invalid("category %s is an %s category", c.Name, c.Type)
	}
	return nil
}

func summary(d *models.AppData) string {
	return fmt.Sprintf("%d properties, %d tenants, %d incomes, %d expenses",
		len(d.Properties), len(d.Tenants), len(d.Incomes), len(d.Expenses))
}
