// Package notify derives reminder times from the dataset and hands them to a
// Notifier, which is responsible for delivering them.
package notify

import (
	"fmt"
	"sort"
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/sirupsen/logrus"
)

// Kind identifies what a reminder is about
type Kind string

const (
	KindRentDue             Kind = "rent_due"
	KindAppointment         Kind = "appointment"
	KindLeaseExpiry         Kind = "lease_expiry"
	KindMaintenanceFollowUp Kind = "maintenance_follow_up"
	KindPropertyDeadline    Kind = "property_deadline"
)

// Lead times relative to the date a reminder is about
const (
	RentDueLead          = 24 * time.Hour
	AppointmentLead      = time.Hour
	LeaseExpiryLeadDays  = 60
	MaintenanceDelayDays = 3
	DeadlineLeadDays     = 30
)

// Reminder is one scheduled notification. Kind and SubjectID identify it.
type Reminder struct {
	Kind      Kind      `json:"kind"`
	SubjectID string    `json:"subjectId"`
	FireAt    time.Time `json:"fireAt"`
	Title     string    `json:"title"`
}

// Key returns the identity used to replace or cancel the reminder
func (r Reminder) Key() string {
	return string(r.Kind) + "/" + r.SubjectID
}

// Notifier schedules and cancels reminders
type Notifier interface {
	Schedule(r Reminder) error
	Cancel(kind Kind, subjectID string)
}

// Plan lists every reminder that should be pending at now.
// Reminders whose fire time has already passed are left out.
func Plan(data *models.AppData, now time.Time) []Reminder {
	var out []Reminder
	add := func(r Reminder) {
		if r.FireAt.After(now) {
			out = append(out, r)
		}
	}

	for _, t := range data.Tenants {
		if !t.IsActive() {
			continue
		}
		if p, ok := data.Property(t.PropertyID); ok && !t.NextDueDate.IsZero() {
			add(Reminder{
				Kind:      KindRentDue,
				SubjectID: t.ID,
				FireAt:    t.NextDueDate.Add(-RentDueLead),
				Title:     fmt.Sprintf("Rent for %s (%s) is due %s", t.Name, p.Name, t.NextDueDate.Format("2006-01-02")),
			})
		}
		if !t.LeaseEndDate.IsZero() {
			add(Reminder{
				Kind:      KindLeaseExpiry,
				SubjectID: t.ID,
				FireAt:    t.LeaseEndDate.AddDate(0, 0, -LeaseExpiryLeadDays),
				Title:     fmt.Sprintf("Lease of %s ends %s", t.Name, t.LeaseEndDate.Format("2006-01-02")),
			})
		}
	}

	for _, a := range data.Appointments {
		if a.Status != models.AppointmentScheduled {
			continue
		}
		add(Reminder{
			Kind:      KindAppointment,
			SubjectID: a.ID,
			FireAt:    a.Date.Add(-AppointmentLead),
			Title:     fmt.Sprintf("Appointment: %s at %s", a.Title, a.Date.Format("2006-01-02 15:04")),
		})
	}

	for _, m := range data.MaintenanceRequests {
		if m.IsResolved {
			continue
		}
		add(Reminder{
			Kind:      KindMaintenanceFollowUp,
			SubjectID: m.ID,
			FireAt:    m.ReportedDate.AddDate(0, 0, MaintenanceDelayDays),
			Title:     fmt.Sprintf("Follow up on maintenance request: %s", m.Title),
		})
	}

	for _, p := range data.Properties {
		for _, d := range p.Deadlines {
			add(Reminder{
				Kind:      KindPropertyDeadline,
				SubjectID: d.ID,
				FireAt:    d.ExpiryDate.AddDate(0, 0, -DeadlineLeadDays),
				Title:     fmt.Sprintf("%s: %s expires %s", p.Name, d.Title, d.ExpiryDate.Format("2006-01-02")),
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

// Planner keeps a Notifier in step with the dataset. It remembers what it
// scheduled so reminders for removed or finished records get cancelled.
type Planner struct {
	notifier  Notifier
	scheduled map[string]Reminder
	log       *logrus.Logger
}

// NewPlanner creates a planner driving n
func NewPlanner(n Notifier, log *logrus.Logger) *Planner {
	return &Planner{notifier: n, scheduled: make(map[string]Reminder), log: log}
}

// Sync schedules new or changed reminders and cancels the ones no longer planned.
// A reminder whose fire time has come is left with the notifier to deliver.
// Callers serialize calls.
func (p *Planner) Sync(data *models.AppData, now time.Time) {
	desired := make(map[string]Reminder)
	for _, r := range Plan(data, now) {
		desired[r.Key()] = r
	}

	for key, r := range p.scheduled {
		if _, ok := desired[key]; ok {
			continue
		}
		if r.FireAt.After(now) {
			p.notifier.Cancel(r.Kind, r.SubjectID)
		}
		delete(p.scheduled, key)
	}
	for key, r := range desired {
		if prev, ok := p.scheduled[key]; ok && prev == r {
			continue
		}
		if err := p.notifier.Schedule(r); err != nil {
			p.log.WithField("reminder", key).Errorf("Failed to schedule reminder: %v", err)
			continue
		}
		p.scheduled[key] = r
	}
}
