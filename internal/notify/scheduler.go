package notify

import (
	"context"
	"sort"
	"sync"

	"github.com/arafatrahman/Property-Rental-Management/internal/clock"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Deliverer sends a reminder to the user
type Deliverer interface {
	Deliver(r Reminder) error
}

// LogDeliverer writes reminders to the log. Used when email is not configured.
type LogDeliverer struct {
	Log *logrus.Logger
}

// Deliver logs the reminder
func (d LogDeliverer) Deliver(r Reminder) error {
	d.Log.WithField("kind", r.Kind).Infof("Reminder: %s", r.Title)
	return nil
}

// Scheduler is an in-process Notifier. A cron job periodically hands due
// reminders to the Deliverer and drops them.
type Scheduler struct {
	mu        sync.Mutex
	pending   map[string]Reminder
	deliverer Deliverer
	clock     clock.Clock
	cron      *cron.Cron
	log       *logrus.Logger
}

// NewScheduler creates a scheduler; call Start to begin dispatching
func NewScheduler(d Deliverer, clk clock.Clock, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		pending:   make(map[string]Reminder),
		deliverer: d,
		clock:     clk,
		cron:      cron.New(),
		log:       log,
	}
}

// Schedule stores r, replacing any reminder with the same kind and subject
func (s *Scheduler) Schedule(r Reminder) error {
	s.mu.Lock()
	s.pending[r.Key()] = r
	s.mu.Unlock()
	s.log.Debugf("Scheduled %s at %s", r.Key(), r.FireAt)
	return nil
}

// Cancel drops the reminder for the subject, if any
func (s *Scheduler) Cancel(kind Kind, subjectID string) {
	s.mu.Lock()
	delete(s.pending, Reminder{Kind: kind, SubjectID: subjectID}.Key())
	s.mu.Unlock()
}

// Pending returns the reminders not yet delivered, earliest first
func (s *Scheduler) Pending() []Reminder {
	s.mu.Lock()
	out := make([]Reminder, 0, len(s.pending))
	for _, r := range s.pending {
		out = append(out, r)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}

// Start registers the dispatch job with the given cron spec and starts cron
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.Dispatch); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("Reminder dispatch scheduled: %s", spec)
	return nil
}

// Stop stops cron; the returned context is done once a running dispatch finishes
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Dispatch delivers every reminder whose fire time has come.
// Delivery failures are logged and the reminder is dropped.
func (s *Scheduler) Dispatch() {
	now := s.clock.Now()

	s.mu.Lock()
	var due []Reminder
	for key, r := range s.pending {
		if !r.FireAt.After(now) {
			due = append(due, r)
			delete(s.pending, key)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].FireAt.Before(due[j].FireAt) })
	for _, r := range due {
		if err := s.deliverer.Deliver(r); err != nil {
			s.log.WithField("reminder", r.Key()).Errorf("Failed to deliver reminder: %v", err)
		}
	}
}
