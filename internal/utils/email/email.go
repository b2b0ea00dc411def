package email

import (
	"fmt"
	"net/smtp"

	"github.com/arafatrahman/Property-Rental-Management/internal/config"
	"github.com/arafatrahman/Property-Rental-Management/internal/notify"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

var subjects = map[notify.Kind]string{
	notify.KindRentDue:             "Upcoming Rent Payment",
	notify.KindAppointment:         "Upcoming Appointment",
	notify.KindLeaseExpiry:         "Lease Expiring Soon",
	notify.KindMaintenanceFollowUp: "Maintenance Follow-up",
	notify.KindPropertyDeadline:    "Property Deadline Approaching",
}

// Sender handles sending reminder emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Deliver emails a reminder to the configured landlord address
func (s *Sender) Deliver(r notify.Reminder) error {
	e := s.build(r)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", s.cfg.ReminderEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", s.cfg.ReminderEmail, e.Subject)
	return nil
}

func (s *Sender) build(r notify.Reminder) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{s.cfg.ReminderEmail}
	e.Subject = subjects[r.Kind]
	if e.Subject == "" {
		e.Subject = "Reminder"
	}

	body := "Hello,\n\n"
	body += r.Title + "\n"
	body += fmt.Sprintf("Reminder time: %s\n", r.FireAt.Format("2006-01-02 15:04"))
	body += "\nBest regards,\nRental Ledger"
	e.Text = []byte(body)
	return e
}
