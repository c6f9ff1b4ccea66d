package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/debt-indexation/internal/config"
	"github.com/Dan9191/debt-indexation/internal/models"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
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

// SendClaimNotice sends the debtor a statement of the accrued claim
func (s *Sender) SendClaimNotice(to, name string, calc models.Calculation) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Overdue Debt Claim Notice"
	e.Text = []byte(claimNoticeBody(name, calc))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send claim notice to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Claim notice %s sent to %s", calc.ID, to)
	return nil
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + " UAH"
}

func claimNoticeBody(name string, calc models.Calculation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	fmt.Fprintf(&b,
		"Your debt of %s has been overdue from %s to %s.\n",
		money(calc.Claim.Principal),
		calc.Claim.StartDate,
		calc.Claim.EndDate,
	)
	fmt.Fprintf(&b, "Inflation losses: %s\n", money(calc.Result.InflationLoss))
	fmt.Fprintf(&b, "Penalty (3%% per annum): %s\n", money(calc.Result.Penalty))
	fmt.Fprintf(&b, "Total amount due: %s\n", money(calc.Result.TotalDebt))
	fmt.Fprintf(&b, "\nClaim reference: %s\n", calc.ID)
	b.WriteString("\nBest regards,\nDebt Indexation Service")
	return b.String()
}
