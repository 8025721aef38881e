// Package mailer sends seller notifications over SMTP.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Notifier implements domain.Notifier. With no SMTP host configured, or for
// listings without a contact email, it only logs.
type Notifier struct {
	cfg    Config
	dialer dialer
	logger *logger.Logger
}

func NewNotifier(cfg Config, log *logger.Logger) *Notifier {
	n := &Notifier{cfg: cfg, logger: log.Named("Mailer")}
	if cfg.Host == "" {
		n.logger.Info("SMTP host not configured, email notifications disabled")
		return n
	}
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	n.dialer = d
	return n
}

func (n *Notifier) NotifyOffer(ctx context.Context, listing *domain.Listing, offer *domain.Offer) error {
	kind := "offer"
	if offer.IsBid {
		kind = "bid"
	}
	subject := fmt.Sprintf("New %s on %s", kind, listing.Domain)
	body := fmt.Sprintf("You received a %s of $%.2f on %s.", kind, offer.Amount, listing.Domain)
	if offer.Message != "" {
		body += "\n\nMessage from the buyer:\n" + offer.Message
	}
	return n.send(ctx, listing.ContactEmail, subject, body)
}

func (n *Notifier) NotifyReview(ctx context.Context, listing *domain.Listing) error {
	var subject, body string
	switch listing.Status {
	case domain.StatusApproved:
		subject = fmt.Sprintf("%s is now live", listing.Domain)
		body = fmt.Sprintf("Your listing for %s was approved and is visible in the marketplace.", listing.Domain)
	case domain.StatusRejected:
		subject = fmt.Sprintf("%s was not approved", listing.Domain)
		body = fmt.Sprintf("Your listing for %s was rejected.", listing.Domain)
		if listing.RejectReason != "" {
			body += "\n\nReason: " + listing.RejectReason
		}
	default:
		return nil
	}
	return n.send(ctx, listing.ContactEmail, subject, body)
}

func (n *Notifier) send(ctx context.Context, to, subject, body string) error {
	if n.dialer == nil || to == "" {
		n.logger.Debug("Skipping email", zap.String("subject", subject), zap.Bool("has_recipient", to != ""))
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.Sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	done := make(chan error, 1)
	go func() { done <- n.dialer.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		n.logger.Warn("Email sending cancelled", zap.String("subject", subject), zap.Error(ctx.Err()))
		return fmt.Errorf("email sending cancelled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			n.logger.Error("Failed to send email", zap.String("subject", subject), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}
	n.logger.Info("Email sent", zap.String("subject", subject))
	return nil
}
