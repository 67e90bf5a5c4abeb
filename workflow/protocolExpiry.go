package workflow

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/models"
	"github.com/defensoria/siri-backend/utils"
	"github.com/sirupsen/logrus"
)

const protocolExpiryLockKey = "protocolExpiryNotifier"

// ProtocolExpiryNotifier periodically mails the superusers a list of
// protocols expiring within the warning window, so replacements are bid
// before the office loses its supply agreements.
type ProtocolExpiryNotifier struct {
	logger        *logrus.Logger
	mailer        *utils.Mailer
	interval      time.Duration
	warningWindow time.Duration
}

func NewProtocolExpiryNotifier(logger *logrus.Logger, mailer *utils.Mailer) *ProtocolExpiryNotifier {
	interval := 24 * time.Hour
	if v := strings.TrimSpace(os.Getenv("PROTOCOL_EXPIRY_CHECK_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			interval = time.Duration(n) * time.Hour
		}
	}
	warningDays := 90
	if v := strings.TrimSpace(os.Getenv("PROTOCOL_EXPIRY_WARNING_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			warningDays = n
		}
	}
	return &ProtocolExpiryNotifier{
		logger:        logger,
		mailer:        mailer,
		interval:      interval,
		warningWindow: time.Duration(warningDays) * 24 * time.Hour,
	}
}

// Run loops until the context is cancelled. One instance across replicas
// does the work per tick; the Redis lock keeps the rest quiet.
func (n *ProtocolExpiryNotifier) Run(ctx context.Context) {
	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.tick(ctx)
		}
	}
}

func (n *ProtocolExpiryNotifier) tick(ctx context.Context) {
	locker := config.GetRedisLock()
	if locker != nil {
		lock, err := locker.Obtain(ctx, protocolExpiryLockKey, n.interval/2, nil)
		if err != nil {
			// another replica took this tick
			return
		}
		defer lock.Release(ctx)
	}

	if err := n.Notify(ctx); err != nil {
		config.LogError(n.logger, "protocolExpiry.go", "tick", "expiry notification", nil, err)
	}
}

// Notify sends one email listing the protocols inside the warning window.
// No expiring protocols means no email.
func (n *ProtocolExpiryNotifier) Notify(ctx context.Context) error {
	deadline := time.Now().Add(n.warningWindow)
	protocols, err := models.ListProtocolsExpiringBy(ctx, deadline)
	if err != nil {
		return err
	}
	if len(protocols) == 0 {
		return nil
	}

	recipients, err := models.ListSuperuserEmails(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	subject, body := BuildExpiryNotification(protocols, deadline)
	if err := n.mailer.Send(recipients, subject, body); err != nil {
		return err
	}

	config.LogInfo(n.logger, "protocolExpiry.go", "Notify",
		fmt.Sprintf("notified %d recipients about %d expiring protocols", len(recipients), len(protocols)))
	return nil
}

// BuildExpiryNotification renders the email subject and body for a batch of
// expiring protocols.
func BuildExpiryNotification(protocols []*models.Protocol, deadline time.Time) (string, string) {
	subject := fmt.Sprintf("Protocols expiring by %s", deadline.Format("2006-01-02"))

	var b strings.Builder
	b.WriteString("The following protocols expire soon:\n\n")
	for _, p := range protocols {
		b.WriteString(" - ")
		b.WriteString(p.Code)
		if p.EndDate != nil {
			b.WriteString(" (expires ")
			b.WriteString(p.EndDate.Format("2006-01-02"))
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	b.WriteString("\nStart the replacement bidding process before they lapse.\n")
	return subject, b.String()
}
