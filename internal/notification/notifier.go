// Package notification alerts administrators about new contractor
// applications and keeps undelivered alerts for later retries.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

const (
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusAbandoned = "abandoned"

	targetAdmin = "admin_notification"
)

// FailedNotification is an alert that every configured channel rejected.
type FailedNotification struct {
	ID          string
	Target      string
	Payload     map[string]string
	Error       string
	Attempts    int
	Status      string
	CreatedAt   time.Time
	LastTriedAt time.Time
}

// FailureStore persists undelivered alerts.
type FailureStore interface {
	Save(ctx context.Context, failure FailedNotification) error
	ListPending(ctx context.Context, limit int) ([]FailedNotification, error)
	UpdateResult(ctx context.Context, id, status string, attempts int, lastErr string, triedAt time.Time) error
}

// Sender delivers a message to one destination.
type Sender interface {
	SendWithRetry(ctx context.Context, destination, userID, text string, attempts int, delay time.Duration) error
}

// Application summarises a freshly submitted listing for the alert text.
type Application struct {
	ContractorID string
	Name         string
	Email        string
	Phone        string
	Website      string
	City         string
	State        string
	StatesServed []string
	Services     []string
}

// Config wires a Notifier.
type Config struct {
	Logger             *log.Logger
	Sender             Sender
	Failures           FailureStore
	DiscordDestination string
	SlackDestination   string
	AdminReviewBaseURL string
	// DiscordAttempts defaults to 3 and DiscordRetryDelay to 200ms.
	DiscordAttempts   int
	DiscordRetryDelay time.Duration
}

// Notifier sends admin alerts, Discord first and Slack as a fallback.
type Notifier struct {
	logger       *log.Logger
	sender       Sender
	failures     FailureStore
	discordDest  string
	slackDest    string
	adminBaseURL string
	discordTries int
	discordDelay time.Duration
	now          func() time.Time
}

// New builds a Notifier. It returns nil when no destination is configured,
// and a nil Notifier ignores every call.
func New(cfg Config) *Notifier {
	discord := strings.TrimSpace(cfg.DiscordDestination)
	slack := strings.TrimSpace(cfg.SlackDestination)
	if cfg.Sender == nil || (discord == "" && slack == "") {
		return nil
	}
	tries := cfg.DiscordAttempts
	if tries <= 0 {
		tries = 3
	}
	delay := cfg.DiscordRetryDelay
	if delay == 0 {
		delay = 200 * time.Millisecond
	}
	return &Notifier{
		logger:       cfg.Logger,
		sender:       cfg.Sender,
		failures:     cfg.Failures,
		discordDest:  discord,
		slackDest:    slack,
		adminBaseURL: strings.TrimRight(strings.TrimSpace(cfg.AdminReviewBaseURL), "/"),
		discordTries: tries,
		discordDelay: delay,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// NotifyApplication alerts the admins about app. When all channels fail the
// alert is stored as pending.
func (n *Notifier) NotifyApplication(ctx context.Context, app Application) {
	if n == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	payload := map[string]string{
		"identifier":     identifierFor(app),
		"contractorId":   app.ContractorID,
		"contractorName": app.Name,
		"discord":        buildDiscordMessage(n.adminBaseURL, app),
		"slack":          buildSlackMessage(n.adminBaseURL, app),
	}

	attempts, err := n.deliver(ctx, payload)
	if err == nil {
		return
	}

	if n.failures == nil {
		return
	}
	now := n.now()
	failure := FailedNotification{
		Target:      targetAdmin,
		Payload:     payload,
		Error:       err.Error(),
		Attempts:    attempts,
		Status:      StatusPending,
		CreatedAt:   now,
		LastTriedAt: now,
	}
	if saveErr := n.failures.Save(ctx, failure); saveErr != nil {
		n.logf("failed to store undelivered notification: %v", saveErr)
	}
}

// RetryPending re-sends up to limit pending alerts. Alerts reaching
// maxAttempts without success are marked abandoned. It returns how many were
// delivered.
func (n *Notifier) RetryPending(ctx context.Context, limit, maxAttempts int) (int, error) {
	if n == nil || n.failures == nil {
		return 0, nil
	}
	pending, err := n.failures.ListPending(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list pending notifications: %w", err)
	}

	delivered := 0
	for _, failure := range pending {
		used, sendErr := n.deliver(ctx, failure.Payload)
		attempts := failure.Attempts + used
		status := StatusSent
		lastErr := ""
		if sendErr != nil {
			lastErr = sendErr.Error()
			status = StatusPending
			if maxAttempts > 0 && attempts >= maxAttempts {
				status = StatusAbandoned
			}
		} else {
			delivered++
		}
		if err := n.failures.UpdateResult(ctx, failure.ID, status, attempts, lastErr, n.now()); err != nil {
			n.logf("failed to update notification %s: %v", failure.ID, err)
		}
	}
	return delivered, nil
}

// deliver tries Discord then Slack and reports the attempts spent.
func (n *Notifier) deliver(ctx context.Context, payload map[string]string) (int, error) {
	identifier := payload["identifier"]
	if identifier == "" {
		identifier = "admin"
	}

	var discordErr, slackErr error
	attempts := 0

	if n.discordDest != "" {
		discordErr = n.sender.SendWithRetry(ctx, n.discordDest, identifier, payload["discord"], n.discordTries, n.discordDelay)
		attempts += n.discordTries
		if discordErr == nil {
			return attempts, nil
		}
		n.logf("discord notification failed: %v", discordErr)
	}

	if n.slackDest != "" {
		message := payload["slack"]
		if message == "" {
			message = payload["discord"]
		}
		slackErr = n.sender.SendWithRetry(ctx, n.slackDest, identifier, message, 1, 0)
		attempts++
		if slackErr == nil {
			return attempts, nil
		}
		n.logf("slack notification failed: %v", slackErr)
	}

	return attempts, errors.Join(discordErr, slackErr)
}

func (n *Notifier) logf(format string, args ...any) {
	if n.logger != nil {
		n.logger.Printf(format, args...)
	}
}

func identifierFor(app Application) string {
	if app.ContractorID != "" {
		return app.ContractorID
	}
	if email := strings.TrimSpace(app.Email); email != "" {
		return email
	}
	return "admin"
}

func buildDiscordMessage(adminBaseURL string, app Application) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**%s** applied to the contractor directory.\n", app.Name))
	builder.WriteString(fmt.Sprintf("- Location: %s, %s\n", app.City, app.State))
	if len(app.StatesServed) > 0 {
		builder.WriteString(fmt.Sprintf("- Serves: %s\n", strings.Join(app.StatesServed, ", ")))
	}
	if len(app.Services) > 0 {
		builder.WriteString(fmt.Sprintf("- Services: %s\n", strings.Join(app.Services, ", ")))
	}
	builder.WriteString(fmt.Sprintf("- Contact: %s / %s\n", app.Email, app.Phone))
	if app.Website != "" {
		builder.WriteString(fmt.Sprintf("- Website: %s\n", app.Website))
	}
	if app.ContractorID != "" && adminBaseURL != "" {
		builder.WriteString(fmt.Sprintf("[Review the draft](%s/%s)\n", adminBaseURL, app.ContractorID))
	}
	return builder.String()
}

func buildSlackMessage(adminBaseURL string, app Application) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(":zap: %s applied to the contractor directory.\n", app.Name))
	builder.WriteString(fmt.Sprintf("Location: %s, %s\n", app.City, app.State))
	if len(app.Services) > 0 {
		builder.WriteString(fmt.Sprintf("Services: %s\n", strings.Join(app.Services, ", ")))
	}
	builder.WriteString(fmt.Sprintf("Contact: %s\n", app.Email))
	if app.ContractorID != "" && adminBaseURL != "" {
		builder.WriteString(fmt.Sprintf("Review: %s/%s\n", adminBaseURL, app.ContractorID))
	}
	return builder.String()
}
