package notify

import (
	"context"
	"fmt"
	"time"

	"wallgrab/pkg/config"
	"wallgrab/pkg/logger"
	"wallgrab/pkg/models"
)

// TimestampLayout renders as [dd/MM/yyyy|HH:mm]
const TimestampLayout = "[02/01/2006|15:04]"

// Notifier formats run events and hands them to a Sender.
// Delivery failures are logged and never returned.
type Notifier struct {
	sender  Sender
	channel string
	jobName string
	timeout time.Duration
	now     func() time.Time
	logger  logger.Logger
}

// NewNotifier creates a notifier posting to cfg.Channel
func NewNotifier(sender Sender, cfg config.NotificationConfig, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Notifier{
		sender:  sender,
		channel: cfg.Channel,
		jobName: cfg.JobName,
		timeout: cfg.Timeout,
		now:     time.Now,
		logger:  log,
	}
}

// SetClock replaces the clock used for timestamps
func (n *Notifier) SetClock(now func() time.Time) {
	n.now = now
}

// Timestamp returns the current time in TimestampLayout
func (n *Notifier) Timestamp() string {
	return n.now().Format(TimestampLayout)
}

// Post sends "<timestamp> -- text"
func (n *Notifier) Post(ctx context.Context, text string) {
	msg := fmt.Sprintf("%s -- %s", n.Timestamp(), text)

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	if err := n.sender.Send(ctx, n.channel, msg); err != nil {
		n.logger.WithError(err).WarnWithFields("Notification not delivered", map[string]interface{}{
			"channel": n.channel,
			"text":    msg,
		})
	}
}

// ReportOutcome announces whether a single image was downloaded
func (n *Notifier) ReportOutcome(ctx context.Context, o models.Outcome) {
	if o.Success {
		n.Post(ctx, o.Name+" was downloaded")
		return
	}
	n.Post(ctx, o.Name+" was not downloaded")
}

// ReportError announces that the run aborted
func (n *Notifier) ReportError(ctx context.Context, err error) {
	n.Post(ctx, fmt.Sprintf("Error running %s:\n%v", n.jobName, err))
}
