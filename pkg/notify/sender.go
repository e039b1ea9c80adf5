package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"wallgrab/pkg/config"
	"wallgrab/pkg/errors"
	"wallgrab/pkg/logger"
)

// Sender delivers a chat message to a channel
type Sender interface {
	Send(ctx context.Context, channel, text string) error
}

// SlackSender posts messages with a Slack bot token
type SlackSender struct {
	client *slack.Client
}

// NewSlackSender creates a Slack sender. apiURL overrides the Slack API base
// address and is left empty outside tests.
func NewSlackSender(token, apiURL string) *SlackSender {
	var opts []slack.Option
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		opts = append(opts, slack.OptionAPIURL(apiURL))
	}
	return &SlackSender{client: slack.New(token, opts...)}
}

func (s *SlackSender) Send(ctx context.Context, channel, text string) error {
	_, _, err := s.client.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	if err != nil {
		return errors.Wrap(errors.ErrorTypeNotify, err, "post to slack")
	}
	return nil
}

// LogSender writes messages to the structured log instead of a chat service
type LogSender struct {
	logger logger.Logger
}

// NewLogSender creates a sender that logs every message at info level
func NewLogSender(log logger.Logger) *LogSender {
	if log == nil {
		log = logger.GetLogger()
	}
	return &LogSender{logger: log}
}

func (l *LogSender) Send(_ context.Context, channel, text string) error {
	l.logger.InfoWithFields(text, map[string]interface{}{
		"channel": channel,
	})
	return nil
}

// NopSender drops every message
type NopSender struct{}

func (NopSender) Send(context.Context, string, string) error { return nil }

// NewSender picks the sender named by cfg.Type
func NewSender(cfg config.NotificationConfig, log logger.Logger) (Sender, error) {
	switch cfg.Type {
	case config.NotifySlack:
		if cfg.Token == "" {
			return nil, errors.New(errors.ErrorTypeConfig, "slack notifications need a bot token")
		}
		return NewSlackSender(cfg.Token, cfg.APIURL), nil
	case config.NotifyLog:
		return NewLogSender(log), nil
	case config.NotifyNone:
		return NopSender{}, nil
	default:
		return nil, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("unknown notification type %q", cfg.Type))
	}
}
