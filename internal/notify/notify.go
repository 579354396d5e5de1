package notify

import (
	"context"
	"os"

	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// Notifier delivers a run summary to an external channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// slackAPI is the slice of the slack client the notifier needs; narrowed
// for testability.
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts benchmark summaries to a Slack channel.
type SlackNotifier struct {
	client  slackAPI
	channel string
}

// NewSlackNotifier builds a notifier from configuration. Returns nil when
// slack notifications are disabled or no token is available; callers
// treat a nil notifier as "do nothing".
func NewSlackNotifier() *SlackNotifier {
	if !viper.GetBool("notifications.slack.enabled") {
		return nil
	}
	botToken := os.Getenv("SLACK_BOT_USER_TOKEN")
	if botToken == "" {
		return nil
	}
	return &SlackNotifier{
		client:  slack.New(botToken),
		channel: viper.GetString("notifications.slack.channel"),
	}
}

// Notify posts the message.
func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	_, _, err := s.client.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(message, false))
	return err
}
