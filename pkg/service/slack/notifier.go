package slack

import (
	"context"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Notifier posts live event alerts to a Slack channel
type Notifier struct {
	client    interfaces.SlackClient
	channelID string
	blocks    *BlockBuilder
}

var _ interfaces.AlertNotifier = (*Notifier)(nil)

// NewNotifier creates a notifier posting to channelID
func NewNotifier(client interfaces.SlackClient, channelID string) *Notifier {
	return &Notifier{
		client:    client,
		channelID: channelID,
		blocks:    NewBlockBuilder(),
	}
}

// NotifyAlert posts the alert to the configured channel
func (n *Notifier) NotifyAlert(ctx context.Context, event *model.Event, alert *model.Alert) error {
	if event == nil || alert == nil {
		return goerr.New("event and alert are required")
	}

	_, ts, err := n.client.PostMessage(ctx, n.channelID,
		slack.MsgOptionText(AlertFallbackText(event, alert), false),
		slack.MsgOptionBlocks(n.blocks.BuildAlertBlocks(event, alert)...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post alert",
			goerr.V("eventID", event.ID),
			goerr.V("alertID", alert.ID),
			goerr.V("channelID", n.channelID))
	}

	ctxlog.From(ctx).Info("Alert posted to Slack",
		"eventID", event.ID,
		"alertID", alert.ID,
		"channelID", n.channelID,
		"ts", ts,
	)
	return nil
}
