package slack

import (
	"fmt"
	"strings"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// ResolveAlertActionID is the action ID of the button that resolves an alert
const ResolveAlertActionID = "resolve_alert"

// AlertRef identifies an alert and the organizer allowed to resolve it.
// It travels as the value of the resolve button.
type AlertRef struct {
	OrganizerID types.UserID
	EventID     types.EventID
	AlertID     types.AlertID
}

// String encodes the reference as a button value
func (r AlertRef) String() string {
	return strings.Join([]string{string(r.OrganizerID), string(r.EventID), string(r.AlertID)}, "|")
}

// ParseAlertRef decodes a button value produced by AlertRef.String
func ParseAlertRef(value string) (AlertRef, error) {
	parts := strings.Split(value, "|")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return AlertRef{}, goerr.New("malformed alert reference", goerr.V("value", value))
	}
	return AlertRef{
		OrganizerID: types.UserID(parts[0]),
		EventID:     types.EventID(parts[1]),
		AlertID:     types.AlertID(parts[2]),
	}, nil
}

// GetSeverityEmoji returns emoji based on alert severity
func GetSeverityEmoji(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return "🚨"
	case "high":
		return "🔴"
	case "medium":
		return "⚠️"
	case "low":
		return "ℹ️"
	default:
		return "❓"
	}
}

// BlockBuilder provides methods to build Slack message blocks
type BlockBuilder struct{}

// NewBlockBuilder creates a new BlockBuilder instance
func NewBlockBuilder() *BlockBuilder {
	return &BlockBuilder{}
}

// AlertFallbackText is the plain text shown in notifications for an alert
func AlertFallbackText(event *model.Event, alert *model.Alert) string {
	return fmt.Sprintf("%s [%s] %s: %s", GetSeverityEmoji(alert.Severity), event.Title, alert.Title, alert.Message)
}

// BuildAlertBlocks builds the message blocks for a live event alert
func (b *BlockBuilder) BuildAlertBlocks(event *model.Event, alert *model.Alert) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("%s %s", GetSeverityEmoji(alert.Severity), alert.Title), true, false),
	)

	blocks := []slack.Block{header}

	if alert.Message != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, alert.Message, false, false),
			nil, nil,
		))
	}

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Event:*\n%s", event.Title), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Severity:*\n%s", alert.Severity), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Type:*\n%s", alert.Type), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Category:*\n%s", alert.Category), false, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	blocks = append(blocks, slack.NewContextBlock(
		"",
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("Alert `%s` for %s at <!date^%d^{date_short_pretty} {time}|%s>",
				alert.ID, strings.Join(alert.Recipients, ", "),
				alert.CreatedAt.Unix(), alert.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")),
			false, false),
	))

	if !alert.IsResolved() {
		ref := AlertRef{OrganizerID: event.OrganizerID, EventID: event.ID, AlertID: alert.ID}
		button := slack.NewButtonBlockElement(ResolveAlertActionID, ref.String(),
			slack.NewTextBlockObject(slack.PlainTextType, "Mark resolved", false, false),
		).WithStyle(slack.StylePrimary)
		blocks = append(blocks, slack.NewActionBlock("alert_actions", button))
	}

	return blocks
}

// BuildResolvedBlocks replaces the alert message once the alert is resolved
func (b *BlockBuilder) BuildResolvedBlocks(alert *model.Alert, slackUserID string) []slack.Block {
	resolvedAt := alert.CreatedAt
	if alert.ResolvedAt != nil {
		resolvedAt = *alert.ResolvedAt
	}

	by := "EventGrid"
	if slackUserID != "" {
		by = fmt.Sprintf("<@%s>", slackUserID)
	}

	return []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, "✅ Resolved: "+alert.Title, true, false),
		),
		slack.NewContextBlock(
			"",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("Alert `%s` resolved by %s at %s",
					alert.ID, by, resolvedAt.UTC().Format("2006-01-02 15:04 UTC")),
				false, false),
		),
	}
}
