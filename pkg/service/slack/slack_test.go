package slack_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	slackSvc "github.com/eventgrid/eventgrid/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/slack-go/slack"
)

type mockSlackClient struct {
	mu       sync.Mutex
	channels []string
	options  [][]slack.MsgOption
	err      error
}

func (m *mockSlackClient) PostMessage(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", "", m.err
	}
	m.channels = append(m.channels, channelID)
	m.options = append(m.options, options)
	return channelID, "1700000000.000100", nil
}

func (m *mockSlackClient) UpdateMessage(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	return channelID, timestamp, "", nil
}

func (m *mockSlackClient) AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error) {
	return &slack.AuthTestResponse{UserID: "UBOT"}, nil
}

func testAlert() (*model.Event, *model.Alert) {
	event := &model.Event{ID: types.EventID("evt_1"), OrganizerID: types.UserID("usr_1"), Title: "Tech Summit 2025"}
	alert := model.NewAlert(event.ID, model.AlertRequest{
		Severity: "high",
		Title:    "Catering delayed",
		Message:  "Truck stuck in traffic",
	})
	alert.CreatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return event, alert
}

func TestGetSeverityEmoji(t *testing.T) {
	testCases := []struct {
		severity string
		expected string
	}{
		{"critical", "🚨"},
		{"HIGH", "🔴"},
		{"medium", "⚠️"},
		{"low", "ℹ️"},
		{"whatever", "❓"},
	}

	for _, tc := range testCases {
		t.Run(tc.severity, func(t *testing.T) {
			gt.Equal(t, slackSvc.GetSeverityEmoji(tc.severity), tc.expected)
		})
	}
}

func TestBuildAlertBlocks(t *testing.T) {
	event, alert := testAlert()
	blocks := slackSvc.NewBlockBuilder().BuildAlertBlocks(event, alert)

	gt.A(t, blocks).Length(5)

	header, ok := blocks[0].(*slack.HeaderBlock)
	gt.True(t, ok)
	gt.Equal(t, header.Text.Text, "🔴 Catering delayed")

	section, ok := blocks[1].(*slack.SectionBlock)
	gt.True(t, ok)
	gt.Equal(t, section.Text.Text, "Truck stuck in traffic")

	fields, ok := blocks[2].(*slack.SectionBlock)
	gt.True(t, ok)
	gt.A(t, fields.Fields).Length(4)
	gt.Equal(t, fields.Fields[0].Text, "*Event:*\nTech Summit 2025")
	gt.Equal(t, fields.Fields[3].Text, "*Category:*\ngeneral")

	actions, ok := blocks[4].(*slack.ActionBlock)
	gt.True(t, ok)
	gt.A(t, actions.Elements.ElementSet).Length(1)
	button, ok := actions.Elements.ElementSet[0].(*slack.ButtonBlockElement)
	gt.True(t, ok)
	gt.Equal(t, button.ActionID, slackSvc.ResolveAlertActionID)
	gt.Equal(t, button.Value, "usr_1|evt_1|"+string(alert.ID))
}

func TestBuildAlertBlocks_Resolved(t *testing.T) {
	event, alert := testAlert()
	alert.Resolve(alert.CreatedAt.Add(time.Minute))

	blocks := slackSvc.NewBlockBuilder().BuildAlertBlocks(event, alert)
	gt.A(t, blocks).Length(4)

	resolved := slackSvc.NewBlockBuilder().BuildResolvedBlocks(alert, "U123")
	gt.A(t, resolved).Length(2)
	header, ok := resolved[0].(*slack.HeaderBlock)
	gt.True(t, ok)
	gt.Equal(t, header.Text.Text, "✅ Resolved: Catering delayed")
	ctxBlock, ok := resolved[1].(*slack.ContextBlock)
	gt.True(t, ok)
	text, ok := ctxBlock.ContextElements.Elements[0].(*slack.TextBlockObject)
	gt.True(t, ok)
	gt.S(t, text.Text).Contains("resolved by <@U123> at 2025-03-01 10:01 UTC")
}

func TestAlertRef(t *testing.T) {
	ref := slackSvc.AlertRef{OrganizerID: "usr_1", EventID: "evt_1", AlertID: "alert_1"}
	parsed, err := slackSvc.ParseAlertRef(ref.String())
	gt.NoError(t, err)
	gt.Equal(t, parsed, ref)

	for _, value := range []string{"", "usr_1|evt_1", "usr_1||alert_1", "a|b|c|d"} {
		if _, err := slackSvc.ParseAlertRef(value); err == nil {
			t.Fatalf("expected %q to be rejected", value)
		}
	}
}

func TestBuildAlertBlocks_WithoutMessage(t *testing.T) {
	event, alert := testAlert()
	alert.Message = ""

	blocks := slackSvc.NewBlockBuilder().BuildAlertBlocks(event, alert)
	gt.A(t, blocks).Length(4)
}

func TestAlertFallbackText(t *testing.T) {
	event, alert := testAlert()
	gt.Equal(t, slackSvc.AlertFallbackText(event, alert), "🔴 [Tech Summit 2025] Catering delayed: Truck stuck in traffic")
}

func TestNotifier_NotifyAlert(t *testing.T) {
	ctx := context.Background()
	event, alert := testAlert()

	t.Run("posts to configured channel", func(t *testing.T) {
		client := &mockSlackClient{}
		notifier := slackSvc.NewNotifier(client, "C_ALERTS")

		gt.NoError(t, notifier.NotifyAlert(ctx, event, alert))
		gt.A(t, client.channels).Length(1)
		gt.Equal(t, client.channels[0], "C_ALERTS")
		gt.A(t, client.options[0]).Length(2)
	})

	t.Run("propagates post failure", func(t *testing.T) {
		client := &mockSlackClient{err: goerr.New("channel_not_found")}
		notifier := slackSvc.NewNotifier(client, "C_MISSING")

		gt.Error(t, notifier.NotifyAlert(ctx, event, alert))
	})

	t.Run("rejects missing alert", func(t *testing.T) {
		notifier := slackSvc.NewNotifier(&mockSlackClient{}, "C_ALERTS")
		gt.Error(t, notifier.NotifyAlert(ctx, event, nil))
	})
}
