package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	slackSvc "github.com/eventgrid/eventgrid/pkg/service/slack"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/eventgrid/eventgrid/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

const maxPayloadSize = 1 << 20

// Handler handles Slack interaction webhooks for live alerts
type Handler struct {
	signingSecret string
	live          usecase.LiveUseCase
	client        interfaces.SlackClient
	blocks        *slackSvc.BlockBuilder
}

// NewHandler creates a new Slack handler. client may be nil, in which case
// resolved alerts are not reflected back into the Slack message.
func NewHandler(live usecase.LiveUseCase, signingSecret string, client interfaces.SlackClient) *Handler {
	return &Handler{
		signingSecret: signingSecret,
		live:          live,
		client:        client,
		blocks:        slackSvc.NewBlockBuilder(),
	}
}

// HandleInteraction handles a single Slack interaction
func (h *Handler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.signingSecret == "" {
		h.writeError(ctx, w, goerr.New("Slack not configured"), http.StatusServiceUnavailable)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadSize))
	if err != nil {
		h.writeError(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest)
		return
	}

	if err := h.verify(r.Header, body); err != nil {
		ctxlog.From(ctx).Warn("Invalid Slack signature for interaction", "error", err)
		h.writeError(ctx, w, goerr.Wrap(err, "invalid signature"), http.StatusUnauthorized)
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		h.writeError(ctx, w, goerr.Wrap(err, "failed to parse form"), http.StatusBadRequest)
		return
	}
	payload := form.Get("payload")
	if payload == "" {
		h.writeError(ctx, w, goerr.New("payload not found"), http.StatusBadRequest)
		return
	}

	var interaction slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &interaction); err != nil {
		h.writeError(ctx, w, goerr.Wrap(err, "failed to unmarshal interaction payload"), http.StatusBadRequest)
		return
	}

	ctxlog.From(ctx).Info("Handling Slack interaction",
		"type", string(interaction.Type),
		"user", interaction.User.ID,
		"team", interaction.Team.ID,
	)

	if interaction.Type == slack.InteractionTypeBlockActions {
		for _, action := range interaction.ActionCallback.BlockActions {
			if action.ActionID != slackSvc.ResolveAlertActionID {
				ctxlog.From(ctx).Debug("Unhandled block action", "actionID", action.ActionID)
				continue
			}
			// Slack retries unacknowledged interactions, so failures are logged
			// and still acknowledged.
			if err := h.resolveAlert(ctx, &interaction, action.Value); err != nil {
				ctxlog.From(ctx).Warn("Failed to resolve alert from Slack",
					"error", err,
					"value", action.Value,
					"user", interaction.User.ID,
				)
			}
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) resolveAlert(ctx context.Context, interaction *slack.InteractionCallback, value string) error {
	ref, err := slackSvc.ParseAlertRef(value)
	if err != nil {
		return err
	}

	alert, err := h.live.ResolveAlert(ctx, ref.OrganizerID, ref.EventID, ref.AlertID)
	if err != nil {
		return err
	}

	ctxlog.From(ctx).Info("Alert resolved from Slack",
		"eventID", ref.EventID,
		"alertID", ref.AlertID,
		"slackUser", interaction.User.ID,
	)

	channelID := interaction.Channel.ID
	ts := interaction.Container.MessageTs
	if h.client == nil || channelID == "" || ts == "" {
		return nil
	}

	blocks := h.blocks.BuildResolvedBlocks(alert, interaction.User.ID)
	async.Dispatch(ctx, func(ctx context.Context) error {
		_, _, _, err := h.client.UpdateMessage(ctx, channelID, ts,
			slack.MsgOptionText("Resolved: "+alert.Title, false),
			slack.MsgOptionBlocks(blocks...),
		)
		return err
	})
	return nil
}

// verify checks the X-Slack-Signature header against the raw body
func (h *Handler) verify(header http.Header, body []byte) error {
	sv, err := slack.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return goerr.Wrap(err, "failed to read signature headers")
	}
	if _, err := sv.Write(body); err != nil {
		return goerr.Wrap(err, "failed to hash request body")
	}
	if err := sv.Ensure(); err != nil {
		return goerr.Wrap(err, "signature mismatch")
	}
	return nil
}

// writeError writes an error response
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	}); err != nil {
		ctxlog.From(ctx).Error("Failed to encode error response", "error", err)
	}
}
