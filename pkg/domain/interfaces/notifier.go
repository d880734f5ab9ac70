package interfaces

import (
	"context"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
)

// AlertNotifier forwards live event alerts to an external channel
type AlertNotifier interface {
	NotifyAlert(ctx context.Context, event *model.Event, alert *model.Alert) error
}
