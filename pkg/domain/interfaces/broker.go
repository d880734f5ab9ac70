package interfaces

import "github.com/eventgrid/eventgrid/pkg/domain/types"

// LiveBroker fans out change notifications for live event data
type LiveBroker interface {
	// Publish signals every subscriber of the event without blocking
	Publish(eventID types.EventID)

	// Subscribe returns a notification channel and a function releasing it
	Subscribe(eventID types.EventID) (<-chan struct{}, func())
}
