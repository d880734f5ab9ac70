package live

import (
	"sync"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
)

// subscriberBuffer is the number of pending notifications kept per subscriber
const subscriberBuffer = 1

// Broker is an in-process per-event publish/subscribe hub. Notifications carry
// no payload; a subscriber that has not drained its channel misses further
// signals until it does.
type Broker struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[types.EventID]map[uint64]chan struct{}
}

var _ interfaces.LiveBroker = (*Broker)(nil)

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[types.EventID]map[uint64]chan struct{}),
	}
}

// Publish signals every subscriber of eventID
func (b *Broker) Publish(eventID types.EventID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[eventID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe registers a subscriber for eventID
func (b *Broker) Subscribe(eventID types.EventID) (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	ch := make(chan struct{}, subscriberBuffer)
	if b.subs[eventID] == nil {
		b.subs[eventID] = make(map[uint64]chan struct{})
	}
	b.subs[eventID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[eventID], id)
			if len(b.subs[eventID]) == 0 {
				delete(b.subs, eventID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of subscribers of eventID
func (b *Broker) Subscribers(eventID types.EventID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[eventID])
}
