package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/magefree/deal-server-go/internal/game/cards"
)

// EventType indicates the category of a game event.
type EventType string

const (
	EventGameStarted       EventType = "GAME_STARTED"
	EventActionCommitted   EventType = "ACTION_COMMITTED"
	EventCardDrawn         EventType = "CARD_DRAWN"
	EventCardDiscarded     EventType = "CARD_DISCARDED"
	EventDeckReshuffled    EventType = "DECK_RESHUFFLED"
	EventMoneyBanked       EventType = "MONEY_BANKED"
	EventPropertyPlayed    EventType = "PROPERTY_PLAYED"
	EventPropertyMoved     EventType = "PROPERTY_MOVED"
	EventPropertyStolen    EventType = "PROPERTY_STOLEN"
	EventPropertiesSwapped EventType = "PROPERTIES_SWAPPED"
	EventSetStolen         EventType = "SET_STOLEN"
	EventRentCharged       EventType = "RENT_CHARGED"
	EventDebtPaid          EventType = "DEBT_PAID"
	EventTurnAdvanced      EventType = "TURN_ADVANCED"
	EventGameWon           EventType = "GAME_WON"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type      EventType
	ID        string       // Unique event ID
	Seat      int          // Seat that caused the event
	Target    int          // Other seat involved, or NoSelection
	Kind      ActionKind   // Action being committed, if any
	CardID    int          // Card involved, or NoSelection
	Colour    cards.Colour // Colour involved, or NoSelection
	Amount    int
	Turn      int
	Timestamp time.Time
	Metadata  map[string]string
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle,
// whether it was registered for all events or for one type.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}

// PublishBatch publishes events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, seat, target int) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.NewString(),
		Seat:      seat,
		Target:    target,
		Kind:      ActionNone,
		CardID:    NoSelection,
		Colour:    NoSelection,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// NewCardEvent creates an event about one card.
func NewCardEvent(eventType EventType, seat, target, cardID int) Event {
	evt := NewEvent(eventType, seat, target)
	evt.CardID = cardID
	return evt
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, seat, target, amount int) Event {
	evt := NewEvent(eventType, seat, target)
	evt.Amount = amount
	return evt
}
