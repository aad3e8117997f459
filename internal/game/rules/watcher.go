package rules

import (
	"fmt"
	"sort"
	"sync"
)

// WatcherScope defines the scope of a watcher's tracking.
type WatcherScope int

const (
	// WatcherScopeGame tracks events for the entire game.
	WatcherScopeGame WatcherScope = iota
	// WatcherScopeTurn tracks events until the seat changes.
	WatcherScopeTurn
)

// String returns the string representation of the watcher scope.
func (ws WatcherScope) String() string {
	switch ws {
	case WatcherScopeGame:
		return "GAME"
	case WatcherScopeTurn:
		return "TURN"
	default:
		return "UNKNOWN"
	}
}

// Watcher observes game events and accumulates statistics or conditions.
type Watcher interface {
	// Watch is called for every published event.
	Watch(event Event)

	// Reset clears the watcher's condition and state.
	Reset()

	// ConditionMet returns true if the condition this watcher tracks has been met.
	ConditionMet() bool

	GetScope() WatcherScope

	// GetKey returns a unique key for this watcher instance.
	GetKey() string

	// Copy creates a deep copy of this watcher.
	Copy() Watcher
}

// BaseWatcher provides the bookkeeping shared by all watchers.
type BaseWatcher struct {
	scope     WatcherScope
	condition bool
	key       string
}

// NewBaseWatcher creates a new base watcher with the specified scope.
func NewBaseWatcher(scope WatcherScope) *BaseWatcher {
	return &BaseWatcher{scope: scope}
}

// GetScope returns the watcher's scope.
func (bw *BaseWatcher) GetScope() WatcherScope {
	return bw.scope
}

// ConditionMet returns whether the condition has been met.
func (bw *BaseWatcher) ConditionMet() bool {
	return bw.condition
}

// SetCondition sets the condition flag.
func (bw *BaseWatcher) SetCondition(condition bool) {
	bw.condition = condition
}

// Reset clears the condition.
func (bw *BaseWatcher) Reset() {
	bw.condition = false
}

// GetKey returns the unique key for this watcher.
func (bw *BaseWatcher) GetKey() string {
	return bw.key
}

// SetKey sets the unique key for this watcher.
func (bw *BaseWatcher) SetKey(key string) {
	bw.key = key
}

// WatcherRegistry manages watchers for a game.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers map[string]Watcher
	byScope  map[WatcherScope][]Watcher
}

// NewWatcherRegistry creates a new watcher registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{
		watchers: make(map[string]Watcher),
		byScope:  make(map[WatcherScope][]Watcher),
	}
}

// AddWatcher adds a watcher to the registry. A watcher without a key is
// keyed by its scope and registration order.
func (wr *WatcherRegistry) AddWatcher(watcher Watcher) {
	if watcher == nil {
		return
	}

	wr.mu.Lock()
	defer wr.mu.Unlock()

	key := watcher.GetKey()
	if key == "" {
		key = fmt.Sprintf("%s_%d", watcher.GetScope(), len(wr.watchers))
		if setter, ok := watcher.(interface{ SetKey(string) }); ok {
			setter.SetKey(key)
		}
	}

	if old, ok := wr.watchers[key]; ok {
		wr.removeFromScope(old.GetScope(), key)
	}
	wr.watchers[key] = watcher
	scope := watcher.GetScope()
	wr.byScope[scope] = append(wr.byScope[scope], watcher)
}

// RemoveWatcher removes a watcher from the registry.
func (wr *WatcherRegistry) RemoveWatcher(key string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()

	watcher, ok := wr.watchers[key]
	if !ok {
		return
	}
	delete(wr.watchers, key)
	wr.removeFromScope(watcher.GetScope(), key)
}

func (wr *WatcherRegistry) removeFromScope(scope WatcherScope, key string) {
	watchers := wr.byScope[scope]
	for i, w := range watchers {
		if w.GetKey() == key {
			wr.byScope[scope] = append(watchers[:i], watchers[i+1:]...)
			return
		}
	}
}

// GetWatcher retrieves a watcher by key.
func (wr *WatcherRegistry) GetWatcher(key string) Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	return wr.watchers[key]
}

// GetWatchersByScope returns all watchers for a given scope.
func (wr *WatcherRegistry) GetWatchersByScope(scope WatcherScope) []Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	watchers := wr.byScope[scope]
	result := make([]Watcher, len(watchers))
	copy(result, watchers)
	return result
}

// Keys returns the registered keys in sorted order.
func (wr *WatcherRegistry) Keys() []string {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	keys := make([]string, 0, len(wr.watchers))
	for key := range wr.watchers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ResetWatchersByScope resets all watchers for a given scope.
func (wr *WatcherRegistry) ResetWatchersByScope(scope WatcherScope) {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	for _, watcher := range wr.byScope[scope] {
		watcher.Reset()
	}
}

// NotifyWatchers delivers an event to every watcher. Turn-scoped watchers
// are reset after a TURN_ADVANCED event has been delivered.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	wr.mu.RLock()
	for _, watcher := range wr.watchers {
		watcher.Watch(event)
	}
	wr.mu.RUnlock()

	if event.Type == EventTurnAdvanced {
		wr.ResetWatchersByScope(WatcherScopeTurn)
	}
}

// Attach subscribes the registry to bus and returns the subscription handle.
func (wr *WatcherRegistry) Attach(bus *EventBus) int {
	return bus.Subscribe(wr.NotifyWatchers)
}
