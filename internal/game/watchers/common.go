package watchers

import (
	"github.com/magefree/deal-server-go/internal/game/rules"
)

// ActionsWatcher counts committed actions per seat and kind.
type ActionsWatcher struct {
	*rules.BaseWatcher
	committed map[int]map[rules.ActionKind]int // seat -> kind -> count
}

// NewActionsWatcher creates a new actions watcher.
func NewActionsWatcher() *ActionsWatcher {
	w := &ActionsWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		committed:   make(map[int]map[rules.ActionKind]int),
	}
	w.SetKey("ActionsWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *ActionsWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventActionCommitted || event.Seat < 0 {
		return
	}
	byKind, ok := w.committed[event.Seat]
	if !ok {
		byKind = make(map[rules.ActionKind]int)
		w.committed[event.Seat] = byKind
	}
	byKind[event.Kind]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *ActionsWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.committed = make(map[int]map[rules.ActionKind]int)
}

// GetCount returns how often seat committed kind.
func (w *ActionsWatcher) GetCount(seat int, kind rules.ActionKind) int {
	return w.committed[seat][kind]
}

// Total returns every action seat committed, skips included.
func (w *ActionsWatcher) Total(seat int) int {
	total := 0
	for _, n := range w.committed[seat] {
		total += n
	}
	return total
}

// Copy creates a copy of this watcher.
func (w *ActionsWatcher) Copy() rules.Watcher {
	out := NewActionsWatcher()
	out.SetCondition(w.ConditionMet())
	for seat, byKind := range w.committed {
		inner := make(map[rules.ActionKind]int, len(byKind))
		for k, v := range byKind {
			inner[k] = v
		}
		out.committed[seat] = inner
	}
	return out
}

// StealWatcher tracks properties taken from other seats by sly deal, forced
// deal and deal breaker.
type StealWatcher struct {
	*rules.BaseWatcher
	taken map[int]int // thief seat -> cards taken
	lost  map[int]int // victim seat -> cards lost
	sets  map[int]int // thief seat -> whole sets taken
}

// NewStealWatcher creates a new steal watcher.
func NewStealWatcher() *StealWatcher {
	w := &StealWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		taken:       make(map[int]int),
		lost:        make(map[int]int),
		sets:        make(map[int]int),
	}
	w.SetKey("StealWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *StealWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventPropertyStolen, rules.EventPropertiesSwapped:
		w.taken[event.Seat]++
		w.lost[event.Target]++
	case rules.EventSetStolen:
		// Amount carries the number of cards in the set.
		w.taken[event.Seat] += event.Amount
		w.lost[event.Target] += event.Amount
		w.sets[event.Seat]++
	default:
		return
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *StealWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.taken = make(map[int]int)
	w.lost = make(map[int]int)
	w.sets = make(map[int]int)
}

// Taken returns the number of property cards seat took from others.
func (w *StealWatcher) Taken(seat int) int {
	return w.taken[seat]
}

// Lost returns the number of property cards taken from seat.
func (w *StealWatcher) Lost(seat int) int {
	return w.lost[seat]
}

// SetsTaken returns the number of completed sets seat took.
func (w *StealWatcher) SetsTaken(seat int) int {
	return w.sets[seat]
}

// Copy creates a copy of this watcher.
func (w *StealWatcher) Copy() rules.Watcher {
	out := NewStealWatcher()
	out.SetCondition(w.ConditionMet())
	for k, v := range w.taken {
		out.taken[k] = v
	}
	for k, v := range w.lost {
		out.lost[k] = v
	}
	for k, v := range w.sets {
		out.sets[k] = v
	}
	return out
}

// RentWatcher totals debt payments: rent, birthdays and debt collection.
// It is turn scoped, so it reports what changed hands during the current
// seat's turn.
type RentWatcher struct {
	*rules.BaseWatcher
	collected map[int]int // recipient seat -> value received
	paid      map[int]int // payer seat -> value handed over
}

// NewRentWatcher creates a new rent watcher.
func NewRentWatcher() *RentWatcher {
	w := &RentWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeTurn),
		collected:   make(map[int]int),
		paid:        make(map[int]int),
	}
	w.SetKey("RentWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *RentWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDebtPaid {
		return
	}
	w.paid[event.Seat] += event.Amount
	w.collected[event.Target] += event.Amount
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *RentWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.collected = make(map[int]int)
	w.paid = make(map[int]int)
}

// Collected returns the value seat received this turn.
func (w *RentWatcher) Collected(seat int) int {
	return w.collected[seat]
}

// Paid returns the value seat handed over this turn.
func (w *RentWatcher) Paid(seat int) int {
	return w.paid[seat]
}

// Copy creates a copy of this watcher.
func (w *RentWatcher) Copy() rules.Watcher {
	out := NewRentWatcher()
	out.SetCondition(w.ConditionMet())
	for k, v := range w.collected {
		out.collected[k] = v
	}
	for k, v := range w.paid {
		out.paid[k] = v
	}
	return out
}

// RegisterDefaults adds the standard watchers to registry.
func RegisterDefaults(registry *rules.WatcherRegistry) {
	registry.AddWatcher(NewActionsWatcher())
	registry.AddWatcher(NewStealWatcher())
	registry.AddWatcher(NewRentWatcher())
}
