package reminder

import "time"

// Actions a user can take on a notification, as they appear on the wire.
type Action string

const (
	ActionTaken   Action = "taken"
	ActionSkipped Action = "skipped"
	ActionRefill  Action = "refill"
	ActionCured   Action = "cured"
)

// ValidAction reports whether a is one of the four ways a notification
// resolves.
func ValidAction(a Action) bool {
	switch a {
	case ActionTaken, ActionSkipped, ActionRefill, ActionCured:
		return true
	}
	return false
}

// State is the full notification state for one account session. It is only
// ever changed by Apply, which returns a new value; nothing mutates a State
// in place.
type State struct {
	Active    []Notification
	Dismissed map[string]bool
	Completed map[string]bool
}

func NewState() State {
	return State{
		Active:    []Notification{},
		Dismissed: map[string]bool{},
		Completed: map[string]bool{},
	}
}

// Event is one of EvaluateEvent, ActEvent or DismissAllEvent.
type Event interface {
	isEvent()
}

// EvaluateEvent folds freshly materialized notifications into the active set.
type EvaluateEvent struct {
	Fresh []Notification
}

// ActEvent records the user acting on one notification. Side effects of the
// action (writing the dose log, refilling, deleting the medicine) happen in
// the service layer; the reducer only resolves notification state. Acting on
// any notification resolves every notification for that medicine and marks
// the medicine completed for the day.
type ActEvent struct {
	NotificationID string
	Now            time.Time
}

// DismissAllEvent clears the panel, permanently dismissing everything active.
type DismissAllEvent struct{}

func (EvaluateEvent) isEvent()   {}
func (ActEvent) isEvent()        {}
func (DismissAllEvent) isEvent() {}

// Apply is the reducer: (state, event) -> new state.
func Apply(s State, e Event) State {
	switch ev := e.(type) {
	case EvaluateEvent:
		next := clone(s)
		seen := make(map[string]bool, len(next.Active))
		for _, n := range next.Active {
			seen[n.ID] = true
		}
		for _, n := range ev.Fresh {
			if seen[n.ID] || next.Dismissed[n.ID] {
				continue
			}
			next.Active = append(next.Active, n)
			seen[n.ID] = true
		}
		return next

	case ActEvent:
		var acted *Notification
		for i := range s.Active {
			if s.Active[i].ID == ev.NotificationID {
				acted = &s.Active[i]
				break
			}
		}
		if acted == nil {
			return s
		}
		next := clone(s)
		medicineID := acted.MedicineID
		remaining := next.Active[:0]
		for _, n := range next.Active {
			if n.MedicineID == medicineID {
				next.Dismissed[n.ID] = true
				continue
			}
			remaining = append(remaining, n)
		}
		next.Active = remaining
		next.Completed[completedKey(medicineID, ev.Now)] = true
		return next

	case DismissAllEvent:
		next := clone(s)
		for _, n := range next.Active {
			next.Dismissed[n.ID] = true
		}
		next.Active = []Notification{}
		return next
	}
	return s
}

// Find returns the active notification with the given id, if any.
func (s State) Find(id string) (Notification, bool) {
	for _, n := range s.Active {
		if n.ID == id {
			return n, true
		}
	}
	return Notification{}, false
}

func clone(s State) State {
	next := State{
		Active:    make([]Notification, len(s.Active)),
		Dismissed: make(map[string]bool, len(s.Dismissed)),
		Completed: make(map[string]bool, len(s.Completed)),
	}
	copy(next.Active, s.Active)
	for id := range s.Dismissed {
		next.Dismissed[id] = true
	}
	for k := range s.Completed {
		next.Completed[k] = true
	}
	return next
}
