// Package toast manages transient user-facing notifications. State changes
// flow through a pure reducer; a Manager owns the single live state, fans
// changes out to subscribers and schedules the removal of dismissed toasts.
package toast

// Variant is the visual style of a toast
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSuccess     Variant = "success"
	VariantDestructive Variant = "destructive"
)

// Toast is a single notification
type Toast struct {
	ID          string  `json:"id"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Open        bool    `json:"open"`
	Variant     Variant `json:"variant"`
}

// Props are the caller-supplied fields of a new toast
type Props struct {
	Title       string
	Description string
	Variant     Variant
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	Open        *bool
	Variant     *Variant
}

// State is the ordered toast sequence, newest first
type State struct {
	Toasts []Toast `json:"toasts"`
}

// Action is one of AddToast, UpdateToast, DismissToast or RemoveToast.
type Action interface {
	isAction()
}

// AddToast inserts a toast at the front of the sequence
type AddToast struct {
	Toast Toast
}

// UpdateToast merges Patch into the toast with the given ID
type UpdateToast struct {
	ID    string
	Patch Patch
}

// DismissToast closes the toast with the given ID, or every toast when ID
// is empty
type DismissToast struct {
	ID string
}

// RemoveToast drops the toast with the given ID, or every toast when ID is
// empty
type RemoveToast struct {
	ID string
}

func (AddToast) isAction()     {}
func (UpdateToast) isAction()  {}
func (DismissToast) isAction() {}
func (RemoveToast) isAction()  {}

// Reduce returns the state that results from applying action to state.
// The input state is never modified.
func Reduce(state State, action Action, limit int) State {
	switch a := action.(type) {
	case AddToast:
		toasts := make([]Toast, 0, len(state.Toasts)+1)
		toasts = append(toasts, a.Toast)
		toasts = append(toasts, state.Toasts...)
		if limit > 0 && len(toasts) > limit {
			toasts = toasts[:limit]
		}
		return State{Toasts: toasts}

	case UpdateToast:
		toasts := clone(state.Toasts)
		for i := range toasts {
			if toasts[i].ID == a.ID {
				toasts[i] = a.Patch.apply(toasts[i])
			}
		}
		return State{Toasts: toasts}

	case DismissToast:
		toasts := clone(state.Toasts)
		for i := range toasts {
			if a.ID == "" || toasts[i].ID == a.ID {
				toasts[i].Open = false
			}
		}
		return State{Toasts: toasts}

	case RemoveToast:
		if a.ID == "" {
			return State{Toasts: []Toast{}}
		}
		toasts := make([]Toast, 0, len(state.Toasts))
		for _, t := range state.Toasts {
			if t.ID != a.ID {
				toasts = append(toasts, t)
			}
		}
		return State{Toasts: toasts}
	}
	return state
}

func (p Patch) apply(t Toast) Toast {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Open != nil {
		t.Open = *p.Open
	}
	if p.Variant != nil {
		t.Variant = *p.Variant
	}
	return t
}

func clone(toasts []Toast) []Toast {
	out := make([]Toast, len(toasts))
	copy(out, toasts)
	return out
}
