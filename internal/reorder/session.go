// Package reorder implements an in-memory drag-and-drop reorder session:
// one item at a time is picked up, the sequence reorders live as the drag
// passes over other positions, and the final order is handed to a callback
// on drop.
//
// A Session is owned by a single interactive view (one gesture at a time);
// it is not safe for concurrent use and deliberately has no locking.
package reorder

// Session tracks an ordered sequence and at most one active drag.
//
// The sequence is a snapshot of the caller's source list. Reordering never
// creates or destroys items; Drop hands the final order to onComplete and
// the caller is responsible for persisting it (and for reconciling, e.g. by
// calling Reset with the authoritative order afterwards).
type Session[T any] struct {
	items      []T
	active     int // index of the item being dragged; -1 when idle
	onComplete func([]T)
}

// NewSession copies items so later mutations of the source slice don't leak
// into an in-flight gesture. onComplete may be nil.
func NewSession[T any](items []T, onComplete func([]T)) *Session[T] {
	s := &Session[T]{active: -1, onComplete: onComplete}
	s.Reset(items)
	return s
}

// Reset replaces the sequence with a fresh snapshot of the source list and
// discards any active drag without firing the callback.
func (s *Session[T]) Reset(items []T) {
	s.items = append(s.items[:0:0], items...)
	s.active = -1
}

// Begin starts a drag on the item at index. Out-of-range indices are
// ignored; a Begin during an active drag re-targets the session (the UI
// only delivers one press per gesture, so this is a guard, not a feature).
func (s *Session[T]) Begin(index int) {
	if index < 0 || index >= len(s.items) {
		return
	}
	s.active = index
}

// Enter relocates the dragged item to target and makes target the new
// active index, so subsequent enters continue from the item's current
// position. No-op when idle or when target is the active index.
func (s *Session[T]) Enter(target int) {
	if s.active < 0 {
		return
	}
	if target < 0 || target >= len(s.items) {
		return
	}
	if target == s.active {
		return
	}

	moved := s.items[s.active]
	rest := make([]T, 0, len(s.items)-1)
	rest = append(rest, s.items[:s.active]...)
	rest = append(rest, s.items[s.active+1:]...)

	next := make([]T, 0, len(s.items))
	next = append(next, rest[:target]...)
	next = append(next, moved)
	next = append(next, rest[target:]...)

	s.items = next
	s.active = target
}

// Drop ends the gesture: the session returns to idle and onComplete fires
// exactly once with the final order. Drop while idle does nothing.
func (s *Session[T]) Drop() {
	if s.active < 0 {
		return
	}
	s.active = -1
	if s.onComplete != nil {
		s.onComplete(s.Items())
	}
}

// Cancel ends the gesture without firing the callback (e.g. the view goes
// away mid-drag). The in-memory order keeps any reorders already applied;
// callers that want the source order back should Reset.
func (s *Session[T]) Cancel() {
	s.active = -1
}

// Dragging reports whether a drag is in progress.
func (s *Session[T]) Dragging() bool { return s.active >= 0 }

// Active returns the index of the item currently being dragged.
func (s *Session[T]) Active() (int, bool) {
	if s.active < 0 {
		return 0, false
	}
	return s.active, true
}

// Items returns a copy of the current sequence.
func (s *Session[T]) Items() []T {
	return append([]T(nil), s.items...)
}

// Len returns the sequence length.
func (s *Session[T]) Len() int { return len(s.items) }
