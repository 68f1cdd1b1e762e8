package history

// DefaultLimit is the undo depth used when a non-positive limit is given.
const DefaultLimit = 100

// History is an undo/redo log of snapshots of type T.
//
// Thread Safety: History is not safe for concurrent use. The store calls it
// while holding its own lock.
type History[T any] struct {
	past   []T
	future []T
	limit  int
}

// New creates a history that keeps at most limit undo entries.
func New[T any](limit int) *History[T] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History[T]{limit: limit}
}

// Record pushes the snapshot that a mutation is about to replace and clears
// the redo stack.
func (h *History[T]) Record(prev T) {
	h.past = append(h.past, prev)
	if over := len(h.past) - h.limit; over > 0 {
		var zero T
		for i := 0; i < over; i++ {
			h.past[i] = zero
		}
		h.past = h.past[over:]
	}
	h.clearFuture()
}

// Undo pops the most recent snapshot, pushing current onto the redo stack.
// It returns false when there is nothing to undo.
func (h *History[T]) Undo(current T) (T, bool) {
	var zero T
	if len(h.past) == 0 {
		return zero, false
	}
	prev := h.past[len(h.past)-1]
	h.past[len(h.past)-1] = zero
	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, current)
	return prev, true
}

// Redo pops the most recently undone snapshot, pushing current onto the
// undo stack. It returns false when there is nothing to redo.
func (h *History[T]) Redo(current T) (T, bool) {
	var zero T
	if len(h.future) == 0 {
		return zero, false
	}
	next := h.future[len(h.future)-1]
	h.future[len(h.future)-1] = zero
	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, current)
	return next, true
}

// CanUndo reports whether Undo would succeed.
func (h *History[T]) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History[T]) CanRedo() bool { return len(h.future) > 0 }

// UndoDepth returns the number of undo entries.
func (h *History[T]) UndoDepth() int { return len(h.past) }

// RedoDepth returns the number of redo entries.
func (h *History[T]) RedoDepth() int { return len(h.future) }

// Limit returns the maximum undo depth.
func (h *History[T]) Limit() int { return h.limit }

// Clear drops both stacks.
func (h *History[T]) Clear() {
	h.past = nil
	h.future = nil
}

func (h *History[T]) clearFuture() {
	var zero T
	for i := range h.future {
		h.future[i] = zero
	}
	h.future = h.future[:0]
}
