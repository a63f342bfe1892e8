package intervals

// Iterator walks the stored intervals in ascending order without copying
// the set. Each step is a fresh probe for the first start after the current
// one, so adding intervals between steps is allowed; the walk then continues
// over the updated set.
type Iterator[T any] struct {
	store   *Store[T]
	current Interval[T]
	from    T
	started bool
	valid   bool
}

// Iterate returns an iterator over every stored interval.
func (r *Store[T]) Iterate() *Iterator[T] {
	it := &Iterator[T]{store: r}
	if first, ok := r.starts.Min(); ok {
		it.from = first.key
	} else {
		it.started = true
	}
	return it
}

// IterateFrom returns an iterator over the stored intervals starting at or
// after v.
func (r *Store[T]) IterateFrom(v T) *Iterator[T] {
	return &Iterator[T]{store: r, from: v}
}

func (r *Iterator[T]) Next() bool {
	if !r.started {
		r.started = true
		r.current, r.valid = r.store.GetFirstStartFrom(r.from)
		return r.valid
	}
	if !r.valid {
		return false
	}
	r.current, r.valid = r.store.getFirstStartAfter(r.current.Start)
	return r.valid
}

func (r *Iterator[T]) Value() Interval[T] {
	return r.current
}
