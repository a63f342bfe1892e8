package intervals

import (
	"cmp"
	"errors"

	"github.com/go-logr/logr"
	"github.com/google/btree"
)

// Store keeps a set of half-open intervals maximally coalesced: overlapping
// or abutting intervals are fused on Add and intervals that are already
// covered are ignored.
//
// The set is indexed twice, once by start and once by limit, so that the
// neighbours of any value can be found in O(log n) from either side. Both
// indices are only mutated together through insert and the remove helpers.
//
// Every method expects start <= limit for the intervals it is given; the
// store does not validate that ordering. A Store is not safe for concurrent
// use.
type Store[T any] struct {
	compare func(a, b T) int
	starts  *btree.BTreeG[endpoint[T]] // start -> limit
	limits  *btree.BTreeG[endpoint[T]] // limit -> start
	log     logr.Logger
}

// New returns an empty store for a naturally ordered element type. Floating
// point stores must not be given NaN endpoints.
func New[T cmp.Ordered](opts ...Option) *Store[T] {
	return NewFunc(cmp.Compare[T], opts...)
}

// NewFunc returns an empty store ordering elements with compare, which must
// define a total order and return a negative number, zero or a positive
// number as a sorts before, equal to or after b.
func NewFunc[T any](compare func(a, b T) int, opts ...Option) *Store[T] {
	o := newOptions(opts)
	less := func(a, b endpoint[T]) bool { return compare(a.key, b.key) < 0 }
	return &Store[T]{
		compare: compare,
		starts:  btree.NewG(o.degree, less),
		limits:  btree.NewG(o.degree, less),
		log:     o.log,
	}
}

// Len returns the number of stored intervals.
func (r *Store[T]) Len() int {
	return r.starts.Len()
}

// Add inserts [start, limit), merging it with every stored interval it
// overlaps or touches. Empty intervals and intervals already covered by a
// stored interval leave the store unchanged.
func (r *Store[T]) Add(start, limit T) {
	if r.compare(start, limit) == 0 {
		return
	}
	if r.isDominatedByExisting(start, limit) {
		r.log.V(1).Info("dominated by existing interval", "start", start, "limit", limit)
		return
	}

	r.removeIntervalsDominatedBy(start, limit)

	// The store is maximally coalesced, so once the dominated intervals are
	// gone at most one interval can touch each edge of the new one.
	left, hasLeft := r.findCollisionLeft(start, limit)
	right, hasRight := r.findCollisionRight(start, limit)

	r.log.V(1).Info("considering", "start", start, "limit", limit,
		"collisionLeft", hasLeft, "collisionRight", hasRight)

	switch {
	case !hasLeft && !hasRight:
		r.insert(start, limit)
	case !hasLeft:
		r.removeWithStartAt(right.Start)
		r.assert(r.compare(right.Limit, limit) > 0, "right collision %v does not extend past limit %v", right, limit)
		r.insert(start, right.Limit)
	case !hasRight:
		r.removeWithStartAt(left.Start)
		r.assert(r.compare(left.Start, start) < 0, "left collision %v does not begin before start %v", left, start)
		r.insert(left.Start, limit)
	default:
		r.removeWithStartAt(left.Start)
		r.removeWithLimitAt(right.Limit)
		r.assert(r.compare(left.Start, start) < 0, "left collision %v does not begin before start %v", left, start)
		r.assert(r.compare(limit, right.Limit) < 0, "right collision %v does not extend past limit %v", right, limit)
		r.insert(left.Start, right.Limit)
	}
}

// GetIntervalContaining returns the stored interval holding v, if any.
func (r *Store[T]) GetIntervalContaining(v T) (Interval[T], bool) {
	// first interval whose limit is strictly after v
	var found endpoint[T]
	ok := false
	r.limits.AscendGreaterOrEqual(endpoint[T]{key: v}, func(e endpoint[T]) bool {
		if r.compare(e.key, v) == 0 {
			return true
		}
		found, ok = e, true
		return false
	})
	if !ok || r.compare(found.other, v) > 0 {
		return Interval[T]{}, false
	}
	return Interval[T]{Start: found.other, Limit: found.key}, true
}

// Contains reports whether v lies inside one of the stored intervals.
func (r *Store[T]) Contains(v T) bool {
	_, ok := r.GetIntervalContaining(v)
	return ok
}

// GetFirstStartFrom returns the stored interval with the smallest start that
// is at or after v.
func (r *Store[T]) GetFirstStartFrom(v T) (Interval[T], bool) {
	var found Interval[T]
	ok := false
	r.starts.AscendGreaterOrEqual(endpoint[T]{key: v}, func(e endpoint[T]) bool {
		found, ok = Interval[T]{Start: e.key, Limit: e.other}, true
		return false
	})
	return found, ok
}

// getFirstStartAfter is GetFirstStartFrom with v excluded.
func (r *Store[T]) getFirstStartAfter(v T) (Interval[T], bool) {
	var found Interval[T]
	ok := false
	r.starts.AscendGreaterOrEqual(endpoint[T]{key: v}, func(e endpoint[T]) bool {
		if r.compare(e.key, v) == 0 {
			return true
		}
		found, ok = Interval[T]{Start: e.key, Limit: e.other}, true
		return false
	})
	return found, ok
}

// ToSlice returns a copy of the stored intervals in ascending order.
func (r *Store[T]) ToSlice() []Interval[T] {
	out := make([]Interval[T], 0, r.starts.Len())
	r.starts.Ascend(func(e endpoint[T]) bool {
		out = append(out, Interval[T]{Start: e.key, Limit: e.other})
		return true
	})
	return out
}

// CheckInvariants walks both indices and returns every inconsistency found:
// empty or inverted intervals, entries missing from the mirror index, and
// stored intervals that overlap or touch. It is meant for tests and fuzzing;
// it is O(n).
func (r *Store[T]) CheckInvariants() error {
	var errm error
	if r.starts.Len() != r.limits.Len() {
		errm = errors.Join(errm, invariantf("start index has %d entries, limit index has %d", r.starts.Len(), r.limits.Len()))
	}

	var prev endpoint[T]
	first := true
	r.starts.Ascend(func(e endpoint[T]) bool {
		if r.compare(e.key, e.other) >= 0 {
			errm = errors.Join(errm, invariantf("start index holds non-positive interval [%v, %v)", e.key, e.other))
		}
		if m, ok := r.limits.Get(endpoint[T]{key: e.other}); !ok || r.compare(m.other, e.key) != 0 {
			errm = errors.Join(errm, invariantf("interval [%v, %v) missing from limit index", e.key, e.other))
		}
		if !first && r.compare(prev.other, e.key) >= 0 {
			errm = errors.Join(errm, invariantf("intervals [%v, %v) and [%v, %v) are not separated", prev.key, prev.other, e.key, e.other))
		}
		prev, first = e, false
		return true
	})
	r.limits.Ascend(func(e endpoint[T]) bool {
		if r.compare(e.other, e.key) >= 0 {
			errm = errors.Join(errm, invariantf("limit index holds non-positive interval [%v, %v)", e.other, e.key))
		}
		if m, ok := r.starts.Get(endpoint[T]{key: e.other}); !ok || r.compare(m.other, e.key) != 0 {
			errm = errors.Join(errm, invariantf("interval [%v, %v) missing from start index", e.other, e.key))
		}
		return true
	})
	return errm
}

// isDominatedByExisting reports whether a stored interval already covers
// [start, limit). Only the two neighbours that could do so are inspected.
func (r *Store[T]) isDominatedByExisting(start, limit T) bool {
	dominated := false
	// first interval ending at or after limit
	r.limits.AscendGreaterOrEqual(endpoint[T]{key: limit}, func(e endpoint[T]) bool {
		dominated = r.compare(e.other, start) <= 0
		return false
	})
	if dominated {
		return true
	}
	// last interval starting at or before start
	r.starts.DescendLessOrEqual(endpoint[T]{key: start}, func(e endpoint[T]) bool {
		dominated = r.compare(e.other, limit) >= 0
		return false
	})
	return dominated
}

// removeIntervalsDominatedBy drops every stored interval inside
// [start, limit). Starts and limits ascend together, so the scan stops at the
// first candidate reaching past limit.
func (r *Store[T]) removeIntervalsDominatedBy(start, limit T) {
	var dominated []endpoint[T]
	r.starts.AscendRange(endpoint[T]{key: start}, endpoint[T]{key: limit}, func(e endpoint[T]) bool {
		if r.compare(e.other, limit) > 0 {
			return false
		}
		dominated = append(dominated, e)
		return true
	})
	for _, e := range dominated {
		r.removeWithStartAt(e.key)
	}
}

// findCollisionLeft returns the interval whose limit falls in [start, limit].
func (r *Store[T]) findCollisionLeft(start, limit T) (Interval[T], bool) {
	var found Interval[T]
	ok := false
	r.limits.AscendGreaterOrEqual(endpoint[T]{key: start}, func(e endpoint[T]) bool {
		if r.compare(e.key, limit) <= 0 {
			found, ok = Interval[T]{Start: e.other, Limit: e.key}, true
		}
		return false
	})
	return found, ok
}

// findCollisionRight returns the interval whose start falls in [start, limit].
func (r *Store[T]) findCollisionRight(start, limit T) (Interval[T], bool) {
	var found Interval[T]
	ok := false
	r.starts.AscendGreaterOrEqual(endpoint[T]{key: start}, func(e endpoint[T]) bool {
		if r.compare(e.key, limit) <= 0 {
			found, ok = Interval[T]{Start: e.key, Limit: e.other}, true
		}
		return false
	})
	return found, ok
}

func (r *Store[T]) insert(start, limit T) {
	r.log.V(1).Info("inserting record", "start", start, "limit", limit)
	r.starts.ReplaceOrInsert(endpoint[T]{key: start, other: limit})
	r.limits.ReplaceOrInsert(endpoint[T]{key: limit, other: start})
}

func (r *Store[T]) removeWithStartAt(start T) T {
	e, ok := r.starts.Delete(endpoint[T]{key: start})
	if !ok {
		panic(invariantf("attempted to remove start %v that was not present", start))
	}
	if _, ok := r.limits.Delete(endpoint[T]{key: e.other}); !ok {
		panic(invariantf("limit %v of [%v, %v) missing from limit index", e.other, start, e.other))
	}
	r.log.V(1).Info("removed", "start", start, "limit", e.other)
	return e.other
}

func (r *Store[T]) removeWithLimitAt(limit T) T {
	e, ok := r.limits.Delete(endpoint[T]{key: limit})
	if !ok {
		panic(invariantf("attempted to remove limit %v that was not present", limit))
	}
	if _, ok := r.starts.Delete(endpoint[T]{key: e.other}); !ok {
		panic(invariantf("start %v of [%v, %v) missing from start index", e.other, e.other, limit))
	}
	r.log.V(1).Info("removed", "start", e.other, "limit", limit)
	return e.other
}

func (r *Store[T]) assert(cond bool, format string, args ...any) {
	if !cond {
		panic(invariantf(format, args...))
	}
}
