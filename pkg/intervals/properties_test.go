package intervals

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// toIntervals pairs up consecutive values into ordered intervals. The values
// are widened so that every probe in [MinInt8, MaxInt8+1] is representable.
func toIntervals(raw []int8) []Interval[int16] {
	out := make([]Interval[int16], 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		s, l := int16(raw[i]), int16(raw[i+1])
		if s > l {
			s, l = l, s
		}
		out = append(out, Interval[int16]{Start: s, Limit: l})
	}
	return out
}

func build(ivals []Interval[int16]) *Store[int16] {
	r := New[int16](WithDegree(3))
	for _, i := range ivals {
		r.Add(i.Start, i.Limit)
	}
	return r
}

func checkSortedAndSeparated(v []Interval[int16]) error {
	for i, cur := range v {
		if cur.Limit <= cur.Start {
			return fmt.Errorf("interval %s is empty or inverted", cur)
		}
		if i > 0 && v[i-1].Limit >= cur.Start {
			return fmt.Errorf("intervals %s and %s are not separated", v[i-1], cur)
		}
	}
	return nil
}

func TestStoreProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	intervalValues := gen.SliceOf(gen.Int8())

	properties.Property("sorted, disjoint and never touching", prop.ForAll(
		func(raw []int8) string {
			r := build(toIntervals(raw))
			if err := r.CheckInvariants(); err != nil {
				return err.Error()
			}
			if err := checkSortedAndSeparated(r.ToSlice()); err != nil {
				return err.Error()
			}
			return ""
		},
		intervalValues,
	))

	properties.Property("every value of the union and nothing else is covered", prop.ForAll(
		func(raw []int8) string {
			ivals := toIntervals(raw)
			r := build(ivals)
			for v := int16(math.MinInt8); v <= math.MaxInt8+1; v++ {
				want := slices.ContainsFunc(ivals, func(i Interval[int16]) bool {
					return i.Start <= v && v < i.Limit
				})
				got, ok := r.GetIntervalContaining(v)
				if ok != want {
					return fmt.Sprintf("value %d: covered %t, reported %t", v, want, ok)
				}
				if ok && !(got.Start <= v && v < got.Limit) {
					return fmt.Sprintf("value %d reported in %s", v, got)
				}
			}
			return ""
		},
		intervalValues,
	))

	properties.Property("first-start traversal matches ToSlice", prop.ForAll(
		func(raw []int8) string {
			r := build(toIntervals(raw))
			var walked []Interval[int16]
			next := int16(math.MinInt16)
			for {
				i, ok := r.GetFirstStartFrom(next)
				if !ok {
					break
				}
				walked = append(walked, i)
				next = i.Start + 1
			}
			var iterated []Interval[int16]
			it := r.Iterate()
			for it.Next() {
				iterated = append(iterated, it.Value())
			}
			want := r.ToSlice()
			if !slices.Equal(want, walked) {
				return fmt.Sprintf("GetFirstStartFrom walked %v, want %v", walked, want)
			}
			if !slices.Equal(want, iterated) {
				return fmt.Sprintf("Iterate walked %v, want %v", iterated, want)
			}
			return ""
		},
		intervalValues,
	))

	properties.Property("re-adding covered intervals is a no-op", prop.ForAll(
		func(raw []int8) string {
			ivals := toIntervals(raw)
			r := build(ivals)
			want := r.ToSlice()
			for _, i := range ivals {
				r.Add(i.Start, i.Limit)
			}
			for _, i := range want {
				r.Add(i.Start, i.Limit)
			}
			if got := r.ToSlice(); !slices.Equal(want, got) {
				return fmt.Sprintf("got %v after re-adding, want %v", got, want)
			}
			return ""
		},
		intervalValues,
	))

	properties.Property("insertion order does not matter", prop.ForAll(
		func(raw []int8) string {
			ivals := toIntervals(raw)
			forward := build(ivals).ToSlice()
			slices.Reverse(ivals)
			backward := build(ivals).ToSlice()
			if !slices.Equal(forward, backward) {
				return fmt.Sprintf("forward %v, reversed %v", forward, backward)
			}
			return ""
		},
		intervalValues,
	))

	properties.TestingRun(t)
}
