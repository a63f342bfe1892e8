package idset

import (
	"errors"
	"fmt"
	"math"

	"github.com/henderiw/intervals/pkg/intervals"
)

// IDSet records which ids of a bounded id space are in use. Claimed ids are
// kept as coalesced ranges, so claiming a large block costs one entry.
type IDSet interface {
	AddID(id uint64) error
	AddRange(r Range) error
	AddRangeString(s string) error

	Has(id uint64) bool
	RangeOf(id uint64) (Range, bool)
	Ranges() []Range
	Count() uint64

	FindFree() (uint64, error)
	FindFreeFrom(min uint64) (uint64, error)
}

// New returns an empty set accepting ids from start to end inclusive.
func New(start, end uint64, opts ...intervals.Option) (IDSet, error) {
	if end < start {
		return nil, fmt.Errorf("end %d is smaller than start %d", end, start)
	}
	if end == math.MaxUint64 {
		return nil, fmt.Errorf("end %d, cannot be bigger than %d", end, uint64(math.MaxUint64-1))
	}
	return &idSet{
		store: intervals.New[uint64](opts...),
		start: start,
		end:   end,
	}, nil
}

type idSet struct {
	store *intervals.Store[uint64]
	start uint64
	end   uint64
}

func (r *idSet) AddID(id uint64) error {
	return r.AddRange(RangeFrom(id, id))
}

func (r *idSet) AddRange(rng Range) error {
	if !rng.IsValid() {
		return fmt.Errorf("range %s ends before it starts", rng)
	}
	var errm error
	if err := r.validateID(rng.From); err != nil {
		errm = errors.Join(errm, err)
	}
	if err := r.validateID(rng.To); err != nil {
		errm = errors.Join(errm, err)
	}
	if errm != nil {
		return errm
	}
	r.store.Add(rng.From, rng.To+1)
	return nil
}

func (r *idSet) AddRangeString(s string) error {
	rng, err := ParseRange(s)
	if err != nil {
		return err
	}
	return r.AddRange(rng)
}

func (r *idSet) Has(id uint64) bool {
	return r.store.Contains(id)
}

func (r *idSet) RangeOf(id uint64) (Range, bool) {
	i, ok := r.store.GetIntervalContaining(id)
	if !ok {
		return Range{}, false
	}
	return toRange(i), true
}

func (r *idSet) Ranges() []Range {
	ivals := r.store.ToSlice()
	out := make([]Range, 0, len(ivals))
	for _, i := range ivals {
		out = append(out, toRange(i))
	}
	return out
}

func (r *idSet) Count() uint64 {
	var count uint64
	it := r.store.Iterate()
	for it.Next() {
		count += it.Value().Limit - it.Value().Start
	}
	return count
}

func (r *idSet) FindFree() (uint64, error) {
	return r.FindFreeFrom(r.start)
}

// FindFreeFrom returns the lowest id at or above min that is not in the set.
func (r *idSet) FindFreeFrom(min uint64) (uint64, error) {
	if err := r.validateID(min); err != nil {
		return 0, err
	}
	id := min
	// coalesced ranges never touch, so the limit of the containing range is free
	if i, ok := r.store.GetIntervalContaining(id); ok {
		id = i.Limit
	}
	if id > r.end {
		return 0, fmt.Errorf("no free id found from %d to %d", min, r.end)
	}
	return id, nil
}

func (r *idSet) validateID(id uint64) error {
	if id < r.start || id > r.end {
		return fmt.Errorf("id %d, does not fit in the range from %d to %d", id, r.start, r.end)
	}
	return nil
}

func toRange(i intervals.Interval[uint64]) Range {
	return Range{From: i.Start, To: i.Limit - 1}
}
