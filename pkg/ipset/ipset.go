package ipset

import (
	"fmt"
	"net/netip"

	"github.com/henderiw/intervals/pkg/intervals"
	"go4.org/netipx"
)

type IPSet interface {
	AddAddr(addr netip.Addr) error
	AddPrefix(p netip.Prefix) error
	AddRange(r netipx.IPRange) error
	AddRangeString(s string) error

	Contains(addr netip.Addr) bool
	RangeOf(addr netip.Addr) (netipx.IPRange, bool)
	Ranges() []netipx.IPRange
	Prefixes() []netip.Prefix
}

func New(opts ...intervals.Option) IPSet {
	return &ipSet{
		store: intervals.NewFunc(compareBound, opts...),
	}
}

type ipSet struct {
	store *intervals.Store[bound]
}

func (r *ipSet) AddAddr(addr netip.Addr) error {
	if !addr.IsValid() {
		return fmt.Errorf("invalid address %v", addr)
	}
	addr = addr.WithZone("")
	return r.AddRange(netipx.IPRangeFrom(addr, addr))
}

func (r *ipSet) AddPrefix(p netip.Prefix) error {
	if !p.IsValid() {
		return fmt.Errorf("invalid prefix %v", p)
	}
	return r.AddRange(netipx.RangeOfPrefix(p))
}

func (r *ipSet) AddRange(rng netipx.IPRange) error {
	if !rng.IsValid() {
		return fmt.Errorf("invalid range %s", rng.String())
	}
	r.store.Add(startBound(rng.From()), limitBound(rng.To()))
	return nil
}

func (r *ipSet) AddRangeString(s string) error {
	rng, err := netipx.ParseIPRange(s)
	if err != nil {
		return err
	}
	return r.AddRange(rng)
}

func (r *ipSet) Contains(addr netip.Addr) bool {
	if !addr.IsValid() {
		return false
	}
	return r.store.Contains(startBound(addr))
}

func (r *ipSet) RangeOf(addr netip.Addr) (netipx.IPRange, bool) {
	if !addr.IsValid() {
		return netipx.IPRange{}, false
	}
	i, ok := r.store.GetIntervalContaining(startBound(addr))
	if !ok {
		return netipx.IPRange{}, false
	}
	return toIPRange(i), true
}

func (r *ipSet) Ranges() []netipx.IPRange {
	ivals := r.store.ToSlice()
	out := make([]netipx.IPRange, 0, len(ivals))
	for _, i := range ivals {
		out = append(out, toIPRange(i))
	}
	return out
}

// Prefixes returns the minimal set of prefixes covering the set.
func (r *ipSet) Prefixes() []netip.Prefix {
	var out []netip.Prefix
	it := r.store.Iterate()
	for it.Next() {
		out = toIPRange(it.Value()).AppendPrefixes(out)
	}
	return out
}

func toIPRange(i intervals.Interval[bound]) netipx.IPRange {
	return netipx.IPRangeFrom(i.Start.addr, i.Limit.last())
}
