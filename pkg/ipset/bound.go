package ipset

import "net/netip"

// bound is an interval endpoint in address space. Ranges are inclusive but
// the store works with half-open intervals, so the limit of a range is the
// address after its last one. The last address of a family has no successor;
// its limit is the address itself with past set, which sorts just after it.
type bound struct {
	addr netip.Addr
	past bool
}

func startBound(addr netip.Addr) bound {
	return bound{addr: addr.WithZone("")}
}

func limitBound(to netip.Addr) bound {
	to = to.WithZone("")
	if next := to.Next(); next.IsValid() {
		return bound{addr: next}
	}
	return bound{addr: to, past: true}
}

// last returns the last address covered by an interval ending at b.
func (b bound) last() netip.Addr {
	if b.past {
		return b.addr
	}
	return b.addr.Prev()
}

func (b bound) String() string {
	if b.past {
		return b.addr.String() + "+"
	}
	return b.addr.String()
}

func compareBound(a, b bound) int {
	if c := a.addr.Compare(b.addr); c != 0 {
		return c
	}
	switch {
	case a.past == b.past:
		return 0
	case b.past:
		return -1
	default:
		return 1
	}
}
