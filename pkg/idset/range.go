package idset

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is the inclusive range of ids From..To.
type Range struct {
	From uint64
	To   uint64
}

func RangeFrom(from, to uint64) Range {
	return Range{From: from, To: to}
}

// ParseRange parses a "from-to" string, both ends inclusive.
func ParseRange(s string) (Range, error) {
	var r Range
	h := strings.IndexByte(s, '-')
	if h == -1 {
		return r, fmt.Errorf("no hyphen in range %q", s)
	}
	from, to := s[:h], s[h+1:]
	fromID, err := strconv.ParseUint(from, 10, 64)
	if err != nil {
		return r, fmt.Errorf("invalid from id %q in range %q", from, s)
	}
	toID, err := strconv.ParseUint(to, 10, 64)
	if err != nil {
		return r, fmt.Errorf("invalid to id %q in range %q", to, s)
	}
	r = RangeFrom(fromID, toID)
	if !r.IsValid() {
		return Range{}, fmt.Errorf("range %q ends before it starts", s)
	}
	return r, nil
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

func (r Range) IsValid() bool {
	return r.From <= r.To
}

// Size returns the number of ids in r.
func (r Range) Size() uint64 {
	return r.To - r.From + 1
}
