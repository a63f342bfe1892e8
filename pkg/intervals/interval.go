package intervals

import "fmt"

// Interval is the half-open range [Start, Limit).
type Interval[T any] struct {
	Start T
	Limit T
}

func (r Interval[T]) String() string {
	return fmt.Sprintf("[%v, %v)", r.Start, r.Limit)
}

// endpoint is an entry in one of the two indices: key is the endpoint the
// index is ordered by, other is the opposite endpoint of the same interval.
type endpoint[T any] struct {
	key   T
	other T
}
