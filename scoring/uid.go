// Package scoring holds the pure rules of the event: public identifier
// allocation, finals placement and leaderboard aggregation. Nothing here
// touches the database.
package scoring

import "errors"

// Bounds of the public 4-digit identifier pool.
const (
	MinUID = 1000
	MaxUID = 9999
)

var ErrPoolExhausted = errors.New("uid4 pool exhausted")

// Range is an inclusive identifier range.
type Range struct {
	Lo, Hi int
}

func (r Range) Contains(v int) bool {
	return v >= r.Lo && v <= r.Hi
}

// GuestRange is kept free for guest badges while other identifiers remain.
var GuestRange = Range{Lo: 1000, Hi: 1999}

// AllocateUID returns the smallest identifier in [MinUID, MaxUID] that is not
// in used, preferring values outside reserved. Values inside reserved are only
// handed out once everything else is taken.
func AllocateUID(used []int, reserved Range) (int, error) {
	taken := make(map[int]struct{}, len(used))
	for _, v := range used {
		taken[v] = struct{}{}
	}

	fallback := 0
	for candidate := MinUID; candidate <= MaxUID; candidate++ {
		if _, ok := taken[candidate]; ok {
			continue
		}
		if !reserved.Contains(candidate) {
			return candidate, nil
		}
		if fallback == 0 {
			fallback = candidate
		}
	}
	if fallback != 0 {
		return fallback, nil
	}
	return 0, ErrPoolExhausted
}

// ValidUID reports whether v is a well-formed public identifier.
func ValidUID(v int) bool {
	return v >= MinUID && v <= MaxUID
}
