// Package turn orders which occupants act next. Occupants are grouped into
// buckets by speed tier and the scheduler cycles through the buckets.
package turn

// State is the scheduler's coarse state.
type State int

const (
	Idle  State = iota // no advanceable buckets
	Ready              // buckets populated, cursor valid
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// SpeedFunc reports an occupant's speed tier. Occupants without one are left
// out of the turn order.
type SpeedFunc[H any] func(H) (int, bool)

// Scheduler holds the bucketed turn order and a cursor into it. It only
// references occupants; removals are not seen until the next Rebuild.
type Scheduler[H comparable] struct {
	buckets [][]H
	cursor  int
}

// New returns an idle scheduler.
func New[H comparable]() *Scheduler[H] {
	return &Scheduler[H]{}
}

// Rebuild recomputes the buckets from the current occupant set.
//
// An occupant with speed s lands in bucket s-1, and every populated tier i is
// also copied into buckets (i+1)*k-1 for k >= 2, so a lower speed value acts
// more often per cycle. Empty buckets are dropped. The cursor is kept modulo
// the new bucket count. Speeds below 1 count as missing.
func (s *Scheduler[H]) Rebuild(occupants []H, speed SpeedFunc[H]) {
	var tiers [][]H
	for _, h := range occupants {
		v, ok := speed(h)
		if !ok || v < 1 {
			continue
		}
		for len(tiers) < v {
			tiers = append(tiers, nil)
		}
		tiers[v-1] = append(tiers[v-1], h)
	}

	buckets := make([][]H, 0, len(tiers))
	for j := range tiers {
		var bucket []H
		for i := 0; i <= j; i++ {
			if (j+1)%(i+1) == 0 {
				bucket = append(bucket, tiers[i]...)
			}
		}
		if len(bucket) > 0 {
			buckets = append(buckets, bucket)
		}
	}

	s.buckets = buckets
	if len(s.buckets) == 0 {
		s.cursor = 0
		return
	}
	s.cursor %= len(s.buckets)
}

// Advance returns the bucket at the cursor and moves the cursor on,
// wrapping after the last bucket. It reports false when idle.
func (s *Scheduler[H]) Advance() ([]H, bool) {
	if len(s.buckets) == 0 {
		return nil, false
	}
	cur := s.cursor
	s.cursor = (s.cursor + 1) % len(s.buckets)
	return clone(s.buckets[cur]), true
}

// Peek returns the bucket Advance would return, without moving the cursor.
func (s *Scheduler[H]) Peek() ([]H, bool) {
	if len(s.buckets) == 0 {
		return nil, false
	}
	return clone(s.buckets[s.cursor]), true
}

// Upcoming lists every bucket starting at the cursor and wrapping around.
func (s *Scheduler[H]) Upcoming() [][]H {
	out := make([][]H, 0, len(s.buckets))
	for i := range s.buckets {
		out = append(out, clone(s.buckets[(s.cursor+i)%len(s.buckets)]))
	}
	return out
}

// State reports Idle or Ready.
func (s *Scheduler[H]) State() State {
	if len(s.buckets) == 0 {
		return Idle
	}
	return Ready
}

// Len returns the number of buckets.
func (s *Scheduler[H]) Len() int { return len(s.buckets) }

// Cursor returns the index of the next bucket to act.
func (s *Scheduler[H]) Cursor() int { return s.cursor }

// Reset drops every bucket and rewinds the cursor.
func (s *Scheduler[H]) Reset() {
	s.buckets = nil
	s.cursor = 0
}

func clone[H any](in []H) []H {
	out := make([]H, len(in))
	copy(out, in)
	return out
}
