// Package scheduler implements the master-clock event queue every component
// in the core registers with. It plays the role jeebie/events plays for the
// Game Boy timer/PPU, generalized to a priority queue keyed on absolute
// master-clock cycle with per-event numerator/denominator clock ratios.
package scheduler

import (
	"container/heap"
	"fmt"
	"log/slog"
)

// EventID identifies a permanently registered event. IDs are stable for the
// lifetime of the Scheduler.
type EventID int

// Callback is invoked when an event's target cycle is reached. ctx is the
// opaque context supplied at registration time.
type Callback func(ctx any)

// maxEvents bounds static event capacity; registering beyond this is a
// programmer error and is fatal at bring-up, per spec.md §4.1.
const maxEvents = 64

type event struct {
	id       EventID
	tag      string
	ctx      any
	callback Callback

	num, den int64 // native-clock-cycles-per-master-cycle ratio, den != 0
	target   int64 // absolute master-clock cycle this event fires at
	active   bool
	seq      uint64 // registration order, used to break same-target ties
	heapIndex int
}

// Scheduler owns the current master-cycle count and the min-heap of
// registered events.
type Scheduler struct {
	now    int64
	events []*event
	byID   map[EventID]*event
	heap   eventHeap
	nextID EventID
	seq    uint64

	inCallback bool
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{
		byID: make(map[EventID]*event),
	}
}

// Now returns the current master-clock cycle count.
func (s *Scheduler) Now() int64 { return s.now }

// RegisterEvent permanently registers a new event with a default 1:1 clock
// ratio. Must only be called during component construction, never from a
// callback.
func (s *Scheduler) RegisterEvent(tag string, ctx any, callback Callback) EventID {
	if len(s.events) >= maxEvents {
		panic(fmt.Sprintf("scheduler: too many registered events (capacity %d)", maxEvents))
	}
	id := s.nextID
	s.nextID++

	e := &event{
		id:       id,
		tag:      tag,
		ctx:      ctx,
		callback: callback,
		num:      1,
		den:      1,
		target:   -1,
		active:   false,
		seq:      s.seq,
	}
	s.seq++
	s.events = append(s.events, e)
	s.byID[id] = e
	return id
}

func (s *Scheduler) mustGet(id EventID) *event {
	e, ok := s.byID[id]
	if !ok {
		panic(fmt.Sprintf("scheduler: unknown event id %d", id))
	}
	return e
}

// SetEventCountFactor sets the num/den ratio used to convert this event's own
// native cycle units into master cycles. If the event is currently scheduled,
// the outstanding target is recomputed so the time-until-fire measured in the
// event's own clock is preserved.
func (s *Scheduler) SetEventCountFactor(id EventID, num, den int64) {
	if den == 0 {
		panic("scheduler: zero denominator in clock ratio")
	}
	e := s.mustGet(id)

	if e.active {
		remainingMaster := e.target - s.now
		// remaining native cycles under the OLD ratio: native = master*num/den
		remainingNative := bit_roundedDiv(remainingMaster*e.num, e.den)
		e.num, e.den = num, den
		newRemainingMaster := bit_roundedDiv(remainingNative*e.den, e.num)
		e.target = s.now + newRemainingMaster
		s.heap.fix(e)
	} else {
		e.num, e.den = num, den
	}
}

// ScheduleFromNow sets this event's absolute target to now + nativeCycles
// scaled by the event's ratio.
func (s *Scheduler) ScheduleFromNow(id EventID, nativeCycles int64) {
	e := s.mustGet(id)
	master := bit_roundedDiv(nativeCycles*e.den, e.num)
	s.setTarget(e, s.now+master)
}

// ScheduleAt sets this event's absolute target directly, in master cycles.
func (s *Scheduler) ScheduleAt(id EventID, absoluteMasterCycles int64) {
	e := s.mustGet(id)
	s.setTarget(e, absoluteMasterCycles)
}

// Reschedule is used from inside a callback to set the *next* firing
// relative to the event's prior target (not `now`), preserving jitter-free
// periodicity.
func (s *Scheduler) Reschedule(id EventID, nativeCycles int64) {
	e := s.mustGet(id)
	base := e.target
	if base < 0 {
		base = s.now
	}
	master := bit_roundedDiv(nativeCycles*e.den, e.num)
	s.setTarget(e, base+master)
}

// Cancel deactivates an event. Idempotent; rescheduling reactivates it.
func (s *Scheduler) Cancel(id EventID) {
	e := s.mustGet(id)
	if !e.active {
		return
	}
	s.heap.remove(e)
	e.active = false
}

func (s *Scheduler) setTarget(e *event, target int64) {
	e.target = target
	if !e.active {
		e.active = true
		heap.Push(&s.heap, e)
	} else {
		s.heap.fix(e)
	}
}

// NextTarget returns the soonest event's absolute master cycle, or -1 if the
// queue is empty (representing +infinity).
func (s *Scheduler) NextTarget() int64 {
	if s.heap.Len() == 0 {
		return -1
	}
	return s.heap[0].target
}

// Advance moves `now` forward by cycles and dispatches every event whose
// target is <= now, in target order, ties broken by registration order.
func (s *Scheduler) Advance(cycles int64) {
	s.now += cycles
	for s.heap.Len() > 0 && s.heap[0].target <= s.now {
		e := heap.Pop(&s.heap).(*event)
		e.active = false

		if s.inCallback {
			panic("scheduler: re-entrant Advance from inside a callback")
		}
		s.inCallback = true
		slog.Debug("scheduler: dispatch", "tag", e.tag, "target", e.target, "now", s.now)
		e.callback(e.ctx)
		s.inCallback = false
	}
}

func bit_roundedDiv(num, den int64) int64 {
	if den == 0 {
		panic("scheduler: division by zero ratio")
	}
	if (num < 0) != (den < 0) {
		return -bit_roundedDiv(-num, den)
	}
	return (num + den/2) / den
}
