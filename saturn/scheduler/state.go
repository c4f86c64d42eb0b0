package scheduler

import "container/heap"

// EventSnapshot captures one registered event's outstanding schedule, for
// save-state capture/restore. Events are identified by registration order,
// which is stable because RegisterEvent is only ever called during
// construction.
type EventSnapshot struct {
	Target int64
	Num    int64
	Den    int64
	Active bool
}

// Snapshot returns the current master-clock position and the outstanding
// schedule of every registered event, in registration order.
func (s *Scheduler) Snapshot() (now int64, events []EventSnapshot) {
	events = make([]EventSnapshot, len(s.events))
	for i, e := range s.events {
		events[i] = EventSnapshot{Target: e.target, Num: e.num, Den: e.den, Active: e.active}
	}
	return s.now, events
}

// Restore reinstates a previously captured snapshot. events must list one
// entry per event in the same registration order used when the snapshot
// was taken; extra or missing trailing entries are ignored.
func (s *Scheduler) Restore(now int64, events []EventSnapshot) {
	s.now = now
	s.heap = s.heap[:0]
	for i := range s.events {
		e := s.events[i]
		e.active = false
		if i >= len(events) {
			continue
		}
		es := events[i]
		e.num, e.den = es.Num, es.Den
		e.target = es.Target
		if es.Active {
			e.active = true
			e.seq = s.seq
			s.seq++
			heap.Push(&s.heap, e)
		}
	}
}
