// Package scheduler runs deferred work on simulation ticks.
//
// Nothing here uses timers or goroutines. The owning loop calls Advance
// once per tick and every due task runs inline on that goroutine.
package scheduler

import "sort"

// Handle is a cancellation token for a scheduled task.
type Handle struct {
	cancelled bool
	done      bool
}

// Cancel stops the task from running again. Safe to call more than once
// and on a nil handle.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.cancelled = true
}

// Active reports whether the task may still run.
func (h *Handle) Active() bool {
	return h != nil && !h.cancelled && !h.done
}

type task struct {
	due    uint64
	seq    uint64
	period uint64 // zero for one-shot tasks
	once   func()
	repeat func() bool
	handle *Handle
}

// Scheduler is a tick-driven delayed task queue. It is not safe for
// concurrent use.
type Scheduler struct {
	tick  uint64
	seq   uint64
	tasks []*task // sorted by due then seq
}

// New returns an empty scheduler at tick zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the number of ticks advanced so far.
func (s *Scheduler) Now() uint64 {
	return s.tick
}

// After runs fn once, delay ticks from now. Delays below one run on the
// next Advance.
func (s *Scheduler) After(delay int, fn func()) *Handle {
	h := &Handle{}
	s.insert(&task{due: s.tick + clampDelay(delay), once: fn, handle: h})
	return h
}

// Every runs fn after delay ticks and then every period ticks for as long
// as fn returns true and the handle is not cancelled.
func (s *Scheduler) Every(delay, period int, fn func() bool) *Handle {
	h := &Handle{}
	s.insert(&task{
		due:    s.tick + clampDelay(delay),
		period: clampDelay(period),
		repeat: fn,
		handle: h,
	})
	return h
}

// Advance moves to the next tick and runs every task due on or before it
// in scheduling order. Tasks scheduled while running wait for a later
// Advance.
func (s *Scheduler) Advance() {
	s.tick++
	for len(s.tasks) > 0 && s.tasks[0].due <= s.tick {
		t := s.tasks[0]
		s.tasks[0] = nil
		s.tasks = s.tasks[1:]

		if t.handle.cancelled {
			continue
		}
		if t.repeat == nil {
			t.handle.done = true
			t.once()
			continue
		}
		if !t.repeat() {
			t.handle.done = true
			continue
		}
		if t.handle.cancelled {
			continue
		}
		t.due = s.tick + t.period
		s.insert(t)
	}
}

// Len returns the number of tasks that may still run.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.tasks {
		if !t.handle.cancelled {
			n++
		}
	}
	return n
}

// Clear cancels and drops every pending task.
func (s *Scheduler) Clear() {
	for _, t := range s.tasks {
		t.handle.cancelled = true
	}
	s.tasks = nil
}

func (s *Scheduler) insert(t *task) {
	if t.seq == 0 {
		s.seq++
		t.seq = s.seq
	}
	i := sort.Search(len(s.tasks), func(i int) bool {
		o := s.tasks[i]
		return o.due > t.due || (o.due == t.due && o.seq > t.seq)
	})
	s.tasks = append(s.tasks, nil)
	copy(s.tasks[i+1:], s.tasks[i:])
	s.tasks[i] = t
}

func clampDelay(d int) uint64 {
	if d < 1 {
		return 1
	}
	return uint64(d)
}

// Group collects the handles owned by one object so they can be cancelled
// together when it is disposed.
type Group struct {
	handles []*Handle
}

// Track adds h to the group and returns it.
func (g *Group) Track(h *Handle) *Handle {
	// drop finished handles so long lived owners don't grow without bound
	live := g.handles[:0]
	for _, old := range g.handles {
		if old.Active() {
			live = append(live, old)
		}
	}
	g.handles = append(live, h)
	return h
}

// CancelAll cancels every tracked handle.
func (g *Group) CancelAll() {
	for _, h := range g.handles {
		h.Cancel()
	}
	g.handles = nil
}

// Len returns the number of tracked handles still active.
func (g *Group) Len() int {
	n := 0
	for _, h := range g.handles {
		if h.Active() {
			n++
		}
	}
	return n
}
