package scheduler

import (
	"reflect"
	"testing"
)

func TestAfterRunsOnDueTick(t *testing.T) {
	s := New()
	ran := 0
	s.After(3, func() { ran++ })

	for i := 0; i < 2; i++ {
		s.Advance()
	}
	if ran != 0 {
		t.Fatalf("task ran early at tick %d", s.Now())
	}
	s.Advance()
	if ran != 1 {
		t.Fatalf("ran = %d at tick 3, want 1", ran)
	}
	s.Advance()
	if ran != 1 {
		t.Errorf("one-shot task ran again")
	}
}

func TestZeroDelayRunsNextTick(t *testing.T) {
	s := New()
	ran := false
	s.After(0, func() { ran = true })
	if ran {
		t.Fatal("task ran inline")
	}
	s.Advance()
	if !ran {
		t.Error("zero delay task did not run on next Advance")
	}
}

func TestSameTickOrder(t *testing.T) {
	s := New()
	var got []int
	s.After(2, func() { got = append(got, 1) })
	s.After(1, func() { got = append(got, 0) })
	s.After(2, func() { got = append(got, 2) })

	s.Advance()
	s.Advance()
	if want := []int{0, 1, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestCancel(t *testing.T) {
	s := New()
	ran := false
	h := s.After(1, func() { ran = true })
	h.Cancel()
	h.Cancel()

	s.Advance()
	if ran {
		t.Error("cancelled task ran")
	}
	if h.Active() {
		t.Error("cancelled handle still active")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestEveryRepeatsUntilFalse(t *testing.T) {
	s := New()
	var ticks []uint64
	h := s.Every(1, 2, func() bool {
		ticks = append(ticks, s.Now())
		return len(ticks) < 3
	})

	for i := 0; i < 10; i++ {
		s.Advance()
	}
	if want := []uint64{1, 3, 5}; !reflect.DeepEqual(ticks, want) {
		t.Errorf("ran at %v, want %v", ticks, want)
	}
	if h.Active() {
		t.Error("finished repeating task still active")
	}
}

func TestEveryCancelledFromInside(t *testing.T) {
	s := New()
	n := 0
	var h *Handle
	h = s.Every(1, 1, func() bool {
		n++
		if n == 2 {
			h.Cancel()
		}
		return true
	})
	for i := 0; i < 5; i++ {
		s.Advance()
	}
	if n != 2 {
		t.Errorf("ran %d times, want 2", n)
	}
}

func TestTaskScheduledWhileRunningWaits(t *testing.T) {
	s := New()
	inner := false
	s.After(1, func() {
		s.After(0, func() { inner = true })
	})
	s.Advance()
	if inner {
		t.Fatal("nested task ran in the same Advance")
	}
	s.Advance()
	if !inner {
		t.Error("nested task never ran")
	}
}

func TestGroupCancelAll(t *testing.T) {
	s := New()
	var g Group
	ran := 0
	g.Track(s.After(1, func() { ran++ }))
	g.Track(s.Every(1, 1, func() bool { ran++; return true }))
	if g.Len() != 2 {
		t.Fatalf("group Len = %d, want 2", g.Len())
	}

	g.CancelAll()
	g.CancelAll()
	s.Advance()
	if ran != 0 {
		t.Errorf("ran = %d after CancelAll", ran)
	}
}

func TestClear(t *testing.T) {
	s := New()
	h := s.After(5, func() {})
	s.Clear()
	if h.Active() || s.Len() != 0 {
		t.Error("Clear left tasks pending")
	}
}
