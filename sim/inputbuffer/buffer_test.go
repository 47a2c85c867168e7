package inputbuffer

import (
	"testing"
	"time"
)

type request int

const (
	reqA request = iota
	reqB
)

// mockClock is advanced by hand
type mockClock struct {
	t time.Time
}

func (c *mockClock) now() time.Time          { return c.t }
func (c *mockClock) advance(d time.Duration)  { c.t = c.t.Add(d) }

func newTestBuffer() (*Buffer[request], *mockClock) {
	clk := &mockClock{t: time.Unix(1000, 0)}
	return New[request](70*time.Millisecond, clk.now), clk
}

func TestPushThenConsume(t *testing.T) {
	b, _ := newTestBuffer()
	b.Push(reqA)

	if !b.ConsumeIfPresent(reqA) {
		t.Fatal("ConsumeIfPresent(A) = false, want true")
	}
	if b.Len() != 0 {
		t.Errorf("Len = %d after consume, want 0", b.Len())
	}
	if b.ConsumeIfPresent(reqA) {
		t.Error("request consumed twice")
	}
}

func TestExpiredRequestIsDropped(t *testing.T) {
	b, clk := newTestBuffer()
	b.Push(reqA)
	clk.advance(71 * time.Millisecond)

	if b.ConsumeIfPresent(reqA) {
		t.Error("expired request was consumed")
	}
	if b.Len() != 0 {
		t.Errorf("Len = %d, expired entry not evicted", b.Len())
	}
}

func TestRequestAtTimeoutStillLive(t *testing.T) {
	b, clk := newTestBuffer()
	b.Push(reqA)
	clk.advance(70 * time.Millisecond)

	if !b.ConsumeIfPresent(reqA) {
		t.Error("request exactly at the timeout should still match")
	}
}

func TestFrontBlocksLaterRequests(t *testing.T) {
	b, _ := newTestBuffer()
	b.Push(reqA)
	b.Push(reqB)

	if b.ConsumeIfPresent(reqB) {
		t.Fatal("B consumed while A blocks the front")
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, queue must be unchanged", b.Len())
	}
	if front, _ := b.Peek(); front != reqA {
		t.Errorf("front = %v, want A", front)
	}

	if !b.ConsumeIfPresent(reqA) || !b.ConsumeIfPresent(reqB) {
		t.Error("FIFO order not honoured")
	}
}

func TestExpiredFrontUnblocksNext(t *testing.T) {
	b, clk := newTestBuffer()
	b.Push(reqA)
	clk.advance(50 * time.Millisecond)
	b.Push(reqB)
	clk.advance(30 * time.Millisecond)

	// A is 80ms old and gets evicted, B is 30ms old and matches
	if !b.ConsumeIfPresent(reqB) {
		t.Error("B should match once expired A is dropped")
	}
	if b.Len() != 0 {
		t.Errorf("Len = %d, want 0", b.Len())
	}
}

func TestClear(t *testing.T) {
	b, _ := newTestBuffer()
	b.Push(reqA)
	b.Push(reqB)
	b.Clear()
	if b.Len() != 0 {
		t.Errorf("Len = %d after Clear", b.Len())
	}
	if _, ok := b.Peek(); ok {
		t.Error("Peek on empty buffer reported an entry")
	}
}
