package network

import (
	"testing"

	"github.com/automoto/shadeblade/shared/messages"
	"github.com/automoto/shadeblade/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

func TestOfferDropsWhenFull(t *testing.T) {
	ch := make(chan messages.BladeModeEvent, 2)
	for i := 0; i < 5; i++ {
		offer(ch, messages.BladeModeEvent{OwnerNetworkID: uint(i)})
	}
	got := drainChan(ch)
	if len(got) != 2 {
		t.Fatalf("drained %d events, want 2", len(got))
	}
	if got[0].OwnerNetworkID != 0 || got[1].OwnerNetworkID != 1 {
		t.Errorf("kept %v, want the first two", got)
	}
	if rest := drainChan(ch); len(rest) != 0 {
		t.Errorf("second drain = %v, want empty", rest)
	}
}

func TestSendBeforeConnect(t *testing.T) {
	c := NewClient()
	if c.State() != StateDisconnected {
		t.Errorf("state = %s, want disconnected", c.State())
	}
	if err := c.Command("toggle"); err == nil {
		t.Error("expected error sending without a connection")
	}
	if err := c.Throw(0); err == nil {
		t.Error("expected error throwing without a connection")
	}
	if err := c.Grab(); err == nil {
		t.Error("expected error grabbing without a connection")
	}
	if c.LatestSnapshot() != nil {
		t.Error("snapshot before any was received")
	}
}

func TestClientStateString(t *testing.T) {
	tests := []struct {
		s    ClientState
		want string
	}{
		{StateDisconnected, "disconnected"},
		{StateJoinedGame, "joined"},
		{StateError, "error"},
		{ClientState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestDecodeEmptySnapshot(t *testing.T) {
	f := DecodeSnapshot(esync.WorldSnapshot{})
	if len(f.Actors) != 0 || len(f.Proxies) != 0 || f.Skipped != 0 {
		t.Errorf("frame = %+v, want empty", f)
	}
}

func TestBladeOf(t *testing.T) {
	f := Frame{
		Proxies: map[esync.NetworkId]netcomponents.NetProxyData{
			5: {Mode: netcomponents.NoMode, OwnerNetworkID: 0},
			6: {Mode: 2, OwnerNetworkID: 3},
			7: {Mode: 4, OwnerNetworkID: 8},
		},
	}
	p, ok := f.BladeOf(8)
	if !ok || p.Mode != 4 {
		t.Errorf("BladeOf(8) = %+v, %v", p, ok)
	}
	if _, ok := f.BladeOf(0); ok {
		t.Error("plain proxy reported as a blade")
	}
}
