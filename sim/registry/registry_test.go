package registry

import (
	"errors"
	"testing"

	"github.com/automoto/shadeblade/components"
	"github.com/yohamta/donburi"
)

type fakeInstance struct {
	id       donburi.Entity
	item     components.Item
	target   donburi.Entity
	disposed int
	reg      *Registry
}

func (f *fakeInstance) ProxyID() donburi.Entity   { return f.id }
func (f *fakeInstance) Item() components.Item     { return f.item }
func (f *fakeInstance) HitTarget() donburi.Entity { return f.target }
func (f *fakeInstance) Dispose() {
	f.disposed++
	// disposal unregisters itself, like the real projectiles do
	if f.reg != nil {
		f.reg.Remove(f.id, false)
	}
}

type boundInstance struct {
	fakeInstance
	grabbedBy []donburi.Entity
}

func (b *boundInstance) OnGrab(actor donburi.Entity) {
	b.grabbedBy = append(b.grabbedBy, actor)
}

type receiver struct {
	got map[donburi.Entity][]components.Item
}

func (r *receiver) Give(actor donburi.Entity, item components.Item) bool {
	if r.got == nil {
		r.got = map[donburi.Entity][]components.Item{}
	}
	r.got[actor] = append(r.got[actor], item)
	return true
}

var testTag = donburi.NewTag().SetName("RegistryTest")

// entities returns n distinct live entity ids
func entities(n int) []donburi.Entity {
	w := donburi.NewWorld()
	out := make([]donburi.Entity, n)
	for i := range out {
		out[i] = w.Create(testTag)
	}
	return out
}

func TestRegisterRemoveRoundTrip(t *testing.T) {
	ids := entities(1)
	r := New(nil)
	x := &fakeInstance{id: ids[0]}

	if err := r.Register(x); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !r.IsRegistered(ids[0]) {
		t.Fatal("IsRegistered = false after Register")
	}
	if got := r.Remove(ids[0], false); got != x {
		t.Fatalf("Remove = %v, want the registered instance", got)
	}
	if got := r.Remove(ids[0], false); got != nil {
		t.Errorf("second Remove = %v, want nil", got)
	}
	if x.disposed != 0 {
		t.Error("non-disposing remove disposed the instance")
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	ids := entities(1)
	r := New(nil)
	a := &fakeInstance{id: ids[0]}
	b := &fakeInstance{id: ids[0]}

	if err := r.Register(a); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(b); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered", err)
	}
	if got, _ := r.Get(ids[0]); got != a {
		t.Error("duplicate register overwrote the entry")
	}
	if err := r.Register(&fakeInstance{}); !errors.Is(err, ErrNoProxy) {
		t.Errorf("err = %v, want ErrNoProxy", err)
	}
}

func TestRemoveWithDispose(t *testing.T) {
	ids := entities(1)
	r := New(nil)
	x := &fakeInstance{id: ids[0], reg: r}
	_ = r.Register(x)

	if got := r.Remove(ids[0], true); got != x {
		t.Fatal("Remove did not return the instance")
	}
	if x.disposed != 1 {
		t.Errorf("disposed %d times, want 1", x.disposed)
	}
}

func TestOnGrabTransfersItem(t *testing.T) {
	ids := entities(2)
	proxy, grabber := ids[0], ids[1]
	rcv := &receiver{}
	r := New(rcv)
	x := &fakeInstance{id: proxy, item: components.Item{Kind: components.ItemAxe}, reg: r}
	_ = r.Register(x)

	if !r.OnGrab(proxy, grabber) {
		t.Fatal("OnGrab = false for a registered proxy")
	}
	if got := rcv.got[grabber]; len(got) != 1 || got[0].Kind != components.ItemAxe {
		t.Errorf("grabber received %v, want one axe", got)
	}
	if x.disposed != 1 {
		t.Errorf("disposed %d times, want 1", x.disposed)
	}
	if r.IsRegistered(proxy) {
		t.Error("grabbed instance still registered")
	}
	if r.OnGrab(proxy, grabber) {
		t.Error("second grab succeeded")
	}
}

func TestOnGrabBoundForwards(t *testing.T) {
	ids := entities(2)
	proxy, grabber := ids[0], ids[1]
	rcv := &receiver{}
	r := New(rcv)
	b := &boundInstance{fakeInstance: fakeInstance{id: proxy, item: components.Item{Kind: components.ItemShadeBlade}}}
	_ = r.Register(b)

	r.OnGrab(proxy, grabber)
	if len(b.grabbedBy) != 1 || b.grabbedBy[0] != grabber {
		t.Errorf("bound instance grabs = %v", b.grabbedBy)
	}
	if len(rcv.got) != 0 {
		t.Error("bound item changed hands")
	}
	if b.disposed != 0 || !r.IsRegistered(proxy) {
		t.Error("bound instance was disposed or unregistered")
	}
}

func TestIsImpaling(t *testing.T) {
	ids := entities(3)
	proxy, victim, other := ids[0], ids[1], ids[2]
	r := New(nil)
	_ = r.Register(&fakeInstance{id: proxy, target: victim})

	if !r.IsImpaling(victim, proxy) {
		t.Error("IsImpaling(victim) = false")
	}
	if r.IsImpaling(other, proxy) {
		t.Error("IsImpaling(other) = true")
	}
}

func TestClearAll(t *testing.T) {
	ids := entities(3)
	r := New(nil)
	var all []*fakeInstance
	for _, id := range ids {
		x := &fakeInstance{id: id, reg: r}
		all = append(all, x)
		_ = r.Register(x)
	}

	r.ClearAll()
	if r.Len() != 0 {
		t.Errorf("Len = %d after ClearAll", r.Len())
	}
	for i, x := range all {
		if x.disposed != 1 {
			t.Errorf("instance %d disposed %d times, want 1", i, x.disposed)
		}
	}
}
