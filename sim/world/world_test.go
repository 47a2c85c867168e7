package world

import (
	"errors"
	"testing"

	"github.com/automoto/shadeblade/components"
	"github.com/automoto/shadeblade/config"
	"github.com/automoto/shadeblade/shared/leveldata"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	cfg := config.Default()
	cfg.World.ArenaSize = 64
	arena := leveldata.Flat(64)
	arena.Solids = append(arena.Solids, leveldata.SolidBox{
		ID: 2, MinX: 40, MinY: 0, MinZ: 30, MaxX: 41, MaxY: 4, MaxZ: 34, Material: "stone",
	})
	return New(cfg, arena)
}

func TestSegmentActorsNearest(t *testing.T) {
	w := newTestWorld(t)
	near := w.SpawnActor(mgl64.Vec3{10, 0, 20}, 0)
	far := w.SpawnActor(mgl64.Vec3{10, 0, 25}, 0)

	hit, ok := w.SegmentActors(mgl64.Vec3{10, 1, 15}, mgl64.Vec3{10, 1, 30}, 0, nil)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Entity != near {
		t.Errorf("hit %v, want nearest actor %v", hit.Entity, near)
	}

	hit, ok = w.SegmentActors(mgl64.Vec3{10, 1, 15}, mgl64.Vec3{10, 1, 30}, 0, func(e donburi.Entity) bool { return e != near })
	if !ok || hit.Entity != far {
		t.Errorf("filtered query = %v,%v, want far actor", hit.Entity, ok)
	}
}

func TestSegmentActorsSkipsIneligible(t *testing.T) {
	w := newTestWorld(t)
	a := w.SpawnActor(mgl64.Vec3{10, 0, 20}, 0)
	from, to := mgl64.Vec3{10, 1, 15}, mgl64.Vec3{10, 1, 25}

	w.Combatant(a).Dead = true
	if _, ok := w.SegmentActors(from, to, 0, nil); ok {
		t.Error("dead actor was hit")
	}
	w.Combatant(a).Dead = false
	w.SetCollidable(a, false)
	if _, ok := w.SegmentActors(from, to, 0, nil); ok {
		t.Error("non-collidable actor was hit")
	}
	w.SetCollidable(a, true)
	w.SetSpectator(a, true)
	if _, ok := w.SegmentActors(from, to, 0, nil); ok {
		t.Error("spectator was hit")
	}
}

func TestSegmentActorsRadius(t *testing.T) {
	w := newTestWorld(t)
	w.SpawnActor(mgl64.Vec3{10, 0, 20}, 0)
	// passes 1 unit to the side of a 0.6 wide body
	from, to := mgl64.Vec3{11, 1, 15}, mgl64.Vec3{11, 1, 25}
	if _, ok := w.SegmentActors(from, to, 0, nil); ok {
		t.Fatal("miss reported as hit")
	}
	if _, ok := w.SegmentActors(from, to, 1, nil); !ok {
		t.Error("radius did not widen the query")
	}
}

func TestSegmentSolids(t *testing.T) {
	w := newTestWorld(t)
	hit, ok := w.SegmentSolids(mgl64.Vec3{38, 1, 32}, mgl64.Vec3{42, 1, 32})
	if !ok {
		t.Fatal("expected to hit the column")
	}
	if hit.ID != 2 || hit.Material != "stone" {
		t.Errorf("hit = %+v, want column 2", hit)
	}
	if !hit.Point.ApproxEqualThreshold(mgl64.Vec3{40, 1, 32}, 1e-9) {
		t.Errorf("hit point = %v, want {40 1 32}", hit.Point)
	}

	if _, ok := w.SegmentSolids(mgl64.Vec3{38, 5, 32}, mgl64.Vec3{42, 5, 32}); ok {
		t.Error("segment above the column reported a hit")
	}
	if id, ok := w.SolidAt(mgl64.Vec3{5, -0.5, 5}); !ok || id != 1 {
		t.Errorf("SolidAt floor = %d,%v", id, ok)
	}
}

func TestProxyLimitAndGate(t *testing.T) {
	w := newTestWorld(t)
	w.cfg.World.MaxProxies = 1
	item := components.Item{Kind: components.ItemSword}

	first, err := w.SpawnProxy(mgl64.Vec3{5, 1, 5}, item)
	if err != nil {
		t.Fatalf("SpawnProxy: %v", err)
	}
	if _, err := w.SpawnProxy(mgl64.Vec3{6, 1, 5}, item); !errors.Is(err, ErrProxyLimit) {
		t.Errorf("err = %v, want ErrProxyLimit", err)
	}

	w.RemoveProxy(first)
	w.RemoveProxy(first)
	if w.ProxyValid(first) || w.ProxyCount() != 0 {
		t.Fatal("proxy not removed")
	}

	gateErr := errors.New("chunk not loaded")
	w.SpawnGate = func(components.Item) error { return gateErr }
	if _, err := w.SpawnProxy(mgl64.Vec3{5, 1, 5}, item); !errors.Is(err, gateErr) {
		t.Errorf("err = %v, want gate error", err)
	}
}

func TestRidersFollowCarrier(t *testing.T) {
	w := newTestWorld(t)
	a := w.SpawnActor(mgl64.Vec3{10, 0, 10}, 0)
	p, err := w.SpawnProxy(mgl64.Vec3{0, 0, 0}, components.Item{Kind: components.ItemSword})
	if err != nil {
		t.Fatalf("SpawnProxy: %v", err)
	}
	w.Attach(p, a, mgl64.Vec3{0, 1, 0})
	w.Teleport(a, mgl64.Vec3{12, 0, 10})
	w.Step()

	pos, _ := w.ProxyPosition(p)
	if !pos.ApproxEqualThreshold(mgl64.Vec3{12, 1, 10}, 1e-9) {
		t.Errorf("rider at %v, want {12 1 10}", pos)
	}

	w.RemoveActor(a)
	w.Step()
	if _, riding := w.Carrier(p); riding {
		t.Error("rider still attached to a removed carrier")
	}
}

func TestStepGravityAndPin(t *testing.T) {
	w := newTestWorld(t)
	a := w.SpawnActor(mgl64.Vec3{10, 5, 10}, 0)
	w.Step()
	if pos, _ := w.Position(a); pos.Y() >= 5 {
		t.Errorf("airborne actor did not fall: %v", pos)
	}

	for i := 0; i < 200; i++ {
		w.Step()
	}
	if pos, _ := w.Position(a); pos.Y() != 0 || !w.OnGround(a) {
		t.Errorf("actor did not land on the floor: %v", pos)
	}

	w.SetVelocity(a, mgl64.Vec3{1, 0, 0})
	w.SetPinned(a, true)
	w.Step()
	if pos, _ := w.Position(a); pos.X() != 10 {
		t.Errorf("pinned actor moved to %v", pos)
	}
	if v := w.Velocity(a); v != (mgl64.Vec3{}) {
		t.Errorf("pinned actor kept velocity %v", v)
	}
}

func TestDamageInvulnerability(t *testing.T) {
	w := newTestWorld(t)
	a := w.SpawnActor(mgl64.Vec3{10, 0, 10}, 0)
	hp := w.Combatant(a).Health

	w.SetVelocity(a, mgl64.Vec3{1, 0, 0})
	if !w.Damage(a, 3, mgl64.Vec3{0, 0, 1}, 2) {
		t.Fatal("first hit refused")
	}
	if v := w.Velocity(a); v != (mgl64.Vec3{1, 0, 1}) {
		t.Errorf("velocity after knockback = %v, want it added", v)
	}
	if w.Damage(a, 3, mgl64.Vec3{}, 0) {
		t.Error("hit landed during invulnerability")
	}
	if got := w.Combatant(a).Health; got != hp-3 {
		t.Errorf("health = %d, want %d", got, hp-3)
	}

	w.Step()
	w.Step()
	if !w.Damage(a, hp, mgl64.Vec3{}, 0) {
		t.Fatal("hit after invulnerability refused")
	}
	if !w.Combatant(a).Dead || w.ActorAlive(a) {
		t.Error("lethal damage did not kill")
	}
}

func TestInventory(t *testing.T) {
	w := newTestWorld(t)
	a := w.SpawnActor(mgl64.Vec3{10, 0, 10}, 0)
	sword := components.Item{Kind: components.ItemSword}
	link := components.Item{Kind: components.ItemSoulLink}

	w.Give(a, sword)
	w.Give(a, link)
	if w.MainHand(a).Kind != components.ItemSword {
		t.Errorf("main hand = %v, want sword", w.MainHand(a).Kind)
	}
	if !w.Holding(a, components.ItemSoulLink) {
		t.Error("soul link missing from inventory")
	}
	if got := w.TakeMainHand(a); got.Kind != components.ItemSword || !w.MainHand(a).Empty() {
		t.Errorf("TakeMainHand = %v", got)
	}

	w.DropItem(mgl64.Vec3{1, 0, 1}, sword)
	if items := w.DroppedItems(); len(items) != 1 || items[0].Kind != components.ItemSword {
		t.Errorf("dropped = %v", items)
	}
}

func TestTargetedActor(t *testing.T) {
	w := newTestWorld(t)
	a := w.SpawnActor(mgl64.Vec3{10, 0, 10}, 0)
	b := w.SpawnActor(mgl64.Vec3{10, 0, 16}, 0)

	got, ok := w.TargetedActor(a, 20)
	if !ok || got != b {
		t.Errorf("TargetedActor = %v,%v, want %v", got, ok, b)
	}
	if _, ok := w.TargetedActor(a, 3); ok {
		t.Error("target found out of range")
	}
}

func TestActorsNear(t *testing.T) {
	w := newTestWorld(t)
	a := w.SpawnActor(mgl64.Vec3{10, 0, 10}, 0)
	b := w.SpawnActor(mgl64.Vec3{12, 0, 10}, 0)
	w.SpawnActor(mgl64.Vec3{30, 0, 30}, 0)

	got := w.ActorsNear(mgl64.Vec3{11.5, 0.9, 10}, 3, nil)
	if len(got) != 2 || got[0] != b || got[1] != a {
		t.Errorf("ActorsNear = %v, want [%v %v]", got, b, a)
	}
}
