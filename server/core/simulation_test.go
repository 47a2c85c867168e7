package core

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/automoto/shadeblade/components"
	"github.com/automoto/shadeblade/config"
	"github.com/automoto/shadeblade/shared/leveldata"
	"github.com/automoto/shadeblade/shared/netcomponents"
	"github.com/automoto/shadeblade/sim/blade"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

var sword = components.Item{Kind: components.ItemSword, Name: "sword"}

func newTestSim(t *testing.T, arena *leveldata.Arena) *Simulation {
	t.Helper()
	cfg := config.Default()
	cfg.World.ArenaSize = 128
	if arena == nil {
		arena = leveldata.Flat(128)
	}
	now := time.Unix(1000, 0)
	return NewSimulation(cfg, arena, func() time.Time { return now })
}

func mustJoin(t *testing.T, s *Simulation) donburi.Entity {
	t.Helper()
	actor, err := s.Join()
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	return actor
}

func TestEnqueueRunsOnNextTick(t *testing.T) {
	s := newTestSim(t, nil)

	var mu sync.Mutex
	ran := 0
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Enqueue(func() {
				mu.Lock()
				ran++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	if ran != 0 {
		t.Fatalf("commands ran before Tick: %d", ran)
	}
	s.Tick()
	if ran != 10 {
		t.Errorf("ran = %d, want 10", ran)
	}
	s.Tick()
	if ran != 10 {
		t.Errorf("commands ran twice: %d", ran)
	}
}

func TestCommandsEnqueuedDuringTickWait(t *testing.T) {
	s := newTestSim(t, nil)
	second := false
	s.Enqueue(func() {
		s.Enqueue(func() { second = true })
	})
	s.Tick()
	if second {
		t.Fatal("command queued mid-drain ran in the same tick")
	}
	s.Tick()
	if !second {
		t.Error("command queued mid-drain never ran")
	}
}

func TestJoinSpawnsSheathedBlade(t *testing.T) {
	s := newTestSim(t, nil)
	actor := mustJoin(t, s)

	b, ok := s.Blade(actor)
	if !ok {
		t.Fatal("no blade for joined actor")
	}
	s.Tick()
	if b.Mode() != blade.Sheathed {
		t.Errorf("mode = %s, want sheathed", blade.ModeName(b.Mode()))
	}
	if n := s.World().ProxyCount(); n != 1 {
		t.Errorf("proxies = %d, want 1", n)
	}
}

func TestJoinCyclesSpawnPoints(t *testing.T) {
	arena := leveldata.Flat(128)
	arena.Spawns = []leveldata.SpawnPoint{
		{X: 10, Z: 10},
		{X: 50, Z: 20, Index: 1},
	}
	s := newTestSim(t, arena)

	want := []mgl64.Vec3{{10, 0, 10}, {50, 0, 20}, {10, 0, 10}}
	for i, w := range want {
		actor := mustJoin(t, s)
		got, _ := s.World().Position(actor)
		if got != w {
			t.Errorf("join %d at %v, want %v", i, got, w)
		}
	}
}

func TestCommandTogglesBlade(t *testing.T) {
	s := newTestSim(t, nil)
	actor := mustJoin(t, s)
	s.TakeEvents()

	if err := s.Command(actor, blade.Toggle); err != nil {
		t.Fatalf("Command: %v", err)
	}
	s.Tick()

	b, _ := s.Blade(actor)
	if b.Mode() != blade.StandbyMode {
		t.Fatalf("mode = %s, want standby", blade.ModeName(b.Mode()))
	}

	var changes []ModeChanged
	for _, ev := range s.TakeEvents() {
		if mc, ok := ev.(ModeChanged); ok {
			changes = append(changes, mc)
		}
	}
	if len(changes) != 1 {
		t.Fatalf("mode events = %v, want one", changes)
	}
	if c := changes[0]; c.Owner != actor || c.From != blade.Sheathed || c.To != blade.StandbyMode {
		t.Errorf("event = %+v", c)
	}
}

func TestCommandWithoutBlade(t *testing.T) {
	s := newTestSim(t, nil)
	if err := s.Command(donburi.Null, blade.Toggle); !errors.Is(err, ErrNoBlade) {
		t.Errorf("err = %v, want ErrNoBlade", err)
	}
}

func TestThrow(t *testing.T) {
	s := newTestSim(t, nil)
	actor := mustJoin(t, s)
	s.TakeEvents()

	if err := s.Throw(actor, 0); !errors.Is(err, ErrNothingHeld) {
		t.Errorf("empty hand: err = %v, want ErrNothingHeld", err)
	}

	s.World().SetMainHand(actor, blade.Item)
	if err := s.Throw(actor, 0); !errors.Is(err, ErrNotThrowable) {
		t.Errorf("blade: err = %v, want ErrNotThrowable", err)
	}
	s.World().TakeMainHand(actor)

	s.World().SetMainHand(actor, sword)
	if err := s.Throw(actor, 0); err != nil {
		t.Fatalf("Throw: %v", err)
	}
	if s.Thrown() != 1 {
		t.Errorf("thrown = %d, want 1", s.Thrown())
	}
	if !s.World().MainHand(actor).Empty() {
		t.Error("sword still in hand after throw")
	}

	events := s.TakeEvents()
	if len(events) != 1 {
		t.Fatalf("events = %v, want one throw", events)
	}
	ev, ok := events[0].(ItemThrown)
	if !ok || ev.Owner != actor || ev.Item != sword || ev.Speed != s.cfg.Thrown.DefaultThrowSpeed {
		t.Errorf("event = %+v", events[0])
	}
}

func TestThrowWhileSpawnRefused(t *testing.T) {
	s := newTestSim(t, nil)
	actor := mustJoin(t, s)
	s.Tick()

	refuse := true
	s.World().SpawnGate = func(item components.Item) error {
		if refuse && item.Kind == components.ItemSword {
			return errors.New("busy")
		}
		return nil
	}
	s.World().SetMainHand(actor, sword)

	if err := s.Throw(actor, 0); err != nil {
		t.Fatalf("first throw: %v", err)
	}
	if got := s.World().MainHand(actor); !got.Empty() {
		t.Fatalf("hand holds %v while the throw is pending", got)
	}
	if err := s.Throw(actor, 0); !errors.Is(err, ErrNothingHeld) {
		t.Errorf("second throw: err = %v, want ErrNothingHeld", err)
	}

	refuse = false
	for i := 0; i < 30; i++ {
		s.Tick()
	}
	if n := s.Thrown(); n != 1 {
		t.Errorf("thrown = %d, want 1", n)
	}
	if n := s.Registry().Len(); n != 1 {
		t.Errorf("registered = %d, want 1", n)
	}
}

func TestShutdownReturnsPendingThrow(t *testing.T) {
	s := newTestSim(t, nil)
	actor := mustJoin(t, s)
	s.World().SpawnGate = func(item components.Item) error {
		if item.Kind == components.ItemSword {
			return errors.New("busy")
		}
		return nil
	}
	s.World().SetMainHand(actor, sword)
	if err := s.Throw(actor, 0); err != nil {
		t.Fatalf("Throw: %v", err)
	}

	s.Shutdown()
	if got := s.World().MainHand(actor); got != sword {
		t.Errorf("hand holds %v, want the unthrown sword", got)
	}
}

func TestThrowFromSpectatorRejected(t *testing.T) {
	s := newTestSim(t, nil)
	actor := mustJoin(t, s)
	s.World().SetMainHand(actor, sword)
	s.World().SetSpectator(actor, true)

	if err := s.Throw(actor, 0); !errors.Is(err, ErrNotAnActor) {
		t.Errorf("err = %v, want ErrNotAnActor", err)
	}
	if s.Thrown() != 0 {
		t.Errorf("thrown = %d, want 0", s.Thrown())
	}
}

func TestGrabNothing(t *testing.T) {
	s := newTestSim(t, nil)
	actor := mustJoin(t, s)
	s.Tick()

	if err := s.Grab(actor); !errors.Is(err, ErrNothingThere) {
		t.Errorf("err = %v, want ErrNothingThere", err)
	}
	if err := s.Grab(donburi.Null); !errors.Is(err, ErrNotAnActor) {
		t.Errorf("err = %v, want ErrNotAnActor", err)
	}
}

func TestAim(t *testing.T) {
	s := newTestSim(t, nil)
	actor := mustJoin(t, s)

	if err := s.Aim(actor, 1.5, -0.25); err != nil {
		t.Fatalf("Aim: %v", err)
	}
	yaw, pitch := s.World().Aim(actor)
	if yaw != 1.5 || pitch != -0.25 {
		t.Errorf("aim = (%v, %v), want (1.5, -0.25)", yaw, pitch)
	}
	if err := s.Aim(donburi.Null, 0, 0); !errors.Is(err, ErrNotAnActor) {
		t.Errorf("err = %v, want ErrNotAnActor", err)
	}
}

func TestLeaveDisposesBlade(t *testing.T) {
	s := newTestSim(t, nil)
	actor := mustJoin(t, s)
	s.Tick()

	s.Leave(actor)
	if _, ok := s.Blade(actor); ok {
		t.Error("blade still tracked after leave")
	}
	if s.World().IsActor(actor) {
		t.Error("actor still exists after leave")
	}
	if n := s.World().ProxyCount(); n != 0 {
		t.Errorf("proxies = %d, want 0", n)
	}
	s.Tick()
}

func TestShutdownDisposesEverything(t *testing.T) {
	s := newTestSim(t, nil)
	a := mustJoin(t, s)
	mustJoin(t, s)
	s.World().SetMainHand(a, sword)
	if err := s.Throw(a, 0); err != nil {
		t.Fatalf("Throw: %v", err)
	}
	s.Tick()

	s.Shutdown()
	if n := s.World().ProxyCount(); n != 0 {
		t.Errorf("proxies = %d, want 0", n)
	}
	if n := s.Registry().Len(); n != 0 {
		t.Errorf("registered = %d, want 0", n)
	}
	if n := s.Thrown(); n != 0 {
		t.Errorf("thrown = %d, want 0", n)
	}
	if _, ok := s.Blade(a); ok {
		t.Error("blade survived shutdown")
	}
	if n := s.Scheduler().Len(); n != 0 {
		t.Errorf("scheduled tasks = %d, want 0", n)
	}
}

func TestMirrorCopiesWorldState(t *testing.T) {
	s := newTestSim(t, nil)
	s.NetworkID = func(donburi.Entity) uint { return 42 }
	actor := mustJoin(t, s)
	s.World().SetMainHand(actor, sword)
	s.Tick()

	ecs := s.World().ECS()
	actorEntry := ecs.Entry(actor)
	na := netcomponents.NetActor.Get(actorEntry)
	feet, _ := s.World().Position(actor)
	if na.X != feet.X() || na.Y != feet.Y() || na.Z != feet.Z() {
		t.Errorf("net actor at (%v, %v, %v), want %v", na.X, na.Y, na.Z, feet)
	}
	if na.Health != s.cfg.World.ActorHealth || na.MainHand != int(components.ItemSword) {
		t.Errorf("net actor = %+v", na)
	}

	b, _ := s.Blade(actor)
	np := netcomponents.NetProxy.Get(ecs.Entry(b.ProxyID()))
	if np.Mode != int(blade.Sheathed) || np.Item != int(components.ItemShadeBlade) || np.OwnerNetworkID != 42 {
		t.Errorf("net proxy = %+v", np)
	}

	st, ok := netcomponents.NetSimState.First(ecs)
	if !ok {
		t.Fatal("no sim state entity")
	}
	ns := netcomponents.NetSimState.Get(st)
	if ns.Actors != 1 || ns.Blades != 1 || ns.Tick != s.Scheduler().Now() {
		t.Errorf("sim state = %+v", ns)
	}
}

func TestNetEntityHook(t *testing.T) {
	s := newTestSim(t, nil)
	seen := map[NetKind]int{}
	s.OnNetEntity = func(_ donburi.Entity, kind NetKind) { seen[kind]++ }
	s.Start()
	mustJoin(t, s)

	if seen[NetKindState] != 1 || seen[NetKindActor] != 1 || seen[NetKindProxy] != 1 {
		t.Errorf("hook calls = %v, want one of each", seen)
	}
}

func TestLoadArenaEmptyPath(t *testing.T) {
	arena, err := LoadArena("")
	if err != nil || arena != nil {
		t.Errorf("LoadArena(\"\") = %v, %v; want nil, nil", arena, err)
	}
	if _, err := LoadArena("/nonexistent/arena.tmx"); err == nil {
		t.Error("expected error for missing map")
	}
}
