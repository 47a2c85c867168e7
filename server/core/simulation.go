package core

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/shadeblade/components"
	"github.com/automoto/shadeblade/config"
	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/automoto/shadeblade/shared/leveldata"
	"github.com/automoto/shadeblade/shared/netcomponents"
	"github.com/automoto/shadeblade/sim/blade"
	"github.com/automoto/shadeblade/sim/projectile"
	"github.com/automoto/shadeblade/sim/registry"
	"github.com/automoto/shadeblade/sim/scheduler"
	"github.com/automoto/shadeblade/sim/statemachine"
	"github.com/automoto/shadeblade/sim/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

var (
	ErrNotAnActor   = errors.New("sim: not an actor")
	ErrNothingHeld  = errors.New("sim: main hand is empty")
	ErrNotThrowable = errors.New("sim: item cannot be thrown")
	ErrNoBlade      = errors.New("sim: actor has no blade")
	ErrNothingThere = errors.New("sim: nothing to grab")
)

// ModeChanged is emitted when a blade changes mode
type ModeChanged struct {
	Owner    donburi.Entity
	From, To statemachine.StateID
}

// ItemThrown is emitted when an actor releases a thrown item
type ItemThrown struct {
	Owner donburi.Entity
	Item  components.Item
	Speed float64
}

// NetKind says which net component an entity carries
type NetKind int

const (
	NetKindActor NetKind = iota
	NetKindProxy
	NetKindState
)

// Simulation owns the world and everything ticking in it. All methods
// except Enqueue must run on the loop goroutine.
type Simulation struct {
	cfg   *config.Config
	world *world.World
	sched *scheduler.Scheduler
	reg   *registry.Registry
	now   func() time.Time

	blades map[donburi.Entity]*blade.Blade
	thrown projectile.Set
	joins  int

	stateEntity donburi.Entity
	events      []any

	mu       sync.Mutex
	commands []func()

	// OnNetEntity runs when an entity gains a net component
	OnNetEntity func(e donburi.Entity, kind NetKind)
	// NetworkID maps an entity to its sync id. nil leaves owner ids at 0.
	NetworkID func(e donburi.Entity) uint
}

// NewSimulation builds the world from arena (nil for a flat floor). now
// stamps blade requests and may be nil for the wall clock.
func NewSimulation(cfg *config.Config, arena *leveldata.Arena, now func() time.Time) *Simulation {
	w := world.New(cfg, arena)
	s := &Simulation{
		cfg:    cfg,
		world:  w,
		sched:  scheduler.New(),
		reg:    registry.New(w),
		now:    now,
		blades: make(map[donburi.Entity]*blade.Blade),
	}
	w.OnActorSpawned = func(e donburi.Entity) { s.addNet(e, netcomponents.NetActor, NetKindActor) }
	w.OnProxySpawned = func(e donburi.Entity) { s.addNet(e, netcomponents.NetProxy, NetKindProxy) }

	ecs := w.ECS()
	s.stateEntity = ecs.Create(netcomponents.NetSimState)
	return s
}

// Start announces the state entity. Call after OnNetEntity is set.
func (s *Simulation) Start() {
	if s.OnNetEntity != nil {
		s.OnNetEntity(s.stateEntity, NetKindState)
	}
}

func (s *Simulation) addNet(e donburi.Entity, c donburi.IComponentType, kind NetKind) {
	entry := s.world.ECS().Entry(e)
	entry.AddComponent(c)
	if kind == NetKindProxy {
		netcomponents.NetProxy.Get(entry).Mode = netcomponents.NoMode
	}
	if s.OnNetEntity != nil {
		s.OnNetEntity(e, kind)
	}
}

func (s *Simulation) env() projectile.Env {
	return projectile.Env{
		Config:    s.cfg,
		World:     s.world,
		Scheduler: s.sched,
		Registry:  s.reg,
	}
}

// Enqueue schedules fn to run at the start of the next tick. Safe to call
// from any goroutine.
func (s *Simulation) Enqueue(fn func()) {
	s.mu.Lock()
	s.commands = append(s.commands, fn)
	s.mu.Unlock()
}

// Tick advances the simulation one step
func (s *Simulation) Tick() {
	s.drain()
	s.world.Step()
	s.sched.Advance()
	s.thrown.Tick()
	for _, b := range s.blades {
		b.Tick()
	}
	s.mirror()
}

func (s *Simulation) drain() {
	s.mu.Lock()
	cmds := s.commands
	s.commands = nil
	s.mu.Unlock()

	for _, fn := range cmds {
		fn()
	}
}

// TakeEvents returns and clears everything emitted since the last call
func (s *Simulation) TakeEvents() []any {
	ev := s.events
	s.events = nil
	return ev
}

// Join spawns an actor with its companion blade
func (s *Simulation) Join() (donburi.Entity, error) {
	feet := s.nextSpawn()
	actor := s.world.SpawnActor(feet, 0)

	b, err := blade.New(s.env(), actor, s.now)
	if err != nil {
		s.world.RemoveActor(actor)
		return donburi.Null, fmt.Errorf("join: %w", err)
	}
	b.OnModeChange = func(b *blade.Blade, from, to statemachine.StateID) {
		s.events = append(s.events, ModeChanged{Owner: b.Owner(), From: from, To: to})
	}
	b.OnDispose = func(b *blade.Blade) {
		delete(s.blades, b.Owner())
	}
	s.blades[actor] = b
	b.Spawn()

	log.Printf("[sim] Actor %v joined at (%.1f, %.1f, %.1f)", actor, feet.X(), feet.Y(), feet.Z())
	return actor, nil
}

func (s *Simulation) nextSpawn() mgl64.Vec3 {
	spawns := s.world.Spawns()
	if len(spawns) == 0 {
		half := float64(s.cfg.World.ArenaSize) / 2
		return mgl64.Vec3{half, 0, half}
	}
	sp := spawns[s.joins%len(spawns)]
	s.joins++
	return mgl64.Vec3{sp.X, sp.Y, sp.Z}
}

// Leave removes an actor. Its blade goes with it.
func (s *Simulation) Leave(actor donburi.Entity) {
	if b, ok := s.blades[actor]; ok {
		b.Dispose()
	}
	s.world.RemoveActor(actor)
}

// Command forwards a request to actor's blade
func (s *Simulation) Command(actor donburi.Entity, r blade.Request) error {
	b, ok := s.blades[actor]
	if !ok {
		return ErrNoBlade
	}
	b.Request(r)
	return nil
}

// Aim sets where actor is looking
func (s *Simulation) Aim(actor donburi.Entity, yaw, pitch float64) error {
	if !s.world.IsActor(actor) {
		return ErrNotAnActor
	}
	s.world.SetAim(actor, yaw, pitch)
	return nil
}

// Throw releases actor's main-hand item. A speed of zero uses the
// configured default.
func (s *Simulation) Throw(actor donburi.Entity, speed float64) error {
	if !s.world.ActorActive(actor) {
		return ErrNotAnActor
	}
	item := s.world.MainHand(actor)
	if item.Empty() {
		return ErrNothingHeld
	}
	if item.Kind == blade.Item.Kind {
		return ErrNotThrowable
	}
	if speed <= 0 {
		speed = s.cfg.Thrown.DefaultThrowSpeed
	}

	p := projectile.New(s.env(), actor, item, nil)
	if !p.Hold() {
		return ErrNothingHeld
	}
	p.Spawn()
	p.Release(speed)
	s.thrown.Add(p)
	s.events = append(s.events, ItemThrown{Owner: actor, Item: item, Speed: speed})
	return nil
}

// Grab picks up the nearest visible proxy along actor's aim
func (s *Simulation) Grab(actor donburi.Entity) error {
	if !s.world.ActorActive(actor) {
		return ErrNotAnActor
	}
	yaw, pitch := s.world.Aim(actor)
	eye := s.world.Eye(actor)
	end := eye.Add(gamemath.Direction(yaw, pitch).Mul(s.cfg.World.Reach))
	proxy, ok := s.world.ProxyAlong(eye, end)
	if !ok || !s.reg.OnGrab(proxy, actor) {
		return ErrNothingThere
	}
	return nil
}

// Shutdown disposes every live instance
func (s *Simulation) Shutdown() {
	s.reg.ClearAll()
	for _, b := range s.blades {
		b.Dispose()
	}
	s.thrown.DisposeAll()
	s.sched.Clear()
	log.Println("[sim] Shut down")
}

// mirror copies world state into the net components
func (s *Simulation) mirror() {
	ecs := s.world.ECS()

	actors := 0
	netcomponents.NetActor.Each(ecs, func(entry *donburi.Entry) {
		actors++
		t := components.Transform.Get(entry)
		c := components.Combatant.Get(entry)
		n := netcomponents.NetActor.Get(entry)
		n.X, n.Y, n.Z = t.Position.X(), t.Position.Y(), t.Position.Z()
		n.Yaw, n.Pitch = t.Yaw, t.Pitch
		n.Health, n.MaxHealth = c.Health, c.MaxHealth
		n.Dead, n.Spectator, n.Pinned = c.Dead, c.Spectator, c.Pinned
		n.MainHand = int(components.Inventory.Get(entry).MainHand.Kind)
	})

	netcomponents.NetProxy.Each(ecs, func(entry *donburi.Entry) {
		t := components.Transform.Get(entry)
		p := components.Proxy.Get(entry)
		n := netcomponents.NetProxy.Get(entry)
		n.X, n.Y, n.Z = t.Position.X(), t.Position.Y(), t.Position.Z()
		n.FX, n.FY, n.FZ = p.Facing.X(), p.Facing.Y(), p.Facing.Z()
		n.Item = int(p.Item.Kind)
		n.Hidden, n.Glowing = p.Hidden, p.Glowing
	})

	for owner, b := range s.blades {
		if b.ProxyID() == donburi.Null || !ecs.Valid(b.ProxyID()) {
			continue
		}
		entry := ecs.Entry(b.ProxyID())
		if !entry.HasComponent(netcomponents.NetProxy) {
			continue
		}
		n := netcomponents.NetProxy.Get(entry)
		n.Mode = int(b.Mode())
		if s.NetworkID != nil {
			n.OwnerNetworkID = s.NetworkID(owner)
		}
	}

	if ecs.Valid(s.stateEntity) {
		netcomponents.NetSimState.SetValue(ecs.Entry(s.stateEntity), netcomponents.NetSimStateData{
			Tick:        s.sched.Now(),
			Actors:      actors,
			Blades:      len(s.blades),
			Projectiles: s.thrown.Len(),
			Registered:  s.reg.Len(),
		})
	}
}

func (s *Simulation) World() *world.World             { return s.world }
func (s *Simulation) Registry() *registry.Registry    { return s.reg }
func (s *Simulation) Scheduler() *scheduler.Scheduler { return s.sched }
func (s *Simulation) Thrown() int                     { return s.thrown.Len() }

// Blade returns owner's companion blade
func (s *Simulation) Blade(owner donburi.Entity) (*blade.Blade, bool) {
	b, ok := s.blades[owner]
	return b, ok
}
