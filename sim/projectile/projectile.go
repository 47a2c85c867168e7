// Package projectile flies items through the world. Position and velocity
// are pure functions of elapsed ticks; every tick the projectile checks
// for actors and solids along its path and stops on exactly one outcome.
package projectile

import (
	"github.com/automoto/shadeblade/components"
	"github.com/automoto/shadeblade/config"
	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/automoto/shadeblade/sim/registry"
	"github.com/automoto/shadeblade/sim/scheduler"
	"github.com/automoto/shadeblade/sim/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
)

// Outcome is how a flight ended
type Outcome int

const (
	None Outcome = iota
	Hit
	Grounded
	Caught
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Grounded:
		return "grounded"
	case Caught:
		return "caught"
	default:
		return "none"
	}
}

// Env carries the services a projectile works against
type Env struct {
	Config    *config.Config
	World     *world.World
	Scheduler *scheduler.Scheduler
	Registry  *registry.Registry
}

// Projectile is one simulated item. It is driven from the simulation
// goroutine only.
type Projectile struct {
	ID uuid.UUID

	env    Env
	owner  donburi.Entity // back-reference, resolved through the world
	item   components.Item
	proxy  donburi.Entity
	bundle Bundle

	traj     gamemath.Trajectory
	origin   mgl64.Vec3
	cur      mgl64.Vec3
	prev     mgl64.Vec3
	velocity mgl64.Vec3

	timeStep   int
	timeScale  float64 // zero means unscaled
	timeCutoff float64 // zero means none

	outcome      Outcome
	hitTarget    donburi.Entity
	stuckSurface int

	ready        bool
	flying       bool
	pendingSpeed *float64
	held         bool // item taken from the owner's hand, not launched yet
	immune       bool
	impaling     bool
	pinning      bool
	disposed     bool

	tasks scheduler.Group

	// OnDispose runs once, after the proxy is gone
	OnDispose func(p *Projectile)
}

// New prepares a projectile for item thrown by owner. Nothing exists in
// the world until Spawn.
func New(env Env, owner donburi.Entity, item components.Item, bundle Bundle) *Projectile {
	if bundle == nil {
		bundle = Thrown{}
	}
	return &Projectile{
		ID:     uuid.New(),
		env:    env,
		owner:  owner,
		item:   item,
		bundle: bundle,
		traj:   gamemath.Stationary(),
	}
}

func (p *Projectile) Env() Env                  { return p.env }
func (p *Projectile) Owner() donburi.Entity     { return p.owner }
func (p *Projectile) Item() components.Item     { return p.item }
func (p *Projectile) ProxyID() donburi.Entity   { return p.proxy }
func (p *Projectile) HitTarget() donburi.Entity { return p.hitTarget }
func (p *Projectile) Bundle() Bundle            { return p.bundle }
func (p *Projectile) Origin() mgl64.Vec3        { return p.origin }
func (p *Projectile) Position() mgl64.Vec3      { return p.cur }
func (p *Projectile) Previous() mgl64.Vec3      { return p.prev }
func (p *Projectile) Velocity() mgl64.Vec3      { return p.velocity }
func (p *Projectile) TimeStep() int             { return p.timeStep }
func (p *Projectile) Outcome() Outcome          { return p.outcome }
func (p *Projectile) StuckSurface() int         { return p.stuckSurface }
func (p *Projectile) Ready() bool               { return p.ready }
func (p *Projectile) Flying() bool              { return p.flying }
func (p *Projectile) Disposed() bool            { return p.disposed }
func (p *Projectile) Immune() bool              { return p.immune }
func (p *Projectile) Tasks() *scheduler.Group   { return &p.tasks }

// SetBundle swaps the trajectory and outcome strategy. The trajectory
// changes on the next Release, outcome handlers right away.
func (p *Projectile) SetBundle(b Bundle) {
	if b == nil {
		b = Thrown{}
	}
	p.bundle = b
}

// Hold takes the item out of the owner's main hand. If the projectile is
// disposed before its first launch the item goes back to the owner. It
// returns false if the owner is not holding the item.
func (p *Projectile) Hold() bool {
	w := p.env.World
	if p.held || p.disposed || w.MainHand(p.owner).Kind != p.item.Kind {
		return false
	}
	w.TakeMainHand(p.owner)
	p.held = true
	return true
}

// SetImmune protects the projectile from timed and natural disposal
func (p *Projectile) SetImmune(on bool) {
	p.immune = on
}

// SetTimeCutoff ends flights once scaled time passes cutoff. Zero disables.
func (p *Projectile) SetTimeCutoff(cutoff float64) {
	p.timeCutoff = cutoff
}

// SetTimeScale maps ticks to trajectory time. Zero disables scaling.
func (p *Projectile) SetTimeScale(scale float64) {
	p.timeScale = scale
}

// SpreadCutoff scales time so the cutoff is reached after iterations ticks
func (p *Projectile) SpreadCutoff(iterations float64) {
	if iterations <= 0 {
		return
	}
	span := p.timeCutoff
	if span <= 0 {
		span = 1
	}
	p.timeScale = span / iterations
}

// ScaledTime is the trajectory time for the current tick
func (p *Projectile) ScaledTime() float64 {
	if p.timeScale > 0 {
		return float64(p.timeStep) * p.timeScale
	}
	return float64(p.timeStep)
}

// SetTrajectory installs the flight functions. Bundles call it from Launch.
func (p *Projectile) SetTrajectory(origin mgl64.Vec3, traj gamemath.Trajectory) {
	p.origin = origin
	p.traj = traj
}

// Place moves the resting projectile and its proxy without flying
func (p *Projectile) Place(pos, facing mgl64.Vec3) {
	p.cur = pos
	p.prev = pos
	p.env.World.MoveProxy(p.proxy, pos, facing)
}

// ClearOutcome resets the latched outcome so the next flight starts clean
func (p *Projectile) ClearOutcome() {
	p.outcome = None
	p.hitTarget = donburi.Null
	p.stuckSurface = 0
}

// OwnerValid reports whether the owner still exists and is alive
func (p *Projectile) OwnerValid() bool {
	return p.env.World.ActorAlive(p.owner)
}

// ProxyValid reports whether the visual proxy still exists
func (p *Projectile) ProxyValid() bool {
	return p.ready && p.env.World.ProxyValid(p.proxy)
}
