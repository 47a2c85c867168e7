package projectile

import (
	"log"

	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// voidDepth ends flights that fall out of the arena
const voidDepth = -64.0

// Release launches the projectile at speed using the current bundle. A
// release before the proxy exists is held until spawn succeeds.
func (p *Projectile) Release(speed float64) {
	if p.disposed {
		return
	}
	if !p.ready {
		p.pendingSpeed = &speed
		return
	}
	if !p.OwnerValid() {
		log.Printf("[projectile] %s owner gone at release, discarding", p.ID)
		p.Dispose()
		return
	}

	p.ClearOutcome()
	p.bundle.Launch(p, speed)
	p.held = false
	p.timeStep = 0
	p.cur = p.origin.Add(p.traj.Position(0))
	p.prev = p.cur
	p.velocity = p.traj.Velocity(0)
	p.flying = true

	p.env.World.Detach(p.proxy)
	p.env.World.SetHidden(p.proxy, false)
}

// Tick advances one step of flight. Order within a tick is fixed: end
// check, trajectory update, proxy move, collision checks, then dispatch
// of any outcome found this tick.
func (p *Projectile) Tick() {
	if p.disposed || !p.flying {
		return
	}
	if p.outcome != None || !p.ProxyValid() || p.cutoffExceeded() {
		p.end()
		return
	}

	p.apply()
	p.env.World.MoveProxy(p.proxy, p.cur, p.velocity)
	p.evaluate()

	if p.outcome != None || p.cur.Y() < voidDepth {
		p.end()
		return
	}
	p.prev = p.cur
	p.timeStep++
}

func (p *Projectile) cutoffExceeded() bool {
	return p.timeCutoff > 0 && p.ScaledTime() > p.timeCutoff
}

func (p *Projectile) apply() {
	t := p.ScaledTime()
	p.cur = p.expectedPosition(t)
	p.velocity = p.traj.Velocity(t)
}

// evaluate runs the actor check and then the solid check. Neither runs
// once an outcome is latched.
func (p *Projectile) evaluate() {
	if p.outcome != None {
		return
	}
	p.hitCheck()
	if p.outcome != None {
		return
	}
	p.groundedCheck()
}

func (p *Projectile) hitCheck() {
	grace := p.env.Config.Thrown.CatchGraceTicks
	filter := func(e donburi.Entity) bool {
		return e != p.owner || p.timeStep >= grace
	}
	hit, ok := p.env.World.SegmentActors(p.prev, p.cur, p.env.Config.Thrown.HitRadius, filter)
	if !ok {
		return
	}
	if hit.Entity == p.owner {
		p.outcome = Caught
		return
	}
	p.outcome = Hit
	p.hitTarget = hit.Entity
}

func (p *Projectile) groundedCheck() {
	step := p.cur.Sub(p.prev)
	ahead := gamemath.SafeNormalize(p.velocity).Mul(step.Len() * p.env.Config.Thrown.GroundLookahead)
	hit, ok := p.env.World.SegmentSolids(p.prev, p.cur.Add(ahead))
	if !ok {
		return
	}
	p.outcome = Grounded
	p.stuckSurface = hit.ID
	p.cur = hit.Point
}

// end stops flight and hands the outcome to the bundle
func (p *Projectile) end() {
	p.flying = false
	log.Printf("[projectile] %s ended: %s", p.ID, p.endReason())

	switch p.outcome {
	case Caught:
		p.bundle.OnCatch(p)
	case Hit:
		p.bundle.OnHit(p)
	case Grounded:
		p.bundle.OnGrounded(p)
	}
	p.timeStep = 0
	if !p.disposed {
		p.bundle.OnEnd(p)
	}
}

func (p *Projectile) endReason() string {
	switch {
	case p.outcome != None:
		return p.outcome.String()
	case !p.ProxyValid():
		return "proxy invalid"
	case p.cutoffExceeded():
		return "time cutoff"
	case p.cur.Y() < voidDepth:
		return "fell out of the arena"
	default:
		return "unknown"
	}
}

// expectedPosition is origin plus the trajectory at scaled time t
func (p *Projectile) expectedPosition(t float64) mgl64.Vec3 {
	return p.origin.Add(p.traj.Position(t))
}

// Halt stops a flight in place without dispatching an outcome
func (p *Projectile) Halt() {
	p.flying = false
	p.timeStep = 0
}
