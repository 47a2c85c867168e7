package projectile

import (
	"log"

	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/go-gl/mathgl/mgl64"
)

// Thrown is the behavior of an ordinary thrown item. Swords and axes stick
// in what they hit, everything else bounces off and drops.
type Thrown struct{}

var _ Bundle = Thrown{}

func (Thrown) OnSpawn(p *Projectile) {
	p.env.World.SetHidden(p.proxy, true)
}

// Launch starts a ballistic arc from just in front of the owner's eye
func (Thrown) Launch(p *Projectile, speed float64) {
	w, cfg := p.env.World, p.env.Config.Thrown
	yaw, pitch := w.Aim(p.owner)
	basis := gamemath.NewBasis(gamemath.Direction(yaw, pitch))
	origin := w.Eye(p.owner).Add(basis.Apply(mgl64.Vec3{cfg.OriginRight, cfg.OriginUp, cfg.OriginForward}))

	flat := gamemath.FlatDirection(yaw + mgl64.DegToRad(cfg.RotationDegrees))
	p.SetTrajectory(origin, gamemath.Ballistic(flat, pitch, mgl64.DegToRad(cfg.MaxPitchDegrees), speed, cfg.GravityDamper))

	if r := p.env.Registry; r != nil && !r.IsRegistered(p.proxy) {
		if err := r.Register(p); err != nil {
			log.Printf("[projectile] %s register: %v", p.ID, err)
		}
	}
}

func (t Thrown) OnHit(p *Projectile) {
	if !p.env.World.ActorAlive(p.hitTarget) {
		t.DisposeNaturally(p)
		return
	}
	if p.item.Kind.Impales() {
		t.impale(p)
		return
	}
	dmg := p.env.Config.Damage
	p.env.World.Damage(p.hitTarget, dmg.OtherDamage, p.velocity.Mul(dmg.OtherKnockbackScale), dmg.OtherInvulnTicks)
	t.DisposeNaturally(p)
}

func (t Thrown) impale(p *Projectile) {
	w, target := p.env.World, p.hitTarget
	dmg := p.env.Config.Damage
	kb := p.ImpactKnockback()
	p.Embed()
	w.Damage(target, dmg.ImpaleDamage, kb, dmg.ImpaleInvulnTicks)

	vel := p.velocity
	p.tasks.Track(p.env.Scheduler.After(p.env.Config.Thrown.PinDelay, func() {
		chest := w.Chest(target)
		probe := chest.Add(vel.Mul(p.env.Config.Impalement.PinProbeScale))
		if _, ok := w.SegmentSolids(chest, probe); ok {
			t.pin(p)
		}
	}))

	p.tasks.Track(p.env.Scheduler.Every(1, 1, func() bool {
		if !p.ProxyValid() {
			p.Dispose()
			return false
		}
		if !w.ActorAlive(target) {
			p.bundle.DisposeNaturally(p)
			return false
		}
		return true
	}))
}

// pin holds the target in place until the proxy goes away or the
// iteration budget runs out
func (Thrown) pin(p *Projectile) {
	w, target := p.env.World, p.hitTarget
	imp := p.env.Config.Impalement
	w.SetPinned(target, true)
	p.pinning = true

	i := 0
	p.tasks.Track(p.env.Scheduler.Every(1, imp.PinCheckInterval, func() bool {
		if !p.ProxyValid() || i > imp.PinMaxIterations {
			w.SetPinned(target, false)
			p.pinning = false
			if p.ProxyValid() {
				p.bundle.DisposeNaturally(p)
			}
			return false
		}
		w.SetVelocity(target, mgl64.Vec3{})
		i += imp.PinCheckInterval
		return true
	}))
}

// OnGrounded backs the proxy out of the surface and starts the despawn
// countdown
func (Thrown) OnGrounded(p *Projectile) {
	w, cfg := p.env.World, p.env.Config.Thrown
	back := gamemath.SafeNormalize(p.velocity).Mul(-cfg.GroundBackoffStep)
	marker := p.cur
	for x := 1; x <= cfg.GroundBackoffLimit; x++ {
		if _, inside := w.SolidAt(marker); !inside {
			break
		}
		marker = p.cur.Add(back.Mul(float64(x)))
	}

	facing := p.velocity
	p.tasks.Track(p.env.Scheduler.After(1, func() {
		p.Place(marker, facing)
	}))

	tick := 0
	interval := cfg.DisposalCheckInterval
	p.tasks.Track(p.env.Scheduler.Every(1, interval, func() bool {
		if !p.ProxyValid() {
			return false
		}
		if tick >= cfg.DisposalTimeout {
			if p.immune {
				return true
			}
			p.Dispose()
			return false
		}
		tick += interval
		return true
	}))
}

func (Thrown) OnCatch(p *Projectile) {
	p.env.World.Give(p.owner, p.item)
	p.Dispose()
}

// OnEnd handles flights that stopped without an outcome
func (Thrown) OnEnd(p *Projectile) {
	if p.outcome != None {
		return
	}
	if !p.ProxyValid() {
		p.Dispose()
		return
	}
	p.bundle.DisposeNaturally(p)
}

func (Thrown) DisposeNaturally(p *Projectile) {
	if p.immune || p.disposed {
		return
	}
	w := p.env.World
	at := p.cur
	if pos, ok := w.Position(p.hitTarget); ok {
		at = pos
	} else if pos, ok := w.ProxyPosition(p.proxy); ok {
		at = pos
	}
	w.DropItem(at, p.item)
	p.Dispose()
}
