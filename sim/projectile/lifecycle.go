package projectile

import (
	"log"

	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// Spawn creates the visual proxy near the owner's eye. Failed spawns are
// retried every SpawnRetryTicks until one succeeds or the owner is gone,
// in which case the projectile disposes itself.
func (p *Projectile) Spawn() {
	if p.disposed || p.ready {
		return
	}
	if p.trySpawn() {
		period := p.env.Config.Thrown.SpawnRetryTicks
		p.tasks.Track(p.env.Scheduler.Every(period, period, p.trySpawn))
	}
}

// trySpawn reports whether another attempt is needed
func (p *Projectile) trySpawn() bool {
	if p.disposed || p.ready {
		return false
	}
	if !p.OwnerValid() {
		log.Printf("[projectile] %s owner gone before spawn, discarding", p.ID)
		p.Dispose()
		return false
	}
	e, err := p.env.World.SpawnProxy(p.env.World.Eye(p.owner), p.item)
	if err != nil {
		log.Printf("[projectile] %s spawn failed, retrying: %v", p.ID, err)
		return true
	}
	p.proxy = e
	p.ready = true
	p.cur = p.env.World.Eye(p.owner)
	p.prev = p.cur
	p.bundle.OnSpawn(p)

	if p.pendingSpeed != nil {
		speed := *p.pendingSpeed
		p.pendingSpeed = nil
		p.Release(speed)
	}
	return false
}

// Dispose removes the proxy, cancels every scheduled task and drops the
// registry entry. Safe to call more than once.
func (p *Projectile) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.flying = false
	p.tasks.CancelAll()

	w := p.env.World
	p.Unembed()
	if p.ready {
		if p.env.Registry != nil {
			p.env.Registry.Remove(p.proxy, false)
		}
		w.RemoveProxy(p.proxy)
	}
	if p.held {
		p.held = false
		w.Give(p.owner, p.item)
	}
	if p.OnDispose != nil {
		p.OnDispose(p)
	}
}

// Respawn replaces a proxy that was removed from outside. It does nothing
// while the current proxy is still valid.
func (p *Projectile) Respawn() {
	if p.disposed || p.ProxyValid() {
		return
	}
	p.flying = false
	p.ready = false
	p.proxy = donburi.Null
	p.tasks.CancelAll()
	p.Spawn()
}

// Embed sticks the proxy into the hit target, following it, and counts
// the impalement
func (p *Projectile) Embed() {
	w := p.env.World
	feet, ok := w.Position(p.hitTarget)
	if !ok || p.impaling {
		return
	}
	w.AddImpalement(p.hitTarget)
	p.impaling = true
	w.Attach(p.proxy, p.hitTarget, p.cur.Sub(feet))
}

// Unembed undoes Embed and any pin
func (p *Projectile) Unembed() {
	w := p.env.World
	if p.impaling {
		w.RemoveImpalement(p.hitTarget)
		p.impaling = false
	}
	if p.pinning {
		w.SetPinned(p.hitTarget, false)
		p.pinning = false
	}
	if p.ready {
		w.Detach(p.proxy)
	}
}

// Embedded reports whether the projectile is stuck in its hit target
func (p *Projectile) Embedded() bool {
	return p.impaling
}

// ImpactKnockback is the push given to the hit target. Grounded targets
// take the full velocity, airborne ones only its horizontal part.
func (p *Projectile) ImpactKnockback() mgl64.Vec3 {
	dmg := p.env.Config.Damage
	if p.env.World.OnGround(p.hitTarget) {
		return p.velocity.Mul(dmg.KnockbackGrounded)
	}
	return gamemath.Flatten(p.velocity).Mul(dmg.KnockbackAirborne)
}
