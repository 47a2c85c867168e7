package blade

import (
	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/automoto/shadeblade/sim/projectile"
	"github.com/go-gl/mathgl/mgl64"
)

// lungeCurve is the lunge path in (right, up, forward) units of the
// distance to the target. It arcs up and out to the right before closing
// in, and never dips below the straight line.
var lungeCurve = [4]mgl64.Vec3{
	{0, 0, 0},
	{0.6, 0.4, 0.3},
	{-0.3, 0, 0.8},
	{0, 0, 1},
}

// restBundle is the blade's strategy outside a lunge. The proxy is placed
// by the states, so there is no flight and no outcome to handle. A blade
// never drops as an item and is never caught.
type restBundle struct {
	b *Blade
}

var _ projectile.Bundle = restBundle{}

func (h restBundle) OnSpawn(*projectile.Projectile) {
	if !h.b.machine.Started() {
		h.b.machine.Start()
	}
}

// Launch holds the blade where it is
func (h restBundle) Launch(p *projectile.Projectile, _ float64) {
	p.SetTrajectory(h.b.proxyPosition(), gamemath.Stationary())
}

func (restBundle) OnHit(*projectile.Projectile)      {}
func (restBundle) OnGrounded(*projectile.Projectile) {}
func (restBundle) OnCatch(*projectile.Projectile)    {}
func (restBundle) OnEnd(*projectile.Projectile)      {}

func (h restBundle) DisposeNaturally(*projectile.Projectile) {
	h.b.Request(Recall)
}

// lungeBundle is installed for the length of a lunge. Outcomes become
// blade flags that the Lunging transitions read.
type lungeBundle struct {
	restBundle
}

var _ projectile.Bundle = lungeBundle{}

// Launch aims a cubic curve from the proxy at the targeted actor's chest,
// or at a point along the owner's aim
func (h lungeBundle) Launch(p *projectile.Projectile, _ float64) {
	b := h.b
	w, cfg := b.env.World, b.env.Config.Blade
	from := b.proxyPosition()

	var to mgl64.Vec3
	if target, ok := w.TargetedActor(b.owner, cfg.LungeRange); ok {
		to = w.Chest(target)
	} else {
		yaw, pitch := w.Aim(b.owner)
		to = w.Eye(b.owner).Add(gamemath.Direction(yaw, pitch).Mul(cfg.LungeRange))
	}
	dir := to.Sub(from)
	p.SetTrajectory(from, gamemath.Bezier(gamemath.NewBasis(dir), lungeCurve, dir.Len()))
}

func (h lungeBundle) OnHit(p *projectile.Projectile) {
	w := h.b.env.World
	if !w.ActorAlive(p.HitTarget()) {
		h.DisposeNaturally(p)
		return
	}
	dmg := h.b.env.Config.Damage
	kb := p.ImpactKnockback()
	p.Embed()
	w.Damage(p.HitTarget(), dmg.ImpaleDamage, kb, dmg.ImpaleInvulnTicks)
}

func (h lungeBundle) OnGrounded(*projectile.Projectile) {
	h.b.lungeGrounded = true
}

func (h lungeBundle) OnEnd(*projectile.Projectile) {
	h.b.finishedLunging = true
}
