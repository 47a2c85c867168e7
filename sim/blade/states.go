package blade

import (
	"log"
	"math"

	"github.com/automoto/shadeblade/shared/gamemath"
	sm "github.com/automoto/shadeblade/sim/statemachine"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// base supplies no-op hooks
type base struct{}

func (base) OnEnter(*Blade) {}
func (base) OnExit(*Blade)  {}
func (base) OnTick(*Blade)  {}

// inactiveState parks the blade out of sight while the owner cannot use
// it
type inactiveState struct{ base }

func (inactiveState) ID() sm.StateID { return Inactive }

func (inactiveState) OnEnter(b *Blade) {
	b.p.Halt()
	b.p.Unembed()
	b.env.World.SetHidden(b.p.ProxyID(), true)
	b.env.World.SetGlowing(b.p.ProxyID(), false)
}

// OnTick drops a repeated Deactivate so it cannot hold up the
// reactivation queued behind it
func (inactiveState) OnTick(b *Blade) {
	b.requested(Deactivate)
}

func (inactiveState) OnExit(b *Blade) {
	b.env.World.SetHidden(b.p.ProxyID(), false)
}

// recoverState replaces a proxy that was destroyed from outside
type recoverState struct{ base }

func (recoverState) ID() sm.StateID { return Recover }

func (recoverState) OnEnter(b *Blade) {
	b.p.Halt()
	b.p.Respawn()
}

// sheathedState rides on the owner's back
type sheathedState struct{ base }

func (sheathedState) ID() sm.StateID { return Sheathed }

func (sheathedState) OnEnter(b *Blade) {
	w, cfg := b.env.World, b.env.Config.Blade
	spot := b.ownerOffset(mgl64.Vec3{0, cfg.SheathUp, -cfg.SheathBack})
	feet, _ := w.Position(b.owner)
	yaw, _ := w.Aim(b.owner)
	b.p.Place(spot, gamemath.FlatDirection(yaw))
	w.SetHidden(b.p.ProxyID(), false)
	w.Attach(b.p.ProxyID(), b.owner, spot.Sub(feet))
}

func (sheathedState) OnExit(b *Blade) {
	b.env.World.Detach(b.p.ProxyID())
}

// standbyState hovers behind the owner with an idle bob
type standbyState struct {
	base
	bob float64
}

func (*standbyState) ID() sm.StateID { return StandbyMode }

func (s *standbyState) OnEnter(b *Blade) {
	b.touch()
	s.bob = 0
	b.env.World.SetGlowing(b.p.ProxyID(), true)
	s.OnTick(b)
}

func (s *standbyState) OnTick(b *Blade) {
	cfg := b.env.Config.Blade
	pos := b.hoverPoint().Add(mgl64.Vec3{0, math.Cos(s.bob) * cfg.BobAmp, 0})
	s.bob += cfg.BobStep
	yaw, _ := b.env.World.Aim(b.owner)
	b.p.Place(pos, gamemath.FlatDirection(yaw))
}

func (*standbyState) OnExit(b *Blade) {
	b.env.World.SetGlowing(b.p.ProxyID(), false)
}

// wieldState puts the blade in the owner's hand
type wieldState struct{ base }

func (wieldState) ID() sm.StateID { return WieldMode }

func (wieldState) OnEnter(b *Blade) {
	w := b.env.World
	b.touch()
	w.Detach(b.p.ProxyID())
	w.SetHidden(b.p.ProxyID(), true)
	w.SetMainHand(b.owner, Item)
}

func (wieldState) OnExit(b *Blade) {
	w := b.env.World
	if w.MainHand(b.owner).Kind == Item.Kind {
		w.TakeMainHand(b.owner)
	} else {
		w.RemoveItem(b.owner, Item.Kind)
	}
	w.SetHidden(b.p.ProxyID(), false)
	b.p.Place(b.hoverPoint(), b.p.Velocity())
}

// attackState glides to the strike point, hits after a windup and then
// reports completion
type attackState struct {
	base
	id    sm.StateID
	heavy bool
}

func (s *attackState) ID() sm.StateID { return s.id }

func (s *attackState) OnEnter(b *Blade) {
	w, cfg := b.env.World, b.env.Config.Blade
	b.touch()
	b.attackCompleted = false
	w.SetGlowing(b.p.ProxyID(), true)

	damage, windup := cfg.QuickDamage, cfg.QuickWindup
	if s.heavy {
		damage, windup = cfg.HeavyDamage, cfg.HeavyWindup
	}

	target, ok := w.TargetedActor(b.owner, cfg.AttackRange)
	strike := func() mgl64.Vec3 {
		yaw, pitch := w.Aim(b.owner)
		return w.Chest(b.owner).Add(gamemath.Direction(yaw, pitch).Mul(cfg.AttackRange))
	}
	if ok {
		strike = func() mgl64.Vec3 {
			chest := w.Chest(target)
			back := gamemath.SafeNormalize(chest.Sub(b.proxyPosition())).Mul(0.5)
			return chest.Sub(back)
		}
	}
	b.glide = newGlide(b.proxyPosition(), strike, float32(windup)*b.tickSeconds())

	b.track(b.env.Scheduler.After(windup, func() {
		if ok {
			s.strike(b, target, damage)
		}
		b.attackCompleted = true
	}))
}

func (s *attackState) strike(b *Blade, target donburi.Entity, damage int) {
	w, cfg := b.env.World, b.env.Config.Blade
	if !w.ActorAlive(target) {
		return
	}
	dir := w.Chest(target).Sub(b.proxyPosition())
	if dir.Len() > cfg.AttackRange {
		return
	}
	w.Damage(target, damage, gamemath.SafeNormalize(dir).Mul(cfg.AttackKnockback), cfg.AttackInvulnTicks)
}

func (s *attackState) OnTick(b *Blade) {
	if b.glide == nil {
		return
	}
	pos, done := b.glide.step(b.tickSeconds())
	b.p.Place(pos, b.glide.to().Sub(pos))
	if done {
		b.glide = nil
	}
}

func (s *attackState) OnExit(b *Blade) {
	b.endStateTasks()
	b.attackCompleted = false
	b.env.World.SetGlowing(b.p.ProxyID(), false)
}

// waitingState leaves the blade where a lunge stuck it
type waitingState struct{ base }

func (waitingState) ID() sm.StateID { return Waiting }

func (waitingState) OnExit(b *Blade) {
	b.lungeGrounded = false
	b.p.ClearOutcome()
}

// returnState glides back to the owner and then asks for standby.
// Recalling waits a few ticks first so the yank reads.
type returnState struct {
	base
	id      sm.StateID
	delayed bool
	settle  settleDetector
}

func (s *returnState) ID() sm.StateID { return s.id }

func (s *returnState) OnEnter(b *Blade) {
	cfg := b.env.Config.Blade
	b.p.Halt()
	b.env.World.Detach(b.p.ProxyID())
	b.env.World.SetGlowing(b.p.ProxyID(), true)
	s.settle.reset()

	start := func() {
		b.glide = newGlide(b.proxyPosition(), b.hoverPoint, cfg.ReturnSeconds)
	}
	if s.delayed {
		b.track(b.env.Scheduler.After(cfg.RecallDelay, start))
		return
	}
	start()
}

func (s *returnState) OnTick(b *Blade) {
	cfg := b.env.Config.Blade
	if b.glide != nil {
		pos, done := b.glide.step(b.tickSeconds())
		b.p.Place(pos, b.hoverPoint().Sub(pos))
		if done || pos.Sub(b.hoverPoint()).Len() < cfg.ArriveDistance {
			b.glide = nil
			b.Request(Standby)
			return
		}
	}
	if s.settle.observe(b.proxyPosition(), cfg) {
		b.Request(Standby)
	}
}

func (s *returnState) OnExit(b *Blade) {
	b.endStateTasks()
	b.env.World.SetGlowing(b.p.ProxyID(), false)
}

// lodgedState stays stuck in the lunge target. It is grabbable here and
// immune to natural disposal.
type lodgedState struct{ base }

func (lodgedState) ID() sm.StateID { return Lodged }

func (lodgedState) OnEnter(b *Blade) {
	b.touch()
	b.p.SetImmune(true)
	b.env.World.SetGlowing(b.p.ProxyID(), true)
	if r := b.env.Registry; r != nil {
		if err := r.Register(b); err != nil {
			log.Printf("[blade] %s register: %v", b.ID, err)
		}
	}
}

func (lodgedState) OnExit(b *Blade) {
	b.env.World.SetGlowing(b.p.ProxyID(), false)
	b.p.Unembed()
	if r := b.env.Registry; r != nil {
		r.Remove(b.p.ProxyID(), false)
	}
	b.p.SetImmune(false)
	b.p.ClearOutcome()
}

// lungingState flies a short curve at the targeted actor or along the
// owner's aim
type lungingState struct{ base }

func (lungingState) ID() sm.StateID { return Lunging }

func (lungingState) OnEnter(b *Blade) {
	cfg := b.env.Config.Blade
	b.touch()
	b.p.ClearOutcome()
	b.finishedLunging = false
	b.lungeGrounded = false
	b.p.SetBundle(lungeBundle{restBundle{b}})
	b.p.SetTimeCutoff(cfg.LungeCutoff)
	b.p.SpreadCutoff(cfg.LungeIterations)
	b.p.Release(cfg.LungeSpeed)
	b.env.World.SetGlowing(b.p.ProxyID(), true)
}

func (lungingState) OnExit(b *Blade) {
	b.p.Halt()
	b.p.SetBundle(restBundle{b})
	b.finishedLunging = false
	b.p.SetTimeCutoff(0)
	b.p.SetTimeScale(0)
	b.env.World.SetGlowing(b.p.ProxyID(), false)
}
