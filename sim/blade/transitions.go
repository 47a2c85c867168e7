package blade

import (
	"github.com/automoto/shadeblade/shared/gamemath"
	sm "github.com/automoto/shadeblade/sim/statemachine"
)

func requested(r Request) sm.GuardFunc[*Blade] {
	return func(b *Blade) bool { return b.requested(r) }
}

func requestedAndActive(r Request) sm.GuardFunc[*Blade] {
	return func(b *Blade) bool { return b.requestedAndActive(r) }
}

// transitions in priority order, the first match wins
func (b *Blade) transitions() []sm.Transition[*Blade] {
	return []sm.Transition[*Blade]{
		// universal
		{From: sm.Any, To: Inactive, Guard: func(b *Blade) bool {
			return !b.ownerActive() || b.requested(Deactivate)
		}},
		{From: sm.Any, To: Recover, Guard: func(b *Blade) bool { return !b.proxyValid() }},
		{From: Inactive, To: sm.Previous, Guard: requested(ActivateToPrevious)},
		{From: Recover, To: sm.Previous, Guard: func(b *Blade) bool {
			return b.proxyValid() || b.requested(ResumeFromRepair)
		}},

		{From: Sheathed, To: StandbyMode, Guard: requestedAndActive(Toggle)},
		{From: Sheathed, To: WieldMode, Guard: requestedAndActive(Wield)},

		{From: StandbyMode, To: Sheathed, Guard: requestedAndActive(Toggle)},
		{From: StandbyMode, To: WieldMode, Guard: requestedAndActive(Wield)},
		{From: StandbyMode, To: AttackingQuick, Guard: requestedAndActive(AttackQuick)},
		{From: StandbyMode, To: AttackingHeavy, Guard: requestedAndActive(AttackHeavy)},
		{From: StandbyMode, To: Lunging, Guard: requestedAndActive(Lunge)},

		{From: WieldMode, To: StandbyMode, Guard: requestedAndActive(Toggle)},

		{From: AttackingQuick, To: Returning, Guard: func(b *Blade) bool { return b.attackCompleted }},
		{From: AttackingHeavy, To: Returning, Guard: func(b *Blade) bool { return b.attackCompleted }},

		{From: Waiting, To: Returning, Guard: (*Blade).tooFarOrIdleTooLong},
		{From: Waiting, To: StandbyMode},

		{From: Recalling, To: Sheathed, Guard: requestedAndActive(Sheath)},
		{From: Returning, To: Sheathed, Guard: requestedAndActive(Sheath)},
		{From: Recalling, To: StandbyMode, Guard: requestedAndActive(Standby)},
		{From: Returning, To: StandbyMode, Guard: requestedAndActive(Standby)},
		{From: Returning, To: Lunging, Guard: requestedAndActive(Lunge)},

		{From: Lodged, To: Recalling, Guard: requestedAndActive(Recall), Action: (*Blade).yank},
		{From: Lodged, To: Returning, Guard: func(b *Blade) bool {
			return !b.env.World.ActorAlive(b.p.HitTarget())
		}},
		{From: Lodged, To: WieldMode, Guard: requestedAndActive(Wield)},
		{From: Lodged, To: StandbyMode, Guard: requestedAndActive(Standby)},

		{From: Lunging, To: Lodged, Guard: func(b *Blade) bool { return b.p.Embedded() }},
		{From: Lunging, To: Waiting, Guard: func(b *Blade) bool { return b.lungeGrounded }},
		{From: Lunging, To: Returning, Guard: func(b *Blade) bool { return b.finishedLunging }},
	}
}

func (b *Blade) wire() error {
	for _, tr := range b.transitions() {
		if err := b.machine.AddTransition(tr.From, tr.To, tr.Guard, tr.Action); err != nil {
			return err
		}
	}
	return nil
}

// yank pulls the blade back out along its facing and drags the impaled
// target toward the owner
func (b *Blade) yank() {
	w, cfg := b.env.World, b.env.Config.Blade
	proxy := w.Proxy(b.p.ProxyID())
	if proxy == nil {
		return
	}
	facing := gamemath.SafeNormalize(proxy.Facing)
	b.p.Place(b.proxyPosition().Sub(facing.Mul(cfg.RecallPullback)), proxy.Facing)
	if target := b.p.HitTarget(); w.ActorAlive(target) {
		w.SetVelocity(target, facing.Mul(-cfg.RecallYank))
	}
}
