package world

import (
	"github.com/automoto/shadeblade/components"
	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/automoto/shadeblade/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

const groundProbe = 0.01

// Step advances world physics by one tick: actors move and fall, pinned
// actors stay put, invulnerability wears off, loose items age and riders
// follow their carriers.
func (w *World) Step() {
	tags.Actor.Each(w.ecs, func(entry *donburi.Entry) {
		w.stepActor(entry)
	})

	components.Dropped.Each(w.ecs, func(entry *donburi.Entry) {
		components.Dropped.Get(entry).Age++
	})

	w.carryRiders()
}

func (w *World) stepActor(entry *donburi.Entry) {
	c := components.Combatant.Get(entry)
	m := components.Motion.Get(entry)
	tr := components.Transform.Get(entry)

	if c.Invuln > 0 {
		c.Invuln--
	}
	if c.Pinned {
		m.Velocity = mgl64.Vec3{}
		return
	}

	m.OnGround = w.groundBelow(tr.Position)
	if !m.OnGround {
		m.Velocity = m.Velocity.Sub(mgl64.Vec3{0, w.cfg.World.Gravity, 0})
	}
	if m.Velocity == (mgl64.Vec3{}) {
		return
	}

	next := tr.Position.Add(m.Velocity)
	if id, ok := w.SolidAt(next); ok {
		if top, ok := w.SolidTop(id); ok {
			next = mgl64.Vec3{next.X(), top, next.Z()}
		}
		m.Velocity = mgl64.Vec3{m.Velocity.X(), 0, m.Velocity.Z()}
		m.OnGround = true
	}
	if m.OnGround {
		m.Velocity = gamemath.ApplyFriction(m.Velocity, w.cfg.World.Friction)
	}
	tr.Position = next
	w.syncActorObject(entry)
}

func (w *World) groundBelow(feet mgl64.Vec3) bool {
	_, ok := w.SolidAt(feet.Sub(mgl64.Vec3{0, groundProbe, 0}))
	return ok
}

func (w *World) carryRiders() {
	var orphans []donburi.Entity
	components.Rider.Each(w.ecs, func(entry *donburi.Entry) {
		r := components.Rider.Get(entry)
		carrierPos, ok := w.Position(r.Carrier)
		if !ok {
			orphans = append(orphans, entry.Entity())
			return
		}
		pos := carrierPos.Add(r.Offset)
		switch {
		case entry.HasComponent(tags.Proxy):
			w.placeProxy(entry, pos)
		case entry.HasComponent(tags.Actor):
			components.Transform.Get(entry).Position = pos
			w.syncActorObject(entry)
		default:
			components.Transform.Get(entry).Position = pos
		}
	})
	for _, e := range orphans {
		w.Detach(e)
	}
}
