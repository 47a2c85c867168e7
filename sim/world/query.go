package world

import (
	"math"
	"sort"

	"github.com/automoto/shadeblade/components"
	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/automoto/shadeblade/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// ActorHit is the result of an actor segment query
type ActorHit struct {
	Entity   donburi.Entity
	Point    mgl64.Vec3
	Fraction float64
}

// SolidHit is the result of a static geometry segment query
type SolidHit struct {
	ID       int
	Material string
	Point    mgl64.Vec3
	Fraction float64
}

// broadphase returns the objects tagged tag whose cells overlap the
// segment's XZ bounds grown by pad.
func (w *World) broadphase(from, to mgl64.Vec3, pad float64, tag string) []*resolv.Object {
	lo := mgl64.Vec3{math.Min(from.X(), to.X()), 0, math.Min(from.Z(), to.Z())}
	hi := mgl64.Vec3{math.Max(from.X(), to.X()), 0, math.Max(from.Z(), to.Z())}
	placeObject(w.probe, gamemath.AABB{Min: lo, Max: hi}.Inflate(pad+1/spaceScale))
	check := w.probe.Check(0, 0, tag)
	if check == nil {
		return nil
	}
	return check.Objects
}

// SegmentActors returns the nearest actor whose body, grown by radius,
// the segment touches. Dead, spectating and non-collidable actors never
// match. filter may be nil.
func (w *World) SegmentActors(from, to mgl64.Vec3, radius float64, filter func(donburi.Entity) bool) (ActorHit, bool) {
	best := ActorHit{Fraction: math.Inf(1)}
	found := false
	for _, obj := range w.broadphase(from, to, radius+w.cfg.World.ActorWidth, tags.ResolvActor) {
		e, ok := obj.Data.(donburi.Entity)
		if !ok {
			continue
		}
		entry := w.actorEntry(e)
		if entry == nil {
			continue
		}
		c := components.Combatant.Get(entry)
		if c.Dead || c.Spectator || !c.Collidable {
			continue
		}
		if filter != nil && !filter(e) {
			continue
		}
		box := actorBox(components.Transform.Get(entry).Position, components.Body.Get(entry)).Inflate(radius)
		frac, hit := gamemath.SegmentAABB(from, to, box)
		if !hit || frac >= best.Fraction {
			continue
		}
		best = ActorHit{Entity: e, Point: gamemath.Lerp(from, to, frac), Fraction: frac}
		found = true
	}
	return best, found
}

// SegmentSolids returns the first static box along the segment
func (w *World) SegmentSolids(from, to mgl64.Vec3) (SolidHit, bool) {
	best := SolidHit{Fraction: math.Inf(1)}
	found := false
	for _, obj := range w.broadphase(from, to, 0, tags.ResolvSolid) {
		id, ok := obj.Data.(int)
		if !ok {
			continue
		}
		s := w.solids[id]
		if s == nil {
			continue
		}
		frac, hit := gamemath.SegmentAABB(from, to, s.box)
		if !hit || frac >= best.Fraction {
			continue
		}
		best = SolidHit{ID: id, Material: s.material, Point: gamemath.Lerp(from, to, frac), Fraction: frac}
		found = true
	}
	return best, found
}

// SolidAt returns the static box containing p
func (w *World) SolidAt(p mgl64.Vec3) (int, bool) {
	hit, ok := w.SegmentSolids(p, p)
	return hit.ID, ok
}

// SolidTop returns the top of the box containing p
func (w *World) SolidTop(id int) (float64, bool) {
	s := w.solids[id]
	if s == nil {
		return 0, false
	}
	return s.box.Max.Y(), true
}

// ActorsNear lists living collidable actors whose chest is within radius
// of center, nearest first.
func (w *World) ActorsNear(center mgl64.Vec3, radius float64, filter func(donburi.Entity) bool) []donburi.Entity {
	type cand struct {
		e    donburi.Entity
		dist float64
	}
	var out []cand
	r2 := radius * radius
	for _, obj := range w.broadphase(center, center, radius, tags.ResolvActor) {
		e, ok := obj.Data.(donburi.Entity)
		if !ok || !w.ActorActive(e) {
			continue
		}
		if filter != nil && !filter(e) {
			continue
		}
		d := gamemath.DistanceSq(w.Chest(e), center)
		if d <= r2 {
			out = append(out, cand{e, d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].dist < out[j].dist })
	ents := make([]donburi.Entity, len(out))
	for i, c := range out {
		ents[i] = c.e
	}
	return ents
}

// TargetedActor returns the actor that e is looking at within rng
func (w *World) TargetedActor(e donburi.Entity, rng float64) (donburi.Entity, bool) {
	if !w.IsActor(e) {
		return donburi.Null, false
	}
	yaw, pitch := w.Aim(e)
	eye := w.Eye(e)
	end := eye.Add(gamemath.Direction(yaw, pitch).Mul(rng))
	hit, ok := w.SegmentActors(eye, end, 0.5, func(o donburi.Entity) bool { return o != e })
	if !ok {
		return donburi.Null, false
	}
	return hit.Entity, true
}

// ProxyAlong returns the nearest visible proxy the segment passes through
func (w *World) ProxyAlong(from, to mgl64.Vec3) (donburi.Entity, bool) {
	best := math.Inf(1)
	var bestE donburi.Entity
	for _, obj := range w.broadphase(from, to, w.cfg.World.ProxyExtents, tags.ResolvProxy) {
		e, ok := obj.Data.(donburi.Entity)
		if !ok {
			continue
		}
		entry := w.proxyEntry(e)
		if entry == nil || components.Proxy.Get(entry).Hidden {
			continue
		}
		frac, hit := gamemath.SegmentAABB(from, to, w.proxyBox(components.Transform.Get(entry).Position))
		if hit && frac < best {
			best, bestE = frac, e
		}
	}
	return bestE, !math.IsInf(best, 1)
}
