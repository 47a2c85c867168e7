package world

import (
	"fmt"

	"github.com/automoto/shadeblade/archetypes"
	"github.com/automoto/shadeblade/components"
	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/automoto/shadeblade/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// SpawnProxy creates the visual stand-in for item at pos. It fails when
// the proxy cap is reached or the spawn gate refuses.
func (w *World) SpawnProxy(pos mgl64.Vec3, item components.Item) (donburi.Entity, error) {
	if w.SpawnGate != nil {
		if err := w.SpawnGate(item); err != nil {
			return donburi.Null, fmt.Errorf("spawn proxy: %w", err)
		}
	}
	if max := w.cfg.World.MaxProxies; max > 0 && len(w.proxies) >= max {
		return donburi.Null, ErrProxyLimit
	}

	entry := archetypes.Proxy.Spawn(w.ecs)
	components.Transform.SetValue(entry, components.TransformData{Position: pos})
	components.Proxy.SetValue(entry, components.ProxyData{Item: item, Facing: mgl64.Vec3{0, 0, 1}})

	box := w.proxyBox(pos)
	obj := newFlatObject(box, tags.ResolvProxy)
	obj.Data = entry.Entity()
	w.space.Add(obj)
	components.Object.SetValue(entry, components.ObjectData{Object: obj, MinY: box.Min.Y(), MaxY: box.Max.Y()})

	w.proxies[entry.Entity()] = struct{}{}
	if w.OnProxySpawned != nil {
		w.OnProxySpawned(entry.Entity())
	}
	return entry.Entity(), nil
}

func (w *World) proxyBox(center mgl64.Vec3) gamemath.AABB {
	return gamemath.AABB{Min: center, Max: center}.Inflate(w.cfg.World.ProxyExtents)
}

func (w *World) proxyEntry(e donburi.Entity) *donburi.Entry {
	entry := w.entry(e)
	if entry == nil || !entry.HasComponent(tags.Proxy) {
		return nil
	}
	return entry
}

// ProxyValid reports whether the proxy still exists
func (w *World) ProxyValid(e donburi.Entity) bool {
	return w.proxyEntry(e) != nil
}

// ProxyCount returns the number of live proxies
func (w *World) ProxyCount() int {
	return len(w.proxies)
}

// ProxyPosition returns the proxy center
func (w *World) ProxyPosition(e donburi.Entity) (mgl64.Vec3, bool) {
	entry := w.proxyEntry(e)
	if entry == nil {
		return mgl64.Vec3{}, false
	}
	return components.Transform.Get(entry).Position, true
}

// Proxy returns the proxy's display state, or nil
func (w *World) Proxy(e donburi.Entity) *components.ProxyData {
	entry := w.proxyEntry(e)
	if entry == nil {
		return nil
	}
	return components.Proxy.Get(entry)
}

// MoveProxy teleports a proxy. A zero facing keeps the old one.
func (w *World) MoveProxy(e donburi.Entity, pos, facing mgl64.Vec3) {
	entry := w.proxyEntry(e)
	if entry == nil {
		return
	}
	w.placeProxy(entry, pos)
	if f := gamemath.SafeNormalize(facing); f != (mgl64.Vec3{}) {
		components.Proxy.Get(entry).Facing = f
	}
}

func (w *World) placeProxy(entry *donburi.Entry, pos mgl64.Vec3) {
	components.Transform.Get(entry).Position = pos
	box := w.proxyBox(pos)
	obj := components.Object.Get(entry)
	obj.MinY, obj.MaxY = box.Min.Y(), box.Max.Y()
	placeObject(obj.Object, box)
}

// RemoveProxy destroys a proxy. Removing a missing proxy does nothing.
func (w *World) RemoveProxy(e donburi.Entity) {
	entry := w.proxyEntry(e)
	if entry == nil {
		return
	}
	w.space.Remove(components.Object.Get(entry).Object)
	delete(w.proxies, e)
	w.ecs.Remove(e)
}

// SetHidden hides or shows a proxy
func (w *World) SetHidden(e donburi.Entity, on bool) {
	if p := w.Proxy(e); p != nil {
		p.Hidden = on
	}
}

// SetGlowing toggles the proxy highlight
func (w *World) SetGlowing(e donburi.Entity, on bool) {
	if p := w.Proxy(e); p != nil {
		p.Glowing = on
	}
}

// Attach makes passenger follow carrier at offset every Step. A passenger
// already riding something is moved to the new carrier.
func (w *World) Attach(passenger, carrier donburi.Entity, offset mgl64.Vec3) {
	entry := w.entry(passenger)
	if entry == nil || !w.Valid(carrier) || passenger == carrier {
		return
	}
	rider := components.RiderData{Carrier: carrier, Offset: offset}
	if entry.HasComponent(components.Rider) {
		components.Rider.SetValue(entry, rider)
		return
	}
	donburi.Add(entry, components.Rider, &rider)
}

// Detach stops passenger following its carrier
func (w *World) Detach(passenger donburi.Entity) {
	entry := w.entry(passenger)
	if entry == nil || !entry.HasComponent(components.Rider) {
		return
	}
	entry.RemoveComponent(components.Rider)
}

// Carrier returns what passenger rides on, if anything
func (w *World) Carrier(passenger donburi.Entity) (donburi.Entity, bool) {
	entry := w.entry(passenger)
	if entry == nil || !entry.HasComponent(components.Rider) {
		return donburi.Null, false
	}
	return components.Rider.Get(entry).Carrier, true
}
