package world

import (
	"github.com/automoto/shadeblade/archetypes"
	"github.com/automoto/shadeblade/components"
	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/automoto/shadeblade/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// SpawnActor creates a live combatant standing at feet, facing yaw.
func (w *World) SpawnActor(feet mgl64.Vec3, yaw float64) donburi.Entity {
	entry := archetypes.Actor.Spawn(w.ecs)
	components.Transform.SetValue(entry, components.TransformData{Position: feet, Yaw: yaw})
	components.Body.SetValue(entry, components.BodyData{
		Width:     w.cfg.World.ActorWidth,
		Height:    w.cfg.World.ActorHeight,
		EyeHeight: w.cfg.World.EyeHeight,
	})
	components.Combatant.SetValue(entry, components.CombatantData{
		Health:     w.cfg.World.ActorHealth,
		MaxHealth:  w.cfg.World.ActorHealth,
		Collidable: true,
	})

	box := actorBox(feet, components.Body.Get(entry))
	obj := newFlatObject(box, tags.ResolvActor)
	obj.Data = entry.Entity()
	w.space.Add(obj)
	components.Object.SetValue(entry, components.ObjectData{Object: obj, MinY: box.Min.Y(), MaxY: box.Max.Y()})

	if w.OnActorSpawned != nil {
		w.OnActorSpawned(entry.Entity())
	}
	return entry.Entity()
}

// RemoveActor deletes an actor and its broadphase object
func (w *World) RemoveActor(e donburi.Entity) {
	entry := w.actorEntry(e)
	if entry == nil {
		return
	}
	w.space.Remove(components.Object.Get(entry).Object)
	w.ecs.Remove(e)
}

func actorBox(feet mgl64.Vec3, body *components.BodyData) gamemath.AABB {
	half := body.Width / 2
	return gamemath.AABB{
		Min: mgl64.Vec3{feet.X() - half, feet.Y(), feet.Z() - half},
		Max: mgl64.Vec3{feet.X() + half, feet.Y() + body.Height, feet.Z() + half},
	}
}

func (w *World) actorEntry(e donburi.Entity) *donburi.Entry {
	entry := w.entry(e)
	if entry == nil || !entry.HasComponent(tags.Actor) {
		return nil
	}
	return entry
}

// IsActor reports whether e is a live entity with actor components
func (w *World) IsActor(e donburi.Entity) bool {
	return w.actorEntry(e) != nil
}

// ActorAlive reports whether e exists and has not died
func (w *World) ActorAlive(e donburi.Entity) bool {
	entry := w.actorEntry(e)
	return entry != nil && !components.Combatant.Get(entry).Dead
}

// ActorActive is ActorAlive for actors that are also not spectating
func (w *World) ActorActive(e donburi.Entity) bool {
	entry := w.actorEntry(e)
	if entry == nil {
		return false
	}
	c := components.Combatant.Get(entry)
	return !c.Dead && !c.Spectator
}

// Combatant returns the actor's combat state, or nil
func (w *World) Combatant(e donburi.Entity) *components.CombatantData {
	entry := w.actorEntry(e)
	if entry == nil {
		return nil
	}
	return components.Combatant.Get(entry)
}

// SetSpectator toggles spectator mode
func (w *World) SetSpectator(e donburi.Entity, on bool) {
	if c := w.Combatant(e); c != nil {
		c.Spectator = on
	}
}

// SetCollidable toggles whether projectiles can hit the actor
func (w *World) SetCollidable(e donburi.Entity, on bool) {
	if c := w.Combatant(e); c != nil {
		c.Collidable = on
	}
}

// Position returns the feet of an actor or the center of any other entity
func (w *World) Position(e donburi.Entity) (mgl64.Vec3, bool) {
	entry := w.entry(e)
	if entry == nil || !entry.HasComponent(components.Transform) {
		return mgl64.Vec3{}, false
	}
	return components.Transform.Get(entry).Position, true
}

// Eye returns the eye position of an actor
func (w *World) Eye(e donburi.Entity) mgl64.Vec3 {
	entry := w.actorEntry(e)
	if entry == nil {
		return mgl64.Vec3{}
	}
	pos := components.Transform.Get(entry).Position
	return pos.Add(mgl64.Vec3{0, components.Body.Get(entry).EyeHeight, 0})
}

// Chest returns the point halfway up an actor's body
func (w *World) Chest(e donburi.Entity) mgl64.Vec3 {
	entry := w.actorEntry(e)
	if entry == nil {
		return mgl64.Vec3{}
	}
	pos := components.Transform.Get(entry).Position
	return pos.Add(mgl64.Vec3{0, components.Body.Get(entry).Height / 2, 0})
}

// Aim returns an actor's yaw and pitch
func (w *World) Aim(e donburi.Entity) (yaw, pitch float64) {
	entry := w.actorEntry(e)
	if entry == nil {
		return 0, 0
	}
	tr := components.Transform.Get(entry)
	return tr.Yaw, tr.Pitch
}

// SetAim updates an actor's look angles
func (w *World) SetAim(e donburi.Entity, yaw, pitch float64) {
	if entry := w.actorEntry(e); entry != nil {
		tr := components.Transform.Get(entry)
		tr.Yaw, tr.Pitch = yaw, pitch
	}
}

// Teleport moves an actor's feet to pos
func (w *World) Teleport(e donburi.Entity, pos mgl64.Vec3) {
	entry := w.actorEntry(e)
	if entry == nil {
		return
	}
	components.Transform.Get(entry).Position = pos
	w.syncActorObject(entry)
}

func (w *World) syncActorObject(entry *donburi.Entry) {
	box := actorBox(components.Transform.Get(entry).Position, components.Body.Get(entry))
	obj := components.Object.Get(entry)
	obj.MinY, obj.MaxY = box.Min.Y(), box.Max.Y()
	placeObject(obj.Object, box)
}

// OnGround reports whether there is solid directly below the actor
func (w *World) OnGround(e donburi.Entity) bool {
	entry := w.actorEntry(e)
	if entry == nil {
		return false
	}
	return components.Motion.Get(entry).OnGround
}

// Velocity returns the actor's current velocity
func (w *World) Velocity(e donburi.Entity) mgl64.Vec3 {
	entry := w.actorEntry(e)
	if entry == nil {
		return mgl64.Vec3{}
	}
	return components.Motion.Get(entry).Velocity
}

// SetVelocity replaces the actor's velocity
func (w *World) SetVelocity(e donburi.Entity, v mgl64.Vec3) {
	if entry := w.actorEntry(e); entry != nil {
		components.Motion.Get(entry).Velocity = v
	}
}

// AddVelocity pushes the actor
func (w *World) AddVelocity(e donburi.Entity, v mgl64.Vec3) {
	if entry := w.actorEntry(e); entry != nil {
		m := components.Motion.Get(entry)
		m.Velocity = m.Velocity.Add(v)
	}
}

// Damage hurts target and applies knockback. It returns false if the
// target could not be hurt (gone, dead or invulnerable).
func (w *World) Damage(target donburi.Entity, amount int, knockback mgl64.Vec3, invulnTicks int) bool {
	entry := w.actorEntry(target)
	if entry == nil {
		return false
	}
	c := components.Combatant.Get(entry)
	if c.Dead || c.Invuln > 0 {
		return false
	}
	c.Health -= amount
	c.Invuln = invulnTicks
	if c.Health <= 0 {
		c.Health = 0
		c.Dead = true
	}
	w.AddVelocity(target, knockback)
	return true
}

// SetPinned freezes or releases an actor
func (w *World) SetPinned(e donburi.Entity, on bool) {
	if c := w.Combatant(e); c != nil {
		c.Pinned = on
	}
}

// AddImpalement counts an item stuck in the actor
func (w *World) AddImpalement(e donburi.Entity) {
	if c := w.Combatant(e); c != nil {
		c.Impalements++
	}
}

// RemoveImpalement undoes AddImpalement
func (w *World) RemoveImpalement(e donburi.Entity) {
	if c := w.Combatant(e); c != nil && c.Impalements > 0 {
		c.Impalements--
	}
}

// MainHand returns what the actor holds
func (w *World) MainHand(e donburi.Entity) components.Item {
	entry := w.actorEntry(e)
	if entry == nil {
		return components.Item{}
	}
	return components.Inventory.Get(entry).MainHand
}

// SetMainHand replaces what the actor holds. Anything already held moves
// to the inventory.
func (w *World) SetMainHand(e donburi.Entity, item components.Item) {
	entry := w.actorEntry(e)
	if entry == nil {
		return
	}
	inv := components.Inventory.Get(entry)
	if !inv.MainHand.Empty() {
		inv.Items = append(inv.Items, inv.MainHand)
	}
	inv.MainHand = item
}

// TakeMainHand empties the actor's hand and returns what was in it
func (w *World) TakeMainHand(e donburi.Entity) components.Item {
	entry := w.actorEntry(e)
	if entry == nil {
		return components.Item{}
	}
	inv := components.Inventory.Get(entry)
	item := inv.MainHand
	inv.MainHand = components.Item{}
	return item
}

// Give puts item in the actor's hand if it is empty, else in the
// inventory. It returns false if the actor is gone.
func (w *World) Give(e donburi.Entity, item components.Item) bool {
	entry := w.actorEntry(e)
	if entry == nil {
		return false
	}
	inv := components.Inventory.Get(entry)
	if inv.MainHand.Empty() {
		inv.MainHand = item
	} else {
		inv.Items = append(inv.Items, item)
	}
	return true
}

// Holding reports whether the actor carries kind in hand or inventory
func (w *World) Holding(e donburi.Entity, kind components.ItemKind) bool {
	entry := w.actorEntry(e)
	if entry == nil {
		return false
	}
	inv := components.Inventory.Get(entry)
	if inv.MainHand.Kind == kind {
		return true
	}
	for _, it := range inv.Items {
		if it.Kind == kind {
			return true
		}
	}
	return false
}

// RemoveItem takes the first item of kind from the inventory, not the hand
func (w *World) RemoveItem(e donburi.Entity, kind components.ItemKind) bool {
	entry := w.actorEntry(e)
	if entry == nil {
		return false
	}
	inv := components.Inventory.Get(entry)
	for i, it := range inv.Items {
		if it.Kind == kind {
			inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
			return true
		}
	}
	return false
}

// DropItem leaves item lying in the world at pos
func (w *World) DropItem(pos mgl64.Vec3, item components.Item) donburi.Entity {
	entry := archetypes.Dropped.Spawn(w.ecs)
	components.Transform.SetValue(entry, components.TransformData{Position: pos})
	components.Dropped.SetValue(entry, components.DroppedData{Item: item})
	return entry.Entity()
}

// DroppedItems lists every loose item
func (w *World) DroppedItems() []components.Item {
	var out []components.Item
	components.Dropped.Each(w.ecs, func(entry *donburi.Entry) {
		out = append(out, components.Dropped.Get(entry).Item)
	})
	return out
}
