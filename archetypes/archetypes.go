package archetypes

import (
	"github.com/automoto/shadeblade/components"
	"github.com/automoto/shadeblade/tags"
	"github.com/yohamta/donburi"
)

var (
	Actor = newArchetype(
		tags.Actor,
		components.Transform,
		components.Body,
		components.Motion,
		components.Combatant,
		components.Inventory,
		components.Object,
	)
	Proxy = newArchetype(
		tags.Proxy,
		components.Transform,
		components.Proxy,
		components.Object,
	)
	Dropped = newArchetype(
		tags.Dropped,
		components.Transform,
		components.Motion,
		components.Dropped,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	all := make([]donburi.IComponentType, 0, len(a.components)+len(cs))
	all = append(all, a.components...)
	all = append(all, cs...)
	return w.Entry(w.Create(all...))
}
