// Package world is the simulation's view of the arena: actors, visual
// proxies, dropped items and static geometry, with the segment queries the
// projectile code runs every tick.
//
// Entities live in a donburi world. Broadphase uses a resolv space laid
// over the XZ plane; exact tests are 3D slab tests against boxes.
package world

import (
	"errors"
	"log"
	"math"

	"github.com/automoto/shadeblade/components"
	"github.com/automoto/shadeblade/config"
	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/automoto/shadeblade/shared/leveldata"
	"github.com/automoto/shadeblade/tags"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// spaceScale converts world units into resolv units. resolv trims one unit
// off every object's far edge when bucketing, so sub-unit bodies would
// otherwise fall between cells.
const spaceScale = 16.0

var (
	ErrProxyLimit = errors.New("world: proxy limit reached")
	ErrNotFound   = errors.New("world: entity not found")
)

type solid struct {
	id       int
	box      gamemath.AABB
	material string
	obj      *resolv.Object
}

// World owns the ECS and the broadphase. It is not safe for concurrent
// use; everything runs on the simulation goroutine.
type World struct {
	cfg    *config.Config
	ecs    donburi.World
	space  *resolv.Space
	probe  *resolv.Object
	solids map[int]*solid
	spawns []leveldata.SpawnPoint

	proxies map[donburi.Entity]struct{}

	// SpawnGate, if set, may refuse a proxy spawn with an error
	SpawnGate func(item components.Item) error
	// OnProxySpawned and OnActorSpawned run after an entity is created
	OnProxySpawned func(e donburi.Entity)
	OnActorSpawned func(e donburi.Entity)
}

// New builds a world from arena geometry. A nil arena gives a flat floor.
func New(cfg *config.Config, arena *leveldata.Arena) *World {
	if arena == nil {
		arena = leveldata.Flat(cfg.World.ArenaSize)
	}
	size := cfg.World.ArenaSize
	if arena.Width > size {
		size = arena.Width
	}
	if arena.Depth > size {
		size = arena.Depth
	}
	cell := int(float64(cfg.World.CellSize) * spaceScale)
	if cell < 1 {
		cell = int(spaceScale)
	}
	extent := int(float64(size) * spaceScale)

	w := &World{
		cfg:     cfg,
		ecs:     donburi.NewWorld(),
		space:   resolv.NewSpace(extent, extent, cell, cell),
		solids:  make(map[int]*solid, len(arena.Solids)),
		spawns:  arena.Spawns,
		proxies: make(map[donburi.Entity]struct{}),
	}

	for _, s := range arena.Solids {
		w.AddSolid(s)
	}

	w.probe = resolv.NewObject(0, 0, 1, 1, tags.ResolvProbe)
	w.space.Add(w.probe)

	log.Printf("[world] Loaded arena: %d solids, %d spawn points, %dx%d",
		len(arena.Solids), len(arena.Spawns), arena.Width, arena.Depth)
	return w
}

// ECS exposes the underlying donburi world
func (w *World) ECS() donburi.World {
	return w.ecs
}

// Config returns the tunables the world was built with
func (w *World) Config() *config.Config {
	return w.cfg
}

// Spawns returns the arena spawn points
func (w *World) Spawns() []leveldata.SpawnPoint {
	return w.spawns
}

// AddSolid inserts a static box. Boxes with a duplicate id replace the old one.
func (w *World) AddSolid(b leveldata.SolidBox) {
	if old, ok := w.solids[b.ID]; ok {
		w.space.Remove(old.obj)
	}
	box := gamemath.AABB{
		Min: mgl64.Vec3{b.MinX, b.MinY, b.MinZ},
		Max: mgl64.Vec3{b.MaxX, b.MaxY, b.MaxZ},
	}
	obj := newFlatObject(box, tags.ResolvSolid)
	obj.Data = b.ID
	w.space.Add(obj)
	w.solids[b.ID] = &solid{id: b.ID, box: box, material: b.Material, obj: obj}
}

func (w *World) entry(e donburi.Entity) *donburi.Entry {
	if e == donburi.Null || !w.ecs.Valid(e) {
		return nil
	}
	return w.ecs.Entry(e)
}

// Valid reports whether e still exists
func (w *World) Valid(e donburi.Entity) bool {
	return w.entry(e) != nil
}

// newFlatObject projects box onto the XZ plane in resolv units
func newFlatObject(box gamemath.AABB, tag string) *resolv.Object {
	x, y, wd, ht := flatRect(box)
	obj := resolv.NewObject(x, y, wd, ht, tag)
	obj.SetShape(resolv.NewRectangle(0, 0, wd, ht))
	return obj
}

func flatRect(box gamemath.AABB) (x, y, w, h float64) {
	x = box.Min.X() * spaceScale
	y = box.Min.Z() * spaceScale
	w = math.Max((box.Max.X()-box.Min.X())*spaceScale, 1)
	h = math.Max((box.Max.Z()-box.Min.Z())*spaceScale, 1)
	return x, y, w, h
}

func placeObject(obj *resolv.Object, box gamemath.AABB) {
	obj.X, obj.Y, obj.W, obj.H = flatRect(box)
	obj.Update()
}
