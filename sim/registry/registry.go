// Package registry tracks which simulated items are live in the world and
// can be interacted with, keyed by their visual proxy.
package registry

import (
	"errors"
	"fmt"
	"log"

	"github.com/automoto/shadeblade/components"
	"github.com/yohamta/donburi"
)

var (
	ErrAlreadyRegistered = errors.New("registry: proxy already registered")
	ErrNoProxy           = errors.New("registry: instance has no proxy")
)

// Instance is a live simulation that owns a visual proxy
type Instance interface {
	ProxyID() donburi.Entity
	Item() components.Item
	HitTarget() donburi.Entity
	Dispose()
}

// Bound instances cannot change hands. Grabbing one forwards the grab to
// the instance instead of transferring the item.
type Bound interface {
	Instance
	OnGrab(actor donburi.Entity)
}

// ItemReceiver hands an item to an actor
type ItemReceiver interface {
	Give(actor donburi.Entity, item components.Item) bool
}

// Registry maps proxy ids to the instance that owns them. There is at
// most one instance per proxy. Not safe for concurrent use.
type Registry struct {
	entries  map[donburi.Entity]Instance
	receiver ItemReceiver
}

// New creates an empty registry. receiver gets items from grabs.
func New(receiver ItemReceiver) *Registry {
	return &Registry{
		entries:  make(map[donburi.Entity]Instance),
		receiver: receiver,
	}
}

// Register tracks inst under its proxy. An existing entry must be removed
// first.
func (r *Registry) Register(inst Instance) error {
	id := inst.ProxyID()
	if id == donburi.Null {
		return ErrNoProxy
	}
	if _, ok := r.entries[id]; ok {
		return fmt.Errorf("%w: %v", ErrAlreadyRegistered, id)
	}
	r.entries[id] = inst
	return nil
}

// IsRegistered reports whether id belongs to a live instance
func (r *Registry) IsRegistered(id donburi.Entity) bool {
	_, ok := r.entries[id]
	return ok
}

// Get returns the instance registered under id
func (r *Registry) Get(id donburi.Entity) (Instance, bool) {
	inst, ok := r.entries[id]
	return inst, ok
}

// Remove stops tracking id and returns what was registered, or nil.
// With dispose set the instance is disposed as well.
func (r *Registry) Remove(id donburi.Entity, dispose bool) Instance {
	inst, ok := r.entries[id]
	if !ok {
		return nil
	}
	delete(r.entries, id)
	if dispose {
		inst.Dispose()
	}
	return inst
}

// IsImpaling reports whether the item on proxy id is stuck in actor
func (r *Registry) IsImpaling(actor, id donburi.Entity) bool {
	inst, ok := r.entries[id]
	return ok && actor != donburi.Null && inst.HitTarget() == actor
}

// OnGrab handles actor grabbing proxy id. Bound instances get the grab
// and stay registered. Anything else is unregistered, given to the actor
// and disposed. It reports whether anything was registered under id.
func (r *Registry) OnGrab(id, actor donburi.Entity) bool {
	inst, ok := r.entries[id]
	if !ok {
		return false
	}
	if b, bound := inst.(Bound); bound {
		b.OnGrab(actor)
		return true
	}

	delete(r.entries, id)
	item := inst.Item()
	if !item.Empty() && r.receiver != nil {
		if !r.receiver.Give(actor, item) {
			log.Printf("[registry] Grabber %v gone, %s lost", actor, item.Kind)
		}
	}
	inst.Dispose()
	return true
}

// ClearAll disposes every tracked instance. Used on shutdown.
func (r *Registry) ClearAll() {
	snapshot := make([]Instance, 0, len(r.entries))
	for _, inst := range r.entries {
		snapshot = append(snapshot, inst)
	}
	r.entries = make(map[donburi.Entity]Instance)
	for _, inst := range snapshot {
		inst.Dispose()
	}
}

// Len returns the number of tracked instances
func (r *Registry) Len() int {
	return len(r.entries)
}
