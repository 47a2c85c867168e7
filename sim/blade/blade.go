// Package blade is the companion weapon: one persistent projectile driven
// by a state machine. States choose how the projectile moves and what its
// outcomes mean; requests arrive through a short-lived input buffer.
package blade

import (
	"fmt"
	"log"
	"time"

	"github.com/automoto/shadeblade/components"
	"github.com/automoto/shadeblade/shared/gamemath"
	"github.com/automoto/shadeblade/sim/inputbuffer"
	"github.com/automoto/shadeblade/sim/projectile"
	"github.com/automoto/shadeblade/sim/registry"
	"github.com/automoto/shadeblade/sim/scheduler"
	"github.com/automoto/shadeblade/sim/statemachine"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
)

// Item is what the blade is when held
var Item = components.Item{Kind: components.ItemShadeBlade, Name: "shade blade"}

// Blade is a companion weapon bound to one owner
type Blade struct {
	ID uuid.UUID

	env     projectile.Env
	owner   donburi.Entity
	p       *projectile.Projectile
	machine *statemachine.Machine[*Blade]
	input   *inputbuffer.Buffer[Request]

	// per-state tasks, cancelled on every state exit
	tasks scheduler.Group
	glide *glide

	attackCompleted bool
	finishedLunging bool
	lungeGrounded   bool
	lastAction      uint64
	disposed        bool

	// OnModeChange runs after every state change
	OnModeChange func(b *Blade, from, to statemachine.StateID)
	// OnDispose runs once when the blade is gone for good
	OnDispose func(b *Blade)
}

var _ registry.Bound = (*Blade)(nil)

// New builds a blade for owner. now feeds the input buffer and may be nil
// for the wall clock. Nothing exists in the world until Spawn.
func New(env projectile.Env, owner donburi.Entity, now func() time.Time) (*Blade, error) {
	b := &Blade{
		ID:    uuid.New(),
		env:   env,
		owner: owner,
		input: inputbuffer.New[Request](env.Config.Blade.InputTimeout, now),
	}
	b.p = projectile.New(env, owner, Item, restBundle{b})
	b.p.OnDispose = func(*projectile.Projectile) { b.Dispose() }

	m, err := statemachine.New[*Blade](b, Sheathed,
		inactiveState{},
		recoverState{},
		sheathedState{},
		&standbyState{},
		wieldState{},
		&attackState{id: AttackingQuick},
		&attackState{id: AttackingHeavy, heavy: true},
		waitingState{},
		&returnState{id: Recalling, delayed: true},
		&returnState{id: Returning},
		lodgedState{},
		lungingState{},
	)
	if err != nil {
		return nil, fmt.Errorf("blade: %w", err)
	}
	m.OnChange = func(from, to statemachine.StateID) {
		log.Printf("[blade] %s: %s -> %s", b.ID, ModeName(from), ModeName(to))
		if b.OnModeChange != nil {
			b.OnModeChange(b, from, to)
		}
	}
	b.machine = m
	if err := b.wire(); err != nil {
		return nil, fmt.Errorf("blade: %w", err)
	}
	return b, nil
}

// Spawn creates the proxy. The machine starts in Sheathed once the proxy
// exists.
func (b *Blade) Spawn() {
	b.p.Spawn()
}

// Request queues a control input for the next tick
func (b *Blade) Request(r Request) {
	if b.disposed {
		return
	}
	b.input.Push(r)
}

// Tick runs projectile physics and then the state machine, so outcomes
// found this tick can drive a transition this tick.
func (b *Blade) Tick() {
	if b.disposed {
		return
	}
	if !b.env.World.IsActor(b.owner) {
		log.Printf("[blade] %s owner gone, disposing", b.ID)
		b.Dispose()
		return
	}
	b.p.Tick()
	if b.disposed {
		return
	}
	b.machine.Tick()
}

// Dispose removes the blade. The machine is deactivated and never ticks
// again.
func (b *Blade) Dispose() {
	if b.disposed {
		return
	}
	b.disposed = true
	b.machine.Deactivate()
	b.endStateTasks()
	if b.env.World.MainHand(b.owner).Kind == Item.Kind {
		b.env.World.TakeMainHand(b.owner)
	}
	b.p.Dispose()
	if b.OnDispose != nil {
		b.OnDispose(b)
	}
}

// OnGrab handles someone grabbing the proxy. Only the owner can; holding
// the soul link sends the blade to hand, otherwise back to standby.
func (b *Blade) OnGrab(actor donburi.Entity) {
	if actor != b.owner {
		log.Printf("[blade] %s refused grab by non-owner %v", b.ID, actor)
		return
	}
	if b.env.World.MainHand(b.owner).Kind == components.ItemSoulLink {
		b.Request(Wield)
		return
	}
	b.Request(Standby)
}

// Mode is the current state, for display only
func (b *Blade) Mode() statemachine.StateID { return b.machine.Current() }

func (b *Blade) Owner() donburi.Entity                  { return b.owner }
func (b *Blade) ProxyID() donburi.Entity                { return b.p.ProxyID() }
func (b *Blade) Item() components.Item                  { return Item }
func (b *Blade) HitTarget() donburi.Entity              { return b.p.HitTarget() }
func (b *Blade) Projectile() *projectile.Projectile     { return b.p }
func (b *Blade) Machine() *statemachine.Machine[*Blade] { return b.machine }
func (b *Blade) Disposed() bool                         { return b.disposed }

// ownerActive is false once the owner is gone, dead or spectating
func (b *Blade) ownerActive() bool {
	return b.env.World.ActorActive(b.owner)
}

func (b *Blade) proxyValid() bool {
	return b.p.ProxyValid()
}

// requested consumes r if it is at the front of the input buffer
func (b *Blade) requested(r Request) bool {
	return b.input.ConsumeIfPresent(r)
}

// requestedAndActive consumes r and then requires the blade not to be
// inactive
func (b *Blade) requestedAndActive(r Request) bool {
	return b.requested(r) && !b.machine.In(Inactive)
}

func (b *Blade) touch() {
	b.lastAction = b.env.Scheduler.Now()
}

func (b *Blade) tooFarOrIdleTooLong() bool {
	cfg := b.env.Config.Blade
	feet, ok := b.env.World.Position(b.owner)
	pos, okp := b.env.World.ProxyPosition(b.p.ProxyID())
	if !ok || !okp {
		return false
	}
	if pos.Sub(feet).Len() > cfg.ReturnDistance {
		return true
	}
	return b.env.Scheduler.Now()-b.lastAction > uint64(cfg.IdleTimeoutTicks)
}

// hoverPoint is where the blade floats in standby, behind the owner's
// shoulder
func (b *Blade) hoverPoint() mgl64.Vec3 {
	cfg := b.env.Config.Blade
	return b.ownerOffset(mgl64.Vec3{cfg.HoverRight, cfg.HoverUp, -cfg.HoverBack})
}

// ownerOffset maps a (right, up, forward) offset in the owner's flat
// facing frame to a world point
func (b *Blade) ownerOffset(local mgl64.Vec3) mgl64.Vec3 {
	w := b.env.World
	feet, _ := w.Position(b.owner)
	yaw, _ := w.Aim(b.owner)
	return feet.Add(gamemath.NewBasis(gamemath.FlatDirection(yaw)).Apply(local))
}

func (b *Blade) proxyPosition() mgl64.Vec3 {
	pos, ok := b.env.World.ProxyPosition(b.p.ProxyID())
	if !ok {
		return b.p.Position()
	}
	return pos
}

func (b *Blade) track(h *scheduler.Handle) {
	b.tasks.Track(h)
}

func (b *Blade) endStateTasks() {
	b.tasks.CancelAll()
	b.glide = nil
}

func (b *Blade) tickSeconds() float32 {
	return float32(b.env.Config.TickDuration().Seconds())
}
