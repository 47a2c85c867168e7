package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

type BodyData struct {
	Width     float64
	Height    float64
	EyeHeight float64
}

type MotionData struct {
	Velocity mgl64.Vec3
	OnGround bool
}

// CombatantData is the fighting state of an actor
type CombatantData struct {
	Health      int
	MaxHealth   int
	Invuln      int // ticks of invulnerability left
	Dead        bool
	Spectator   bool
	Collidable  bool
	Pinned      bool
	Impalements int
}

type InventoryData struct {
	MainHand Item
	Items    []Item
}

var (
	Body      = donburi.NewComponentType[BodyData]()
	Motion    = donburi.NewComponentType[MotionData]()
	Combatant = donburi.NewComponentType[CombatantData]()
	Inventory = donburi.NewComponentType[InventoryData]()
)
