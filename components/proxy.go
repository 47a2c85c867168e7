package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// ProxyData is the world side stand-in for a simulated item
type ProxyData struct {
	Item    Item
	Facing  mgl64.Vec3
	Hidden  bool
	Glowing bool
}

// RiderData makes an entity follow its carrier each step
type RiderData struct {
	Carrier donburi.Entity
	Offset  mgl64.Vec3
}

// DroppedData is an item lying loose in the world
type DroppedData struct {
	Item Item
	Age  int
}

var (
	Proxy   = donburi.NewComponentType[ProxyData]()
	Rider   = donburi.NewComponentType[RiderData]()
	Dropped = donburi.NewComponentType[DroppedData]()
)
