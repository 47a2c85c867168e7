package netcomponents

import "github.com/yohamta/donburi"

// NoMode marks a proxy that is not a companion blade
const NoMode = -1

type NetProxyData struct {
	X, Y, Z        float64 // center
	FX, FY, FZ     float64 // facing, unit length
	Item           int     // components.ItemKind
	Hidden         bool
	Glowing        bool
	Mode           int  // blade mode, NoMode otherwise
	OwnerNetworkID uint // 0 while unowned or unsynced
}

var NetProxy = donburi.NewComponentType[NetProxyData]()

// LerpNetProxy interpolates between two proxy states
func LerpNetProxy(from, to NetProxyData, t float64) *NetProxyData {
	out := to
	out.X = from.X + (to.X-from.X)*t
	out.Y = from.Y + (to.Y-from.Y)*t
	out.Z = from.Z + (to.Z-from.Z)*t
	return &out
}
