package netcomponents

import "github.com/yohamta/donburi"

type NetSimStateData struct {
	Tick        uint64
	Actors      int
	Blades      int
	Projectiles int // thrown items still tracked
	Registered  int // grabbable instances
}

var NetSimState = donburi.NewComponentType[NetSimStateData]()
