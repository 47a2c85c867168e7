package tags

import "github.com/yohamta/donburi"

var (
	Actor   = donburi.NewTag().SetName("Actor")
	Proxy   = donburi.NewTag().SetName("Proxy")
	Dropped = donburi.NewTag().SetName("Dropped")
)

// Resolv tags for the broadphase
const (
	ResolvSolid = "solid"
	ResolvActor = "actor"
	ResolvProxy = "proxy"
	ResolvProbe = "probe"
)
