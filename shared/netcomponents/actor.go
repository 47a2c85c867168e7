package netcomponents

import "github.com/yohamta/donburi"

type NetActorData struct {
	X, Y, Z    float64 // feet
	Yaw, Pitch float64
	Health     int
	MaxHealth  int
	Dead       bool
	Spectator  bool
	Pinned     bool
	MainHand   int    // components.ItemKind
	LastAim    uint32 // last aim sequence applied by the server
}

var NetActor = donburi.NewComponentType[NetActorData]()

// LerpNetActor interpolates position and aim; discrete fields take the newer value
func LerpNetActor(from, to NetActorData, t float64) *NetActorData {
	out := to
	out.X = from.X + (to.X-from.X)*t
	out.Y = from.Y + (to.Y-from.Y)*t
	out.Z = from.Z + (to.Z-from.Z)*t
	out.Yaw = from.Yaw + (to.Yaw-from.Yaw)*t
	out.Pitch = from.Pitch + (to.Pitch-from.Pitch)*t
	return &out
}
