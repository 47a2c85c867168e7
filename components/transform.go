package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// TransformData is an entity's place in the world. For actors Position is
// the feet; for proxies it is the center.
type TransformData struct {
	Position mgl64.Vec3
	Yaw      float64 // radians, 0 faces +Z
	Pitch    float64 // radians, positive looks up
}

var Transform = donburi.NewComponentType[TransformData]()
