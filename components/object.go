package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// ObjectData links an entity to its broadphase object. The resolv space is
// the XZ plane, so the vertical extent is kept alongside.
type ObjectData struct {
	*resolv.Object
	MinY, MaxY float64
}

var Object = donburi.NewComponentType[ObjectData]()
