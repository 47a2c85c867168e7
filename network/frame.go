package network

import (
	"github.com/automoto/shadeblade/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Frame is one decoded world snapshot
type Frame struct {
	Actors  map[esync.NetworkId]netcomponents.NetActorData
	Proxies map[esync.NetworkId]netcomponents.NetProxyData
	State   netcomponents.NetSimStateData
	Skipped int // components that failed to decode
}

// DecodeSnapshot sorts a snapshot's components by kind
func DecodeSnapshot(snapshot esync.WorldSnapshot) Frame {
	f := Frame{
		Actors:  make(map[esync.NetworkId]netcomponents.NetActorData),
		Proxies: make(map[esync.NetworkId]netcomponents.NetProxyData),
	}
	for _, ent := range snapshot {
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				f.Skipped++
				continue
			}
			switch v := instance.(type) {
			case netcomponents.NetActorData:
				f.Actors[ent.Id] = v
			case netcomponents.NetProxyData:
				f.Proxies[ent.Id] = v
			case netcomponents.NetSimStateData:
				f.State = v
			}
		}
	}
	return f
}

// BladeOf returns the blade proxy owned by the actor with network id owner
func (f Frame) BladeOf(owner esync.NetworkId) (netcomponents.NetProxyData, bool) {
	for _, p := range f.Proxies {
		if p.Mode != netcomponents.NoMode && p.OwnerNetworkID == uint(owner) {
			return p, true
		}
	}
	return netcomponents.NetProxyData{}, false
}
