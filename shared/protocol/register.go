package protocol

import (
	"github.com/automoto/shadeblade/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetActor    uint = 10
	SyncIDNetProxy    uint = 11
	SyncIDNetSimState uint = 12
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetActor uint8 = 10
	InterpIDNetProxy uint8 = 11
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	if err := esync.RegisterComponent(
		SyncIDNetActor,
		netcomponents.NetActorData{},
		netcomponents.NetActor,
		esync.WithInterpFn(InterpIDNetActor, netcomponents.LerpNetActor),
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetProxy,
		netcomponents.NetProxyData{},
		netcomponents.NetProxy,
		esync.WithInterpFn(InterpIDNetProxy, netcomponents.LerpNetProxy),
	); err != nil {
		return err
	}

	// SimState: no interpolation (counters)
	if err := esync.RegisterComponent(
		SyncIDNetSimState,
		netcomponents.NetSimStateData{},
		netcomponents.NetSimState,
	); err != nil {
		return err
	}

	return nil
}
