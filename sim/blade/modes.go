package blade

import (
	"fmt"

	"github.com/automoto/shadeblade/sim/statemachine"
)

// Blade modes. Each is one state of the blade's machine.
const (
	Inactive statemachine.StateID = iota
	Recover
	Sheathed
	StandbyMode
	WieldMode
	AttackingQuick
	AttackingHeavy
	Waiting
	Recalling
	Returning
	Lodged
	Lunging
)

var modeNames = map[statemachine.StateID]string{
	Inactive:       "inactive",
	Recover:        "recover",
	Sheathed:       "sheathed",
	StandbyMode:    "standby",
	WieldMode:      "wield",
	AttackingQuick: "attacking_quick",
	AttackingHeavy: "attacking_heavy",
	Waiting:        "waiting",
	Recalling:      "recalling",
	Returning:      "returning",
	Lodged:         "lodged",
	Lunging:        "lunging",
}

// ModeName returns the display name of a blade mode
func ModeName(id statemachine.StateID) string {
	if name, ok := modeNames[id]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(id))
}
