package blade

import (
	"errors"
	"fmt"
)

// Request is a discrete control input for a blade
type Request int

const (
	Deactivate Request = iota
	ActivateToPrevious
	ResumeFromRepair
	Toggle
	Wield
	AttackQuick
	AttackHeavy
	Lunge
	Sheath
	Standby
	Recall
)

var ErrUnknownRequest = errors.New("blade: unknown request")

var requestNames = [...]string{
	Deactivate:         "deactivate",
	ActivateToPrevious: "activate",
	ResumeFromRepair:   "resume",
	Toggle:             "toggle",
	Wield:              "wield",
	AttackQuick:        "attack_quick",
	AttackHeavy:        "attack_heavy",
	Lunge:              "lunge",
	Sheath:             "sheath",
	Standby:            "standby",
	Recall:             "recall",
}

func (r Request) String() string {
	if r < 0 || int(r) >= len(requestNames) {
		return fmt.Sprintf("request(%d)", int(r))
	}
	return requestNames[r]
}

// ParseRequest is the inverse of Request.String
func ParseRequest(s string) (Request, error) {
	for i, name := range requestNames {
		if name == s {
			return Request(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRequest, s)
}
