package messages

// BladeCommand asks the sender's companion blade to change mode.
// Request is one of the blade request names ("toggle", "lunge", ...).
type BladeCommand struct {
	Request string
}

// ThrowCommand throws whatever the sender holds in the main hand.
// A zero Speed uses the server default.
type ThrowCommand struct {
	Speed float64
}

// GrabCommand grabs the nearest item along the sender's aim
type GrabCommand struct{}

// AimUpdate is sent whenever the sender's view direction changes
type AimUpdate struct {
	Sequence uint32 // Incrementing ID, older updates are ignored
	Yaw      float64
	Pitch    float64
}
