package messages

// BladeModeEvent is broadcast when a companion blade changes mode
type BladeModeEvent struct {
	OwnerNetworkID uint
	From           string
	To             string
}

// ThrowEvent is broadcast when an actor throws an item
type ThrowEvent struct {
	OwnerNetworkID uint
	Item           string
	Speed          float64
}

// CommandRejected is sent back to a client whose command could not run
type CommandRejected struct {
	Command string
	Reason  string
}
