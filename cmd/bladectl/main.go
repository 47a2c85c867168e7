// Command bladectl joins a shadeblade server and drives its blade from
// the command line, printing mode changes as they arrive.
package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"github.com/automoto/shadeblade/network"
	"github.com/automoto/shadeblade/shared/protocol"
	"github.com/automoto/shadeblade/sim/blade"
	"github.com/automoto/shadeblade/sim/statemachine"
)

func main() {
	addr := flag.String("addr", "localhost:7373", "Server address")
	name := flag.String("name", "bladectl", "Player name")
	version := flag.String("version", "", "Client version sent on join")
	cmds := flag.String("cmds", "toggle,lunge,recall,standby,toggle", "Comma separated blade requests, throw or grab")
	speed := flag.Float64("speed", 0, "Throw speed, 0 for the server default")
	interval := flag.Duration("interval", 500*time.Millisecond, "Delay between requests")
	yaw := flag.Float64("yaw", 0, "Aim yaw in radians")
	pitch := flag.Float64("pitch", 0, "Aim pitch in radians")
	timeout := flag.Duration("timeout", 5*time.Second, "How long to wait for the join")
	flag.Parse()

	var requests []string
	for _, c := range strings.Split(*cmds, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if c == "throw" || c == "grab" {
			requests = append(requests, c)
			continue
		}
		if _, err := blade.ParseRequest(c); err != nil {
			log.Fatalf("Bad request %q: %v", c, err)
		}
		requests = append(requests, c)
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	client := network.NewClient()
	client.Connect(*addr, *version, *name)
	defer client.Disconnect()

	deadline := time.Now().Add(*timeout)
	for client.State() != network.StateJoinedGame {
		if client.State() == network.StateError {
			log.Fatalf("Join failed: %v", client.LastError())
		}
		if time.Now().After(deadline) {
			log.Fatalf("Join timed out (state %s)", client.State())
		}
		time.Sleep(20 * time.Millisecond)
	}

	if err := client.Aim(*yaw, *pitch); err != nil {
		log.Fatalf("Aim: %v", err)
	}

	for _, r := range requests {
		if err := send(client, r, *speed); err != nil {
			log.Fatalf("Send %s: %v", r, err)
		}
		log.Printf("-> %s", r)
		time.Sleep(*interval)
		report(client)
	}
}

func send(client *network.Client, cmd string, speed float64) error {
	switch cmd {
	case "throw":
		return client.Throw(speed)
	case "grab":
		return client.Grab()
	}
	return client.Command(cmd)
}

func report(client *network.Client) {
	for _, ev := range client.DrainModeEvents() {
		if ev.OwnerNetworkID == uint(client.NetworkID()) {
			log.Printf("   mode %s -> %s", ev.From, ev.To)
		}
	}
	for _, ev := range client.DrainThrowEvents() {
		log.Printf("   %d threw %s at %.1f", ev.OwnerNetworkID, ev.Item, ev.Speed)
	}
	for _, rej := range client.DrainRejections() {
		log.Printf("   rejected %s: %s", rej.Command, rej.Reason)
	}
	if snap := client.LatestSnapshot(); snap != nil {
		frame := network.DecodeSnapshot(*snap)
		if p, ok := frame.BladeOf(client.NetworkID()); ok {
			log.Printf("   blade %s at (%.2f, %.2f, %.2f) tick %d",
				blade.ModeName(statemachine.StateID(p.Mode)), p.X, p.Y, p.Z, frame.State.Tick)
		}
	}
}
