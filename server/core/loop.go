package core

import (
	"log"
	"time"

	"github.com/leap-fish/necs/esync/srvsync"
)

type GameLoop struct {
	server   *Server
	tickRate int
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	if tickRate <= 0 {
		tickRate = 20
	}
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (g *GameLoop) Run() {
	defer close(g.done)
	g.running = true
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	log.Printf("[loop] Game loop started at %d ticks/second", g.tickRate)

	for {
		select {
		case <-g.stopChan:
			g.running = false
			g.server.sim.Shutdown()
			log.Println("[loop] Game loop stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

// Stop ends the loop and waits for the simulation to shut down
func (g *GameLoop) Stop() {
	close(g.stopChan)
	<-g.done
}

func (g *GameLoop) tick() {
	g.server.sim.Tick()
	g.server.flushEvents()

	if err := srvsync.DoSync(); err != nil {
		log.Printf("[loop] Sync error: %v", err)
	}
}
