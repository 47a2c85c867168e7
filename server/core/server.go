package core

import (
	"errors"
	"log"
	"sync"

	"github.com/automoto/shadeblade/config"
	"github.com/automoto/shadeblade/shared/leveldata"
	"github.com/automoto/shadeblade/shared/messages"
	"github.com/automoto/shadeblade/shared/netcomponents"
	"github.com/automoto/shadeblade/sim/blade"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

// session is what the server knows about one connection. actor is only
// touched on the loop goroutine.
type session struct {
	name    string
	actor   donburi.Entity
	lastAim uint32
}

// Server manages the simulation and client connections
type Server struct {
	cfg       *config.Config
	sim       *Simulation
	loop      *GameLoop
	transport *transports.WsServerTransport

	clients map[*router.NetworkClient]*session
	mu      sync.RWMutex
}

// NewServer creates a server around a fresh simulation of arena
func NewServer(cfg *config.Config, arena *leveldata.Arena) *Server {
	s := &Server{
		cfg:     cfg,
		sim:     NewSimulation(cfg, arena, nil),
		clients: make(map[*router.NetworkClient]*session),
	}
	s.loop = NewGameLoop(s, cfg.Server.TickRate)

	// The simulation world is the synced world
	srvsync.UseEsync(s.sim.World().ECS())
	s.sim.OnNetEntity = s.syncEntity
	s.sim.NetworkID = s.networkID
	s.sim.Start()

	s.setupRouterCallbacks()
	return s
}

// Start begins the server on the given port
func (s *Server) Start(port uint) error {
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop halts the loop and tears the simulation down
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[server] Client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.onJoinRequest(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.BladeCommand) {
		s.onBladeCommand(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.ThrowCommand) {
		s.withActor(client, "throw", func(actor donburi.Entity) error {
			return s.sim.Throw(actor, msg.Speed)
		})
	})

	router.On(func(client *router.NetworkClient, msg messages.GrabCommand) {
		s.withActor(client, "grab", s.sim.Grab)
	})

	router.On(func(client *router.NetworkClient, msg messages.AimUpdate) {
		s.onAim(client, msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] Client error: %v", err)
	})
}

func (s *Server) onJoinRequest(client *router.NetworkClient, msg messages.JoinRequest) {
	if want := s.cfg.Server.Version; want != "" && msg.Version != want {
		s.send(client, messages.JoinRejected{Reason: "version mismatch, server requires " + want})
		return
	}

	s.mu.Lock()
	if _, joined := s.clients[client]; joined {
		s.mu.Unlock()
		return
	}
	if max := s.cfg.Server.MaxPlayers; max > 0 && len(s.clients) >= max {
		s.mu.Unlock()
		s.send(client, messages.JoinRejected{Reason: "server full"})
		return
	}
	sess := &session{name: msg.PlayerName}
	s.clients[client] = sess
	s.mu.Unlock()

	s.sim.Enqueue(func() {
		actor, err := s.sim.Join()
		if err != nil {
			log.Printf("[server] Join failed for %s: %v", client.Id(), err)
			s.dropClient(client)
			s.send(client, messages.JoinRejected{Reason: "could not spawn"})
			return
		}
		sess.actor = actor

		var nid esync.NetworkId
		if id := esync.GetNetworkId(s.sim.World().ECS().Entry(actor)); id != nil {
			nid = *id
		}
		s.send(client, messages.JoinAccepted{
			NetworkID:  nid,
			ServerName: s.cfg.Server.Name,
			TickRate:   s.cfg.Server.TickRate,
		})
		log.Printf("[server] %q joined as actor %v (client %s)", sess.name, actor, client.Id())
	})
}

func (s *Server) onDisconnect(client *router.NetworkClient, err error) {
	if err != nil {
		log.Printf("[server] Client %s disconnected with error: %v", client.Id(), err)
	} else {
		log.Printf("[server] Client %s disconnected", client.Id())
	}

	sess := s.dropClient(client)
	if sess == nil {
		return
	}
	s.sim.Enqueue(func() {
		if sess.actor != donburi.Null {
			s.sim.Leave(sess.actor)
		}
	})
}

func (s *Server) dropClient(client *router.NetworkClient) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.clients[client]
	if !ok {
		return nil
	}
	delete(s.clients, client)
	return sess
}

func (s *Server) onBladeCommand(client *router.NetworkClient, msg messages.BladeCommand) {
	r, err := blade.ParseRequest(msg.Request)
	if err != nil {
		s.send(client, messages.CommandRejected{Command: msg.Request, Reason: err.Error()})
		return
	}
	s.withActor(client, r.String(), func(actor donburi.Entity) error {
		return s.sim.Command(actor, r)
	})
}

func (s *Server) onAim(client *router.NetworkClient, msg messages.AimUpdate) {
	s.sim.Enqueue(func() {
		sess := s.session(client)
		if sess == nil || sess.actor == donburi.Null {
			return
		}
		if msg.Sequence != 0 && msg.Sequence <= sess.lastAim {
			return
		}
		sess.lastAim = msg.Sequence
		if err := s.sim.Aim(sess.actor, msg.Yaw, msg.Pitch); err != nil {
			return
		}
		ecs := s.sim.World().ECS()
		netcomponents.NetActor.Get(ecs.Entry(sess.actor)).LastAim = msg.Sequence
	})
}

// withActor runs fn on the loop goroutine with the client's actor and
// reports a failure back to the client
func (s *Server) withActor(client *router.NetworkClient, command string, fn func(actor donburi.Entity) error) {
	s.sim.Enqueue(func() {
		sess := s.session(client)
		if sess == nil || sess.actor == donburi.Null {
			log.Printf("[server] Dropped %s from unjoined client %s", command, client.Id())
			return
		}
		if err := fn(sess.actor); err != nil {
			s.send(client, messages.CommandRejected{Command: command, Reason: err.Error()})
		}
	})
}

func (s *Server) session(client *router.NetworkClient) *session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clients[client]
}

func (s *Server) send(client *router.NetworkClient, msg any) {
	if err := client.SendMessage(msg); err != nil {
		log.Printf("[server] Send to %s failed: %v", client.Id(), err)
	}
}

func (s *Server) broadcastEvent(msg any) {
	s.mu.RLock()
	clients := make([]*router.NetworkClient, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		s.send(c, msg)
	}
}

// flushEvents turns simulation events into broadcasts
func (s *Server) flushEvents() {
	for _, ev := range s.sim.TakeEvents() {
		switch ev := ev.(type) {
		case ModeChanged:
			s.broadcastEvent(messages.BladeModeEvent{
				OwnerNetworkID: s.networkID(ev.Owner),
				From:           blade.ModeName(ev.From),
				To:             blade.ModeName(ev.To),
			})
		case ItemThrown:
			s.broadcastEvent(messages.ThrowEvent{
				OwnerNetworkID: s.networkID(ev.Owner),
				Item:           ev.Item.Kind.String(),
				Speed:          ev.Speed,
			})
		}
	}
}

func (s *Server) syncEntity(e donburi.Entity, kind NetKind) {
	ecs := s.sim.World().ECS()
	var err error
	switch kind {
	case NetKindActor:
		err = srvsync.NetworkSync(ecs, &e, srvsync.WithInterp(netcomponents.NetActor))
	case NetKindProxy:
		err = srvsync.NetworkSync(ecs, &e, srvsync.WithInterp(netcomponents.NetProxy))
	case NetKindState:
		err = srvsync.NetworkSync(ecs, &e, netcomponents.NetSimState)
	default:
		err = errors.New("unknown net kind")
	}
	if err != nil {
		log.Printf("[server] Failed to set up network sync for %v: %v", e, err)
	}
}

func (s *Server) networkID(e donburi.Entity) uint {
	ecs := s.sim.World().ECS()
	if e == donburi.Null || !ecs.Valid(e) {
		return 0
	}
	if nid := esync.GetNetworkId(ecs.Entry(e)); nid != nil {
		return uint(*nid)
	}
	return 0
}

// Simulation returns the simulation the server drives
func (s *Server) Simulation() *Simulation {
	return s.sim
}

// PlayerCount returns the number of joined clients
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
