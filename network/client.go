// Package network is a headless client for the blade server: it joins,
// sends commands and decodes world snapshots.
package network

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/automoto/shadeblade/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "joined"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Client manages a WebSocket connection to the server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state      ClientState
	lastError  error
	networkID esync.NetworkId
	conn      *websocket.Conn
	aimSeq    uint32

	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins

	modeCh     chan messages.BladeModeEvent
	throwCh    chan messages.ThrowEvent
	rejectedCh chan messages.CommandRejected
}

func NewClient() *Client {
	return &Client{
		state:      StateDisconnected,
		snapshotCh: make(chan esync.WorldSnapshot, 1),
		modeCh:     make(chan messages.BladeModeEvent, 16),
		throwCh:    make(chan messages.ThrowEvent, 4),
		rejectedCh: make(chan messages.CommandRejected, 4),
	}
}

// Connect dials the server in a background goroutine and initiates the join handshake.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		err := c.SendMessage(messages.JoinRequest{
			Version:    version,
			PlayerName: playerName,
		})
		if err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		log.Printf("[client] join accepted: networkID=%d server=%s tickRate=%d",
			msg.NetworkID, msg.ServerName, msg.TickRate)
		c.mu.Lock()
		c.networkID = msg.NetworkID
		c.state = StateJoinedGame
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	router.On(func(_ *router.NetworkClient, evt messages.BladeModeEvent) {
		offer(c.modeCh, evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.ThrowEvent) {
		offer(c.throwCh, evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.CommandRejected) {
		offer(c.rejectedCh, evt)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) NetworkID() esync.NetworkId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkID
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

// Command asks the server to change the blade's mode
func (c *Client) Command(request string) error {
	return c.SendMessage(messages.BladeCommand{Request: request})
}

// Throw releases the held item. Zero speed uses the server default.
func (c *Client) Throw(speed float64) error {
	return c.SendMessage(messages.ThrowCommand{Speed: speed})
}

// Grab picks up whatever is along the current aim
func (c *Client) Grab() error {
	return c.SendMessage(messages.GrabCommand{})
}

// Aim sends a new view direction with the next sequence number
func (c *Client) Aim(yaw, pitch float64) error {
	c.mu.Lock()
	c.aimSeq++
	seq := c.aimSeq
	c.mu.Unlock()
	return c.SendMessage(messages.AimUpdate{Sequence: seq, Yaw: yaw, Pitch: pitch})
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

// DrainModeEvents returns all pending blade mode events, non-blocking.
func (c *Client) DrainModeEvents() []messages.BladeModeEvent {
	return drainChan(c.modeCh)
}

// DrainThrowEvents returns all pending throw events, non-blocking.
func (c *Client) DrainThrowEvents() []messages.ThrowEvent {
	return drainChan(c.throwCh)
}

// DrainRejections returns all pending command rejections, non-blocking.
func (c *Client) DrainRejections() []messages.CommandRejected {
	return drainChan(c.rejectedCh)
}

// offer drops evt when nobody is draining
func offer[T any](ch chan T, evt T) {
	select {
	case ch <- evt:
	default:
	}
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
