package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub owns the live clients and routes frames between them through the registry.
type Hub struct {
	registry *Registry
	mu       sync.Mutex
	clients  map[string]*Client
}

func NewHub(registry *Registry) *Hub {
	return &Hub{
		registry: registry,
		clients:  make(map[string]*Client),
	}
}

func (h *Hub) Registry() *Registry { return h.registry }

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	h.registry.Connect(c.UserID, c.ID)
	log.Info().Str("userID", c.UserID).Str("connID", c.ID).Msg("Realtime client connected")
	h.broadcastOnlineUsers()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c.ID]; ok {
		delete(h.clients, c.ID)
		c.closeSend()
	}
	h.mu.Unlock()

	if _, removed := h.registry.Disconnect(c.ID); removed {
		log.Info().Str("userID", c.UserID).Str("connID", c.ID).Msg("Realtime client disconnected")
		h.broadcastOnlineUsers()
	}
}

// SendToUser delivers an event to the user's active connection and reports
// whether it was queued. Offline users are not an error.
func (h *Hub) SendToUser(userID, event string, data interface{}) bool {
	connID, ok := h.registry.Lookup(userID)
	if !ok {
		log.Debug().Str("userID", userID).Str("event", event).Msg("Realtime target offline, dropping")
		return false
	}
	frame, err := encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("Realtime encode failed")
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[connID]
	if !ok {
		return false
	}
	return h.enqueueLocked(c, frame)
}

func (h *Hub) sendToClient(c *Client, event string, data interface{}) {
	frame, err := encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("Realtime encode failed")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.ID]; ok {
		h.enqueueLocked(c, frame)
	}
}

func (h *Hub) broadcastOnlineUsers() {
	frame, err := encode(EventGetOnlineUsers, h.registry.OnlineUsers())
	if err != nil {
		log.Error().Err(err).Msg("Realtime encode failed")
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		h.enqueueLocked(c, frame)
	}
}

// enqueueLocked never blocks; a client whose queue is full is dropped and its
// read pump will unregister it. Callers hold h.mu.
func (h *Hub) enqueueLocked(c *Client, frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		log.Warn().Str("userID", c.UserID).Str("connID", c.ID).Msg("Realtime send queue full, dropping client")
		delete(h.clients, c.ID)
		c.closeSend()
		return false
	}
}

// Handle routes one inbound frame from c.
func (h *Hub) Handle(c *Client, env Envelope) {
	var req signalRequest
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &req); err != nil {
			log.Warn().Err(err).Str("event", env.Event).Str("connID", c.ID).Msg("Realtime bad payload")
			return
		}
	}
	from := req.From
	if from == "" {
		from = UserRef(c.UserID)
	}
	to := string(req.To)

	switch env.Event {
	case EventCallUser:
		h.SendToUser(to, EventIncomingCall, incomingCall{From: from, Signal: req.Signal})
	case EventAnswerCall:
		h.SendToUser(to, EventCallAccepted, callAccepted{Signal: req.Signal})
	case EventAudioCallRequest:
		h.SendToUser(to, EventIncomingAudioCall, incomingAudioCall{From: from})
	case EventEndCall:
		h.SendToUser(to, EventCallEnded, nil)
		h.sendToClient(c, EventCallEnded, nil)
	case EventRejectCall:
		h.SendToUser(to, EventCallRejected, nil)
	default:
		log.Debug().Str("event", env.Event).Str("connID", c.ID).Msg("Realtime unknown event ignored")
	}
}
