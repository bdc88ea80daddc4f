package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Ganesh-73005/saveher-backend/internal/adapter/metrics"
	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
	"github.com/Ganesh-73005/saveher-backend/internal/core/port"
)

const ioTimeout = 5 * time.Second

type NearbyFinder interface {
	FindNearby(ctx context.Context, userID string) domain.NearbyResult
}

type FamilyFinder interface {
	FindFamily(ctx context.Context, userID string) (domain.FamilyResult, error)
}

// Hub tracks live sessions and keeps the presence snapshot in step with them:
// a record is written on connect and on every location update, and removed
// when the session that wrote it goes away. Removal only deletes a record
// still owned by that session, so a reconnect is never undone by the
// previous session's cleanup.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	presence port.PresenceWriter
	nearby   NearbyFinder
	family   FamilyFinder
	log      *zap.Logger
}

func NewHub(presence port.PresenceWriter, nearby NearbyFinder, family FamilyFinder, log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		presence:   presence,
		nearby:     nearby,
		family:     family,
		log:        log,
	}
}

// Attach registers a new session for userID on conn. The returned client is
// served once Run picks it up.
func (h *Hub) Attach(ctx context.Context, conn *websocket.Conn, userID string) (*Client, error) {
	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		userID:    userID,
		sessionID: uuid.NewString(),
	}

	if err := h.presence.Upsert(ctx, domain.Presence{UserID: userID, SessionID: client.sessionID}); err != nil {
		h.log.Error("failed to record presence", zap.String("user_id", userID), zap.Error(err))
	}

	select {
	case h.register <- client:
		return client, nil
	case <-h.done:
		h.removePresence(ctx, client)
		return nil, errors.New("hub stopped")
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.sessionID] = client
			h.mu.Unlock()
			metrics.ConnectedSessions.Inc()

			go client.writePump()
			go client.readPump()
			h.log.Info("session connected", zap.String("user_id", client.userID), zap.String("session_id", client.sessionID))
		case client := <-h.unregister:
			if h.drop(client) {
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
					defer cancel()
					h.removePresence(ctx, client)
				}()
			}
		case <-ctx.Done():
			h.shutdown()
			return
		}
	}
}

// drop forgets the client and reports whether it was still registered.
func (h *Hub) drop(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.sessionID]; !ok {
		return false
	}
	delete(h.clients, client.sessionID)
	close(client.send)
	metrics.ConnectedSessions.Dec()
	return true
}

// shutdown closes every session and clears their presence records before Run
// returns, so a restart does not serve users that are no longer connected.
func (h *Hub) shutdown() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.send)
		metrics.ConnectedSessions.Dec()
		clients = append(clients, client)
	}
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()
	for _, client := range clients {
		h.removePresence(ctx, client)
	}
	h.log.Info("hub stopped", zap.Int("sessions_closed", len(clients)))
}

func (h *Hub) removePresence(ctx context.Context, client *Client) {
	if err := h.presence.RemoveSession(ctx, client.userID, client.sessionID); err != nil {
		h.log.Error("failed to remove presence",
			zap.String("user_id", client.userID),
			zap.String("session_id", client.sessionID),
			zap.Error(err))
		return
	}
	h.log.Info("session disconnected", zap.String("user_id", client.userID), zap.String("session_id", client.sessionID))
}

func (h *Hub) HandleMessage(client *Client, message []byte) {
	var env Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		h.log.Warn("invalid json from session", zap.String("session_id", client.sessionID), zap.Error(err))
		h.replyError(client, "", "invalid json")
		return
	}

	switch env.Type {
	case MsgLocationUpdate:
		var loc LocationPayload
		if err := json.Unmarshal(env.Payload, &loc); err != nil {
			h.replyError(client, env.Type, "invalid location payload")
			return
		}
		coords := domain.Coordinates{Latitude: loc.Lat, Longitude: loc.Lng}
		if !coords.Valid() {
			h.replyError(client, env.Type, "coordinates out of range")
			return
		}
		h.updateLocation(client, coords)
	case MsgNearbyRequest:
		go h.replyNearby(client)
	case MsgFamilyRequest:
		go h.replyFamily(client)
	case MsgSOSAlert:
		var alert SOSAlertPayload
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &alert); err != nil {
				h.replyError(client, env.Type, "invalid alert payload")
				return
			}
		}
		go h.raiseSOS(client, client.location, alert.Message)
	default:
		h.replyError(client, env.Type, "unknown message type")
	}
}

func (h *Hub) updateLocation(client *Client, coords domain.Coordinates) {
	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()

	err := h.presence.Upsert(ctx, domain.Presence{
		UserID:      client.userID,
		SessionID:   client.sessionID,
		Coordinates: &coords,
	})
	if err != nil {
		h.log.Error("failed to update location", zap.String("user_id", client.userID), zap.Error(err))
		h.replyError(client, MsgLocationUpdate, "location not saved")
		return
	}
	client.location = &coords
	h.log.Debug("location updated", zap.String("user_id", client.userID), zap.Stringer("coordinates", coords))
}

func (h *Hub) replyNearby(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()

	res := h.nearby.FindNearby(ctx, client.userID)
	h.reply(client, MsgNearbyResult, NearbyResultPayload{
		UserIDs:   res.UserIDs(),
		SocketIDs: res.SessionIDs(),
		Users:     res.Users,
	})
}

func (h *Hub) replyFamily(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()

	res, err := h.family.FindFamily(ctx, client.userID)
	if err != nil {
		h.log.Error("family query failed", zap.String("user_id", client.userID), zap.Error(err))
		h.replyError(client, MsgFamilyRequest, err.Error())
		return
	}
	h.reply(client, MsgFamilyResult, FamilyResultPayload{
		UserIDs:   res.ContactIDs(),
		SocketIDs: res.SessionIDs(),
		Contacts:  res.Contacts,
	})
}

// raiseSOS alerts every nearby session and every connected family contact,
// then acknowledges to the sender how many sessions were reached.
func (h *Hub) raiseSOS(client *Client, coords *domain.Coordinates, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()

	nearby := h.nearby.FindNearby(ctx, client.userID)
	family, err := h.family.FindFamily(ctx, client.userID)
	if err != nil {
		h.log.Warn("sos without family contacts", zap.String("user_id", client.userID), zap.Error(err))
	}

	alert, err := encode(MsgSOSBroadcast, SOSBroadcastPayload{
		UserID:      client.userID,
		Coordinates: coords,
		Message:     message,
	})
	if err != nil {
		h.log.Error("failed to encode sos", zap.Error(err))
		return
	}

	notify := func(sessionIDs []string) int {
		sent := 0
		for _, id := range lo.Uniq(sessionIDs) {
			if id == "" || id == client.sessionID {
				continue
			}
			if h.SendToSession(id, alert) {
				sent++
			}
		}
		return sent
	}

	familySessions := lo.Map(family.Online(), func(c domain.FamilyContact, _ int) string { return c.SessionID })
	ack := SOSAckPayload{
		FamilyNotified: notify(familySessions),
		NearbyNotified: notify(lo.Without(nearby.SessionIDs(), familySessions...)),
	}

	h.log.Info("sos raised",
		zap.String("user_id", client.userID),
		zap.Int("nearby_notified", ack.NearbyNotified),
		zap.Int("family_notified", ack.FamilyNotified))
	h.reply(client, MsgSOSAck, ack)
}

func (h *Hub) reply(client *Client, t MessageType, payload any) {
	msg, err := encode(t, payload)
	if err != nil {
		h.log.Error("failed to encode reply", zap.String("type", string(t)), zap.Error(err))
		return
	}
	h.SendToSession(client.sessionID, msg)
}

func (h *Hub) replyError(client *Client, request MessageType, message string) {
	h.reply(client, MsgError, ErrorPayload{Request: request, Message: message})
}

// SendToSession queues message for the session and reports whether it was
// accepted. Full or closed sessions drop the message.
func (h *Hub) SendToSession(sessionID string, message []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[sessionID]
	if !ok {
		return false
	}
	select {
	case client.send <- message:
		return true
	default:
		return false
	}
}
