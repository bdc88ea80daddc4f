package websocket

import (
	"encoding/json"

	"github.com/Ganesh-73005/saveher-backend/internal/core/domain"
)

type MessageType string

const (
	MsgLocationUpdate MessageType = "LOCATION_UPDATE"
	MsgNearbyRequest  MessageType = "NEARBY_REQUEST"
	MsgFamilyRequest  MessageType = "FAMILY_REQUEST"
	MsgSOSAlert       MessageType = "SOS_ALERT"

	MsgNearbyResult MessageType = "NEARBY_RESULT"
	MsgFamilyResult MessageType = "FAMILY_RESULT"
	MsgSOSBroadcast MessageType = "SOS_BROADCAST"
	MsgSOSAck       MessageType = "SOS_ACK"
	MsgError        MessageType = "ERROR"
)

type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type LocationPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type NearbyResultPayload struct {
	UserIDs   []string            `json:"user_ids"`
	SocketIDs []string            `json:"socket_ids"`
	Users     []domain.NearbyUser `json:"users"`
}

type FamilyResultPayload struct {
	UserIDs   []string               `json:"user_ids"`
	SocketIDs []string               `json:"socket_ids"`
	Contacts  []domain.FamilyContact `json:"contacts"`
}

type SOSBroadcastPayload struct {
	UserID      string              `json:"user_id"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
	Message     string              `json:"message,omitempty"`
}

type SOSAlertPayload struct {
	Message string `json:"message"`
}

type SOSAckPayload struct {
	NearbyNotified int `json:"nearby_notified"`
	FamilyNotified int `json:"family_notified"`
}

type ErrorPayload struct {
	Request MessageType `json:"request"`
	Message string      `json:"message"`
}

func encode(t MessageType, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: t, Payload: raw})
}
