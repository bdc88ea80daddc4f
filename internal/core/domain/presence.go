package domain

import (
	"fmt"

	"github.com/samber/lo"
)

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinates) String() string {
	return fmt.Sprintf("[%f, %f]", c.Latitude, c.Longitude)
}

// Presence is one connected user's entry in the snapshot. Coordinates is nil
// until the client reports a location.
type Presence struct {
	UserID      string       `json:"user_id"`
	SessionID   string       `json:"socket_id"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

func (p Presence) HasLocation() bool {
	return p.Coordinates != nil
}

// Snapshot is the set of connected users keyed by user id. Records keeps the
// order in which the backing store listed them.
type Snapshot struct {
	records []Presence
	index   map[string]int
}

// NewSnapshot builds a snapshot from records in order. A repeated user id
// replaces the earlier record in place.
func NewSnapshot(records ...Presence) Snapshot {
	s := Snapshot{
		records: make([]Presence, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		if i, ok := s.index[r.UserID]; ok {
			s.records[i] = r
			continue
		}
		s.index[r.UserID] = len(s.records)
		s.records = append(s.records, r)
	}
	return s
}

func (s Snapshot) Get(userID string) (Presence, bool) {
	i, ok := s.index[userID]
	if !ok {
		return Presence{}, false
	}
	return s.records[i], true
}

func (s Snapshot) Len() int {
	return len(s.records)
}

func (s Snapshot) Records() []Presence {
	out := make([]Presence, len(s.records))
	copy(out, s.records)
	return out
}

type NearbyUser struct {
	UserID         string      `json:"user_id"`
	SessionID      string      `json:"socket_id"`
	Coordinates    Coordinates `json:"coordinates"`
	DistanceMeters float64     `json:"distance"`
}

// NearbyResult is ordered nearest first.
type NearbyResult struct {
	Users []NearbyUser
}

func (r NearbyResult) UserIDs() []string {
	return lo.Map(r.Users, func(u NearbyUser, _ int) string { return u.UserID })
}

func (r NearbyResult) SessionIDs() []string {
	return lo.Map(r.Users, func(u NearbyUser, _ int) string { return u.SessionID })
}

func (r NearbyResult) Empty() bool {
	return len(r.Users) == 0
}
