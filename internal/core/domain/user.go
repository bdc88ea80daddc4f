package domain

import "github.com/samber/lo"

// User is the directory record of a registered user.
type User struct {
	ID               string
	Name             string
	PhoneNumber      string
	EmergencyContact string
}

type FamilyContact struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"socket_id,omitempty"`
	Online    bool   `json:"online"`
}

// FamilyResult has one entry per contact resolved from the requester's
// emergency contact, in directory order.
type FamilyResult struct {
	Contacts []FamilyContact
}

func (r FamilyResult) ContactIDs() []string {
	return lo.Map(r.Contacts, func(c FamilyContact, _ int) string { return c.UserID })
}

// SessionIDs is aligned with ContactIDs; offline contacts yield "".
func (r FamilyResult) SessionIDs() []string {
	return lo.Map(r.Contacts, func(c FamilyContact, _ int) string { return c.SessionID })
}

func (r FamilyResult) Online() []FamilyContact {
	return lo.Filter(r.Contacts, func(c FamilyContact, _ int) bool { return c.Online })
}
