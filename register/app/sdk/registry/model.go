package registry

import (
	"time"

	"github.com/google/uuid"
)

// User represents a named person known to the registry.
type User struct {
	ID   uuid.UUID
	Name string
}

// Address represents one entry in a user's address history.
type Address struct {
	ID      int64
	UserID  uuid.UUID
	Address string
}

// NewRegistration contains the information needed to register an address.
type NewRegistration struct {
	Name    string
	Address string
}

// Registration is the outcome of a successful registration. NewUser reports
// which branch was taken.
type Registration struct {
	User        User
	Address     Address
	NewUser     bool
	DateCreated time.Time
}

// History represents a user and every address registered for it in
// insertion order.
type History struct {
	User      User
	Addresses []Address
}

// Event is the published form of a registration.
type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userID"`
	Name      string    `json:"name"`
	AddressID int64     `json:"addressID"`
	Address   string    `json:"address"`
	NewUser   bool      `json:"newUser"`
	Time      time.Time `json:"time"`
}

// NewEvent converts a registration into its published form.
func NewEvent(reg Registration) Event {
	return Event{
		Type:      "registration",
		UserID:    reg.User.ID.String(),
		Name:      reg.User.Name,
		AddressID: reg.Address.ID,
		Address:   reg.Address.Address,
		NewUser:   reg.NewUser,
		Time:      reg.DateCreated,
	}
}
