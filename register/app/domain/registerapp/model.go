package registerapp

import (
	"encoding/json"

	"github.com/ardanlabs/signup/register/app/sdk/errs"
	"github.com/ardanlabs/signup/register/app/sdk/registry"
)

const msgRequired = "Name and address are required fields."

// NewRegistration defines the data needed to register an address.
type NewRegistration struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Decode implements the decoder interface. An empty body decodes to an
// empty registration so validation reports the missing fields.
func (app *NewRegistration) Decode(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewRegistration) Validate() error {
	if app.Name == "" || app.Address == "" {
		return errs.Newf(errs.InvalidArgument, msgRequired)
	}
	return nil
}

func toBusNewRegistration(app NewRegistration) registry.NewRegistration {
	return registry.NewRegistration{
		Name:    app.Name,
		Address: app.Address,
	}
}

// =============================================================================

// Result represents the outcome of a registration.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Encode implements the encoder interface.
func (app Result) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppResult(reg registry.Registration) Result {
	msg := "Address added to existing user."
	if reg.NewUser {
		msg = "New user created and address saved."
	}

	return Result{
		Success: true,
		Message: msg,
	}
}

// =============================================================================

// Address represents one registered address.
type Address struct {
	ID      int64  `json:"id"`
	Address string `json:"address"`
}

// History represents a user and the addresses registered for it.
type History struct {
	Success   bool      `json:"success"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Addresses []Address `json:"addresses"`
}

// Encode implements the encoder interface.
func (app History) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppHistory(hist registry.History) History {
	addrs := make([]Address, len(hist.Addresses))
	for i, addr := range hist.Addresses {
		addrs[i] = Address{
			ID:      addr.ID,
			Address: addr.Address,
		}
	}

	return History{
		Success:   true,
		ID:        hist.User.ID.String(),
		Name:      hist.User.Name,
		Addresses: addrs,
	}
}
