// Package registry provides support for registering addresses against
// named users.
package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/signup/register/foundation/logger"
	"github.com/google/uuid"
)

// Set of error variables.
var (
	ErrNotFound      = errors.New("user not found")
	ErrDuplicate     = errors.New("user name already exists")
	ErrMissingFields = errors.New("name and address are required")
)

// maxAttempts bounds how many times a registration that lost the race to
// create a user is re-run.
const maxAttempts = 2

// Storer defines the set of behavior for persisting registrations.
type Storer interface {
	ExecUnderTx(ctx context.Context, fn func(s Storer) error) error
	QueryUserByName(ctx context.Context, name string) (User, error)
	QueryAddressesByUserID(ctx context.Context, userID uuid.UUID) ([]Address, error)
	CreateUser(ctx context.Context, usr User) error
	CreateAddress(ctx context.Context, addr Address) (Address, error)
}

// Notifier defines behavior for anything that wants to know about committed
// registrations.
type Notifier interface {
	Notify(ctx context.Context, reg Registration)
}

// Registry manages the registration of addresses.
type Registry struct {
	log       *logger.Logger
	storer    Storer
	notifiers []Notifier
}

// New constructs a registry for api use.
func New(log *logger.Logger, storer Storer, notifiers ...Notifier) *Registry {
	return &Registry{
		log:       log,
		storer:    storer,
		notifiers: notifiers,
	}
}

// Register looks up the user by name, creating it when it doesn't exist, and
// appends the address to that user's history.
func (r *Registry) Register(ctx context.Context, nr NewRegistration) (Registration, error) {
	if nr.Name == "" || nr.Address == "" {
		return Registration{}, ErrMissingFields
	}

	var reg Registration
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		reg, err = r.register(ctx, nr)
		if !errors.Is(err, ErrDuplicate) {
			break
		}

		r.log.Info(ctx, "registry-register", "status", "name created concurrently", "name", nr.Name, "attempt", attempt)
	}

	if err != nil {
		return Registration{}, err
	}

	r.log.Info(ctx, "registry-register", "status", "complete", "userID", reg.User.ID, "addressID", reg.Address.ID, "newUser", reg.NewUser)

	for _, n := range r.notifiers {
		n.Notify(ctx, reg)
	}

	return reg, nil
}

// QueryByName returns the user with the given name and its address history.
func (r *Registry) QueryByName(ctx context.Context, name string) (History, error) {
	usr, err := r.storer.QueryUserByName(ctx, name)
	if err != nil {
		return History{}, fmt.Errorf("query user: name[%s]: %w", name, err)
	}

	addrs, err := r.storer.QueryAddressesByUserID(ctx, usr.ID)
	if err != nil {
		return History{}, fmt.Errorf("query addresses: userID[%s]: %w", usr.ID, err)
	}

	return History{
		User:      usr,
		Addresses: addrs,
	}, nil
}

// =============================================================================

func (r *Registry) register(ctx context.Context, nr NewRegistration) (Registration, error) {
	var reg Registration

	f := func(s Storer) error {
		usr, err := s.QueryUserByName(ctx, nr.Name)
		switch {
		case errors.Is(err, ErrNotFound):
			usr = User{
				ID:   uuid.New(),
				Name: nr.Name,
			}

			if err := s.CreateUser(ctx, usr); err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			reg.NewUser = true

		case err != nil:
			return fmt.Errorf("query user: %w", err)
		}

		addr, err := s.CreateAddress(ctx, Address{
			UserID:  usr.ID,
			Address: nr.Address,
		})
		if err != nil {
			return fmt.Errorf("create address: %w", err)
		}

		reg.User = usr
		reg.Address = addr

		return nil
	}

	if err := r.storer.ExecUnderTx(ctx, f); err != nil {
		return Registration{}, err
	}

	reg.DateCreated = time.Now().UTC()

	return reg, nil
}
