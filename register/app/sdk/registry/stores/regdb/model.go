package regdb

import (
	"fmt"

	"github.com/ardanlabs/signup/register/app/sdk/registry"
	"github.com/google/uuid"
)

type user struct {
	ID   string `gorm:"primaryKey;column:id"`
	Name string `gorm:"column:name"`
}

func (user) TableName() string {
	return "users"
}

type address struct {
	ID      int64  `gorm:"primaryKey;column:id"`
	UserID  string `gorm:"column:user_id"`
	Address string `gorm:"column:address"`
}

func (address) TableName() string {
	return "addresses"
}

func toDBUser(usr registry.User) *user {
	return &user{
		ID:   usr.ID.String(),
		Name: usr.Name,
	}
}

func toUser(dbUsr user) (registry.User, error) {
	id, err := uuid.Parse(dbUsr.ID)
	if err != nil {
		return registry.User{}, fmt.Errorf("parse id[%s]: %w", dbUsr.ID, err)
	}

	return registry.User{
		ID:   id,
		Name: dbUsr.Name,
	}, nil
}

func toDBAddress(addr registry.Address) address {
	return address{
		ID:      addr.ID,
		UserID:  addr.UserID.String(),
		Address: addr.Address,
	}
}

func toAddresses(dbAddrs []address) ([]registry.Address, error) {
	addrs := make([]registry.Address, len(dbAddrs))
	for i, dbAddr := range dbAddrs {
		userID, err := uuid.Parse(dbAddr.UserID)
		if err != nil {
			return nil, fmt.Errorf("parse user id[%s]: %w", dbAddr.UserID, err)
		}

		addrs[i] = registry.Address{
			ID:      dbAddr.ID,
			UserID:  userID,
			Address: dbAddr.Address,
		}
	}

	return addrs, nil
}
