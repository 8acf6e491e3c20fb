package adapters

import (
	"context"

	accountModels "finhabit/internal/account/models"
	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
)

// AccountStore is the interface account stores implement.
type AccountStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*accountModels.User, error)
}

// OwnerDirectory adapts an account store to the mission service's owner lookup.
type OwnerDirectory struct {
	store AccountStore
}

// NewOwnerDirectory wraps an account store.
func NewOwnerDirectory(store AccountStore) *OwnerDirectory {
	return &OwnerDirectory{store: store}
}

// Lookup returns the owner's level. Store errors, including ErrNotFound, pass
// through unchanged.
func (d *OwnerDirectory) Lookup(ctx context.Context, ownerID id.UserID) (*models.Owner, error) {
	user, err := d.store.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &models.Owner{ID: user.ID, Level: user.Level}, nil
}
