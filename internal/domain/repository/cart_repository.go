package repository

import (
	"context"

	"github.com/coursehub/user-service/internal/domain/entity"
)

// CartRepository is the durable-store gateway for the Cart aggregate.
//
// FindByUserID returns the cart header with one page of items (most recently
// added first) and the total item count; (nil, 0, nil) when the user has no
// cart. The userID on item-level operations scopes the listing-cache
// invalidation for that owner.
type CartRepository interface {
	Create(ctx context.Context, cart *entity.Cart) error
	FindByID(ctx context.Context, id string) (*entity.Cart, error)
	FindByUserID(ctx context.Context, userID string, offset, limit int) (*entity.Cart, int, error)
	Update(ctx context.Context, cart *entity.Cart) error
	Delete(ctx context.Context, cart *entity.Cart) error
	AddItem(ctx context.Context, userID string, item entity.CartItem) error
	RemoveItem(ctx context.Context, userID, cartID, courseID string) (bool, error)
	FindItem(ctx context.Context, cartID, courseID string) (*entity.CartItem, error)
}
