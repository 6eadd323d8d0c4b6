package repository

import (
	"context"

	"github.com/coursehub/user-service/internal/domain/entity"
)

// WishlistRepository mirrors CartRepository for the Wishlist aggregate.
type WishlistRepository interface {
	Create(ctx context.Context, wl *entity.Wishlist) error
	FindByID(ctx context.Context, id string) (*entity.Wishlist, error)
	FindByUserID(ctx context.Context, userID string, offset, limit int) (*entity.Wishlist, int, error)
	Update(ctx context.Context, wl *entity.Wishlist) error
	Delete(ctx context.Context, wl *entity.Wishlist) error
	AddItem(ctx context.Context, userID string, item entity.WishlistItem) error
	RemoveItem(ctx context.Context, userID, wishlistID, courseID string) (bool, error)
	FindItem(ctx context.Context, wishlistID, courseID string) (*entity.WishlistItem, error)
}
