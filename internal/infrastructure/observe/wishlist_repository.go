package observe

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coursehub/user-service/internal/domain/entity"
	"github.com/coursehub/user-service/internal/domain/repository"
)

type wishlistRepository struct {
	next   repository.WishlistRepository
	logger *logrus.Logger
}

// WishlistRepository decorates next with call counters and duration logs.
func WishlistRepository(next repository.WishlistRepository, logger *logrus.Logger) repository.WishlistRepository {
	return &wishlistRepository{next: next, logger: logger}
}

func (r *wishlistRepository) Create(ctx context.Context, w *entity.Wishlist) (err error) {
	defer func(start time.Time) { track(r.logger, "wishlist.create", start, err) }(time.Now())
	return r.next.Create(ctx, w)
}

func (r *wishlistRepository) FindByID(ctx context.Context, id string) (w *entity.Wishlist, err error) {
	defer func(start time.Time) { track(r.logger, "wishlist.find_by_id", start, err) }(time.Now())
	return r.next.FindByID(ctx, id)
}

func (r *wishlistRepository) FindByUserID(ctx context.Context, userID string, offset, limit int) (w *entity.Wishlist, total int, err error) {
	defer func(start time.Time) { track(r.logger, "wishlist.find_by_user", start, err) }(time.Now())
	return r.next.FindByUserID(ctx, userID, offset, limit)
}

func (r *wishlistRepository) Update(ctx context.Context, w *entity.Wishlist) (err error) {
	defer func(start time.Time) { track(r.logger, "wishlist.update", start, err) }(time.Now())
	return r.next.Update(ctx, w)
}

func (r *wishlistRepository) Delete(ctx context.Context, w *entity.Wishlist) (err error) {
	defer func(start time.Time) { track(r.logger, "wishlist.delete", start, err) }(time.Now())
	return r.next.Delete(ctx, w)
}

func (r *wishlistRepository) AddItem(ctx context.Context, userID string, item entity.WishlistItem) (err error) {
	defer func(start time.Time) { track(r.logger, "wishlist.add_item", start, err) }(time.Now())
	return r.next.AddItem(ctx, userID, item)
}

func (r *wishlistRepository) RemoveItem(ctx context.Context, userID, wishlistID, courseID string) (removed bool, err error) {
	defer func(start time.Time) { track(r.logger, "wishlist.remove_item", start, err) }(time.Now())
	return r.next.RemoveItem(ctx, userID, wishlistID, courseID)
}

func (r *wishlistRepository) FindItem(ctx context.Context, wishlistID, courseID string) (item *entity.WishlistItem, err error) {
	defer func(start time.Time) { track(r.logger, "wishlist.find_item", start, err) }(time.Now())
	return r.next.FindItem(ctx, wishlistID, courseID)
}
