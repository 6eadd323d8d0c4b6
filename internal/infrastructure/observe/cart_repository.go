package observe

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coursehub/user-service/internal/domain/entity"
	"github.com/coursehub/user-service/internal/domain/repository"
)

type cartRepository struct {
	next   repository.CartRepository
	logger *logrus.Logger
}

// CartRepository decorates next with call counters and duration logs.
func CartRepository(next repository.CartRepository, logger *logrus.Logger) repository.CartRepository {
	return &cartRepository{next: next, logger: logger}
}

func (r *cartRepository) Create(ctx context.Context, cart *entity.Cart) (err error) {
	defer func(start time.Time) { track(r.logger, "cart.create", start, err) }(time.Now())
	return r.next.Create(ctx, cart)
}

func (r *cartRepository) FindByID(ctx context.Context, id string) (cart *entity.Cart, err error) {
	defer func(start time.Time) { track(r.logger, "cart.find_by_id", start, err) }(time.Now())
	return r.next.FindByID(ctx, id)
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID string, offset, limit int) (cart *entity.Cart, total int, err error) {
	defer func(start time.Time) { track(r.logger, "cart.find_by_user", start, err) }(time.Now())
	return r.next.FindByUserID(ctx, userID, offset, limit)
}

func (r *cartRepository) Update(ctx context.Context, cart *entity.Cart) (err error) {
	defer func(start time.Time) { track(r.logger, "cart.update", start, err) }(time.Now())
	return r.next.Update(ctx, cart)
}

func (r *cartRepository) Delete(ctx context.Context, cart *entity.Cart) (err error) {
	defer func(start time.Time) { track(r.logger, "cart.delete", start, err) }(time.Now())
	return r.next.Delete(ctx, cart)
}

func (r *cartRepository) AddItem(ctx context.Context, userID string, item entity.CartItem) (err error) {
	defer func(start time.Time) { track(r.logger, "cart.add_item", start, err) }(time.Now())
	return r.next.AddItem(ctx, userID, item)
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID, cartID, courseID string) (removed bool, err error) {
	defer func(start time.Time) { track(r.logger, "cart.remove_item", start, err) }(time.Now())
	return r.next.RemoveItem(ctx, userID, cartID, courseID)
}

func (r *cartRepository) FindItem(ctx context.Context, cartID, courseID string) (item *entity.CartItem, err error) {
	defer func(start time.Time) { track(r.logger, "cart.find_item", start, err) }(time.Now())
	return r.next.FindItem(ctx, cartID, courseID)
}
