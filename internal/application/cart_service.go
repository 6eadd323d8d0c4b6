package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/coursehub/user-service/internal/domain/entity"
	repo "github.com/coursehub/user-service/internal/domain/repository"
)

var ErrCartNotFound = errors.New("cart not found")

// CartService owns the cart use cases. A user's cart is created lazily on the
// first item operation; the one-cart-per-user rule is enforced by storage, so
// a lost creation race just re-reads the winner's cart.
type CartService struct {
	Repo   repo.CartRepository
	Events Publisher
	Logger *logrus.Logger
}

func NewCartService(r repo.CartRepository, logger *logrus.Logger) *CartService {
	return &CartService{Repo: r, Logger: logger}
}

// Add puts a course in the user's cart and returns the item. Adding a course
// that is already a member is a no-op returning the existing item unchanged.
func (s *CartService) Add(ctx context.Context, cartID, userID, courseID string) (*entity.CartItem, error) {
	cart, err := s.resolve(ctx, cartID, userID)
	if err != nil {
		return nil, err
	}
	existing, err := s.Repo.FindItem(ctx, cart.ID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	item := entity.NewCartItem(uuid.NewString(), courseID, cart.ID)
	if err := s.Repo.AddItem(ctx, userID, item); err != nil {
		return nil, err
	}
	s.event(ctx, "cart.item_added", userID, courseID)
	return &item, nil
}

// Toggle flips membership: absent courses are added, present ones removed.
// The returned item is non-nil exactly when the course is in the cart
// afterwards.
func (s *CartService) Toggle(ctx context.Context, cartID, userID, courseID string) (*entity.CartItem, error) {
	cart, err := s.resolve(ctx, cartID, userID)
	if err != nil {
		return nil, err
	}
	existing, err := s.Repo.FindItem(ctx, cart.ID, courseID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if _, err := s.Repo.RemoveItem(ctx, userID, cart.ID, courseID); err != nil {
			return nil, err
		}
		s.event(ctx, "cart.item_removed", userID, courseID)
		return nil, nil
	}

	item := entity.NewCartItem(uuid.NewString(), courseID, cart.ID)
	if err := s.Repo.AddItem(ctx, userID, item); err != nil {
		return nil, err
	}
	s.event(ctx, "cart.item_added", userID, courseID)
	return &item, nil
}

// Remove deletes a course from the cart and reports whether anything was
// actually removed; removing a non-member course is a no-op with removed=false.
func (s *CartService) Remove(ctx context.Context, cartID, courseID string) (bool, error) {
	cart, err := s.Repo.FindByID(ctx, cartID)
	if err != nil {
		return false, err
	}
	if cart == nil {
		return false, ErrCartNotFound
	}
	removed, err := s.Repo.RemoveItem(ctx, cart.UserID, cart.ID, courseID)
	if err != nil {
		return false, err
	}
	if removed {
		s.event(ctx, "cart.item_removed", cart.UserID, courseID)
	}
	return removed, nil
}

// ListByUser returns one page of the user's cart plus the total item count.
// Page numbering starts at 1.
func (s *CartService) ListByUser(ctx context.Context, userID string, page, limit int) (*entity.Cart, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	cart, total, err := s.Repo.FindByUserID(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	if cart == nil {
		return nil, 0, ErrCartNotFound
	}
	return cart, total, nil
}

// Clear empties and deletes the user's cart, typically after checkout.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	cart, _, err := s.Repo.FindByUserID(ctx, userID, 0, 1)
	if err != nil {
		return err
	}
	if cart == nil {
		return ErrCartNotFound
	}
	if err := s.Repo.Delete(ctx, cart); err != nil {
		return err
	}
	s.event(ctx, "cart.cleared", userID, "")
	return nil
}

// resolve looks the cart up by id when given one, otherwise by owner with
// lazy creation. A cart id pointing at another user's cart is treated as
// not found.
func (s *CartService) resolve(ctx context.Context, cartID, userID string) (*entity.Cart, error) {
	if cartID == "" {
		return s.findOrCreate(ctx, userID)
	}
	cart, err := s.Repo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.UserID != userID {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

func (s *CartService) findOrCreate(ctx context.Context, userID string) (*entity.Cart, error) {
	cart, _, err := s.Repo.FindByUserID(ctx, userID, 0, 1)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}
	fresh := entity.NewCart(uuid.NewString(), userID)
	err = s.Repo.Create(ctx, fresh)
	if errors.Is(err, repo.ErrDuplicate) {
		// Lost the creation race; the winner's cart is authoritative.
		cart, _, err = s.Repo.FindByUserID(ctx, userID, 0, 1)
		if err != nil {
			return nil, err
		}
		return cart, nil
	}
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

func (s *CartService) event(ctx context.Context, name, userID, courseID string) {
	if s.Events == nil {
		return
	}
	evt := map[string]any{
		"event":   name,
		"user_id": userID,
		"at":      time.Now().UTC().Format(time.RFC3339Nano),
	}
	if courseID != "" {
		evt["course_id"] = courseID
	}
	if err := s.Events.PublishJSON(ctx, evt); err != nil {
		s.Logger.WithError(err).WithField("event", name).Warn("publish event failed")
	}
}
