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

var ErrWishlistNotFound = errors.New("wishlist not found")

// WishlistService mirrors CartService over the wishlist aggregate.
type WishlistService struct {
	Repo   repo.WishlistRepository
	Events Publisher
	Logger *logrus.Logger
}

func NewWishlistService(r repo.WishlistRepository, logger *logrus.Logger) *WishlistService {
	return &WishlistService{Repo: r, Logger: logger}
}

// Add puts a course on the user's wishlist and returns the item. A course
// that is already wishlisted is a no-op returning the existing item unchanged.
func (s *WishlistService) Add(ctx context.Context, wishlistID, userID, courseID string) (*entity.WishlistItem, error) {
	w, err := s.resolve(ctx, wishlistID, userID)
	if err != nil {
		return nil, err
	}
	existing, err := s.Repo.FindItem(ctx, w.ID, courseID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	item := entity.NewWishlistItem(uuid.NewString(), courseID, w.ID)
	if err := s.Repo.AddItem(ctx, userID, item); err != nil {
		return nil, err
	}
	s.event(ctx, "wishlist.item_added", userID, courseID)
	return &item, nil
}

// Toggle flips membership. The returned item is non-nil exactly when the
// course is wishlisted afterwards; calling it twice with the same arguments
// restores the original membership.
func (s *WishlistService) Toggle(ctx context.Context, wishlistID, userID, courseID string) (*entity.WishlistItem, error) {
	w, err := s.resolve(ctx, wishlistID, userID)
	if err != nil {
		return nil, err
	}
	existing, err := s.Repo.FindItem(ctx, w.ID, courseID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if _, err := s.Repo.RemoveItem(ctx, userID, w.ID, courseID); err != nil {
			return nil, err
		}
		s.event(ctx, "wishlist.item_removed", userID, courseID)
		return nil, nil
	}

	item := entity.NewWishlistItem(uuid.NewString(), courseID, w.ID)
	if err := s.Repo.AddItem(ctx, userID, item); err != nil {
		return nil, err
	}
	s.event(ctx, "wishlist.item_added", userID, courseID)
	return &item, nil
}

func (s *WishlistService) Remove(ctx context.Context, wishlistID, courseID string) (bool, error) {
	w, err := s.Repo.FindByID(ctx, wishlistID)
	if err != nil {
		return false, err
	}
	if w == nil {
		return false, ErrWishlistNotFound
	}
	removed, err := s.Repo.RemoveItem(ctx, w.UserID, w.ID, courseID)
	if err != nil {
		return false, err
	}
	if removed {
		s.event(ctx, "wishlist.item_removed", w.UserID, courseID)
	}
	return removed, nil
}

func (s *WishlistService) ListByUser(ctx context.Context, userID string, page, limit int) (*entity.Wishlist, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	w, total, err := s.Repo.FindByUserID(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, 0, err
	}
	if w == nil {
		return nil, 0, ErrWishlistNotFound
	}
	return w, total, nil
}

func (s *WishlistService) resolve(ctx context.Context, wishlistID, userID string) (*entity.Wishlist, error) {
	if wishlistID == "" {
		return s.findOrCreate(ctx, userID)
	}
	w, err := s.Repo.FindByID(ctx, wishlistID)
	if err != nil {
		return nil, err
	}
	if w == nil || w.UserID != userID {
		return nil, ErrWishlistNotFound
	}
	return w, nil
}

func (s *WishlistService) findOrCreate(ctx context.Context, userID string) (*entity.Wishlist, error) {
	w, _, err := s.Repo.FindByUserID(ctx, userID, 0, 1)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return w, nil
	}
	fresh := entity.NewWishlist(uuid.NewString(), userID)
	err = s.Repo.Create(ctx, fresh)
	if errors.Is(err, repo.ErrDuplicate) {
		w, _, err = s.Repo.FindByUserID(ctx, userID, 0, 1)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

func (s *WishlistService) event(ctx context.Context, name, userID, courseID string) {
	if s.Events == nil {
		return
	}
	evt := map[string]any{
		"event":     name,
		"user_id":   userID,
		"course_id": courseID,
		"at":        time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.Events.PublishJSON(ctx, evt); err != nil {
		s.Logger.WithError(err).WithField("event", name).Warn("publish event failed")
	}
}
