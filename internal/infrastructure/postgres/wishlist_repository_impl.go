package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/coursehub/user-service/internal/domain/entity"
	"github.com/coursehub/user-service/internal/domain/repository"
	"github.com/coursehub/user-service/internal/infrastructure/cache"
)

type wishlistPage struct {
	Wishlist   *entity.Wishlist `json:"wishlist"`
	TotalItems int              `json:"total_items"`
}

// WishlistRepository mirrors CartRepository over the wishlist tables: same
// read-through caching, same owner-scoped invalidation on writes.
type WishlistRepository struct {
	pool   *pgxpool.Pool
	cache  cache.Cache
	logger *logrus.Logger
}

func NewWishlistRepository(pool *pgxpool.Pool, c cache.Cache, logger *logrus.Logger) *WishlistRepository {
	return &WishlistRepository{pool: pool, cache: c, logger: logger}
}

func (r *WishlistRepository) Create(ctx context.Context, w *entity.Wishlist) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wishlists (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, w.ID, w.UserID, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert wishlist for user %s: %w", w.UserID, repository.ErrDuplicate)
		}
		return fmt.Errorf("insert wishlist: %w", err)
	}
	for _, item := range w.Items {
		if err := r.insertItem(ctx, item); err != nil {
			return err
		}
	}
	return r.invalidate(ctx, w.ID, w.UserID)
}

func (r *WishlistRepository) FindByID(ctx context.Context, id string) (*entity.Wishlist, error) {
	var cached entity.Wishlist
	hit, err := r.cache.Get(ctx, cache.WishlistKey(id), &cached)
	if err != nil {
		r.logger.WithError(err).WithField("wishlist_id", id).Warn("cache get failed")
	}
	if hit {
		return &cached, nil
	}

	w, err := r.findHeader(ctx, "id = $1", id)
	if err != nil || w == nil {
		return nil, err
	}
	items, err := r.findItems(ctx, `
		SELECT id, course_id, wishlist_id, added_at FROM wishlist_items
		WHERE wishlist_id = $1 ORDER BY added_at DESC
	`, w.ID)
	if err != nil {
		return nil, err
	}
	w.Items = items
	w.Total = len(items)

	if err := r.cache.Set(ctx, cache.WishlistKey(id), w, cache.PointTTL); err != nil {
		r.logger.WithError(err).WithField("wishlist_id", id).Warn("cache set failed")
	}
	return w, nil
}

func (r *WishlistRepository) FindByUserID(ctx context.Context, userID string, offset, limit int) (*entity.Wishlist, int, error) {
	key := cache.WishlistPageKey(userID, limit, offset)
	var cached wishlistPage
	hit, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("cache get failed")
	}
	if hit {
		return cached.Wishlist, cached.TotalItems, nil
	}

	w, err := r.findHeader(ctx, "user_id = $1", userID)
	if err != nil || w == nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM wishlist_items WHERE wishlist_id = $1`, w.ID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count wishlist items: %w", err)
	}
	items, err := r.findItems(ctx, `
		SELECT id, course_id, wishlist_id, added_at FROM wishlist_items
		WHERE wishlist_id = $1 ORDER BY added_at DESC OFFSET $2 LIMIT $3
	`, w.ID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	w.Items = items
	w.Total = total

	if err := r.cache.Set(ctx, key, wishlistPage{Wishlist: w, TotalItems: total}, cache.ListTTL); err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("cache set failed")
	}
	return w, total, nil
}

func (r *WishlistRepository) Update(ctx context.Context, w *entity.Wishlist) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE wishlists SET updated_at = $1 WHERE id = $2
	`, w.UpdatedAt, w.ID)
	if err != nil {
		return fmt.Errorf("update wishlist: %w", err)
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE wishlist_id = $1`, w.ID); err != nil {
		return fmt.Errorf("clear wishlist items: %w", err)
	}
	for _, item := range w.Items {
		if err := r.insertItem(ctx, item); err != nil {
			return err
		}
	}
	return r.invalidate(ctx, w.ID, w.UserID)
}

func (r *WishlistRepository) Delete(ctx context.Context, w *entity.Wishlist) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE wishlist_id = $1`, w.ID); err != nil {
		return fmt.Errorf("delete wishlist items: %w", err)
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM wishlists WHERE id = $1`, w.ID); err != nil {
		return fmt.Errorf("delete wishlist: %w", err)
	}
	return r.invalidate(ctx, w.ID, w.UserID)
}

func (r *WishlistRepository) AddItem(ctx context.Context, userID string, item entity.WishlistItem) error {
	if err := r.insertItem(ctx, item); err != nil {
		return err
	}
	return r.invalidate(ctx, item.WishlistID, userID)
}

func (r *WishlistRepository) RemoveItem(ctx context.Context, userID, wishlistID, courseID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM wishlist_items WHERE wishlist_id = $1 AND course_id = $2
	`, wishlistID, courseID)
	if err != nil {
		return false, fmt.Errorf("delete wishlist item: %w", err)
	}
	if err := r.invalidate(ctx, wishlistID, userID); err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *WishlistRepository) FindItem(ctx context.Context, wishlistID, courseID string) (*entity.WishlistItem, error) {
	item := &entity.WishlistItem{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, course_id, wishlist_id, added_at FROM wishlist_items
		WHERE wishlist_id = $1 AND course_id = $2
	`, wishlistID, courseID).Scan(&item.ID, &item.CourseID, &item.WishlistID, &item.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select wishlist item: %w", err)
	}
	return item, nil
}

func (r *WishlistRepository) findHeader(ctx context.Context, where string, arg any) (*entity.Wishlist, error) {
	w := &entity.Wishlist{}
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, created_at, updated_at FROM wishlists WHERE `+where, arg).
		Scan(&w.ID, &w.UserID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select wishlist: %w", err)
	}
	return w, nil
}

func (r *WishlistRepository) findItems(ctx context.Context, query string, args ...any) ([]entity.WishlistItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select wishlist items: %w", err)
	}
	defer rows.Close()

	items := []entity.WishlistItem{}
	for rows.Next() {
		var item entity.WishlistItem
		if err := rows.Scan(&item.ID, &item.CourseID, &item.WishlistID, &item.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *WishlistRepository) insertItem(ctx context.Context, item entity.WishlistItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wishlist_items (id, course_id, wishlist_id, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (wishlist_id, course_id) DO NOTHING
	`, item.ID, item.CourseID, item.WishlistID, item.AddedAt)
	if err != nil {
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	return nil
}

func (r *WishlistRepository) invalidate(ctx context.Context, wishlistID, userID string) error {
	if err := r.cache.Delete(ctx, cache.WishlistKey(wishlistID)); err != nil {
		return fmt.Errorf("invalidate wishlist %s: %w", wishlistID, err)
	}
	if err := r.cache.DeletePattern(ctx, cache.WishlistPagePattern(userID)); err != nil {
		return fmt.Errorf("invalidate wishlist listings for user %s: %w", userID, err)
	}
	return nil
}

var _ repository.WishlistRepository = (*WishlistRepository)(nil)
