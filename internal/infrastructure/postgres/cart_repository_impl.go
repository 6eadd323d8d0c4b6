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

// cartPage is the cached shape of an owner-scoped listing: one page of the
// cart plus the item count the page was cut from.
type cartPage struct {
	Cart       *entity.Cart `json:"cart"`
	TotalItems int          `json:"total_items"`
}

// CartRepository persists the Cart aggregate. Point reads and the per-owner
// paginated listing are read-through cached; every write invalidates the point
// key and the owner's whole listing namespace.
type CartRepository struct {
	pool   *pgxpool.Pool
	cache  cache.Cache
	logger *logrus.Logger
}

func NewCartRepository(pool *pgxpool.Pool, c cache.Cache, logger *logrus.Logger) *CartRepository {
	return &CartRepository{pool: pool, cache: c, logger: logger}
}

func (r *CartRepository) Create(ctx context.Context, cart *entity.Cart) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO carts (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert cart for user %s: %w", cart.UserID, repository.ErrDuplicate)
		}
		return fmt.Errorf("insert cart: %w", err)
	}
	for _, item := range cart.Items {
		if err := r.insertItem(ctx, item); err != nil {
			return err
		}
	}
	return r.invalidate(ctx, cart.ID, cart.UserID)
}

func (r *CartRepository) FindByID(ctx context.Context, id string) (*entity.Cart, error) {
	var cached entity.Cart
	hit, err := r.cache.Get(ctx, cache.CartKey(id), &cached)
	if err != nil {
		r.logger.WithError(err).WithField("cart_id", id).Warn("cache get failed")
	}
	if hit {
		return &cached, nil
	}

	cart, err := r.findHeader(ctx, "id = $1", id)
	if err != nil || cart == nil {
		return nil, err
	}
	items, err := r.findItems(ctx, `
		SELECT id, course_id, cart_id, added_at FROM cart_items
		WHERE cart_id = $1 ORDER BY added_at DESC
	`, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	cart.Total = len(items)

	if err := r.cache.Set(ctx, cache.CartKey(id), cart, cache.PointTTL); err != nil {
		r.logger.WithError(err).WithField("cart_id", id).Warn("cache set failed")
	}
	return cart, nil
}

func (r *CartRepository) FindByUserID(ctx context.Context, userID string, offset, limit int) (*entity.Cart, int, error) {
	key := cache.CartPageKey(userID, limit, offset)
	var cached cartPage
	hit, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("cache get failed")
	}
	if hit {
		return cached.Cart, cached.TotalItems, nil
	}

	cart, err := r.findHeader(ctx, "user_id = $1", userID)
	if err != nil || cart == nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items WHERE cart_id = $1`, cart.ID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count cart items: %w", err)
	}
	items, err := r.findItems(ctx, `
		SELECT id, course_id, cart_id, added_at FROM cart_items
		WHERE cart_id = $1 ORDER BY added_at DESC OFFSET $2 LIMIT $3
	`, cart.ID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	cart.Items = items
	cart.Total = total

	if err := r.cache.Set(ctx, key, cartPage{Cart: cart, TotalItems: total}, cache.ListTTL); err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("cache set failed")
	}
	return cart, total, nil
}

// Update rewrites the header and the full item set. Item-level churn should go
// through AddItem and RemoveItem instead.
func (r *CartRepository) Update(ctx context.Context, cart *entity.Cart) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE carts SET updated_at = $1 WHERE id = $2
	`, cart.UpdatedAt, cart.ID)
	if err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	for _, item := range cart.Items {
		if err := r.insertItem(ctx, item); err != nil {
			return err
		}
	}
	return r.invalidate(ctx, cart.ID, cart.UserID)
}

func (r *CartRepository) Delete(ctx context.Context, cart *entity.Cart) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}
	if _, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cart.ID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return r.invalidate(ctx, cart.ID, cart.UserID)
}

// AddItem inserts a single membership row. ON CONFLICT DO NOTHING closes the
// race between two concurrent adds of the same course; the second insert is
// absorbed instead of failing.
func (r *CartRepository) AddItem(ctx context.Context, userID string, item entity.CartItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_items (id, course_id, cart_id, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, course_id) DO NOTHING
	`, item.ID, item.CourseID, item.CartID, item.AddedAt)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return r.invalidate(ctx, item.CartID, userID)
}

// RemoveItem reports whether a row was actually deleted, so callers can tell a
// real removal from a no-op on a non-member course.
func (r *CartRepository) RemoveItem(ctx context.Context, userID, cartID, courseID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM cart_items WHERE cart_id = $1 AND course_id = $2
	`, cartID, courseID)
	if err != nil {
		return false, fmt.Errorf("delete cart item: %w", err)
	}
	if err := r.invalidate(ctx, cartID, userID); err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CartRepository) FindItem(ctx context.Context, cartID, courseID string) (*entity.CartItem, error) {
	item := &entity.CartItem{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, course_id, cart_id, added_at FROM cart_items
		WHERE cart_id = $1 AND course_id = $2
	`, cartID, courseID).Scan(&item.ID, &item.CourseID, &item.CartID, &item.AddedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart item: %w", err)
	}
	return item, nil
}

func (r *CartRepository) findHeader(ctx context.Context, where string, arg any) (*entity.Cart, error) {
	cart := &entity.Cart{}
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, created_at, updated_at FROM carts WHERE `+where, arg).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}
	return cart, nil
}

func (r *CartRepository) findItems(ctx context.Context, query string, args ...any) ([]entity.CartItem, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	items := []entity.CartItem{}
	for rows.Next() {
		var item entity.CartItem
		if err := rows.Scan(&item.ID, &item.CourseID, &item.CartID, &item.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *CartRepository) insertItem(ctx context.Context, item entity.CartItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_items (id, course_id, cart_id, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, course_id) DO NOTHING
	`, item.ID, item.CourseID, item.CartID, item.AddedAt)
	if err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// invalidate drops the point key and the owner's listing namespace. Unlike
// cache population, a failed invalidation propagates; leaving stale entries
// behind a successful write is worse than failing the write.
func (r *CartRepository) invalidate(ctx context.Context, cartID, userID string) error {
	if err := r.cache.Delete(ctx, cache.CartKey(cartID)); err != nil {
		return fmt.Errorf("invalidate cart %s: %w", cartID, err)
	}
	if err := r.cache.DeletePattern(ctx, cache.CartPagePattern(userID)); err != nil {
		return fmt.Errorf("invalidate cart listings for user %s: %w", userID, err)
	}
	return nil
}

var _ repository.CartRepository = (*CartRepository)(nil)
