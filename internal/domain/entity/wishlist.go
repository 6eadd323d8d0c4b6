package entity

import (
	"time"
)

// Wishlist mirrors Cart: one per user, a set of course items.
type Wishlist struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Items     []WishlistItem `json:"items"`
	Total     int            `json:"total"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type WishlistItem struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"course_id"`
	WishlistID string    `json:"wishlist_id"`
	AddedAt    time.Time `json:"added_at"`
}

func NewWishlist(id, userID string) *Wishlist {
	now := time.Now().UTC()
	return &Wishlist{ID: id, UserID: userID, Items: []WishlistItem{}, CreatedAt: now, UpdatedAt: now}
}

func NewWishlistItem(id, courseID, wishlistID string) WishlistItem {
	return WishlistItem{ID: id, CourseID: courseID, WishlistID: wishlistID, AddedAt: time.Now().UTC()}
}

func (w *Wishlist) ItemByCourse(courseID string) *WishlistItem {
	for i := range w.Items {
		if w.Items[i].CourseID == courseID {
			return &w.Items[i]
		}
	}
	return nil
}

func (w *Wishlist) AddItem(item WishlistItem) {
	w.Items = append(w.Items, item)
	w.Total = len(w.Items)
	w.UpdatedAt = time.Now().UTC()
}

func (w *Wishlist) RemoveItem(courseID string) bool {
	for i := range w.Items {
		if w.Items[i].CourseID == courseID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			w.Total = len(w.Items)
			w.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}
