package entity

import (
	"time"
)

// Cart holds the course items a user intends to purchase. Exactly one cart
// exists per user; the uniqueness lives in storage, not in the type.
type Cart struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	Total     int        `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID       string    `json:"id"`
	CourseID string    `json:"course_id"`
	CartID   string    `json:"cart_id"`
	AddedAt  time.Time `json:"added_at"`
}

func NewCart(id, userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{ID: id, UserID: userID, Items: []CartItem{}, CreatedAt: now, UpdatedAt: now}
}

func NewCartItem(id, courseID, cartID string) CartItem {
	return CartItem{ID: id, CourseID: courseID, CartID: cartID, AddedAt: time.Now().UTC()}
}

// ItemByCourse returns the item holding courseID, or nil. Membership is a set:
// at most one item per course, enforced by the callers and the storage layer.
func (c *Cart) ItemByCourse(courseID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].CourseID == courseID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem appends without checking membership; callers check first.
func (c *Cart) AddItem(item CartItem) {
	c.Items = append(c.Items, item)
	c.Total = len(c.Items)
	c.UpdatedAt = time.Now().UTC()
}

// RemoveItem drops the item for courseID and reports whether it was present.
func (c *Cart) RemoveItem(courseID string) bool {
	for i := range c.Items {
		if c.Items[i].CourseID == courseID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.Total = len(c.Items)
			c.UpdatedAt = time.Now().UTC()
			return true
		}
	}
	return false
}
