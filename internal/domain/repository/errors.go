package repository

import "errors"

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint (users.email, one cart/wishlist per user).
var ErrDuplicate = errors.New("duplicate key")
