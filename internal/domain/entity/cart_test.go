package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddAndRemove(t *testing.T) {
	cart := NewCart("cart-1", "user-1")

	cart.AddItem(NewCartItem("i1", "course-1", cart.ID))
	cart.AddItem(NewCartItem("i2", "course-2", cart.ID))
	assert.Equal(t, 2, cart.Total)

	require.NotNil(t, cart.ItemByCourse("course-1"))
	assert.Nil(t, cart.ItemByCourse("course-9"))

	assert.True(t, cart.RemoveItem("course-1"))
	assert.Equal(t, 1, cart.Total)
	assert.Nil(t, cart.ItemByCourse("course-1"))

	assert.False(t, cart.RemoveItem("course-1"), "second removal is a no-op")
	assert.Equal(t, 1, cart.Total)
}

func TestWishlistMirrorsCart(t *testing.T) {
	w := NewWishlist("wl-1", "user-1")

	w.AddItem(NewWishlistItem("i1", "course-1", w.ID))
	assert.Equal(t, 1, w.Total)
	require.NotNil(t, w.ItemByCourse("course-1"))

	assert.True(t, w.RemoveItem("course-1"))
	assert.False(t, w.RemoveItem("course-1"))
	assert.Equal(t, 0, w.Total)
}
