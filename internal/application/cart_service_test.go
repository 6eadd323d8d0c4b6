package application

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T) (*CartService, *fakeCartRepo, *recordingPublisher) {
	t.Helper()
	repo := newFakeCartRepo()
	pub := &recordingPublisher{}
	logger := logrus.New()
	svc := NewCartService(repo, logger)
	svc.Events = pub
	return svc, repo, pub
}

func TestCartAddCreatesCartLazily(t *testing.T) {
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "", "user-1", "course-1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "course-1", item.CourseID)
	assert.NotEmpty(t, item.ID)
	assert.False(t, item.AddedAt.IsZero())

	cart, total, err := svc.ListByUser(ctx, "user-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, "user-1", cart.UserID)
	assert.Equal(t, 1, total)
}

func TestCartAddExistingCourseReturnsItemUnchanged(t *testing.T) {
	svc, _, pub := newCartService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, "", "user-1", "course-1")
	require.NoError(t, err)

	again, err := svc.Add(ctx, "", "user-1", "course-1")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, first.ID, again.ID, "existing membership row comes back untouched")
	assert.Equal(t, first.AddedAt, again.AddedAt)

	cart, total, err := svc.ListByUser(ctx, "user-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, cart.Items, 1, "exactly one membership row per course")
	assert.Len(t, pub.events, 1, "the no-op add publishes nothing")
}

func TestCartAddByCartID(t *testing.T) {
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "", "user-1", "course-1")
	require.NoError(t, err)

	_, err = svc.Add(ctx, item.CartID, "user-1", "course-2")
	require.NoError(t, err)

	_, err = svc.Add(ctx, item.CartID, "user-2", "course-3")
	assert.ErrorIs(t, err, ErrCartNotFound, "someone else's cart id is not found")

	_, err = svc.Add(ctx, "no-such-cart", "user-1", "course-3")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartTogglePairRestoresMembership(t *testing.T) {
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	item, err := svc.Toggle(ctx, "", "user-1", "course-1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "course-1", item.CourseID)

	item, err = svc.Toggle(ctx, "", "user-1", "course-1")
	require.NoError(t, err)
	assert.Nil(t, item, "second toggle removes the course")

	cart, total, err := svc.ListByUser(ctx, "user-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Nil(t, cart.ItemByCourse("course-1"))
}

func TestCartRemoveNonMemberIsNoOp(t *testing.T) {
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "", "user-1", "course-1")
	require.NoError(t, err)
	cartID := item.CartID

	removed, err := svc.Remove(ctx, cartID, "course-9")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = svc.Remove(ctx, cartID, "course-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Remove(ctx, cartID, "course-1")
	require.NoError(t, err)
	assert.False(t, removed, "repeat removal reports nothing removed")
}

func TestCartRemoveUnknownCart(t *testing.T) {
	svc, _, _ := newCartService(t)

	_, err := svc.Remove(context.Background(), "no-such-cart", "course-1")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartListPagination(t *testing.T) {
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	for _, course := range []string{"c1", "c2", "c3", "c4", "c5"} {
		_, err := svc.Add(ctx, "", "user-1", course)
		require.NoError(t, err)
	}

	cart, total, err := svc.ListByUser(ctx, "user-1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, cart.Items, 2)

	cart, total, err = svc.ListByUser(ctx, "user-1", 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, cart.Items, 1, "last page holds the remainder")

	_, _, err = svc.ListByUser(ctx, "user-2", 1, 10)
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestCartToggleEmitsEvents(t *testing.T) {
	svc, _, pub := newCartService(t)
	ctx := context.Background()

	_, err := svc.Toggle(ctx, "", "user-1", "course-1")
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "", "user-1", "course-1")
	require.NoError(t, err)

	require.Len(t, pub.events, 2)
	assert.Equal(t, "cart.item_added", pub.events[0]["event"])
	assert.Equal(t, "cart.item_removed", pub.events[1]["event"])
}

func TestCartClear(t *testing.T) {
	svc, _, _ := newCartService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "", "user-1", "course-1")
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "user-1"))
	_, _, err = svc.ListByUser(ctx, "user-1", 1, 10)
	assert.ErrorIs(t, err, ErrCartNotFound)

	assert.ErrorIs(t, svc.Clear(ctx, "user-1"), ErrCartNotFound)
}
