package application

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWishlistService(t *testing.T) *WishlistService {
	t.Helper()
	svc := NewWishlistService(newFakeWishlistRepo(), logrus.New())
	svc.Events = &recordingPublisher{}
	return svc
}

func TestWishlistToggleIsInvolution(t *testing.T) {
	svc := newWishlistService(t)
	ctx := context.Background()

	item, err := svc.Toggle(ctx, "", "user-1", "course-1")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "course-1", item.CourseID)

	item, err = svc.Toggle(ctx, "", "user-1", "course-1")
	require.NoError(t, err)
	assert.Nil(t, item)

	item, err = svc.Toggle(ctx, "", "user-1", "course-1")
	require.NoError(t, err)
	assert.NotNil(t, item, "third toggle adds again")

	w, total, err := svc.ListByUser(ctx, "user-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NotNil(t, w.ItemByCourse("course-1"))
}

func TestWishlistAddExistingCourseIsNoOp(t *testing.T) {
	svc := newWishlistService(t)
	ctx := context.Background()

	first, err := svc.Add(ctx, "", "user-1", "course-1")
	require.NoError(t, err)

	again, err := svc.Add(ctx, "", "user-1", "course-1")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.AddedAt, again.AddedAt)

	_, total, err := svc.ListByUser(ctx, "user-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestWishlistRemoveReportsOutcome(t *testing.T) {
	svc := newWishlistService(t)
	ctx := context.Background()

	item, err := svc.Add(ctx, "", "user-1", "course-1")
	require.NoError(t, err)

	removed, err := svc.Remove(ctx, item.WishlistID, "course-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.Remove(ctx, item.WishlistID, "course-1")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = svc.Remove(ctx, "missing", "course-1")
	assert.ErrorIs(t, err, ErrWishlistNotFound)
}
