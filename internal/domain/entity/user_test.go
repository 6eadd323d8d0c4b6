package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserDefaults(t *testing.T) {
	u := NewUser("id-1", "a@b.dev", "Ada", "Lovelace")

	assert.Equal(t, RoleStudent, u.Role)
	assert.Equal(t, StatusNotVerified, u.Status)
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)
	assert.Nil(t, u.LastLoginAt)
}

func TestMutationsAdvanceUpdatedAt(t *testing.T) {
	u := NewUser("id-1", "a@b.dev", "Ada", "Lovelace")
	before := u.UpdatedAt

	time.Sleep(time.Millisecond)
	u.UpdateBasicData("Grace", "", "")

	assert.Equal(t, "Grace", u.FirstName)
	assert.Equal(t, "Lovelace", u.LastName, "empty input keeps prior value")
	assert.True(t, u.UpdatedAt.After(before))
}

func TestUpdateLastLoginDoesNotTouchUpdatedAt(t *testing.T) {
	u := NewUser("id-1", "a@b.dev", "Ada", "Lovelace")
	before := u.UpdatedAt

	u.UpdateLastLogin(time.Now().UTC())

	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, before, u.UpdatedAt)
}

func TestPromoteToInstructorIdempotent(t *testing.T) {
	u := NewUser("id-1", "a@b.dev", "Ada", "Lovelace")
	first := &InstructorProfile{ID: "p1", UserID: u.ID, Headline: "one"}
	second := &InstructorProfile{ID: "p2", UserID: u.ID, Headline: "two"}

	u.PromoteToInstructor(first)
	u.PromoteToInstructor(second)

	assert.Equal(t, RoleInstructor, u.Role)
	assert.Equal(t, "p1", u.InstructorProfile.ID, "second promotion is a no-op")
}

func TestUpdateProfileRequiresProfile(t *testing.T) {
	u := NewUser("id-1", "a@b.dev", "Ada", "Lovelace")
	before := u.UpdatedAt

	u.UpdateProfile(ProfileUpdate{Bio: "hello"})
	assert.Nil(t, u.Profile)
	assert.Equal(t, before, u.UpdatedAt)

	u.AddProfile(&Profile{ID: "p1", UserID: u.ID})
	u.UpdateProfile(ProfileUpdate{Bio: "hello", Country: "NL"})
	assert.Equal(t, "hello", u.Profile.Bio)
	assert.Equal(t, "NL", u.Profile.Country)
}
