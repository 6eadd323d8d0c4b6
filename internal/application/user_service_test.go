package application

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/user-service/internal/domain/entity"
	"github.com/coursehub/user-service/pkg/mailer"
)

type recordingEmailPublisher struct {
	jobs []mailer.EmailJob
}

func (p *recordingEmailPublisher) PublishJSON(_ context.Context, body any) error {
	if job, ok := body.(mailer.EmailJob); ok {
		p.jobs = append(p.jobs, job)
	}
	return nil
}

func newUserService(t *testing.T) (*UserService, *recordingEmailPublisher) {
	t.Helper()
	email := &recordingEmailPublisher{}
	svc := NewUserService(newFakeUserRepo(), logrus.New())
	svc.Email = email
	svc.Events = &recordingPublisher{}
	svc.VerifyURL = "http://localhost/verify-email"
	return svc, email
}

func TestRegisterNormalizesEmailAndQueuesVerification(t *testing.T) {
	svc, email := newUserService(t)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email:     "  Ada@Example.COM ",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, entity.RoleStudent, u.Role)
	assert.Equal(t, entity.StatusNotVerified, u.Status)

	require.Len(t, email.jobs, 1)
	assert.Equal(t, "verify_email", email.jobs[0].Template)
	assert.Equal(t, "ada@example.com", email.jobs[0].To)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.dev", FirstName: "A"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.dev", FirstName: "B"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestVerifyQueuesWelcome(t *testing.T) {
	svc, email := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@b.dev", FirstName: "A"})
	require.NoError(t, err)

	verified, err := svc.Verify(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusVerified, verified.Status)

	require.Len(t, email.jobs, 2)
	assert.Equal(t, "welcome", email.jobs[1].Template)
}

func TestGetUnknownUser(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileCreatesOnFirstWrite(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@b.dev", FirstName: "A"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, entity.ProfileUpdate{Bio: "hi", Country: "NL"})
	require.NoError(t, err)
	require.NotNil(t, updated.Profile)
	assert.Equal(t, "hi", updated.Profile.Bio)

	again, err := svc.UpdateProfile(ctx, u.ID, entity.ProfileUpdate{City: "Delft"})
	require.NoError(t, err)
	assert.Equal(t, "hi", again.Profile.Bio, "earlier fields survive a partial patch")
	assert.Equal(t, "Delft", again.Profile.City)
}

func TestUpdateInstructorProfileRequiresInstructor(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@b.dev", FirstName: "A"})
	require.NoError(t, err)

	_, err = svc.UpdateInstructorProfile(ctx, u.ID, entity.InstructorProfileUpdate{Headline: "x"})
	assert.ErrorIs(t, err, ErrNotInstructor)

	promoted, err := svc.PromoteToInstructor(ctx, u.ID, "Go instructor", "bio")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleInstructor, promoted.Role)
	require.NotNil(t, promoted.InstructorProfile)

	updated, err := svc.UpdateInstructorProfile(ctx, u.ID, entity.InstructorProfileUpdate{Headline: "Senior Go instructor"})
	require.NoError(t, err)
	assert.Equal(t, "Senior Go instructor", updated.InstructorProfile.Headline)
}

func TestPromoteTwiceKeepsFirstProfile(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@b.dev", FirstName: "A"})
	require.NoError(t, err)

	first, err := svc.PromoteToInstructor(ctx, u.ID, "one", "")
	require.NoError(t, err)
	second, err := svc.PromoteToInstructor(ctx, u.ID, "two", "")
	require.NoError(t, err)

	assert.Equal(t, first.InstructorProfile.ID, second.InstructorProfile.ID)
	assert.Equal(t, "one", second.InstructorProfile.Headline)
}

func TestSetSocialsAssignsIDs(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "a@b.dev", FirstName: "A"})
	require.NoError(t, err)

	updated, err := svc.SetSocials(ctx, u.ID, []entity.SocialLink{
		{Provider: "github", ProfileURL: "https://github.com/ada"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Socials, 1)
	assert.NotEmpty(t, updated.Socials[0].ID)
	assert.Equal(t, u.ID, updated.Socials[0].UserID)
}

func TestEmailsListsEveryRegisteredAddress(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	for _, addr := range []string{"c@b.dev", "a@b.dev", "b@b.dev"} {
		_, err := svc.Register(ctx, RegisterInput{Email: addr, FirstName: "X"})
		require.NoError(t, err)
	}

	emails, err := svc.Emails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.dev", "b@b.dev", "c@b.dev"}, emails)
}
