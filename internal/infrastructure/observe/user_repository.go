package observe

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coursehub/user-service/internal/domain/entity"
	"github.com/coursehub/user-service/internal/domain/repository"
)

type userRepository struct {
	next   repository.UserRepository
	logger *logrus.Logger
}

// UserRepository decorates next with call counters and duration logs.
func UserRepository(next repository.UserRepository, logger *logrus.Logger) repository.UserRepository {
	return &userRepository{next: next, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, u *entity.User) (err error) {
	defer func(start time.Time) { track(r.logger, "user.create", start, err) }(time.Now())
	return r.next.Create(ctx, u)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (u *entity.User, err error) {
	defer func(start time.Time) { track(r.logger, "user.find_by_id", start, err) }(time.Now())
	return r.next.FindByID(ctx, id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (u *entity.User, err error) {
	defer func(start time.Time) { track(r.logger, "user.find_by_email", start, err) }(time.Now())
	return r.next.FindByEmail(ctx, email)
}

func (r *userRepository) Update(ctx context.Context, u *entity.User) (err error) {
	defer func(start time.Time) { track(r.logger, "user.update", start, err) }(time.Now())
	return r.next.Update(ctx, u)
}

func (r *userRepository) FindPage(ctx context.Context, offset, limit int) (users []*entity.User, err error) {
	defer func(start time.Time) { track(r.logger, "user.find_page", start, err) }(time.Now())
	return r.next.FindPage(ctx, offset, limit)
}

func (r *userRepository) FindInstructors(ctx context.Context, offset, limit int) (users []*entity.User, err error) {
	defer func(start time.Time) { track(r.logger, "user.find_instructors", start, err) }(time.Now())
	return r.next.FindInstructors(ctx, offset, limit)
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []string) (users []*entity.User, err error) {
	defer func(start time.Time) { track(r.logger, "user.find_by_ids", start, err) }(time.Now())
	return r.next.FindByIDs(ctx, ids)
}

func (r *userRepository) AllEmails(ctx context.Context) (emails []string, err error) {
	defer func(start time.Time) { track(r.logger, "user.all_emails", start, err) }(time.Now())
	return r.next.AllEmails(ctx)
}
