package repository

import (
	"context"

	"github.com/coursehub/user-service/internal/domain/entity"
)

// UserRepository is the durable-store gateway for the User aggregate.
// Lookups return (nil, nil) when no row exists; absence is not an error here,
// callers decide whether existence was required.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	FindPage(ctx context.Context, offset, limit int) ([]*entity.User, error)
	FindInstructors(ctx context.Context, offset, limit int) ([]*entity.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	AllEmails(ctx context.Context) ([]string, error)
}
