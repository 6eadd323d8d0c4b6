package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/coursehub/user-service/internal/domain/entity"
	"github.com/coursehub/user-service/internal/domain/repository"
	"github.com/coursehub/user-service/internal/infrastructure/cache"
)

const userColumns = `id, email, role, status, first_name,
		COALESCE(last_name, ''), COALESCE(avatar_url, ''), last_login_at, created_at, updated_at`

// UserRepository persists the User aggregate with read-through caching on
// point and listing lookups. The cache is an explicit capability; storage is
// always authoritative.
type UserRepository struct {
	pool   *pgxpool.Pool
	cache  cache.Cache
	logger *logrus.Logger
}

func NewUserRepository(pool *pgxpool.Pool, c cache.Cache, logger *logrus.Logger) *UserRepository {
	return &UserRepository{pool: pool, cache: c, logger: logger}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, role, status, first_name, last_name, avatar_url, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10)
	`, u.ID, u.Email, u.Role, u.Status, u.FirstName, u.LastName, u.Avatar, u.LastLoginAt, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user %s: %w", u.Email, repository.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if u.Profile != nil {
		if err := r.upsertProfile(ctx, u.Profile); err != nil {
			return err
		}
	}
	if u.InstructorProfile != nil {
		if err := r.upsertInstructorProfile(ctx, u.InstructorProfile); err != nil {
			return err
		}
	}
	if len(u.Socials) > 0 {
		if err := r.replaceSocials(ctx, u.ID, u.Socials); err != nil {
			return err
		}
	}

	return r.invalidateListings(ctx)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var cached entity.User
	hit, err := r.cache.Get(ctx, cache.UserKey(id), &cached)
	if err != nil {
		r.logger.WithError(err).WithField("user_id", id).Warn("cache get failed")
	}
	if hit {
		return &cached, nil
	}

	u, err := r.findOne(ctx, "id = $1", id)
	if err != nil || u == nil {
		return nil, err
	}
	r.populate(ctx, cache.UserKey(id), u, cache.PointTTL)
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var cached entity.User
	hit, err := r.cache.Get(ctx, cache.UserEmailKey(email), &cached)
	if err != nil {
		r.logger.WithError(err).WithField("email", email).Warn("cache get failed")
	}
	if hit {
		return &cached, nil
	}

	u, err := r.findOne(ctx, "email = $1", email)
	if err != nil || u == nil {
		return nil, err
	}
	r.populate(ctx, cache.UserEmailKey(email), u, cache.PointTTL)
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	// The email natural key may be changing; grab the stored value first so
	// the old cache entry can be dropped along with the new one.
	var priorEmail string
	if err := r.pool.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, u.ID).Scan(&priorEmail); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("read user %s before update: %w", u.ID, err)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, role = $2, status = $3, first_name = $4, last_name = NULLIF($5, ''),
			avatar_url = NULLIF($6, ''), last_login_at = $7, updated_at = $8
		WHERE id = $9
	`, u.Email, u.Role, u.Status, u.FirstName, u.LastName, u.Avatar, u.LastLoginAt, u.UpdatedAt, u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update user %s: %w", u.ID, repository.ErrDuplicate)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if u.Profile != nil {
		if err := r.upsertProfile(ctx, u.Profile); err != nil {
			return err
		}
	}
	if u.InstructorProfile != nil {
		if err := r.upsertInstructorProfile(ctx, u.InstructorProfile); err != nil {
			return err
		}
	}
	if u.Socials != nil {
		if err := r.replaceSocials(ctx, u.ID, u.Socials); err != nil {
			return err
		}
	}

	if err := r.cache.Delete(ctx, userInvalidationKeys(u, priorEmail)...); err != nil {
		return fmt.Errorf("invalidate user %s: %w", u.ID, err)
	}
	return r.invalidateListings(ctx)
}

// userInvalidationKeys covers the point key and both email natural keys when
// an update moves the user to a new address.
func userInvalidationKeys(u *entity.User, priorEmail string) []string {
	keys := []string{cache.UserKey(u.ID), cache.UserEmailKey(u.Email)}
	if priorEmail != "" && priorEmail != u.Email {
		keys = append(keys, cache.UserEmailKey(priorEmail))
	}
	return keys
}

func (r *UserRepository) FindPage(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	key := cache.UserListKey(limit, offset)
	var cached []*entity.User
	hit, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("cache get failed")
	}
	if hit {
		return cached, nil
	}

	users, err := r.findMany(ctx, `
		SELECT `+userColumns+` FROM users
		ORDER BY created_at DESC OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, err
	}
	r.populate(ctx, key, users, cache.ListTTL)
	return users, nil
}

func (r *UserRepository) FindInstructors(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	key := cache.InstructorListKey(limit, offset)
	var cached []*entity.User
	hit, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("cache get failed")
	}
	if hit {
		return cached, nil
	}

	users, err := r.findMany(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE role = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3
	`, entity.RoleInstructor, offset, limit)
	if err != nil {
		return nil, err
	}
	r.populate(ctx, key, users, cache.ListTTL)
	return users, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}
	key := cache.UserIDsKey(ids)
	var cached []*entity.User
	hit, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("cache get failed")
	}
	if hit {
		return cached, nil
	}

	users, err := r.findMany(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	r.populate(ctx, key, users, cache.ListTTL)
	return users, nil
}

func (r *UserRepository) AllEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT email FROM users`)
	if err != nil {
		return nil, fmt.Errorf("select emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	if err := r.loadRelations(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	users := []*entity.User{}
	for rows.Next() {
		u := &entity.User{}
		if err := scanUser(rows, u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) loadRelations(ctx context.Context, u *entity.User) error {
	p := &entity.Profile{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, COALESCE(bio, ''), COALESCE(phone, ''), COALESCE(country, ''),
			COALESCE(city, ''), COALESCE(gender, ''), COALESCE(language, ''), COALESCE(website, ''), preferences
		FROM user_profiles WHERE user_id = $1
	`, u.ID).Scan(&p.ID, &p.UserID, &p.Bio, &p.Phone, &p.Country, &p.City, &p.Gender, &p.Language, &p.Website, &p.Preferences)
	switch {
	case err == nil:
		u.Profile = p
	case !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("select user profile: %w", err)
	}

	ip := &entity.InstructorProfile{}
	err = r.pool.QueryRow(ctx, `
		SELECT id, user_id, COALESCE(bio, ''), COALESCE(headline, ''), COALESCE(experience, ''),
			COALESCE(certificate, ''), expertise, tags, rating, total_courses, total_students
		FROM instructor_profiles WHERE user_id = $1
	`, u.ID).Scan(&ip.ID, &ip.UserID, &ip.Bio, &ip.Headline, &ip.Experience, &ip.Certificate,
		&ip.Expertise, &ip.Tags, &ip.Rating, &ip.TotalCourses, &ip.TotalStudents)
	switch {
	case err == nil:
		u.InstructorProfile = ip
	case !errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("select instructor profile: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, provider, profile_url, COALESCE(provider_user_id, '')
		FROM user_socials WHERE user_id = $1 ORDER BY provider
	`, u.ID)
	if err != nil {
		return fmt.Errorf("select socials: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s entity.SocialLink
		if err := rows.Scan(&s.ID, &s.UserID, &s.Provider, &s.ProfileURL, &s.ProviderUserID); err != nil {
			return err
		}
		u.Socials = append(u.Socials, s)
	}
	return rows.Err()
}

func (r *UserRepository) upsertProfile(ctx context.Context, p *entity.Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_profiles (id, user_id, bio, phone, country, city, gender, language, website, preferences)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10)
		ON CONFLICT (user_id) DO UPDATE SET
			bio = EXCLUDED.bio, phone = EXCLUDED.phone, country = EXCLUDED.country, city = EXCLUDED.city,
			gender = EXCLUDED.gender, language = EXCLUDED.language, website = EXCLUDED.website, preferences = EXCLUDED.preferences
	`, p.ID, p.UserID, p.Bio, p.Phone, p.Country, p.City, p.Gender, p.Language, p.Website, p.Preferences)
	if err != nil {
		return fmt.Errorf("upsert user profile: %w", err)
	}
	return nil
}

func (r *UserRepository) upsertInstructorProfile(ctx context.Context, p *entity.InstructorProfile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO instructor_profiles (id, user_id, bio, headline, experience, certificate, expertise, tags, rating, total_courses, total_students)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, $10, $11)
		ON CONFLICT (user_id) DO UPDATE SET
			bio = EXCLUDED.bio, headline = EXCLUDED.headline, experience = EXCLUDED.experience,
			certificate = EXCLUDED.certificate, expertise = EXCLUDED.expertise, tags = EXCLUDED.tags,
			rating = EXCLUDED.rating, total_courses = EXCLUDED.total_courses, total_students = EXCLUDED.total_students
	`, p.ID, p.UserID, p.Bio, p.Headline, p.Experience, p.Certificate, p.Expertise, p.Tags, p.Rating, p.TotalCourses, p.TotalStudents)
	if err != nil {
		return fmt.Errorf("upsert instructor profile: %w", err)
	}
	return nil
}

// replaceSocials is delete-all-then-reinsert; the social set is small.
func (r *UserRepository) replaceSocials(ctx context.Context, userID string, links []entity.SocialLink) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM user_socials WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete socials: %w", err)
	}
	for _, s := range links {
		_, err := r.pool.Exec(ctx, `
			INSERT INTO user_socials (id, user_id, provider, profile_url, provider_user_id)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		`, s.ID, userID, s.Provider, s.ProfileURL, s.ProviderUserID)
		if err != nil {
			return fmt.Errorf("insert social: %w", err)
		}
	}
	return nil
}

// populate is the best-effort half of read-through: a failed set is logged and
// swallowed, never surfaced.
func (r *UserRepository) populate(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := r.cache.Set(ctx, key, value, ttl); err != nil {
		r.logger.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

func (r *UserRepository) invalidateListings(ctx context.Context) error {
	for _, pattern := range []string{cache.UserListPattern, cache.InstructorListPattern, cache.UserIDsPattern} {
		if err := r.cache.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("invalidate %s: %w", pattern, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, u *entity.User) error {
	return row.Scan(&u.ID, &u.Email, &u.Role, &u.Status, &u.FirstName,
		&u.LastName, &u.Avatar, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
}

var _ repository.UserRepository = (*UserRepository)(nil)
