package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/coursehub/user-service/internal/domain/entity"
	repo "github.com/coursehub/user-service/internal/domain/repository"
	"github.com/coursehub/user-service/pkg/helpers"
	"github.com/coursehub/user-service/pkg/mailer"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrNotInstructor  = errors.New("user is not an instructor")
	ErrNoProfile      = errors.New("user has no profile")
	ErrGCSUnavailable = errors.New("gcs not configured")
)

// Publisher is the transport for outbound messages (email jobs, domain
// events). *helpers.RabbitPublisher satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserService owns the user aggregate use cases. Email delivery, search
// indexing and avatar storage are optional capabilities; a nil client turns
// the feature into a no-op.
type UserService struct {
	Repo         repo.UserRepository
	Events       Publisher
	Email        Publisher
	GCS          *storage.Client
	GCSBucket    string
	ES           *elasticsearch.Client
	ESUsersIndex string
	VerifyURL    string
	Logger       *logrus.Logger
}

func NewUserService(r repo.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Logger: logger}
}

type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
}

// Register creates a student account and queues the verification email. The
// email uniqueness check lives in storage; a duplicate surfaces as
// ErrEmailTaken regardless of interleaving.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	u := entity.NewUser(uuid.NewString(), strings.ToLower(strings.TrimSpace(in.Email)), in.FirstName, in.LastName)
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.queueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Subject:  "Verify your email",
		Template: "verify_email",
		Data: map[string]any{
			"Name":      u.FirstName,
			"Email":     u.Email,
			"VerifyURL": s.VerifyURL + "?user_id=" + u.ID,
		},
	})
	s.publishEvent(ctx, "user.registered", u.ID)
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	return s.Repo.FindPage(ctx, offset, limit)
}

func (s *UserService) Instructors(ctx context.Context, offset, limit int) ([]*entity.User, error) {
	return s.Repo.FindInstructors(ctx, offset, limit)
}

func (s *UserService) ByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	return s.Repo.FindByIDs(ctx, ids)
}

// Emails returns every registered address, for admin exports and mailing
// campaigns. Unpaged and uncached.
func (s *UserService) Emails(ctx context.Context) ([]string, error) {
	return s.Repo.AllEmails(ctx)
}

// Verify marks the account verified and queues the welcome email.
func (s *UserService) Verify(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.UpdateStatus(entity.StatusVerified)
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.queueEmail(ctx, mailer.EmailJob{
		To:       u.Email,
		Subject:  "Welcome aboard",
		Template: "welcome",
		Data:     map[string]any{"Name": u.FirstName, "Email": u.Email},
	})
	s.publishEvent(ctx, "user.verified", u.ID)
	return u, nil
}

func (s *UserService) UpdateStatus(ctx context.Context, userID string, status entity.Status) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) { u.UpdateStatus(status) })
}

func (s *UserService) UpdateRole(ctx context.Context, userID string, role entity.Role) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) { u.UpdateRole(role) })
}

func (s *UserService) Block(ctx context.Context, userID string) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) { u.Block() })
}

func (s *UserService) Activate(ctx context.Context, userID string) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) { u.Activate() })
}

type BasicDataInput struct {
	FirstName string
	LastName  string
	Avatar    string
}

func (s *UserService) UpdateBasicData(ctx context.Context, userID string, in BasicDataInput) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) {
		u.UpdateBasicData(in.FirstName, in.LastName, in.Avatar)
	})
}

// UpdateProfile patches the profile sub-aggregate, creating it on first write.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in entity.ProfileUpdate) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) {
		if u.Profile == nil {
			u.AddProfile(&entity.Profile{ID: uuid.NewString(), UserID: u.ID})
		}
		u.UpdateProfile(in)
	})
}

func (s *UserService) UpdateInstructorProfile(ctx context.Context, userID string, in entity.InstructorProfileUpdate) (*entity.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.InstructorProfile == nil {
		return nil, ErrNotInstructor
	}
	u.UpdateInstructorProfile(in)
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// PromoteToInstructor upgrades the role and attaches an instructor profile.
// Promoting an instructor again is a no-op.
func (s *UserService) PromoteToInstructor(ctx context.Context, userID, headline, bio string) (*entity.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.Role == entity.RoleInstructor {
		return u, nil
	}
	u.PromoteToInstructor(&entity.InstructorProfile{
		ID:       uuid.NewString(),
		UserID:   u.ID,
		Headline: headline,
		Bio:      bio,
	})
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, "user.promoted", u.ID)
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) SetSocials(ctx context.Context, userID string, links []entity.SocialLink) (*entity.User, error) {
	return s.mutate(ctx, userID, func(u *entity.User) {
		for i := range links {
			if links[i].ID == "" {
				links[i].ID = uuid.NewString()
			}
			links[i].UserID = u.ID
		}
		u.SetSocials(links)
	})
}

// UploadAvatar stores the image in GCS and records the public URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrGCSUnavailable
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}
	u.UpdateBasicData("", "", url)
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	_ = s.indexUser(ctx, u)
	return url, nil
}

// SearchUsers performs a multi_match search over email and name fields.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "first_name", "last_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (s *UserService) mutate(ctx context.Context, userID string, apply func(*entity.User)) (*entity.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	apply(u)
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) queueEmail(ctx context.Context, job mailer.EmailJob) {
	if s.Email == nil {
		return
	}
	if err := s.Email.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("to", job.To).Warn("queue email failed")
	}
}

// publishEvent is best effort; a broker outage never fails the use case.
func (s *UserService) publishEvent(ctx context.Context, name, userID string) {
	if s.Events == nil {
		return
	}
	evt := map[string]any{
		"event":   name,
		"user_id": userID,
		"at":      time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := s.Events.PublishJSON(ctx, evt); err != nil {
		s.Logger.WithError(err).WithField("event", name).Warn("publish event failed")
	}
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"role":       u.Role,
		"status":     u.Status,
		"avatar":     u.Avatar,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}
