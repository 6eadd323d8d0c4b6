package entity

import (
	"time"
)

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleStudent    Role = "student"
)

type Status string

const (
	StatusVerified    Status = "verified"
	StatusNotVerified Status = "not-verified"
	StatusActive      Status = "active"
	StatusNotActive   Status = "not-active"
	StatusBlocked     Status = "blocked"
)

// User is the aggregate root for the user domain. Mutations go through the
// methods below; every method that changes state advances UpdatedAt, and each
// method enumerates exactly the fields it may touch.
type User struct {
	ID                string             `json:"id"`
	Email             string             `json:"email"`
	Role              Role               `json:"role"`
	Status            Status             `json:"status"`
	FirstName         string             `json:"first_name"`
	LastName          string             `json:"last_name,omitempty"`
	Avatar            string             `json:"avatar,omitempty"`
	LastLoginAt       *time.Time         `json:"last_login_at,omitempty"`
	Profile           *Profile           `json:"profile,omitempty"`
	InstructorProfile *InstructorProfile `json:"instructor_profile,omitempty"`
	Socials           []SocialLink       `json:"socials,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// Profile is the optional user profile sub-aggregate (1:1 with User).
type Profile struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Bio         string            `json:"bio,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Country     string            `json:"country,omitempty"`
	City        string            `json:"city,omitempty"`
	Gender      string            `json:"gender,omitempty"`
	Language    string            `json:"language,omitempty"`
	Website     string            `json:"website,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// InstructorProfile is the optional instructor sub-aggregate (1:1 with User).
type InstructorProfile struct {
	ID            string   `json:"id"`
	UserID        string   `json:"user_id"`
	Bio           string   `json:"bio,omitempty"`
	Headline      string   `json:"headline,omitempty"`
	Experience    string   `json:"experience,omitempty"`
	Certificate   string   `json:"certificate,omitempty"`
	Expertise     []string `json:"expertise,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Rating        float64  `json:"rating"`
	TotalCourses  int      `json:"total_courses"`
	TotalStudents int      `json:"total_students"`
}

type SocialLink struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Provider       string `json:"provider"`
	ProfileURL     string `json:"profile_url"`
	ProviderUserID string `json:"provider_user_id,omitempty"`
}

func NewUser(id, email, firstName, lastName string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id,
		Email:     email,
		Role:      RoleStudent,
		Status:    StatusNotVerified,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) touch() { u.UpdatedAt = time.Now().UTC() }

func (u *User) UpdateStatus(s Status) {
	u.Status = s
	u.touch()
}

func (u *User) UpdateRole(r Role) {
	u.Role = r
	u.touch()
}

func (u *User) Block() {
	u.Status = StatusBlocked
	u.touch()
}

func (u *User) Activate() {
	u.Status = StatusActive
	u.touch()
}

// PromoteToInstructor is a no-op when the user already holds the instructor role.
func (u *User) PromoteToInstructor(p *InstructorProfile) {
	if u.Role == RoleInstructor {
		return
	}
	u.Role = RoleInstructor
	u.InstructorProfile = p
	u.touch()
}

// UpdateBasicData applies only the non-empty inputs.
func (u *User) UpdateBasicData(firstName, lastName, avatar string) {
	if firstName != "" {
		u.FirstName = firstName
	}
	if lastName != "" {
		u.LastName = lastName
	}
	if avatar != "" {
		u.Avatar = avatar
	}
	u.touch()
}

type ProfileUpdate struct {
	Bio         string
	Phone       string
	Country     string
	City        string
	Gender      string
	Language    string
	Website     string
	Preferences map[string]string
}

// UpdateProfile patches the profile sub-aggregate field by field; empty inputs
// leave the current value in place. No-op when the user has no profile.
func (u *User) UpdateProfile(in ProfileUpdate) {
	if u.Profile == nil {
		return
	}
	p := u.Profile
	if in.Bio != "" {
		p.Bio = in.Bio
	}
	if in.Phone != "" {
		p.Phone = in.Phone
	}
	if in.Country != "" {
		p.Country = in.Country
	}
	if in.City != "" {
		p.City = in.City
	}
	if in.Gender != "" {
		p.Gender = in.Gender
	}
	if in.Language != "" {
		p.Language = in.Language
	}
	if in.Website != "" {
		p.Website = in.Website
	}
	if in.Preferences != nil {
		p.Preferences = in.Preferences
	}
	u.touch()
}

type InstructorProfileUpdate struct {
	Bio         string
	Headline    string
	Experience  string
	Certificate string
	Expertise   []string
	Tags        []string
}

// UpdateInstructorProfile patches the instructor sub-aggregate; no-op when the
// user carries none.
func (u *User) UpdateInstructorProfile(in InstructorProfileUpdate) {
	if u.InstructorProfile == nil {
		return
	}
	p := u.InstructorProfile
	if in.Bio != "" {
		p.Bio = in.Bio
	}
	if in.Headline != "" {
		p.Headline = in.Headline
	}
	if in.Experience != "" {
		p.Experience = in.Experience
	}
	if in.Certificate != "" {
		p.Certificate = in.Certificate
	}
	if in.Expertise != nil {
		p.Expertise = in.Expertise
	}
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	u.touch()
}

func (u *User) AddProfile(p *Profile) {
	u.Profile = p
	u.touch()
}

func (u *User) SetSocials(links []SocialLink) {
	u.Socials = links
	u.touch()
}

// UpdateLastLogin records a login without advancing UpdatedAt; logins are not
// profile mutations.
func (u *User) UpdateLastLogin(t time.Time) {
	u.LastLoginAt = &t
}
