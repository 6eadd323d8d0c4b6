package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/coursehub/user-service/internal/application"
	"github.com/coursehub/user-service/internal/domain/entity"
	"github.com/coursehub/user-service/pkg/response"
	"github.com/coursehub/user-service/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"user": u}, "user registered", nil)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "user", nil)
}

func (h *UserHandler) GetByEmail(c *gin.Context) {
	u, err := h.Svc.GetByEmail(c.Request.Context(), c.Query("email"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "user", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)
	users, err := h.Svc.List(c.Request.Context(), (page-1)*limit, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users}, "users", gin.H{"page": page, "limit": limit})
}

func (h *UserHandler) Instructors(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)
	users, err := h.Svc.Instructors(c.Request.Context(), (page-1)*limit, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users}, "instructors", gin.H{"page": page, "limit": limit})
}

func (h *UserHandler) ListEmails(c *gin.Context) {
	emails, err := h.Svc.Emails(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"emails": emails, "count": len(emails)}, "registered emails", nil)
}

type byIDsRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

func (h *UserHandler) ByIDs(c *gin.Context) {
	var req byIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	users, err := h.Svc.ByIDs(c.Request.Context(), req.IDs)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users}, "users", nil)
}

func (h *UserHandler) Verify(c *gin.Context) {
	u, err := h.Svc.Verify(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "email verified", nil)
}

type basicDataRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

func (h *UserHandler) UpdateBasicData(c *gin.Context) {
	var req basicDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateBasicData(c.Request.Context(), c.Param("userId"), userapp.BasicDataInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Avatar:    req.Avatar,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "user updated", nil)
}

type profileRequest struct {
	Bio         string            `json:"bio"`
	Phone       string            `json:"phone"`
	Country     string            `json:"country"`
	City        string            `json:"city"`
	Gender      string            `json:"gender"`
	Language    string            `json:"language"`
	Website     string            `json:"website" binding:"omitempty,url"`
	Preferences map[string]string `json:"preferences"`
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.Param("userId"), entity.ProfileUpdate{
		Bio:         req.Bio,
		Phone:       req.Phone,
		Country:     req.Country,
		City:        req.City,
		Gender:      req.Gender,
		Language:    req.Language,
		Website:     req.Website,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "profile updated", nil)
}

type instructorProfileRequest struct {
	Bio         string   `json:"bio"`
	Headline    string   `json:"headline"`
	Experience  string   `json:"experience"`
	Certificate string   `json:"certificate"`
	Expertise   []string `json:"expertise"`
	Tags        []string `json:"tags"`
}

func (h *UserHandler) UpdateInstructorProfile(c *gin.Context) {
	var req instructorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateInstructorProfile(c.Request.Context(), c.Param("userId"), entity.InstructorProfileUpdate{
		Bio:         req.Bio,
		Headline:    req.Headline,
		Experience:  req.Experience,
		Certificate: req.Certificate,
		Expertise:   req.Expertise,
		Tags:        req.Tags,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "instructor profile updated", nil)
}

type statusRequest struct {
	Status string `json:"status" binding:"required,oneof=verified not-verified active not-active blocked"`
}

func (h *UserHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateStatus(c.Request.Context(), c.Param("userId"), entity.Status(req.Status))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "status updated", nil)
}

type roleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin instructor student"`
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateRole(c.Request.Context(), c.Param("userId"), entity.Role(req.Role))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "role updated", nil)
}

func (h *UserHandler) Block(c *gin.Context) {
	u, err := h.Svc.Block(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "user blocked", nil)
}

func (h *UserHandler) Activate(c *gin.Context) {
	u, err := h.Svc.Activate(c.Request.Context(), c.Param("userId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "user activated", nil)
}

type promoteRequest struct {
	Headline string `json:"headline"`
	Bio      string `json:"bio"`
}

func (h *UserHandler) Promote(c *gin.Context) {
	var req promoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.PromoteToInstructor(c.Request.Context(), c.Param("userId"), req.Headline, req.Bio)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "user promoted", nil)
}

type socialsRequest struct {
	Socials []struct {
		Provider   string `json:"provider" binding:"required"`
		ProfileURL string `json:"profile_url" binding:"required,url"`
	} `json:"socials" binding:"required"`
}

func (h *UserHandler) SetSocials(c *gin.Context) {
	var req socialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	links := make([]entity.SocialLink, 0, len(req.Socials))
	for _, s := range req.Socials {
		links = append(links, entity.SocialLink{Provider: s.Provider, ProfileURL: s.ProfileURL})
	}
	u, err := h.Svc.SetSocials(c.Request.Context(), c.Param("userId"), links)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u}, "socials updated", nil)
}

// UploadAvatar accepts a multipart form with an "avatar" file field.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "missing avatar file", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "unreadable avatar file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "avatar must be an image", nil)
		return
	}
	url, err := h.Svc.UploadAvatar(c.Request.Context(), c.Param("userId"), f, fh.Filename, contentType)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar": url}, "avatar uploaded", nil)
}

func (h *UserHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "missing query", nil)
		return
	}
	hits, err := h.Svc.SearchUsers(c.Request.Context(), q, intQuery(c, "size", 10))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": hits}, "search results", nil)
}
