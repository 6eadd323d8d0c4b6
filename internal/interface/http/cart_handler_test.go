package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehub/user-service/internal/application"
	"github.com/coursehub/user-service/internal/domain/entity"
	"github.com/coursehub/user-service/internal/domain/repository"
	"github.com/coursehub/user-service/pkg/response"
	"github.com/coursehub/user-service/pkg/validation"
)

type memCartRepo struct {
	mu     sync.RWMutex
	carts  map[string]*entity.Cart
	byUser map[string]string
	items  map[string]map[string]entity.CartItem
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{
		carts:  map[string]*entity.Cart{},
		byUser: map[string]string{},
		items:  map[string]map[string]entity.CartItem{},
	}
}

func (m *memCartRepo) Create(_ context.Context, cart *entity.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.byUser[cart.UserID]; taken {
		return repository.ErrDuplicate
	}
	cp := *cart
	m.carts[cart.ID] = &cp
	m.byUser[cart.UserID] = cart.ID
	m.items[cart.ID] = map[string]entity.CartItem{}
	return nil
}

func (m *memCartRepo) FindByID(_ context.Context, id string) (*entity.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cart, ok := m.carts[id]
	if !ok {
		return nil, nil
	}
	return m.load(cart), nil
}

func (m *memCartRepo) FindByUserID(_ context.Context, userID string, offset, limit int) (*entity.Cart, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byUser[userID]
	if !ok {
		return nil, 0, nil
	}
	cart := m.load(m.carts[id])
	total := len(cart.Items)
	if offset >= total {
		cart.Items = []entity.CartItem{}
	} else if end := offset + limit; end < total {
		cart.Items = cart.Items[offset:end]
	} else {
		cart.Items = cart.Items[offset:]
	}
	return cart, total, nil
}

func (m *memCartRepo) Update(_ context.Context, cart *entity.Cart) error { return nil }

func (m *memCartRepo) Delete(_ context.Context, cart *entity.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, cart.ID)
	delete(m.byUser, cart.UserID)
	delete(m.items, cart.ID)
	return nil
}

func (m *memCartRepo) AddItem(_ context.Context, _ string, item entity.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.items[item.CartID]
	if _, exists := bucket[item.CourseID]; !exists {
		bucket[item.CourseID] = item
	}
	return nil
}

func (m *memCartRepo) RemoveItem(_ context.Context, _ string, cartID, courseID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket := m.items[cartID]
	if _, exists := bucket[courseID]; !exists {
		return false, nil
	}
	delete(bucket, courseID)
	return true, nil
}

func (m *memCartRepo) FindItem(_ context.Context, cartID, courseID string) (*entity.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if item, ok := m.items[cartID][courseID]; ok {
		cp := item
		return &cp, nil
	}
	return nil, nil
}

func (m *memCartRepo) load(cart *entity.Cart) *entity.Cart {
	cp := *cart
	cp.Items = []entity.CartItem{}
	for _, item := range m.items[cart.ID] {
		cp.Items = append(cp.Items, item)
	}
	cp.Total = len(cp.Items)
	return &cp
}

func newCartRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	svc := application.NewCartService(newMemCartRepo(), logger)
	h := NewCartHandler(svc, logger)

	r := gin.New()
	api := r.Group("/api/cart")
	api.POST("/items", h.Add)
	api.POST("/items/toggle", h.Toggle)
	api.DELETE("/items", h.Remove)
	api.GET("/user/:userId", h.ListByUser)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, response.APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env response.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestCartAddToggleRemoveList(t *testing.T) {
	r := newCartRouter(t)
	userID := uuid.NewString()
	courseID := uuid.NewString()

	// add returns the new item
	w, env := doJSON(t, r, http.MethodPost, "/api/cart/items", gin.H{"user_id": userID, "course_id": courseID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	item := env.Data.(map[string]any)["item"].(map[string]any)
	assert.Equal(t, courseID, item["course_id"])
	firstItemID := item["id"].(string)
	cartID := item["cart_id"].(string)

	// adding again is a no-op returning the same item unchanged
	w, env = doJSON(t, r, http.MethodPost, "/api/cart/items", gin.H{"cart_id": cartID, "user_id": userID, "course_id": courseID})
	require.Equal(t, http.StatusOK, w.Code)
	item = env.Data.(map[string]any)["item"].(map[string]any)
	assert.Equal(t, firstItemID, item["id"])

	// toggle removes: no item in the response
	w, env = doJSON(t, r, http.MethodPost, "/api/cart/items/toggle", gin.H{"user_id": userID, "course_id": courseID})
	require.Equal(t, http.StatusOK, w.Code)
	data := env.Data.(map[string]any)
	assert.NotContains(t, data, "item")

	// toggle adds back: a fresh item comes back
	w, env = doJSON(t, r, http.MethodPost, "/api/cart/items/toggle", gin.H{"user_id": userID, "course_id": courseID})
	require.Equal(t, http.StatusOK, w.Code)
	data = env.Data.(map[string]any)
	require.Contains(t, data, "item")
	assert.Equal(t, courseID, data["item"].(map[string]any)["course_id"])

	// remove reports the actual outcome
	w, env = doJSON(t, r, http.MethodDelete, "/api/cart/items", gin.H{"cart_id": cartID, "course_id": courseID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, env.Data.(map[string]any)["removed"])

	w, env = doJSON(t, r, http.MethodDelete, "/api/cart/items", gin.H{"cart_id": cartID, "course_id": courseID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, env.Data.(map[string]any)["removed"])
}

func TestCartAddValidation(t *testing.T) {
	r := newCartRouter(t)

	w, env := doJSON(t, r, http.MethodPost, "/api/cart/items", gin.H{"user_id": "not-a-uuid"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.CodeValidation, env.Error.Code)
}

func TestCartListPaginationMeta(t *testing.T) {
	r := newCartRouter(t)
	userID := uuid.NewString()

	for i := 0; i < 5; i++ {
		w, _ := doJSON(t, r, http.MethodPost, "/api/cart/items", gin.H{"user_id": userID, "course_id": uuid.NewString()})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, env := doJSON(t, r, http.MethodGet, "/api/cart/user/"+userID+"?page=1&limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	meta := env.Meta.(map[string]any)
	assert.Equal(t, float64(5), meta["total_items"])
	assert.Equal(t, float64(3), meta["total_pages"], "ceil(5/2)")
	assert.Equal(t, float64(1), meta["page"])

	cart := env.Data.(map[string]any)["cart"].(map[string]any)
	assert.Len(t, cart["items"], 2)

	// unknown owner
	w, env = doJSON(t, r, http.MethodGet, "/api/cart/user/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, response.CodeNotFound, env.Error.Code)
}
