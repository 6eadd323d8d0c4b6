package application

import (
	"context"
	"sort"
	"sync"

	"github.com/coursehub/user-service/internal/domain/entity"
	"github.com/coursehub/user-service/internal/domain/repository"
)

// In-memory fakes implementing the repository interfaces, mirroring the
// storage invariants: unique email, one cart/wishlist per user, set semantics
// on item membership.

type fakeUserRepo struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindPage(_ context.Context, offset, limit int) ([]*entity.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	all := f.sorted()
	if offset >= len(all) {
		return []*entity.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeUserRepo) FindInstructors(_ context.Context, offset, limit int) ([]*entity.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []*entity.User{}
	for _, u := range f.sorted() {
		if u.Role == entity.RoleInstructor {
			out = append(out, u)
		}
	}
	if offset >= len(out) {
		return []*entity.User{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (f *fakeUserRepo) FindByIDs(_ context.Context, ids []string) ([]*entity.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []*entity.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) AllEmails(_ context.Context) ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []string{}
	for _, u := range f.users {
		out = append(out, u.Email)
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeUserRepo) sorted() []*entity.User {
	out := make([]*entity.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeCartRepo struct {
	mu     sync.RWMutex
	carts  map[string]*entity.Cart               // by cart ID
	byUser map[string]string                     // userID -> cartID
	items  map[string]map[string]entity.CartItem // cartID -> courseID -> item
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		carts:  map[string]*entity.Cart{},
		byUser: map[string]string{},
		items:  map[string]map[string]entity.CartItem{},
	}
}

func (f *fakeCartRepo) Create(_ context.Context, cart *entity.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.byUser[cart.UserID]; taken {
		return repository.ErrDuplicate
	}
	cp := *cart
	cp.Items = nil
	f.carts[cart.ID] = &cp
	f.byUser[cart.UserID] = cart.ID
	f.items[cart.ID] = map[string]entity.CartItem{}
	for _, item := range cart.Items {
		f.items[cart.ID][item.CourseID] = item
	}
	return nil
}

func (f *fakeCartRepo) FindByID(_ context.Context, id string) (*entity.Cart, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	cart, ok := f.carts[id]
	if !ok {
		return nil, nil
	}
	return f.materialize(cart), nil
}

func (f *fakeCartRepo) FindByUserID(_ context.Context, userID string, offset, limit int) (*entity.Cart, int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	id, ok := f.byUser[userID]
	if !ok {
		return nil, 0, nil
	}
	cart := f.materialize(f.carts[id])
	total := len(cart.Items)
	if offset >= total {
		cart.Items = []entity.CartItem{}
	} else {
		end := offset + limit
		if end > total {
			end = total
		}
		cart.Items = cart.Items[offset:end]
	}
	return cart, total, nil
}

func (f *fakeCartRepo) Update(_ context.Context, cart *entity.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *cart
	cp.Items = nil
	f.carts[cart.ID] = &cp
	f.items[cart.ID] = map[string]entity.CartItem{}
	for _, item := range cart.Items {
		f.items[cart.ID][item.CourseID] = item
	}
	return nil
}

func (f *fakeCartRepo) Delete(_ context.Context, cart *entity.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, cart.ID)
	delete(f.byUser, cart.UserID)
	delete(f.items, cart.ID)
	return nil
}

func (f *fakeCartRepo) AddItem(_ context.Context, _ string, item entity.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucket, ok := f.items[item.CartID]
	if !ok {
		bucket = map[string]entity.CartItem{}
		f.items[item.CartID] = bucket
	}
	// ON CONFLICT DO NOTHING semantics
	if _, exists := bucket[item.CourseID]; !exists {
		bucket[item.CourseID] = item
	}
	return nil
}

func (f *fakeCartRepo) RemoveItem(_ context.Context, _ string, cartID, courseID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucket, ok := f.items[cartID]
	if !ok {
		return false, nil
	}
	if _, exists := bucket[courseID]; !exists {
		return false, nil
	}
	delete(bucket, courseID)
	return true, nil
}

func (f *fakeCartRepo) FindItem(_ context.Context, cartID, courseID string) (*entity.CartItem, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if item, ok := f.items[cartID][courseID]; ok {
		cp := item
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCartRepo) materialize(cart *entity.Cart) *entity.Cart {
	cp := *cart
	cp.Items = []entity.CartItem{}
	for _, item := range f.items[cart.ID] {
		cp.Items = append(cp.Items, item)
	}
	sort.Slice(cp.Items, func(i, j int) bool { return cp.Items[i].AddedAt.After(cp.Items[j].AddedAt) })
	cp.Total = len(cp.Items)
	return &cp
}

type fakeWishlistRepo struct {
	mu     sync.RWMutex
	lists  map[string]*entity.Wishlist
	byUser map[string]string
	items  map[string]map[string]entity.WishlistItem
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{
		lists:  map[string]*entity.Wishlist{},
		byUser: map[string]string{},
		items:  map[string]map[string]entity.WishlistItem{},
	}
}

func (f *fakeWishlistRepo) Create(_ context.Context, w *entity.Wishlist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.byUser[w.UserID]; taken {
		return repository.ErrDuplicate
	}
	cp := *w
	cp.Items = nil
	f.lists[w.ID] = &cp
	f.byUser[w.UserID] = w.ID
	f.items[w.ID] = map[string]entity.WishlistItem{}
	return nil
}

func (f *fakeWishlistRepo) FindByID(_ context.Context, id string) (*entity.Wishlist, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	w, ok := f.lists[id]
	if !ok {
		return nil, nil
	}
	return f.materialize(w), nil
}

func (f *fakeWishlistRepo) FindByUserID(_ context.Context, userID string, offset, limit int) (*entity.Wishlist, int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	id, ok := f.byUser[userID]
	if !ok {
		return nil, 0, nil
	}
	w := f.materialize(f.lists[id])
	total := len(w.Items)
	if offset >= total {
		w.Items = []entity.WishlistItem{}
	} else {
		end := offset + limit
		if end > total {
			end = total
		}
		w.Items = w.Items[offset:end]
	}
	return w, total, nil
}

func (f *fakeWishlistRepo) Update(_ context.Context, w *entity.Wishlist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *w
	cp.Items = nil
	f.lists[w.ID] = &cp
	return nil
}

func (f *fakeWishlistRepo) Delete(_ context.Context, w *entity.Wishlist) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.lists, w.ID)
	delete(f.byUser, w.UserID)
	delete(f.items, w.ID)
	return nil
}

func (f *fakeWishlistRepo) AddItem(_ context.Context, _ string, item entity.WishlistItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucket, ok := f.items[item.WishlistID]
	if !ok {
		bucket = map[string]entity.WishlistItem{}
		f.items[item.WishlistID] = bucket
	}
	if _, exists := bucket[item.CourseID]; !exists {
		bucket[item.CourseID] = item
	}
	return nil
}

func (f *fakeWishlistRepo) RemoveItem(_ context.Context, _ string, wishlistID, courseID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bucket, ok := f.items[wishlistID]
	if !ok {
		return false, nil
	}
	if _, exists := bucket[courseID]; !exists {
		return false, nil
	}
	delete(bucket, courseID)
	return true, nil
}

func (f *fakeWishlistRepo) FindItem(_ context.Context, wishlistID, courseID string) (*entity.WishlistItem, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if item, ok := f.items[wishlistID][courseID]; ok {
		cp := item
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeWishlistRepo) materialize(w *entity.Wishlist) *entity.Wishlist {
	cp := *w
	cp.Items = []entity.WishlistItem{}
	for _, item := range f.items[w.ID] {
		cp.Items = append(cp.Items, item)
	}
	sort.Slice(cp.Items, func(i, j int) bool { return cp.Items[i].AddedAt.After(cp.Items[j].AddedAt) })
	cp.Total = len(cp.Items)
	return &cp
}

// recordingPublisher captures published payloads for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []map[string]any
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := body.(map[string]any); ok {
		p.events = append(p.events, m)
	}
	return nil
}
