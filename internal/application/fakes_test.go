package application

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/wishwell/wishwell-server/internal/domain/entity"
	"github.com/wishwell/wishwell-server/internal/domain/repository"
)

// In-memory repositories backing the service tests. GetByID returns deep
// copies so that, like with a real database, mutations only stick after an
// explicit Update.

type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
		if existing.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

type memWishlistRepo struct {
	mu   sync.Mutex
	byID map[string]*entity.Wishlist
}

func newMemWishlistRepo() *memWishlistRepo {
	return &memWishlistRepo{byID: map[string]*entity.Wishlist{}}
}

func cloneWishlist(w *entity.Wishlist) *entity.Wishlist {
	b, _ := json.Marshal(w)
	cp := &entity.Wishlist{}
	_ = json.Unmarshal(b, cp)
	return cp
}

func (r *memWishlistRepo) Create(_ context.Context, w *entity.Wishlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[w.ID] = cloneWishlist(w)
	return nil
}

func (r *memWishlistRepo) GetByID(_ context.Context, id string) (*entity.Wishlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneWishlist(w), nil
}

func (r *memWishlistRepo) ListForUser(_ context.Context, userID string) ([]*entity.Wishlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entity.Wishlist{}
	for _, w := range r.byID {
		if w.RoleOf(userID) != entity.RoleNone {
			out = append(out, cloneWishlist(w))
		}
	}
	return out, nil
}

func (r *memWishlistRepo) Update(_ context.Context, w *entity.Wishlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[w.ID]; !ok {
		return repository.ErrNotFound
	}
	r.byID[w.ID] = cloneWishlist(w)
	return nil
}

func (r *memWishlistRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var (
	_ repository.UserRepository     = (*memUserRepo)(nil)
	_ repository.WishlistRepository = (*memWishlistRepo)(nil)
)
