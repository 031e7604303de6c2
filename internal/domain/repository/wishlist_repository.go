package repository

import (
	"context"

	"github.com/wishwell/wishwell-server/internal/domain/entity"
)

// WishlistRepository persists and loads whole wishlist aggregates. There are
// no partial reads or writes; every mutation is a read-modify-write of one
// document.
type WishlistRepository interface {
	Create(ctx context.Context, w *entity.Wishlist) error
	GetByID(ctx context.Context, id string) (*entity.Wishlist, error)
	// ListForUser returns every wishlist the user owns or collaborates on.
	ListForUser(ctx context.Context, userID string) ([]*entity.Wishlist, error)
	Update(ctx context.Context, w *entity.Wishlist) error
	Delete(ctx context.Context, id string) error
}
