package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wishwell/wishwell-server/internal/domain/entity"
	"github.com/wishwell/wishwell-server/internal/domain/repository"
)

// WishlistRepository stores each aggregate as a single JSONB document. The
// owner id is duplicated into its own column for indexed listing; the
// document remains the source of truth. Writes are last-writer-wins, which
// the domain tolerates.
type WishlistRepository struct {
	pool *pgxpool.Pool
}

func NewWishlistRepository(pool *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{pool: pool}
}

func (r *WishlistRepository) Create(ctx context.Context, w *entity.Wishlist) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	doc, err := json.Marshal(w)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO wishlists (id, owner_id, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, w.ID, w.OwnerID, doc, w.CreatedAt, w.UpdatedAt)
	return err
}

func (r *WishlistRepository) GetByID(ctx context.Context, id string) (*entity.Wishlist, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc []byte
	err := r.pool.QueryRow(ctx, `SELECT doc FROM wishlists WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return unmarshalWishlist(doc)
}

func (r *WishlistRepository) ListForUser(ctx context.Context, userID string) ([]*entity.Wishlist, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT doc FROM wishlists
		WHERE owner_id = $1 OR doc->'collaborators' ? $1::text
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*entity.Wishlist{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		w, err := unmarshalWishlist(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *WishlistRepository) Update(ctx context.Context, w *entity.Wishlist) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	w.UpdatedAt = time.Now().UTC()
	doc, err := json.Marshal(w)
	if err != nil {
		return err
	}
	res, err := r.pool.Exec(ctx, `
		UPDATE wishlists SET doc = $1, updated_at = $2 WHERE id = $3
	`, doc, w.UpdatedAt, w.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *WishlistRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.pool.Exec(ctx, `DELETE FROM wishlists WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func unmarshalWishlist(doc []byte) (*entity.Wishlist, error) {
	w := &entity.Wishlist{}
	if err := json.Unmarshal(doc, w); err != nil {
		return nil, err
	}
	return w, nil
}

var _ repository.WishlistRepository = (*WishlistRepository)(nil)
