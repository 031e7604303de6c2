package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/wishwell/wishwell-server/pkg/apperror"
)

// WishlistType controls who can be invited: only collaborative lists accept
// invites.
type WishlistType string

const (
	TypePrivate       WishlistType = "private"
	TypeCollaborative WishlistType = "collaborative"
)

// Role is the result of evaluating a requesting identity against a wishlist.
type Role int

const (
	RoleNone Role = iota
	RoleCollaborator
	RoleOwner
)

const maxNameLen = 100

// Item is embedded in its wishlist and has no existence outside it.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       *float64  `json:"price,omitempty"`
	URL         string    `json:"url"`
	IsPurchased bool      `json:"is_purchased"`
	AddedBy     string    `json:"added_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Wishlist is the aggregate: the list metadata plus its embedded items,
// collaborator ids and pending invite emails, persisted and loaded as one
// document. Items keep insertion order.
type Wishlist struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	OwnerID        string       `json:"owner_id"`
	Type           WishlistType `json:"type"`
	Items          []Item       `json:"items"`
	Collaborators  []string     `json:"collaborators"`
	PendingInvites []string     `json:"pending_invites"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// NewWishlist validates and builds a wishlist. An empty type defaults to
// private.
func NewWishlist(name, description string, t WishlistType, ownerID string) (*Wishlist, error) {
	if name == "" {
		return nil, apperror.NewValidation("name is required")
	}
	if len(name) > maxNameLen {
		return nil, apperror.NewValidation("name must be at most 100 characters")
	}
	switch t {
	case "":
		t = TypePrivate
	case TypePrivate, TypeCollaborative:
	default:
		return nil, apperror.NewValidation("type must be private or collaborative")
	}
	now := time.Now().UTC()
	return &Wishlist{
		ID:             uuid.NewString(),
		Name:           name,
		Description:    description,
		OwnerID:        ownerID,
		Type:           t,
		Items:          []Item{},
		Collaborators:  []string{},
		PendingInvites: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// RoleOf evaluates the requesting identity: Owner, Collaborator or None.
// The owner is never listed among collaborators, so the checks are disjoint.
func (w *Wishlist) RoleOf(userID string) Role {
	if userID == w.OwnerID {
		return RoleOwner
	}
	for _, id := range w.Collaborators {
		if id == userID {
			return RoleCollaborator
		}
	}
	return RoleNone
}

// HasPendingInvite reports whether the normalized email is already queued.
func (w *Wishlist) HasPendingInvite(email string) bool {
	for _, e := range w.PendingInvites {
		if e == email {
			return true
		}
	}
	return false
}

// AddItem appends a new item to the end of the sequence.
func (w *Wishlist) AddItem(name, description string, price *float64, url, addedBy string) (*Item, error) {
	if name == "" {
		return nil, apperror.NewValidation("item name is required")
	}
	if len(name) > maxNameLen {
		return nil, apperror.NewValidation("item name must be at most 100 characters")
	}
	if price != nil && *price < 0 {
		return nil, apperror.NewValidation("price must not be negative")
	}
	item := Item{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Price:       price,
		URL:         url,
		AddedBy:     addedBy,
		CreatedAt:   time.Now().UTC(),
	}
	w.Items = append(w.Items, item)
	w.touch()
	return &w.Items[len(w.Items)-1], nil
}

// ItemPatch carries a partial item update. Nil fields are left untouched;
// present fields are applied even when they hold zero values.
type ItemPatch struct {
	Name        *string
	Description *string
	Price       *float64
	URL         *string
	IsPurchased *bool
}

// UpdateItem applies a partial patch to the item with the given id.
func (w *Wishlist) UpdateItem(itemID string, p ItemPatch) (*Item, error) {
	item := w.findItem(itemID)
	if item == nil {
		return nil, apperror.NewNotFound("item not found")
	}
	if p.Name != nil {
		if *p.Name == "" {
			return nil, apperror.NewValidation("item name is required")
		}
		if len(*p.Name) > maxNameLen {
			return nil, apperror.NewValidation("item name must be at most 100 characters")
		}
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Price != nil {
		if *p.Price < 0 {
			return nil, apperror.NewValidation("price must not be negative")
		}
		item.Price = p.Price
	}
	if p.URL != nil {
		item.URL = *p.URL
	}
	if p.IsPurchased != nil {
		item.IsPurchased = *p.IsPurchased
	}
	w.touch()
	return item, nil
}

// DeleteItem removes the item with the given id from the sequence.
func (w *Wishlist) DeleteItem(itemID string) error {
	for i := range w.Items {
		if w.Items[i].ID == itemID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			w.touch()
			return nil
		}
	}
	return apperror.NewNotFound("item not found")
}

// MetadataPatch carries a partial metadata update. Only name, description and
// type may change here; the owner is immutable after creation.
type MetadataPatch struct {
	Name        *string
	Description *string
	Type        *WishlistType
}

// ApplyMetadata applies a partial metadata patch.
func (w *Wishlist) ApplyMetadata(p MetadataPatch) error {
	if p.Name != nil {
		if *p.Name == "" {
			return apperror.NewValidation("name is required")
		}
		if len(*p.Name) > maxNameLen {
			return apperror.NewValidation("name must be at most 100 characters")
		}
		w.Name = *p.Name
	}
	if p.Description != nil {
		w.Description = *p.Description
	}
	if p.Type != nil {
		switch *p.Type {
		case TypePrivate, TypeCollaborative:
			w.Type = *p.Type
		default:
			return apperror.NewValidation("type must be private or collaborative")
		}
	}
	w.touch()
	return nil
}

// AddCollaborator attaches a registered user. The owner can never be a
// collaborator of their own list.
func (w *Wishlist) AddCollaborator(userID string) error {
	if userID == w.OwnerID {
		return apperror.NewConflict("user is the owner of this wishlist")
	}
	if w.RoleOf(userID) == RoleCollaborator {
		return apperror.NewConflict("user is already a collaborator")
	}
	w.Collaborators = append(w.Collaborators, userID)
	w.touch()
	return nil
}

// RemoveCollaborator detaches a collaborator.
func (w *Wishlist) RemoveCollaborator(userID string) error {
	for i, id := range w.Collaborators {
		if id == userID {
			w.Collaborators = append(w.Collaborators[:i], w.Collaborators[i+1:]...)
			w.touch()
			return nil
		}
	}
	return apperror.NewNotFound("collaborator not found")
}

// AddPendingInvite queues a normalized email for a not-yet-registered address.
func (w *Wishlist) AddPendingInvite(email string) error {
	if w.HasPendingInvite(email) {
		return apperror.NewConflict("email has already been invited")
	}
	w.PendingInvites = append(w.PendingInvites, email)
	w.touch()
	return nil
}

func (w *Wishlist) findItem(itemID string) *Item {
	for i := range w.Items {
		if w.Items[i].ID == itemID {
			return &w.Items[i]
		}
	}
	return nil
}

func (w *Wishlist) touch() {
	w.UpdatedAt = time.Now().UTC()
}
