package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/wishwell/wishwell-server/internal/domain/entity"
	repo "github.com/wishwell/wishwell-server/internal/domain/repository"
	"github.com/wishwell/wishwell-server/pkg/apperror"
	"github.com/wishwell/wishwell-server/pkg/helpers"
	"github.com/wishwell/wishwell-server/pkg/mailer"
)

// WishlistService guards every aggregate operation with the access policy:
// load the document, evaluate the caller's role, mutate, persist the whole
// document. A missing wishlist is always a 404, checked before any policy
// evaluation.
type WishlistService struct {
	Lists       repo.WishlistRepository
	Users       repo.UserRepository
	Pub         *helpers.RabbitPublisher
	Logger      *logrus.Logger
	AppName     string
	RegisterURL string
	MailEnabled bool
}

type CreateWishlistInput struct {
	Name        string
	Description string
	Type        entity.WishlistType
}

func (s *WishlistService) Create(ctx context.Context, ownerID string, in CreateWishlistInput) (*entity.Wishlist, error) {
	w, err := entity.NewWishlist(in.Name, in.Description, in.Type, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.Lists.Create(ctx, w); err != nil {
		return nil, apperror.NewInternal("failed to create wishlist", err)
	}
	return w, nil
}

// List returns every wishlist the caller owns or collaborates on.
func (s *WishlistService) List(ctx context.Context, userID string) ([]*entity.Wishlist, error) {
	out, err := s.Lists.ListForUser(ctx, userID)
	if err != nil {
		return nil, apperror.NewInternal("failed to list wishlists", err)
	}
	return out, nil
}

func (s *WishlistService) Get(ctx context.Context, userID, listID string) (*entity.Wishlist, error) {
	return s.loadFor(ctx, userID, listID, entity.RoleCollaborator)
}

func (s *WishlistService) UpdateMetadata(ctx context.Context, userID, listID string, p entity.MetadataPatch) (*entity.Wishlist, error) {
	w, err := s.loadFor(ctx, userID, listID, entity.RoleOwner)
	if err != nil {
		return nil, err
	}
	if err := w.ApplyMetadata(p); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WishlistService) Delete(ctx context.Context, userID, listID string) error {
	if _, err := s.loadFor(ctx, userID, listID, entity.RoleOwner); err != nil {
		return err
	}
	if err := s.Lists.Delete(ctx, listID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return apperror.NewInternal("failed to delete wishlist", err)
	}
	return nil
}

type AddItemInput struct {
	Name        string
	Description string
	Price       *float64
	URL         string
}

func (s *WishlistService) AddItem(ctx context.Context, userID, listID string, in AddItemInput) (*entity.Item, error) {
	w, err := s.loadFor(ctx, userID, listID, entity.RoleCollaborator)
	if err != nil {
		return nil, err
	}
	item, err := w.AddItem(in.Name, in.Description, in.Price, in.URL, userID)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, w); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *WishlistService) UpdateItem(ctx context.Context, userID, listID, itemID string, p entity.ItemPatch) (*entity.Item, error) {
	w, err := s.loadFor(ctx, userID, listID, entity.RoleCollaborator)
	if err != nil {
		return nil, err
	}
	item, err := w.UpdateItem(itemID, p)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, w); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *WishlistService) DeleteItem(ctx context.Context, userID, listID, itemID string) error {
	w, err := s.loadFor(ctx, userID, listID, entity.RoleCollaborator)
	if err != nil {
		return err
	}
	if err := w.DeleteItem(itemID); err != nil {
		return err
	}
	return s.persist(ctx, w)
}

// Invite reconciles an invite attempt. A registered user is attached as a
// collaborator directly; an unknown address is queued as a pending invite.
// The collaborative-type check runs after ownership, before reconciliation.
func (s *WishlistService) Invite(ctx context.Context, userID, listID, email string) (*entity.Wishlist, error) {
	w, err := s.loadFor(ctx, userID, listID, entity.RoleOwner)
	if err != nil {
		return nil, err
	}
	if w.Type != entity.TypeCollaborative {
		return nil, apperror.NewForbidden("wishlist must be collaborative")
	}

	email = entity.NormalizeEmail(email)
	invitee, err := s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil && invitee != nil:
		// Direct add: the address belongs to a registered user.
		if err := w.AddCollaborator(invitee.ID); err != nil {
			return nil, err
		}
		if err := s.persist(ctx, w); err != nil {
			return nil, err
		}
		s.enqueueInviteMail(ctx, w, invitee, email)
		return w, nil
	case errors.Is(err, repo.ErrNotFound):
		// Deferred: queue the address until its owner registers.
		if err := w.AddPendingInvite(email); err != nil {
			return nil, err
		}
		if err := s.persist(ctx, w); err != nil {
			return nil, err
		}
		s.enqueueInviteMail(ctx, w, nil, email)
		return w, nil
	default:
		return nil, apperror.NewInternal("failed to look up invitee", err)
	}
}

func (s *WishlistService) RemoveCollaborator(ctx context.Context, userID, listID, collaboratorID string) (*entity.Wishlist, error) {
	w, err := s.loadFor(ctx, userID, listID, entity.RoleOwner)
	if err != nil {
		return nil, err
	}
	if err := w.RemoveCollaborator(collaboratorID); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// loadFor loads the aggregate and enforces the minimum role. NotFound wins
// over Forbidden: the caller learns a list is missing before being told they
// cannot touch it.
func (s *WishlistService) loadFor(ctx context.Context, userID, listID string, min entity.Role) (*entity.Wishlist, error) {
	w, err := s.Lists.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.NewNotFound("wishlist not found")
		}
		return nil, apperror.NewInternal("failed to load wishlist", err)
	}
	role := w.RoleOf(userID)
	if role < min {
		if min == entity.RoleOwner {
			return nil, apperror.NewForbidden("only the owner can do this")
		}
		return nil, apperror.NewForbidden("access denied")
	}
	return w, nil
}

func (s *WishlistService) persist(ctx context.Context, w *entity.Wishlist) error {
	if err := s.Lists.Update(ctx, w); err != nil {
		return apperror.NewInternal("failed to save wishlist", err)
	}
	return nil
}

func (s *WishlistService) enqueueInviteMail(ctx context.Context, w *entity.Wishlist, invitee *entity.User, email string) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	owner, err := s.Users.GetByID(ctx, w.OwnerID)
	if err != nil || owner == nil {
		return
	}
	job := mailer.EmailJob{To: email}
	if invitee != nil {
		job.Template = mailer.TemplateCollaboratorAdded
		job.Data = map[string]any{
			"Name":         invitee.Username,
			"InviterName":  owner.Username,
			"WishlistName": w.Name,
			"AppName":      s.AppName,
		}
	} else {
		job.Template = mailer.TemplateWishlistInvite
		job.Data = map[string]any{
			"InviterName":  owner.Username,
			"WishlistName": w.Name,
			"RegisterURL":  s.RegisterURL,
			"AppName":      s.AppName,
		}
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("wishlist_id", w.ID).Warn("failed to enqueue invite email")
	}
}
